// internal/domain/models/admin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a back-office account. Admins sign in with email+password or via
// Google OAuth; a Google-only account has an empty PasswordHash.
type Admin struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Email  string             `bson:"email" json:"email"` // lowercase, folded
	Role   string             `bson:"role" json:"role"`   // always "admin" for now
	Status string             `bson:"status,omitempty" json:"status,omitempty"`

	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	GoogleID     string `bson:"google_id,omitempty" json:"google_id,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// CanPasswordLogin returns true if the account has a password set.
func (a *Admin) CanPasswordLogin() bool {
	return a.PasswordHash != ""
}
