// internal/app/features/members/handler.go
package members

import (
	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	"github.com/dalemusser/labsite/internal/app/media"
	memberstore "github.com/dalemusser/labsite/internal/app/store/members"
	publicationstore "github.com/dalemusser/labsite/internal/app/store/publications"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for Members: the public roster and
// profile pages plus the admin CRUD screens.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Media   media.Adapter
	Members *memberstore.Store
	Pubs    *publicationstore.Store
}

func NewHandler(db *mongo.Database, adapter media.Adapter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Media:   adapter,
		Members: memberstore.New(db),
		Pubs:    publicationstore.New(db),
	}
}
