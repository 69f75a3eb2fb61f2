// internal/app/features/publications/handler.go
package publications

import (
	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	"github.com/dalemusser/labsite/internal/app/media"
	memberstore "github.com/dalemusser/labsite/internal/app/store/members"
	publicationstore "github.com/dalemusser/labsite/internal/app/store/publications"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for Publications: the public list
// and the admin CRUD screens.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Media   media.Adapter
	Pubs    *publicationstore.Store
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, adapter media.Adapter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Media:   adapter,
		Pubs:    publicationstore.New(db),
		Members: memberstore.New(db),
	}
}
