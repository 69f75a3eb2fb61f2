// internal/app/features/settings/handler.go
package settings

import (
	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	settingsstore "github.com/dalemusser/labsite/internal/app/store/settings"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin-facing site settings form.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Settings *settingsstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Settings: settingsstore.New(db),
	}
}
