// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/labsite/internal/app/media"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Media is selected once at startup from AppConfig (github,
	// cloudinary, or stock) and shared by every handler.
	Media media.Adapter
}
