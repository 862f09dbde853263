package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"marketplace/internal/middleware"
	"marketplace/internal/services"
	"marketplace/internal/storage"
)

// AppDeps is everything NewApp needs to serve the API.
type AppDeps struct {
	Listings  *services.ListingService
	Messages  *services.MessageService
	Uploads   *services.UploadService
	BodyLimit int
	// DBPing backs /health; nil when running on the in-memory store.
	DBPing func(ctx context.Context) error
	// Images, when set, serves uploads kept in memory under /images/:key.
	Images *storage.MemoryStore
	Log    *zap.Logger
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(deps AppDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             deps.BodyLimit,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(deps.Log))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	NewHealthHandler(deps.DBPing, deps.Log).RegisterRoutes(app)
	if deps.Images != nil {
		NewImageHandler(deps.Images).RegisterRoutes(app)
	}

	api := app.Group("/api")
	NewListingHandler(deps.Listings).RegisterRoutes(api)
	NewMessageHandler(deps.Messages).RegisterRoutes(api)
	NewUploadHandler(deps.Uploads, deps.Log).RegisterRoutes(api)

	return app
}
