package router

import (
	"github.com/anonto42/status-engine/internal/handlers"
	"github.com/anonto42/status-engine/internal/middleware"
	"github.com/anonto42/status-engine/internal/models"
	"github.com/anonto42/status-engine/internal/repositories"
	"github.com/anonto42/status-engine/internal/status"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes wires the engine, its persistence mirrors, and all routes.
// The returned PlaybackHandler must have CloseAll called on shutdown.
func SetupRoutes(e *echo.Echo, engine *status.StoryStore, pgdb *gorm.DB, mgClient *mongo.Client, log zerolog.Logger) (*handlers.PlaybackHandler, error) {
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.ContentView{},
		&models.ReplyRecord{},
	); err != nil {
		return nil, err
	}
	log.Info().Msg("postgres migrations completed")

	e.GET("/health", handlers.HealthCheck)

	storyRepo := repositories.NewStoryRepository(mgClient.Database("statusengine"), engine.TTL())
	viewRepo := repositories.NewPostgresViewRepository(pgdb)
	replies := status.NewReplyChannel(engine)

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuth())

	storyHandler := handlers.NewStoryHandler(engine, replies, storyRepo, viewRepo, log)
	storyHandler.RegisterStoryRoutes(api)
	log.Info().Msg("story routes configured")

	playbackHandler := handlers.NewPlaybackHandler(engine, log)
	playbackHandler.RegisterPlaybackRoutes(api)
	log.Info().Msg("playback routes configured")

	return playbackHandler, nil
}
