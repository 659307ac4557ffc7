package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/status-engine/internal/repositories"
	"github.com/anonto42/status-engine/internal/router"
	"github.com/anonto42/status-engine/internal/status"
	"github.com/anonto42/status-engine/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()

	db, err := config.InitDB(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB()

	// The in-memory engine is authoritative; databases only mirror it
	privacy := status.NewPrivacyManager()
	tracker := status.NewViewerTracker()
	engine := status.NewStoryStore(privacy, tracker)

	// Rehydrate unexpired stories from the mongo mirror
	storyRepo := repositories.NewStoryRepository(db.Mongo.Database("statusengine"), engine.TTL())
	hydrateCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	stories, err := storyRepo.LoadActive(hydrateCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load persisted stories")
	}
	engine.Hydrate(stories, time.Now())
	log.Info().Int("stories", len(stories)).Msg("store hydrated")

	sweeper := status.NewSweeper(engine, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start expiration sweep")
	}
	defer sweeper.Stop()

	e := echo.New()
	e.HideBanner = true
	router.SetupMiddleware(e)
	playback, err := router.SetupRoutes(e, engine, db.Postgres, db.Mongo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up routes")
	}
	defer playback.CloseAll()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
