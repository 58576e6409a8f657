// main.go
package main

import (
	"log"
	"time"

	"movie-rating/cmd"
	"movie-rating/internal/data/repository"
	"movie-rating/internal/tmdb"
	"movie-rating/internal/wire"
	"movie-rating/pkg/database"
	"movie-rating/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config; a missing catalog credential is fatal here
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.Store.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Initialize the review store backend
	var repos *repository.Repository
	switch config.Store.Driver {
	case "postgres":
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connected successfully")
		repos = repository.NewPostgresRepository(db, logger)
	default:
		logger.Info("Using volatile in-memory store; all data is lost on restart")
		repos = repository.NewMemoryRepository(logger)
	}

	// Movie catalog gateway
	catalog := tmdb.NewClient(
		config.TMDB.BaseURL,
		config.TMDB.APIKey,
		time.Duration(config.TMDB.TimeoutSeconds)*time.Second,
	)

	// Wire all dependencies
	app := wire.Wiring(repos, catalog, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
