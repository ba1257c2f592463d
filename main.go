package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"podofarma/m/internal/api"
	"podofarma/m/internal/auth"
	"podofarma/m/internal/config"
	"podofarma/m/internal/database"
	"podofarma/m/internal/migrations"
	"podofarma/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if err := seed.Run(db, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	authSvc, err := auth.NewService(cfg.Secret, cfg.Production)
	if err != nil {
		logger.Fatal("invalid token secret", zap.Error(err))
	}

	handler := api.New(db, authSvc, logger)
	router := handler.Router()

	mux := http.NewServeMux()
	mux.Handle("/api/", router)
	mux.Handle("/health", router)
	mux.Handle("/", api.PageGate(authSvc, http.FileServer(http.Dir(cfg.StaticDir))))

	logger.Info("pharmacy POS server starting", zap.String("port", cfg.HTTPPort))
	if err := http.ListenAndServe(":"+cfg.HTTPPort, mux); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
