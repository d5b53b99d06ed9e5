package main

import (
	"fmt"

	"ipl-prediction-backend/internal/config"
	"ipl-prediction-backend/internal/database"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/logger"

	"gorm.io/gorm"
)

// app is the state every command needs: configuration, logger and database.
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	store *repository.Store
}

func bootstrap(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, db: db, store: repository.NewStore(db)}, nil
}

func (a *app) Close() {
	database.Close(a.db)
}
