package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hsaito/retentio/internal/config"
	"github.com/hsaito/retentio/internal/database"
)

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

func openDatabase() (*config.Config, *sqlx.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}
