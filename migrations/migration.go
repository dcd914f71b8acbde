package main

import (
	"log"

	"testcase-generator/config"
	"testcase-generator/infra"

	"go.uber.org/zap"
)

func main() {
	infra.Initialize()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := infra.NewLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	db, err := infra.SetupDB(cfg.Database, lg)
	if err != nil {
		lg.Fatal("Failed to connect database", zap.Error(err))
	}

	if err := infra.Migrate(db); err != nil {
		lg.Fatal("Failed to migrate database", zap.Error(err))
	}
	lg.Info("Migration completed")
}
