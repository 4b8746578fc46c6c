package main

import (
	"context"
	"log"
	"time"

	"github.com/vendorwatch/risk-backend/config"
	"github.com/vendorwatch/risk-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	deps, err := bootstrap.BuildDetect(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer deps.Close()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "risk-backend",
		Version:        cfg.App.Version,
		APIKey:         cfg.Server.APIKey,
		OverallTimeout: time.Duration(cfg.Detect.OverallTimeoutSec) * time.Second,
		Detect:         deps,
	})

	log.Printf("[api] listening on :%s env=%s", cfg.Server.Port, cfg.App.Environment)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
