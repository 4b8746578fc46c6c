package main

import (
	"context"
	"log"
	"os"

	"github.com/vendorwatch/risk-backend/config"
	"github.com/vendorwatch/risk-backend/internal/bootstrap"
	cronjob "github.com/vendorwatch/risk-backend/internal/risk/cron"
)

// The worker runs the watchlist sweep, either once ("sweep") or on the
// configured cron schedule ("schedule").
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker sweep|schedule")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	deps, err := bootstrap.BuildDetect(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer deps.Close()

	sched := cronjob.NewScheduler(deps.Service, cfg.Detect.Watchlist, cfg.Detect.SweepSpec)

	switch os.Args[1] {
	case "sweep":
		sched.RunSweep(context.Background())
	case "schedule":
		sched.Start()
		select {} // cron runs on its own goroutines
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
