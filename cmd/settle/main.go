package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/poolhouse/confidence-pool/internal/app"
	"github.com/poolhouse/confidence-pool/internal/config"
	"github.com/poolhouse/confidence-pool/internal/observability"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

// One-shot settlement cycle. Meant to be invoked from a scheduler (cron or a
// job runner) once the week's games have gone final.
func main() {
	week := flag.Int("week", 0, "current week to settle (required)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if *week < 1 {
		logger.Error("missing or invalid -week flag", "week", *week)
		os.Exit(2)
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	summary, err := container.Settlement.Run(ctx, *week)
	closeErr := container.Close()
	if err != nil {
		logger.Error("settlement run failed", "week", *week, "error", err)
		_ = shutdownTracing(context.Background())
		os.Exit(1)
	}
	if closeErr != nil {
		logger.Error("close container", "error", closeErr)
	}

	logger.Info("settlement run complete",
		"week", *week,
		"weekly_weeks", summary.WeeklyWeeks,
		"weekly_awards", summary.WeeklyAwards,
		"overall_settled", summary.OverallSettled,
		"last_place_user", summary.LastPlaceUser,
		"survivor_settled", summary.SurvivorSettled,
	)

	if err := shutdownTracing(context.Background()); err != nil {
		logger.Error("shutdown tracing", "error", err)
	}
}
