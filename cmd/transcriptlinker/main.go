package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"TranscriptLinker/internal/app"
	"TranscriptLinker/internal/config"
	"TranscriptLinker/internal/logging"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "compute matches without persisting or publishing anything")
	schedule := flag.Bool("schedule", false, "keep running on the configured interval instead of a single pass")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, app.Options{DryRun: *dryRun, Schedule: *schedule}, logger)
	if err != nil {
		logger.Error("startup aborted", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
