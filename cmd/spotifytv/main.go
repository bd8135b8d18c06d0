package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/spotifytv/internal/infrastructure/config"
	"github.com/GriffinCanCode/spotifytv/internal/infrastructure/logging"
	"github.com/GriffinCanCode/spotifytv/internal/launcher"
)

func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "spotifytv: %v\n", err)
		return 1
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "spotifytv: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	l := launcher.New(cfg,
		launcher.WithLogger(logger.Component("launcher")),
		launcher.WithStartTime(start),
	)
	if _, err := l.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "spotifytv: %v\n", err)
		return 1
	}
	return 0
}
