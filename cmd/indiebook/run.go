package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/padudon-bit/IndieBook-project/internal/config"
)

const fallbackStopTimeout = 15 * time.Second

// run starts app and blocks until ctx is cancelled or the app asks to shut down.
func run(ctx context.Context, app *fx.App, cfg *config.Config) error {
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout(cfg))
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}

// stopTimeout leaves a margin over the HTTP drain window so hooks after it still run.
func stopTimeout(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.ShutdownTimeout <= 0 {
		return fallbackStopTimeout
	}
	return cfg.ShutdownTimeout + 5*time.Second
}
