package main

import (
	"context"
	"log"
	"time"

	"hiresight/internal/app"
	"hiresight/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg)
	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Printf("cleanup error: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := c.Migrate(ctx); err != nil {
		return err
	}
	logger.Printf("[Migrate] done")
	return nil
}
