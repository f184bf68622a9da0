package app

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"hiresight/internal/config"
	"hiresight/internal/database"
	"hiresight/internal/database/migration"
	dbpostgres "hiresight/internal/database/postgres"
	"hiresight/internal/database/seeder"
	"hiresight/internal/infrastructure/cache"
	"hiresight/internal/infrastructure/storage"
	"hiresight/internal/usecase"
	"hiresight/internal/ws"
)

// Container owns the process-wide resources. They are created once at boot
// and released by Close in reverse order.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB      database.DB
	Cache   *cache.Redis
	Resumes usecase.ResumeStore
	Hub     *ws.Hub

	stopHub context.CancelFunc
}

func NewLogger(cfg config.Config) *log.Logger {
	return log.New(os.Stdout, "["+cfg.App.AppName+"] ", log.LstdFlags|log.Lmicroseconds)
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = NewLogger(cfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	store, err := storage.NewCloudinary(cfg.Cloudinary, logger)
	switch {
	case err == nil:
		c.Resumes = store
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Printf("[Storage] CLOUDINARY_URL not set, resume upload disabled")
	default:
		_ = c.Close()
		return nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger)
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	return c, nil
}

// Migrate applies pending schema migrations and then the seeders.
func (c *Container) Migrate(ctx context.Context) error {
	if err := (migration.Runner{Logger: c.Logger}).Run(ctx, c.DB.SQLDB()); err != nil {
		return err
	}
	return seeder.Runner{Seeders: seeder.Defaults(c.Config), Logger: c.Logger}.Run(ctx, c.DB)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
