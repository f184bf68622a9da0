package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hiresight/internal/config"
	"hiresight/internal/delivery/http/dto"
	"hiresight/internal/delivery/http/handler"
	"hiresight/internal/delivery/http/middleware"
	"hiresight/internal/delivery/http/routes"
	"hiresight/internal/domain/application"
	"hiresight/internal/domain/job"
	"hiresight/internal/domain/user"
	"hiresight/internal/pkg/jwt"
	"hiresight/internal/repository"
	"hiresight/internal/usecase"
	ucauth "hiresight/internal/usecase/auth"
	"hiresight/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Fiber *fiber.App
}

// Deps is everything the HTTP layer needs. Tests fill it with in-memory
// implementations.
type Deps struct {
	Config config.Config
	Logger *log.Logger

	Users        user.Repository
	Jobs         job.Repository
	Applications application.Repository

	DB          handler.Pinger
	Cache       usecase.JobCache
	RedisClient *redis.Client
	Resumes     usecase.ResumeStore
	Hub         *ws.Hub
}

func New(deps Deps) (*App, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	jwtSvc, err := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	if err != nil {
		return nil, err
	}

	authUC := usecase.NewAuthUsecase(ucauth.NewService(deps.Users), deps.Users, jwtSvc)
	jobUC := usecase.NewJobUsecase(deps.Jobs, deps.Cache, cfg.Redis.TTL, logger)

	var notifier usecase.ApplicationNotifier
	var notifyHandler fiber.Handler
	if deps.Hub != nil {
		notifier = ws.NewNotifier(deps.Hub)
		notifyHandler = ws.NewHandler(deps.Hub, middleware.PrincipalFrom, logger).HandleNotifications
	}
	appUC := usecase.NewApplicationUsecase(deps.Applications, deps.Jobs, deps.Users, notifier, logger)
	resumeUC := usecase.NewResumeUsecase(deps.Users, deps.Resumes, int64(cfg.Upload.ResumeMaxBytes), logger)

	var limiter middleware.Limiter = middleware.NewMemoryLimiter()
	if deps.RedisClient != nil {
		limiter = middleware.NewRedisLimiter(deps.RedisClient, limiter)
	}

	f := fiber.New(fiberConfig(cfg, logger))

	registerGlobalMiddleware(f, logger)

	reg := &routes.Registry{
		Health: handler.NewHealthHandler(deps.DB),
		Auth: handler.NewAuthHandler(authUC, handler.CookieConfig{
			Secure: cfg.App.IsProduction(),
			MaxAge: cfg.JWT.ExpiresIn,
		}),
		Jobs:           handler.NewJobsHandler(jobUC),
		Applications:   handler.NewApplicationsHandler(appUC),
		Resume:         handler.NewResumeHandler(resumeUC),
		Notify:         notifyHandler,
		AuthMiddleware: middleware.NewAuthMiddleware(authUC),
		AuthRateLimit: routes.AuthRateLimit{
			Limiter: limiter,
			Limit:   cfg.RateLimit.AuthLimit,
			Window:  cfg.RateLimit.AuthWindow,
		},
	}
	reg.Register(f)

	return &App{Fiber: f}, nil
}

// Bootstrap builds the container, optionally migrates, and wires the
// Postgres-backed app. The returned cleanup releases the container.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	logger := NewLogger(cfg)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := c.Migrate(ctx); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	a, err := New(Deps{
		Config:       cfg,
		Logger:       logger,
		Users:        repository.NewPostgresUserRepository(c.DB),
		Jobs:         repository.NewPostgresJobRepository(c.DB),
		Applications: repository.NewPostgresApplicationRepository(c.DB),
		DB:           c.DB,
		Cache:        c.Cache,
		RedisClient:  c.Cache.Client(),
		Resumes:      c.Resumes,
		Hub:          c.Hub,
	})
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return a, c.Close, nil
}

func fiberConfig(cfg config.Config, logger *log.Logger) fiber.Config {
	fc := fiber.Config{
		AppName:      cfg.App.AppName,
		JSONDecoder:  dto.DecodeStrict,
		BodyLimit:    cfg.Upload.ResumeMaxBytes + 1<<20,
		ErrorHandler: middleware.NewErrorMiddleware(logger).Handler,
	}
	// fiber trusts every peer when TrustProxy is off and a ProxyHeader is
	// set, so the header is only read behind an explicit proxy list.
	if len(cfg.App.TrustedProxies) > 0 {
		fc.TrustProxy = true
		fc.TrustProxyConfig = fiber.TrustProxyConfig{Proxies: cfg.App.TrustedProxies}
		fc.ProxyHeader = fiber.HeaderXForwardedFor
		fc.EnableIPValidation = true
	}
	return fc
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
