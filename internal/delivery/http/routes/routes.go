package routes

import (
	"time"

	"hiresight/internal/authz"
	"hiresight/internal/delivery/http/handler"
	"hiresight/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type AuthRateLimit struct {
	Limiter middleware.Limiter
	Limit   int
	Window  time.Duration
}

type Registry struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Jobs         *handler.JobsHandler
	Applications *handler.ApplicationsHandler
	Resume       *handler.ResumeHandler
	Notify       fiber.Handler

	AuthMiddleware *middleware.AuthMiddleware
	AuthRateLimit  AuthRateLimit
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	api := app.Group("/api")
	r.registerHealth(api)
	r.registerAuth(api.Group("/auth"))
	r.registerJobs(api.Group("/jobs"))
	r.registerApplications(api.Group("/applications"))
	r.registerResume(api.Group("/resume"))
	if r.Notify != nil {
		api.Get("/ws", r.AuthMiddleware.Middleware(), r.Notify)
	}
}

func (r *Registry) registerHealth(api fiber.Router) {
	api.Get("/health", r.Health.Health)
}

func (r *Registry) registerAuth(g fiber.Router) {
	limited := middleware.RateLimit(r.AuthRateLimit.Limiter, "auth:", r.AuthRateLimit.Limit, r.AuthRateLimit.Window)

	g.Post("/register", limited, r.Auth.Register)
	g.Post("/login", limited, r.Auth.Login)
	g.Post("/logout", r.Auth.Logout)
	g.Get("/me", r.AuthMiddleware.Optional(), r.Auth.Me)
}

func (r *Registry) registerJobs(g fiber.Router) {
	g.Post("/",
		r.AuthMiddleware.Middleware(),
		middleware.RequireCapability(authz.CapCreateJob),
		r.Jobs.HandleCreateJob,
	)
	g.Get("/", r.AuthMiddleware.Optional(), r.Jobs.HandleListJobs)
	g.Get("/:id", r.Jobs.HandleGetJob)
}

func (r *Registry) registerApplications(g fiber.Router) {
	g.Post("/",
		r.AuthMiddleware.Middleware(),
		middleware.RequireCapability(authz.CapApply),
		r.Applications.HandleApply,
	)
	g.Get("/", r.AuthMiddleware.Optional(), r.Applications.HandleList)
	g.Patch("/:id",
		r.AuthMiddleware.Middleware(),
		middleware.RequireCapability(authz.CapUpdateApplicationStatus),
		r.Applications.HandleUpdateStatus,
	)
}

func (r *Registry) registerResume(g fiber.Router) {
	g.Post("/upload",
		r.AuthMiddleware.Middleware(),
		middleware.RequireCapability(authz.CapUploadResume),
		r.Resume.HandleUpload,
	)
}
