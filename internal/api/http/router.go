package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/estatehub/estate-service/internal/api/http/handlers"
	"github.com/estatehub/estate-service/internal/auth"
	"github.com/estatehub/estate-service/internal/observability"
	"github.com/estatehub/estate-service/internal/storage"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

// AppConfig carries the settings needed to build the fiber app.
type AppConfig struct {
	Name           string
	BodyLimit      int
	RequestTimeout time.Duration
	FrontendURL    string
	Production     bool
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewApp builds a fiber app with the global middleware chain installed.
func NewApp(cfg AppConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, cfg.Metrics, cfg.Production),
	})
	RegisterMiddlewares(app, logger, cfg.Metrics, cfg.RequestTimeout, cfg.Production)
	if cfg.FrontendURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.FrontendURL,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		}))
	}
	return app
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Users        *handlers.UsersHandler
	Properties   *handlers.PropertiesHandler
	Inquiries    *handlers.InquiriesHandler
	Appointments *handlers.AppointmentsHandler
	Gate         *auth.Gate
	UploadDir    string
	Gatherer     prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes. It must run after NewApp and registers
// the catch-all 404 last.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.UploadDir != "" {
		app.Static(storage.PublicPrefix, cfg.UploadDir)
	}

	api := app.Group("/api")
	if cfg.Health != nil {
		api.Get("/health", cfg.Health.API)
	}

	authenticate := cfg.Gate.Authenticate
	agentOnly := auth.RequireAgent()

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", authenticate, cfg.Users.Me)

	properties := api.Group("/properties")
	properties.Get("/agent/my-properties", authenticate, agentOnly, cfg.Properties.ListMine)
	properties.Get("/", cfg.Properties.List)
	properties.Get("/:id", cfg.Properties.Get)
	properties.Post("/", authenticate, agentOnly, cfg.Properties.Create)
	properties.Put("/:id", authenticate, agentOnly, cfg.Properties.Update)
	properties.Delete("/:id", authenticate, agentOnly, cfg.Properties.Delete)
	properties.Post("/:id/images", authenticate, agentOnly, cfg.Properties.UploadImages)
	properties.Delete("/:id/images", authenticate, agentOnly, cfg.Properties.RemoveImage)

	inquiries := api.Group("/inquiries")
	inquiries.Post("/", cfg.Inquiries.Create)
	inquiries.Get("/", authenticate, cfg.Inquiries.List)
	inquiries.Get("/stats", authenticate, cfg.Inquiries.Stats)
	inquiries.Get("/:id", authenticate, cfg.Inquiries.Get)
	inquiries.Put("/:id", authenticate, cfg.Inquiries.UpdateStatus)
	inquiries.Put("/:id/status", authenticate, cfg.Inquiries.UpdateStatus)
	inquiries.Delete("/:id", authenticate, cfg.Inquiries.Delete)

	appointments := api.Group("/appointments")
	appointments.Post("/", cfg.Appointments.Create)
	appointments.Get("/", authenticate, agentOnly, cfg.Appointments.List)
	appointments.Get("/stats", authenticate, agentOnly, cfg.Appointments.Stats)
	appointments.Get("/:id", authenticate, agentOnly, cfg.Appointments.Get)
	appointments.Put("/:id", authenticate, agentOnly, cfg.Appointments.UpdateStatus)
	appointments.Put("/:id/status", authenticate, agentOnly, cfg.Appointments.UpdateStatus)
	appointments.Delete("/:id", authenticate, agentOnly, cfg.Appointments.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewDomainError("NOT_FOUND",
			fmt.Sprintf("Route %s %s not found", c.Method(), c.Path()),
			fiber.StatusNotFound, nil)
	})
}
