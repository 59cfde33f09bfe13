package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yamdb/internal/handlers"
	"yamdb/internal/metrics"
	"yamdb/internal/middleware"
	"yamdb/internal/notify"
	"yamdb/internal/repositories"
	"yamdb/internal/services"
	"yamdb/internal/validation"
)

// Deps are the collaborators the HTTP application is built from.
type Deps struct {
	DB        *gorm.DB
	CodeStore repositories.CodeStore
	Notifier  notify.Notifier
	Registry  *prometheus.Registry
	Logger    *zap.Logger
	JWTSecret string
	JWTTTL    time.Duration
	CodeTTL   time.Duration
	// CodeHashCost is the bcrypt cost for confirmation codes; zero means
	// bcrypt.DefaultCost.
	CodeHashCost int
	// Now overrides the clock used for year validation; nil means time.Now.
	Now func() time.Time
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// Services groups the services behind the HTTP routes. Commands outside
// serve reuse them.
type Services struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Titles  *services.TitleService
	Reviews *services.ReviewService
	Users   *services.UserService
}

// NewServices builds every service over the GORM repositories.
func NewServices(d Deps) *Services {
	if d.CodeStore == nil {
		d.CodeStore = repositories.NewGORMCodeStore(d.DB)
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewLogNotifier(d.Logger)
	}

	validator := validation.New(d.Now)
	userRepo := repositories.NewGORMUserRepository(d.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(d.DB)
	genreRepo := repositories.NewGORMGenreRepository(d.DB)
	titleRepo := repositories.NewGORMTitleRepository(d.DB)
	reviewRepo := repositories.NewGORMReviewRepository(d.DB)

	var m *metrics.Metrics
	if d.Registry != nil {
		m = metrics.New(d.Registry)
	}

	codes := services.NewConfirmationCodes(d.CodeStore, d.Notifier, d.Logger, services.CodeConfig{TTL: d.CodeTTL, HashCost: d.CodeHashCost})
	tokens := services.NewTokenIssuer(d.JWTSecret, d.JWTTTL)

	return &Services{
		Auth:    services.NewAuthService(userRepo, codes, tokens, validator, m, d.Logger),
		Catalog: services.NewCatalogService(categoryRepo, genreRepo, validator),
		Titles:  services.NewTitleService(titleRepo, categoryRepo, genreRepo, validator),
		Reviews: services.NewReviewService(titleRepo, reviewRepo, validator),
		Users:   services.NewUserService(userRepo, validator),
	}
}

// NewApp builds the Fiber application with every route under /v1.
func NewApp(d Deps) (*fiber.App, *Services) {
	svc := NewServices(d)

	app := fiber.New(fiber.Config{
		AppName:               "yamdb",
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New())
	}

	// --- API Routes ---
	v1 := app.Group("/v1")
	auth := middleware.AuthRequired(svc.Auth, d.Logger)

	handlers.NewAuthHandler(svc.Auth, d.Logger).RegisterRoutes(v1)
	handlers.NewCatalogHandler(svc.Catalog, d.Logger).RegisterRoutes(v1, auth)
	handlers.NewTitleHandler(svc.Titles, d.Logger).RegisterRoutes(v1, auth)
	handlers.NewReviewHandler(svc.Reviews, d.Logger).RegisterRoutes(v1, auth)
	handlers.NewUserHandler(svc.Users, d.Logger).RegisterRoutes(v1, auth)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if d.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	return app, svc
}
