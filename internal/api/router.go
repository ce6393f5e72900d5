package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/dars410/catalog-api/docs"
	"github.com/dars410/catalog-api/internal/api/handler"
	"github.com/dars410/catalog-api/internal/api/middleware"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// Catalog groups the services of the uniform catalog resources.
type Catalog struct {
	Authors    ports.ResourceService[domain.Author]
	Categories ports.ResourceService[domain.Category]
	Levels     ports.ResourceService[domain.Level]
	Sections   ports.ResourceService[domain.Section]
	Languages  ports.ResourceService[domain.Language]
	Courses    ports.ResourceService[domain.Course]
	Books      ports.ResourceService[domain.Book]
	News       ports.ResourceService[domain.News]
}

// Deps is everything the router needs. Audit may be nil.
type Deps struct {
	Log   zerolog.Logger
	Debug bool

	Tokens  ports.TokenVerifier
	Auth    ports.AuthService
	Users   ports.UserService
	Uploads ports.UploadService
	Audit   ports.AuditRecorder

	Catalog       Catalog
	CourseReviews ports.ReviewService
	BookReviews   ports.ReviewService

	UploadMaxBytes  int64
	LoginRatePerSec float64

	HealthChecks []handler.DependencyCheck

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = deps.Debug
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	maxBytes := deps.UploadMaxBytes
	if maxBytes <= 0 {
		maxBytes = domain.MaxUploadBytes
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))
	// Room for the multipart envelope around a maximum size file.
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", (maxBytes+1<<20)/1024)))
	if deps.Audit != nil {
		e.Use(middleware.Audit(deps.Audit))
	}

	authenticated := middleware.Authenticate(deps.Tokens)
	adminOnly := middleware.Authenticate(deps.Tokens, domain.RoleAdmin)

	// --- Users ---
	users := handler.NewUserHandler(deps.Auth, deps.Users, deps.Uploads, deps.Log)
	ug := e.Group("/users")
	ug.POST("", users.Register, middleware.ValidateBody(handler.CreateUserSchema()))
	ug.POST("/login", users.Login, loginLimiter(deps.LoginRatePerSec), middleware.ValidateBody(handler.LoginSchema()))
	ug.POST("/refresh", users.Refresh, middleware.ValidateBody(handler.RefreshSchema()))
	ug.GET("", users.List, adminOnly)
	ug.GET("/me", users.Me, authenticated)
	ug.GET("/:id", users.Get, adminOnly)
	ug.PATCH("/:id", users.Update, authenticated, middleware.ValidateBody(handler.UpdateUserSchema()))
	ug.DELETE("/:id", users.Delete, adminOnly)

	// --- Catalog ---
	c := deps.Catalog
	mountResource(e, handler.NewResourceHandler("authors", c.Authors, handler.AuthorSchema), adminOnly)
	mountResource(e, handler.NewResourceHandler("categories", c.Categories, handler.CategorySchema), adminOnly)
	mountResource(e, handler.NewResourceHandler("levels", c.Levels, handler.LevelSchema), adminOnly)
	mountResource(e, handler.NewResourceHandler("sections", c.Sections, handler.SectionSchema), adminOnly)
	mountResource(e, handler.NewResourceHandler("languages", c.Languages, handler.LanguageSchema), adminOnly)
	mountResource(e, handler.NewResourceHandler("courses", c.Courses, handler.CourseSchema), adminOnly)
	mountResource(e, handler.NewResourceHandler("books", c.Books, handler.BookSchema), adminOnly)
	mountResource(e, handler.NewResourceHandler("news", c.News, handler.NewsSchema), adminOnly)

	// --- Reviews ---
	mountReviews(e, handler.NewReviewHandler("course-reviews", "courseId", "course", deps.CourseReviews), authenticated)
	mountReviews(e, handler.NewReviewHandler("book-reviews", "bookId", "book", deps.BookReviews), authenticated)

	// --- Uploads ---
	uploads := handler.NewUploadHandler(deps.Uploads)
	e.POST("/uploads", uploads.Upload, authenticated)
	e.GET("/uploads/:category/:name", uploads.Serve)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/docs/*", echoSwagger.WrapHandler)

	return e
}

func mountResource[T any](e *echo.Echo, h *handler.ResourceHandler[T], admin echo.MiddlewareFunc) {
	g := e.Group("/" + h.Name())
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, admin, middleware.ValidateBody(h.CreateSchema()))
	g.PATCH("/:id", h.Update, admin, middleware.ValidateBody(h.UpdateSchema()))
	g.DELETE("/:id", h.Delete, admin)
}

func mountReviews(e *echo.Echo, h *handler.ReviewHandler, authenticated echo.MiddlewareFunc) {
	g := e.Group("/" + h.Name())
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, authenticated, middleware.ValidateBody(h.CreateSchema()))
	g.PATCH("/:id", h.Update, authenticated, middleware.ValidateBody(h.UpdateSchema()))
	g.DELETE("/:id", h.Delete, authenticated)
}

// loginLimiter caps login attempts per client IP. A non-positive rate
// disables it.
func loginLimiter(perSec float64) echo.MiddlewareFunc {
	if perSec <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := int(perSec)
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSec),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
