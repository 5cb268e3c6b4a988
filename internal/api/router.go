package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/usermgmt/user-api/internal/api/handler"
	"github.com/usermgmt/user-api/internal/api/middleware"
	"github.com/usermgmt/user-api/internal/core/domain"
	"github.com/usermgmt/user-api/internal/core/ports"
)

// Deps carries everything the router wires together. All components are
// constructed once at startup and passed in explicitly.
type Deps struct {
	Users  ports.UserService
	Tokens ports.TokenManager
	Mongo  *mongo.Database
	Redis  *redis.Client
	Logger zerolog.Logger

	// Development enables the swagger UI and error details in responses.
	Development bool

	// RateLimit/RateBurst configure the per-IP, process-local limiter.
	RateLimit float64
	RateBurst int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger, d.Development)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.Gzip())
	e.Use(echoprometheus.NewMiddleware("userapi"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Users)
	userHandler := handler.NewUserHandler(d.Users)
	authenticated := middleware.Auth(d.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- API routes ---
	v1 := e.Group("/api/v1", rateLimiter(d.RateLimit, d.RateBurst))

	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	users := v1.Group("/users", authenticated)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Mongo, d.Redis).Readiness)

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	if d.Development {
		e.GET("/docs/*", echoswagger.WrapHandler)
	}

	return e
}

// rateLimiter is the best-effort, per-process limiter keyed by caller
// address. It is intentionally not distributed.
func rateLimiter(limit float64, burst int) echo.MiddlewareFunc {
	if limit <= 0 {
		limit = 10
	}
	if burst <= 0 {
		burst = 30
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return domain.ErrRateLimited
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return domain.ErrRateLimited
		},
	})
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
