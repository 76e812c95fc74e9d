package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/peopleops/hrms-api/internal/api/handler"
	"github.com/peopleops/hrms-api/internal/api/middleware"
	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/ports"
	"github.com/peopleops/hrms-api/internal/core/service"
	"github.com/peopleops/hrms-api/internal/core/token"
	mongorepo "github.com/peopleops/hrms-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/peopleops/hrms-api/internal/infrastructure/db/redis"
)

// Deps carries everything the router needs that is constructed at startup.
type Deps struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	TokenTTL  time.Duration
	Audit     ports.AuditRecorder
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("hrms"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	tokens := token.NewService(deps.JWTSecret, deps.TokenTTL)

	userRepo := mongorepo.NewUserRepository(deps.Mongo)
	orgRepo := mongorepo.NewOrganizationRepository(deps.Mongo)
	limiter := redisinfra.NewLoginLimiter(deps.Redis, 0)

	authService := service.NewAuthService(userRepo, tokens, limiter, deps.Audit, deps.Logger)
	userService := service.NewUserService(userRepo, orgRepo, deps.Audit, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	authRequired := middleware.Auth(tokens)
	privilegedOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleHR)

	e.POST("/api/auth/login", authHandler.Login)

	users := e.Group("/api/users", authRequired)
	users.POST("", userHandler.Create, privilegedOnly)
	users.GET("", userHandler.List, privilegedOnly)
	users.GET("/:id", userHandler.Get, middleware.SameUserOrPrivileged())
	users.PUT("/:id", userHandler.Update, middleware.SameUserOrPrivileged())
	users.DELETE("/:id", userHandler.Delete, privilegedOnly)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
