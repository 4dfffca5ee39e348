package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/templhaven/marketplace-api/internal/api/handler"
	"github.com/templhaven/marketplace-api/internal/api/middleware"
	"github.com/templhaven/marketplace-api/internal/core/domain"
	"github.com/templhaven/marketplace-api/internal/core/ports"
)

// Deps carries everything the router needs to assemble the HTTP surface.
type Deps struct {
	ProductService ports.ProductService
	PaymentService ports.PaymentService
	AuthService    ports.AuthService
	Mongo          *mongo.Database
	Redis          *redis.Client
	JWTSecret      string
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	productHandler := handler.NewProductHandler(deps.ProductService)
	paymentHandler := handler.NewPaymentHandler(deps.PaymentService)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	authMW := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Public catalog (no auth, active products only) ---
	e.GET("/v1/catalog", productHandler.ListPublic)
	e.GET("/v1/catalog/:id_or_slug", productHandler.GetPublic)

	// --- Authenticated product routes ---
	products := e.Group("/v1/products", authMW)
	products.POST("", productHandler.Create, middleware.RBAC(domain.RoleVendor))
	products.GET("", productHandler.List, middleware.RBAC(domain.RoleAdmin, domain.RoleVendor))
	products.GET("/:id_or_slug", productHandler.Get)
	products.POST("/:id_or_slug/transition", productHandler.Transition, middleware.RBAC(domain.RoleAdmin, domain.RoleVendor))
	products.GET("/:id_or_slug/history", productHandler.History, middleware.RBAC(domain.RoleAdmin, domain.RoleVendor))
	products.DELETE("/:id_or_slug", productHandler.Delete, middleware.RBAC(domain.RoleAdmin, domain.RoleVendor))

	// --- Payment routes ---
	payments := e.Group("/v1/payments", authMW)
	payments.POST("", paymentHandler.Initiate)
	payments.GET("/:transaction_id", paymentHandler.Status)
	payments.DELETE("/:transaction_id", paymentHandler.Cancel)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
