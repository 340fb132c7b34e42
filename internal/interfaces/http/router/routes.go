// Package router assembles the POS HTTP API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// APIPrefix is the versioned prefix of every business route
const APIPrefix = "/api/v1"

// Handlers are the HTTP handlers of the API
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	Stores       *handler.StoreHandler
	Catalog      *handler.CatalogHandler
	Employees    *handler.EmployeeHandler
	Transactions *handler.TransactionHandler
	Stock        *handler.StockHandler
}

// Config is what the engine is built from. Meter may be nil.
type Config struct {
	Logger      *zap.Logger
	HTTP        config.HTTPConfig
	ServiceName string
	Tracing     bool
	Meter       metric.Meter
	Gate        *identity.Gate
	Resolver    middleware.CredentialResolver
	Handlers    Handlers
}

// NewEngine builds the gin engine with the middleware chain and all routes
func NewEngine(cfg Config) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
	)
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	if cfg.Meter != nil {
		metrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(metrics)
	}
	engine.Use(
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Method not allowed", middleware.GetRequestID(c)))
	})

	h := cfg.Handlers
	engine.GET("/health", h.System.Health)

	api := engine.Group(APIPrefix)
	api.GET("/system/ping", h.System.Ping)

	protected := api.Group("")
	protected.Use(middleware.TenantContext(cfg.Resolver), middleware.SpanEnricher())
	for _, group := range domainGroups(cfg.Gate, h) {
		group.RegisterRoutes(protected)
	}

	return engine, nil
}

func domainGroups(gate *identity.Gate, h Handlers) []*DomainGroup {
	auth := NewDomainGroup("auth", "/auth", gate).
		POST("/logout", AnyCaller, h.Auth.Logout).
		GET("/me", AnyCaller, h.Auth.Me)

	stores := NewDomainGroup("stores", "/stores", gate).
		POST("", identity.OpStoreCreate, h.Stores.Create).
		GET("", identity.OpStoreRead, h.Stores.List).
		GET("/:id", identity.OpStoreRead, h.Stores.Get).
		DELETE("/:id", identity.OpStoreDelete, h.Stores.Delete)

	categories := NewDomainGroup("categories", "/categories", gate).
		POST("", identity.OpCatalogWrite, h.Catalog.CreateCategory)

	products := NewDomainGroup("products", "/products", gate).
		POST("", identity.OpCatalogWrite, h.Catalog.CreateProduct)

	variants := NewDomainGroup("variants", "/variants", gate).
		GET("/:id", identity.OpCatalogRead, h.Catalog.GetVariant).
		POST("/:id/stock-adjustments", identity.OpStockAdjust, h.Stock.Adjust).
		GET("/:id/stock-movements", identity.OpStockHistory, h.Stock.Movements)

	employees := NewDomainGroup("employees", "/employees", gate).
		POST("", identity.OpEmployeeCreate, h.Employees.Create).
		GET("", identity.OpEmployeeList, h.Employees.List)

	transactions := NewDomainGroup("transactions", "/transactions", gate).
		POST("", identity.OpTransactionCreate, h.Transactions.Create).
		GET("", identity.OpTransactionRead, h.Transactions.List).
		GET("/stats", identity.OpTransactionStats, h.Transactions.Stats).
		GET("/:id", identity.OpTransactionRead, h.Transactions.Get)

	return []*DomainGroup{auth, stores, categories, products, variants, employees, transactions}
}
