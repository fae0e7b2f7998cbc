// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/medtraie/Gaztesto-sub001/internal/domain/auth"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/http/v1/handlers"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/http/v1/middleware"
	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger *logger.Logger

	// Database backs the readiness probe.
	Database handlers.Database
	AppName  string
	Version  string

	// JWTValidator for token validation. Nil leaves the API unauthenticated (development only).
	JWTValidator middleware.JWTValidator

	ReturnOrders handlers.ReturnOrderService
	// Audit serves the history on the details endpoint. Optional.
	Audit handlers.AuditHistory

	// Idempotency guards commits carrying X-Idempotency-Key. Optional.
	Idempotency middleware.IdempotencyStore
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	if cfg.Database != nil {
		healthHandler := handlers.NewHealthHandler(cfg.Database, cfg.AppName, cfg.Version)
		health := router.Group("/health")
		{
			health.GET("/live", healthHandler.Live)
			health.GET("/ready", healthHandler.Ready)
			health.GET("/info", healthHandler.Info)
		}
	}

	v1 := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		v1.Use(middleware.Auth(cfg.JWTValidator))
		v1.Use(middleware.RequireRole(auth.RoleOperator, auth.RoleAdmin))
	}

	registerReturnOrderRoutes(v1, cfg)

	return router
}

// registerReturnOrderRoutes registers the settlement endpoints.
func registerReturnOrderRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.ReturnOrders == nil {
		return
	}

	var commit []gin.HandlerFunc
	if cfg.Idempotency != nil {
		commit = append(commit, middleware.Idempotency(cfg.Idempotency))
	}

	handler := handlers.NewReturnOrderHandler(handlers.NewBaseHandler(), cfg.ReturnOrders, cfg.Audit)
	handler.RegisterRoutes(rg.Group("/return-orders"), commit...)
}
