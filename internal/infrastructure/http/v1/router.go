// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appctx "meditrack/internal/core/context"
	"meditrack/internal/domain/auth"
	"meditrack/internal/domain/location"
	"meditrack/internal/domain/medication"
	"meditrack/internal/domain/stock"
	"meditrack/internal/infrastructure/http/v1/handlers"
	"meditrack/internal/infrastructure/http/v1/middleware"
	"meditrack/internal/infrastructure/storage/postgres"
	"meditrack/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool *postgres.Pool

	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService       *auth.Service
	MedicationService *medication.Service
	LocationService   *location.Service
	StockService      *stock.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Health and metrics endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
	medicationHandler := handlers.NewMedicationHandler(baseHandler, cfg.MedicationService, cfg.StockService)
	locationHandler := handlers.NewLocationHandler(baseHandler, cfg.LocationService, cfg.StockService)

	v1 := router.Group("/api/v1")
	{
		// Public endpoints
		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/medications/search", medicationHandler.Search)
		v1.GET("/medications/:id", medicationHandler.GetByID)

		v1.GET("/locations", locationHandler.List)
		v1.GET("/locations/search", locationHandler.Search)
		v1.GET("/locations/nearby", locationHandler.Nearby)
		v1.GET("/locations/:id", locationHandler.GetByID)

		// Authenticated endpoints
		authed := v1.Group("")
		authed.Use(middleware.Auth(cfg.JWTValidator))
		{
			authed.GET("/medications/favorites", medicationHandler.ListFavorites)
			authed.POST("/medications/:id/favorite", medicationHandler.AddFavorite)

			// Own-location endpoints: the location always comes from the
			// token, never from the request.
			employee := authed.Group("")
			employee.Use(middleware.RequireRole(appctx.RoleEmployee, appctx.RoleAdmin))
			{
				employee.POST("/medications/stock-upload", medicationHandler.UploadStock)
				employee.GET("/medications/by-location", medicationHandler.ListByLocation)
				employee.GET("/locations/stock-history", locationHandler.StockHistory)
			}

			admin := authed.Group("")
			admin.Use(middleware.RequireRole(appctx.RoleAdmin))
			{
				admin.POST("/medications/upload", medicationHandler.UploadCatalog)
				admin.POST("/admin/employees", authHandler.RegisterEmployee)
			}
		}
	}

	return router
}
