package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itemtrace/custody-backend-go/internal/config"
	"github.com/itemtrace/custody-backend-go/internal/handler"
	"github.com/itemtrace/custody-backend-go/internal/middleware"
	"github.com/itemtrace/custody-backend-go/internal/repository"
	"github.com/itemtrace/custody-backend-go/internal/service"
	"github.com/itemtrace/custody-backend-go/web"
)

// SetupRouter wires repositories, services, and handlers into the gin
// engine.
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.SetHTMLTemplate(web.Templates())

	// Repositories
	deviceRepo := repository.NewDeviceRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	siteRepo := repository.NewSiteRepository(db)

	// Services
	ledgerService := service.NewLedgerService(db, deviceRepo, transferRepo)
	siteService := service.NewSiteService(siteRepo)
	mapService := service.NewMapService(
		ledgerService, siteRepo,
		cfg.MapDefaultLat, cfg.MapDefaultLon, cfg.MapDefaultZoom,
	)

	// Handlers
	mapHandler := handler.NewMapHandler(mapService, cfg.BaseURL)
	deviceHandler := handler.NewDeviceHandler(ledgerService)
	transferHandler := handler.NewTransferHandler(ledgerService)
	siteHandler := handler.NewSiteHandler(siteService)
	authHandler := handler.NewAuthHandler(cfg)

	// Map pages
	r.GET("/", mapHandler.Index)
	r.POST("/plot", mapHandler.Plot)
	r.GET("/plot/:id", mapHandler.PlotByID)
	r.GET("/plot/:id/qr", mapHandler.QR)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Custody Backend is running",
		})
	})

	// JSON API
	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/devices/count", deviceHandler.Count)
		api.GET("/devices/:id/history", deviceHandler.History)
		api.GET("/query", transferHandler.Query)
		api.GET("/sites", siteHandler.List)

		protected := api.Group("", middleware.Auth(cfg.JWTSecret))
		{
			protected.POST("/devices", deviceHandler.Allocate)
			protected.PUT("/devices/:id/key", deviceHandler.RegisterKey)
			protected.POST("/transfers", transferHandler.Create)
			protected.POST("/tx", transferHandler.SubmitTx)
			protected.POST("/sites", siteHandler.Create)
		}
	}

	return r
}
