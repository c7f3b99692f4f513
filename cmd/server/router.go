package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"nemora-backend/internal/config"
	"nemora-backend/internal/handlers"
	"nemora-backend/internal/middleware"
	"nemora-backend/internal/store"
)

type routeHandlers struct {
	orders *handlers.OrdersHandler
	upload *handlers.UploadHandler
	chat   *handlers.ChatHandler
}

func newRouter(cfg *config.Config, orderStore *store.Store, h routeHandlers, zl *zap.Logger) (*gin.Engine, error) {
	router := gin.New()

	// An empty list trusts no proxy: ClientIP is the socket peer and
	// X-Forwarded-For cannot dodge the chat rate limit.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zl))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handlers.HealthHandler)
	router.Static("/uploads", orderStore.UploadsDir())

	router.POST("/upload", h.upload.Upload)
	router.POST("/orders", middleware.BodyLimit(jsonBodyLimit), h.orders.CreateOrder)
	router.GET("/orders/:id", h.orders.GetOrderPage)
	router.POST("/chat", middleware.RateLimit(cfg.ChatRatePerMinute, cfg.ChatRateBurst), middleware.BodyLimit(jsonBodyLimit), h.chat.Chat)

	// Admin routes (only when a signing secret is configured)
	if cfg.AdminJWTSecret != "" {
		admin := router.Group("/admin")
		admin.Use(middleware.AdminAuth(cfg.AdminJWTSecret))
		admin.GET("/orders", h.orders.ListOrders)
	}

	return router, nil
}
