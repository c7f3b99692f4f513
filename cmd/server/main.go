// @title           Nemora Backend API
// @version         1.0.0
// @description     Order intake, shop notifications and the Nemora AI assistant.

// @contact.name   API Support
// @contact.email  support@nemora.com

// @host      localhost:5174
// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nemora-backend/docs"
	"nemora-backend/internal/ai"
	"nemora-backend/internal/config"
	"nemora-backend/internal/handlers"
	"nemora-backend/internal/logger"
	"nemora-backend/internal/notify"
	"nemora-backend/internal/services"
	"nemora-backend/internal/store"
	"nemora-backend/internal/supabase"
)

const (
	jsonBodyLimit   = 2 << 20
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(logger.Options{
		Environment: cfg.Environment,
		File:        cfg.LogFile,
		MaxSizeMB:   cfg.LogMaxSizeMB,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with the public base URL
	if cfg.PublicURL != "" {
		baseURL, err := url.Parse(cfg.PublicURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	orderStore, err := store.NewStore(cfg.DataDir)
	if err != nil {
		zl.Fatal("Failed to initialize store", zap.Error(err))
	}

	notifyClient := &http.Client{Timeout: cfg.NotifyTimeout}
	dispatcher := notify.FromConfig(cfg, orderStore, notifyClient, zl)
	zl.Info("notification channels enabled", zap.Strings("channels", dispatcher.Channels()))

	notificationService := services.NewNotificationService(dispatcher, zl, services.NotificationOptions{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
		Timeout:   cfg.NotifyTimeout,
	})

	gateway := ai.FromConfig(cfg, nil, zl)
	zl.Info("ai providers configured", zap.String("preferred", cfg.AIProvider))

	// Optional upload mirror
	var mirror handlers.UploadMirror
	if cfg.UploadMirrorEnabled() {
		storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		if err != nil {
			zl.Fatal("Failed to initialize storage client", zap.Error(err))
		}
		mirror = storageClient
		zl.Info("upload mirror enabled", zap.String("bucket", cfg.SupabaseStorageBucket))
	}

	// Initialize handlers
	ordersHandler := handlers.NewOrdersHandler(orderStore, notificationService, cfg.PublicURL, zl)
	uploadHandler := handlers.NewUploadHandler(orderStore, mirror, cfg.PublicURL, zl)
	chatHandler := handlers.NewChatHandler(gateway, zl)

	router, err := newRouter(cfg, orderStore, routeHandlers{
		orders: ordersHandler,
		upload: uploadHandler,
		chat:   chatHandler,
	}, zl)
	if err != nil {
		zl.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("port", cfg.Port), zap.String("data_dir", cfg.DataDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("HTTP server shutdown failed", zap.Error(err))
	}
	// Orders accepted before shutdown still get their notifications.
	if err := notificationService.Shutdown(ctx); err != nil {
		zl.Error("Notification queue did not drain", zap.Error(err))
	}
}
