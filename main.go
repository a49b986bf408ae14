package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-admin/internal/cache"
	"blog-admin/internal/config"
	"blog-admin/internal/controllers"
	"blog-admin/internal/database"
	"blog-admin/internal/jwt"
	"blog-admin/internal/logging"
	"blog-admin/internal/middleware"
	"blog-admin/internal/repository"
	"blog-admin/internal/service"
	"blog-admin/internal/storage"
	"blog-admin/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Object storage must be reachable before accepting uploads
	store, err := storage.New(storage.Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		UseSSL:        cfg.S3UseSSL,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = store.Check(checkCtx)
	cancel()
	if err != nil {
		log.Fatalf("Object storage unavailable: %v", err)
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Warnf("Failed to connect to Redis (%v). Continuing without cache.", err)
			cacheClient = nil
		} else {
			log.Info("Connected to Redis cache")
			defer cacheClient.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.SessionSecret,
		time.Duration(cfg.SessionTTLHours)*time.Hour,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	postService := service.NewPostService(postRepo, validation.NewPostValidator(cfg.PostCategories), cacheClient)
	uploadService := service.NewUploadService(store, cfg.UploadMaxBytes)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := setupRouter(routerDeps{
		jwtService: jwtService,

		authController: controllers.NewAuthController(authService, controllers.CookieOptions{
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
		}),
		postController:   controllers.NewPostController(postService),
		uploadController: controllers.NewUploadController(uploadService),
		qrcodeController: controllers.NewQRCodeController(postService, cfg.FrontendURL),

		generalRateLimiter: middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		authRateLimiter:    middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst),

		metrics:  middleware.NewMetrics(registry),
		gatherer: registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		log.Infof("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	log.Info("Server exited")
}
