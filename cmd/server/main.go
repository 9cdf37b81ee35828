package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dferraz/mercado-backend/config"
	"github.com/dferraz/mercado-backend/internal/app/controller"
	"github.com/dferraz/mercado-backend/internal/app/repository"
	"github.com/dferraz/mercado-backend/internal/app/service"
	"github.com/dferraz/mercado-backend/internal/db"
	"github.com/dferraz/mercado-backend/internal/errors"
	"github.com/dferraz/mercado-backend/internal/middleware"
	"github.com/dferraz/mercado-backend/internal/router"
	"github.com/dferraz/mercado-backend/internal/scheduler"
	"github.com/dferraz/mercado-backend/internal/session"
	"github.com/dferraz/mercado-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	errors.SetVerbose(cfg.Errors.Verbose)

	logger.Info("Starting Mercado backend server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Session revocation store: Redis when configured, otherwise an
	// in-process store pruned by a cron job.
	var sessions session.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := session.NewRedisStore(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis session store", err)
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory session store")
		memStore := session.NewMemoryStore()
		sessions = memStore

		sessionScheduler := scheduler.NewSessionScheduler(memStore)
		if err := sessionScheduler.Start(); err != nil {
			logger.Fatal("Failed to start session scheduler", err)
		}
		defer sessionScheduler.Stop()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		db.GetDB(),
		userRepo,
		sessions,
		cfg.JWT.Secret,
		cfg.JWT.SessionExpiry,
	)
	productService := service.NewProductService(db.GetDB(), productRepo, cartRepo)
	cartService := service.NewCartService(db.GetDB(), cartRepo, productRepo)

	// Controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, sessions)

	r := router.NewRouter(
		authController,
		productController,
		cartController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced server shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
