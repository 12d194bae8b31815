package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"innoshop/internal/clients"
	"innoshop/internal/config"
	"innoshop/internal/database"
	"innoshop/internal/logger"
	"innoshop/internal/product/handler"
	"innoshop/internal/product/model"
	"innoshop/internal/product/repository"
	"innoshop/internal/product/service"
	"innoshop/internal/routes"
	"innoshop/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Init(cfg.Server.Environment)
	defer logger.Sync()

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}
	if cfg.Peers.UserServiceURL == "" {
		logger.Fatal("USER_SERVICE_URL must be set")
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(&model.Product{}); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	tokens := token.NewService(&cfg.JWT)
	users := clients.NewUserStatusClient(cfg.Peers.UserServiceURL)

	productRepo := repository.NewProductRepository(db)
	productService := service.NewProductService(productRepo, users)
	productHandler := handler.NewProductHandler(productService)

	router := routes.SetupProductRoutes(cfg, db, tokens, productHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Product service starting",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down product service")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Product service stopped")
}
