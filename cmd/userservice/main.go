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
	"innoshop/internal/mailer"
	"innoshop/internal/routes"
	"innoshop/internal/token"
	"innoshop/internal/user/handler"
	"innoshop/internal/user/model"
	"innoshop/internal/user/repository"
	"innoshop/internal/user/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Init(cfg.Server.Environment)
	defer logger.Sync()

	if cfg.JWT.Secret == "" || cfg.JWT.EmailTokenSecret == "" {
		logger.Fatal("JWT_SECRET and JWT_EMAIL_TOKEN_SECRET must be set")
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(&model.User{}); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	tokens := token.NewService(&cfg.JWT)
	mail := mailer.NewSMTPSender(&cfg.SMTP)
	productSync := clients.NewProductSyncClient(cfg.Peers.ProductServiceURL)

	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, tokens, mail, productSync, cfg)
	userHandler := handler.NewUserHandler(userService)

	router := routes.SetupUserRoutes(cfg, db, tokens, userHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("User service starting",
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

	logger.Info("Shutting down user service")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("User service stopped")
}
