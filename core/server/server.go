// Package server boots the HTTP API and the background worker in one
// process: config, logger, database, Redis, asynq, then the modules.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events-api/core/config"
	"campus-events-api/core/database"
	"campus-events-api/core/logger"
	"campus-events-api/core/middleware"
	"campus-events-api/core/storage"
	"campus-events-api/modules/dashboard"
	"campus-events-api/modules/event"
	"campus-events-api/modules/notification"
	"campus-events-api/modules/user"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// Run starts the application and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Environment == "development",
	})
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := database.Migrate(ctx, &db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Rate limiting and task delivery degrade, the API still serves.
		logger.Warn("Server:Run:RedisPing:Error", "error", err)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
	})
	mux := asynq.NewServeMux()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())

	mw := middleware.New(redisClient)
	uploader := storage.NewS3Uploader(cfg.Storage)

	userService := user.Init(e, &db)
	notificationService := notification.Init(e, &db, mw, asynqClient, mux)
	event.Init(e, &db, mw, uploader, notificationService)
	dashboard.Init(e, &db, mw, userService)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		if err := asynqServer.Run(mux); err != nil {
			logger.Error("Server:Run:Asynq:Error", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		logger.Info("Server listening", "addr", addr, "env", cfg.App.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run:Start:Error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	asynqServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
