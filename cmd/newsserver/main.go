package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"news_publisher/internal/auth"
	"news_publisher/internal/config"
	"news_publisher/internal/db"
	"news_publisher/internal/external"
	"news_publisher/internal/logger"
	"news_publisher/internal/middleware"
	"news_publisher/internal/news"
	"news_publisher/internal/server"
	"news_publisher/internal/users"
)

func main() {
	// Переменные окружения из .env, если файл есть
	godotenv.Load()

	logger.Init()
	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Config validation error: %v", err)
	}

	// Инициализация БД
	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("DB connection error: %v", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		logger.Log.Fatalf("Schema error: %v", err)
	}

	// Сборка сервисов: зависимости передаются явно через конструкторы
	authSvc := auth.NewService(database, cfg.JWTSecret, cfg.TokenTTL())
	usersSvc := users.NewService(database, database)
	externalClient := external.NewClient(cfg.NewsAPI.BaseURL, cfg.NewsAPIKey, cfg.ExternalTimeout())
	newsSvc := news.NewService(database, database, database, database, externalClient, cfg.NewsAPI.Country, cfg.NewsAPI.PageSize)

	srv := server.NewServer(authSvc, usersSvc, newsSvc, database, database, database)

	rateLimiter := middleware.NewRateLimiter(20, 40)
	handler := rateLimiter.Middleware(srv.Routes())

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancelShutdown := context.WithTimeout(ctx, 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Fatalf("Forced shutdown: %v", err)
	}
}
