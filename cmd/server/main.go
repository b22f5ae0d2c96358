package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rso-backend/internal/config"
	"github.com/ignatzorin/rso-backend/internal/db"
	"github.com/ignatzorin/rso-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/rso-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/rso-backend/internal/http/router"
	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/repository"
	"github.com/ignatzorin/rso-backend/internal/service"
	"github.com/ignatzorin/rso-backend/internal/validation"
	"github.com/ignatzorin/rso-backend/internal/ws"
)

const sessionCleanupInterval = 30 * time.Minute

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: erro ao carregar configuração: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithField("error", err.Error()).Fatal("main: erro ao conectar ao banco")
	}
	defer safeClose(dbConn)

	applied, err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath)
	if err != nil {
		logger.Log.WithField("error", err.Error()).Fatal("main: erro nas migrações")
	}
	if len(applied) > 0 {
		logger.Log.WithField("migrations", applied).Info("main: migrações aplicadas")
	}

	// Репозитории.
	relatorioRepo := repository.NewRelatorioRepository(dbConn)
	userRepo := repository.NewUserRepository(dbConn)

	// Администратор из конфигурации.
	if _, err := service.NewSeedService(userRepo).EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Log.WithField("error", err.Error()).Fatal("main: erro ao garantir administrador")
	}

	// Живая лента панели администратора.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws hub", hub.Run)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AdminTokenTTL)
	authService := service.NewAuthService(userRepo, tokenManager)
	relatorioService := service.NewRelatorioService(relatorioRepo, validation.Options{
		Strict:  cfg.StrictValidation,
		Catalog: models.DefaultCatalog,
	}, hub)

	goroutine.SafeGoWithContext(ctx, "session cleanup", func(ctx context.Context) {
		service.RunSessionCleanup(ctx, userRepo, sessionCleanupInterval)
	})

	// Хендлеры.
	relatorioHandler := httpHandlers.NewRelatorioHandler(relatorioService)
	exportHandler := httpHandlers.NewExportHandler(relatorioService, cfg.ReportLocation)
	authHandler := httpHandlers.NewAuthHandler(authService, hub)
	catalogHandler := httpHandlers.NewCatalogHandler(models.DefaultCatalog)
	wsHandler := httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, hub)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authService, relatorioHandler, exportHandler, authHandler, catalogHandler, wsHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo("http shutdown", func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithField("error", err.Error()).Error("main: erro ao parar servidor http")
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"port":   cfg.HTTPPort,
		"env":    cfg.Env,
		"strict": cfg.StrictValidation,
	}).Info("main: servidor HTTP iniciado")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.WithField("error", err.Error()).Fatal("main: servidor terminou com erro")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithField("error", err.Error()).Error("main: erro ao fechar banco")
	}
}
