package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rso-backend/internal/config"
	"github.com/ignatzorin/rso-backend/internal/http/handlers"
	"github.com/ignatzorin/rso-backend/internal/http/middleware"
)

// SetupRouter собирает маршруты API.
func SetupRouter(
	cfg *config.Config,
	auth middleware.Authenticator,
	relatorioHandler *handlers.RelatorioHandler,
	exportHandler *handlers.ExportHandler,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	if healthHandler != nil {
		r.GET("/health", healthHandler.Health)
	}

	api := r.Group("/api")
	api.GET("/catalog", catalogHandler.Get)

	// Публичный уровень: отправка и просмотр отчётов
	submitLimit := middleware.RateLimitMiddleware("rso_create", cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/rso", submitLimit, relatorioHandler.Create)
	api.GET("/rso", relatorioHandler.List)
	api.GET("/rso/:id", middleware.IDValidator("id"), relatorioHandler.Get)

	loginLimit := middleware.RateLimitMiddleware("admin_login", cfg.LoginRateLimit, cfg.RateLimitPeriod)
	api.POST("/admin/login", loginLimit, authHandler.Login)

	// Повышенный уровень: только сессия администратора
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(auth), middleware.RequireAdmin())
	{
		admin.PATCH("/rso/:id", middleware.IDValidator("id"), relatorioHandler.Update)
		admin.DELETE("/rso/:id", middleware.IDValidator("id"), relatorioHandler.Delete)

		admin.POST("/admin/logout", authHandler.Logout)
		admin.GET("/admin/me", authHandler.Me)
		admin.GET("/admin/rso/export/:format", exportHandler.Export)
		admin.GET("/admin/ws", wsHandler.Handle)
	}

	return r
}
