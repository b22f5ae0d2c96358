package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const healthTimeout = 3 * time.Second

// ClientCounter число подключённых живых лент.
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler проверка состояния сервиса.
type HealthHandler struct {
	db   *sqlx.DB
	feed ClientCounter
}

// NewHealthHandler создаёт health handler. feed может быть nil.
func NewHealthHandler(db *sqlx.DB, feed ClientCounter) *HealthHandler {
	return &HealthHandler{db: db, feed: feed}
}

// HealthResponse ответ GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	stats := h.db.Stats()
	checks["connections"] = strconv.Itoa(stats.OpenConnections)

	if h.feed != nil {
		checks["live_clients"] = strconv.Itoa(h.feed.ClientCount())
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}
