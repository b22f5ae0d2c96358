package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/rso-backend/internal/config"
	"github.com/ignatzorin/rso-backend/internal/http/handlers"
	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rso-backend/internal/repository"
	"github.com/ignatzorin/rso-backend/internal/service"
	"github.com/ignatzorin/rso-backend/internal/validation"
	"github.com/ignatzorin/rso-backend/internal/ws"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type emptyRepo struct{}

func (emptyRepo) Create(ctx context.Context, in *models.RelatorioInput) (*models.Relatorio, error) {
	return &models.Relatorio{ID: 1, RelatorioInput: *in}, nil
}

func (emptyRepo) List(ctx context.Context) ([]models.Relatorio, error) {
	return []models.Relatorio{}, nil
}

func (emptyRepo) GetByID(ctx context.Context, id int64) (*models.Relatorio, error) {
	return nil, repository.ErrRelatorioNotFound
}

func (emptyRepo) Update(ctx context.Context, id int64, patch *models.RelatorioPatch) error {
	return repository.ErrRelatorioNotFound
}

func (emptyRepo) Delete(ctx context.Context, id int64) error { return nil }

type denyAll struct{}

func (denyAll) Authenticate(ctx context.Context, token string) (*service.Principal, error) {
	return nil, apperror.ErrUnauthorized
}

func newTestRouter() *gin.Engine {
	cfg := &config.Config{
		Env:             "development",
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitLimit:  2,
		RateLimitPeriod: time.Minute,
		LoginRateLimit:  1,
	}
	svc := service.NewRelatorioService(emptyRepo{}, validation.Options{}, nil)
	auth := service.NewAuthService(nil, service.NewTokenManager("secret", time.Hour))
	hub := ws.NewHub()

	return SetupRouter(cfg, denyAll{},
		handlers.NewRelatorioHandler(svc),
		handlers.NewExportHandler(svc, time.UTC),
		handlers.NewAuthHandler(auth, hub),
		handlers.NewCatalogHandler(nil),
		handlers.NewWSHandler(hub, cfg.AllowedOrigins),
		nil,
	)
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_AccessTiers(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list is public", http.MethodGet, "/api/rso", http.StatusOK},
		{"catalog is public", http.MethodGet, "/api/catalog", http.StatusOK},
		{"get missing", http.MethodGet, "/api/rso/5", http.StatusNotFound},
		{"get rejects zero id", http.MethodGet, "/api/rso/0", http.StatusBadRequest},
		{"update needs admin", http.MethodPatch, "/api/rso/5", http.StatusUnauthorized},
		{"delete needs admin", http.MethodDelete, "/api/rso/5", http.StatusUnauthorized},
		{"export needs admin", http.MethodGet, "/api/admin/rso/export/csv", http.StatusUnauthorized},
		{"me needs admin", http.MethodGet, "/api/admin/me", http.StatusUnauthorized},
		{"ws needs admin", http.MethodGet, "/api/admin/ws", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, "{}")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_SubmitIsRateLimited(t *testing.T) {
	r := newTestRouter()

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodPost, "/api/rso", "{}")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := serve(r, http.MethodPost, "/api/rso", "{}")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_LoginLimitComesFromConfig(t *testing.T) {
	r := newTestRouter()

	w := serve(r, http.MethodPost, "/api/admin/login", "{}")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = serve(r, http.MethodPost, "/api/admin/login", "{}")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/rso", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
