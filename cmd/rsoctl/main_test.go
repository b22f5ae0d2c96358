package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rso-backend/internal/dashboard"
	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/models"
)

// stubAPI минимальный сервер RSO для команд CLI.
type stubAPI struct {
	mu       sync.Mutex
	created  []models.RelatorioInput
	loggedIn bool
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *stubAPI) start(t *testing.T) string {
	t.Helper()
	const token = "tok-cli"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/rso", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []models.Relatorio{{
				ID: 1,
				RelatorioInput: models.RelatorioInput{
					EncarregadoNome:      "Ana",
					EncarregadoSobrenome: "Silva",
					EncarregadoPatente:   "Capitão",
					ViaturaPrefixo:       "SPIN - 3-163",
					ChefeBarcaPatente:    "Cabo",
					ChefeBarcaNome:       "Rocha",
					DataInicio:           time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC),
					DataFim:              time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC),
					TotalOcorrencias:     4,
				},
				CreatedAt: time.Date(2025, 1, 10, 23, 5, 0, 0, time.UTC),
			}})
		case http.MethodPost:
			var in models.RelatorioInput
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			s.mu.Lock()
			s.created = append(s.created, in)
			s.mu.Unlock()
			writeJSON(w, http.StatusCreated, models.Relatorio{ID: 2, RelatorioInput: in})
		}
	})
	mux.HandleFunc("/api/catalog", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.NewCatalogResponse(models.DefaultCatalog))
	})
	mux.HandleFunc("/api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "Admin" || req.Password != "24032005" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Usuário ou senha incorretos.", Code: "UNAUTHORIZED"})
			return
		}
		s.mu.Lock()
		s.loggedIn = true
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, dto.LoginResponse{
			Token:     token,
			ExpiresAt: time.Now().Add(time.Hour),
			User:      &models.User{ID: 1, Username: "Admin", Role: "admin"},
		})
	})
	mux.HandleFunc("/api/admin/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		s.mu.Lock()
		s.loggedIn = false
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, dto.AckResponse{Success: true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalog_ReadsAPIURLFromEnv(t *testing.T) {
	api := &stubAPI{}
	t.Setenv("RSO_API_URL", api.start(t))

	out, err := run("", "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Capitão")
	assert.Contains(t, out, "SPIN: 3-163")
}

func TestAdminCommands(t *testing.T) {
	api := &stubAPI{}
	url := api.start(t)
	session := filepath.Join(t.TempDir(), "session.json")
	dir := t.TempDir()
	base := []string{"--api-url", url, "--session-file", session, "--timezone", "UTC"}
	exec := func(args ...string) (string, error) {
		return run("", append(append([]string{}, base...), args...)...)
	}

	_, err := exec("list")
	assert.ErrorIs(t, err, dashboard.ErrLocked)

	_, err = exec("login", "-u", "Admin", "-p", "errada")
	assert.ErrorIs(t, err, dashboard.ErrInvalidCredentials)

	out, err := exec("login", "-u", "Admin", "-p", "24032005")
	require.NoError(t, err)
	assert.Contains(t, out, "Bem-vindo, Admin")
	_, err = os.Stat(session)
	require.NoError(t, err)

	out, err = exec("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Silva")
	assert.Contains(t, out, "10/01/2025, 11:00:00")
	assert.Contains(t, out, "Mostrando 1 de 1 relatórios")

	out, err = exec("list", "--search", "l200")
	require.NoError(t, err)
	assert.Contains(t, out, "Mostrando 0 de 1 relatórios")

	out, err = exec("show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Guarnição")
	assert.Contains(t, out, "Rocha")

	_, err = exec("show", "abc")
	assert.Error(t, err)

	out, err = exec("export", "txt", "--search", "l200", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhum relatório para exportar.")
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)

	out, err = exec("export", "csv", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Arquivo salvo em")
	entries, _ = os.ReadDir(dir)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))

	_, err = exec("export", "pdf")
	assert.Error(t, err)

	out, err = exec("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessão encerrada.")
	assert.False(t, api.loggedIn)

	_, err = exec("list")
	assert.ErrorIs(t, err, dashboard.ErrLocked)
}

func TestSubmit_Interactive(t *testing.T) {
	api := &stubAPI{}
	url := api.start(t)

	lines := []string{
		// шаг 1: пустое имя, затем исправление
		"", "Silva", "Capitão",
		"Ana",
		// шаг 2
		"SPIN - 3-163", "1º Sargento", "Rocha", "Cabo", "Mendes",
		"Soldado 1ª Classe", "Teixeira", "Soldado 1ª Classe", "Barros", "Soldado 2ª Classe", "Nunes",
		// шаг 3
		"2025-01-10", "08:00", "2025-01-10", "20:00",
		// шаг 4
		"2", "", "", "", "", "", "150,75", "", "", "sem alterações",
	}
	stdin := strings.Join(lines, "\n") + "\n"

	out, err := run(stdin, "--api-url", url, "--timezone", "UTC", "submit")
	require.NoError(t, err)
	assert.Contains(t, out, "Nome é obrigatório")
	assert.Contains(t, out, "Relatório enviado com sucesso!")

	require.Len(t, api.created, 1)
	in := api.created[0]
	assert.Equal(t, "Ana", in.EncarregadoNome)
	assert.Equal(t, 2, in.TotalOcorrencias)
	assert.Equal(t, 150.75, in.DinheiroSujoApreendido)
	assert.True(t, in.DataInicio.Equal(time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)))
	require.NotNil(t, in.Observacoes)
	assert.Nil(t, in.AcoesRealizadas)
}

func TestSubmit_BackReturnsToPreviousStep(t *testing.T) {
	api := &stubAPI{}
	url := api.start(t)

	lines := []string{
		"Ana", "Silva", "Capitão",
		"<",
		// снова шаг 1, значения сохранены
		"", "", "Major",
	}
	// ввод заканчивается на шаге 2
	_, err := run(strings.Join(lines, "\n")+"\n", "--api-url", url, "submit")
	assert.Error(t, err)
	assert.Empty(t, api.created)
}
