// Package dashboard панель администратора: вход, список, поиск, карточка и экспорт.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rso-backend/internal/client"
	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/export"
	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/models"
)

var (
	// ErrLocked нет действующей сессии администратора.
	ErrLocked = errors.New("Acesso restrito. Faça login para continuar.")

	// ErrInvalidCredentials любая неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("Usuário ou senha incorretos.")

	// ErrNotFound отчёта нет в загруженном списке.
	ErrNotFound = errors.New("Relatório não encontrado.")
)

// Backend операции сервера, нужные панели. Реализуется client.Client.
type Backend interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
	List(ctx context.Context) ([]models.Relatorio, error)
	SetToken(token string)
}

// ListState состояние загрузки списка.
type ListState int

const (
	NotLoaded ListState = iota
	Loading
	Loaded
	Failed
)

// Dashboard состояние панели одного администратора.
type Dashboard struct {
	mu      sync.Mutex
	backend Backend
	store   SessionStore
	loc     *time.Location
	now     func() time.Time
	log     *logrus.Entry

	session *Session
	state   ListState
	items   []models.Relatorio
	loadErr error
	search  string
}

// Option настраивает Dashboard.
type Option func(*Dashboard)

// WithLocation часовой пояс дат в карточке и экспорте.
func WithLocation(loc *time.Location) Option {
	return func(d *Dashboard) { d.loc = loc }
}

// WithClock подменяет текущее время.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// New создаёт панель. Сессию из store читает Open.
func New(backend Backend, store SessionStore, opts ...Option) *Dashboard {
	d := &Dashboard{
		backend: backend,
		store:   store,
		loc:     time.Local,
		now:     time.Now,
		log:     logger.Component("dashboard"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open восстанавливает сохранённую сессию. Истёкшая сессия удаляется.
func (d *Dashboard) Open() (bool, error) {
	s, err := d.store.Load()
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if s == nil {
		return false, nil
	}
	if s.Expired(d.now()) {
		d.log.WithField("username", s.Username).Info("sessão local expirada")
		return false, d.store.Clear()
	}

	d.session = s
	d.backend.SetToken(s.Token)
	return true, nil
}

// Authenticated открыт ли доступ к панели.
func (d *Dashboard) Authenticated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session != nil
}

// Session текущая сессия или nil.
func (d *Dashboard) Session() *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return nil
	}
	s := *d.session
	return &s
}

// Login проверяет учётные данные на сервере и сохраняет сессию.
func (d *Dashboard) Login(ctx context.Context, username, password string) error {
	resp, err := d.backend.Login(ctx, username, password)
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("dashboard: login: %w", err)
	}

	s := Session{Token: resp.Token, Username: username, ExpiresAt: resp.ExpiresAt}
	if resp.User != nil {
		s.Username = resp.User.Username
	}
	if err := d.store.Save(s); err != nil {
		return err
	}

	d.mu.Lock()
	d.session = &s
	d.mu.Unlock()

	d.log.WithField("username", s.Username).Info("login efetuado")
	return nil
}

// Logout закрывает серверную сессию и стирает локальную отметку.
func (d *Dashboard) Logout(ctx context.Context) error {
	if err := d.backend.Logout(ctx); err != nil {
		// локальный выход выполняется в любом случае
		d.log.WithField("error", err.Error()).Warn("falha ao encerrar sessão no servidor")
	}
	d.backend.SetToken("")

	d.mu.Lock()
	d.session = nil
	d.items = nil
	d.state = NotLoaded
	d.loadErr = nil
	d.search = ""
	d.mu.Unlock()

	return d.store.Clear()
}

// Load загружает полный список отчётов. Ошибка сохраняется до Retry.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	if d.session == nil {
		d.mu.Unlock()
		return ErrLocked
	}
	d.state = Loading
	d.mu.Unlock()

	items, err := d.backend.List(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = Failed
		d.loadErr = err
		d.log.WithField("error", err.Error()).Warn("falha ao carregar relatórios")
		return fmt.Errorf("dashboard: load: %w", err)
	}

	d.items = items
	d.state = Loaded
	d.loadErr = nil
	return nil
}

// Retry повторяет загрузку после ошибки.
func (d *Dashboard) Retry(ctx context.Context) error {
	return d.Load(ctx)
}

// State состояние загрузки и последняя ошибка.
func (d *Dashboard) State() (ListState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.loadErr
}

// SetSearch задаёт строку поиска.
func (d *Dashboard) SetSearch(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.search = term
}

// Search текущая строка поиска.
func (d *Dashboard) Search() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.search
}

// Total число загруженных отчётов без фильтра.
func (d *Dashboard) Total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Visible отфильтрованный список.
func (d *Dashboard) Visible() []models.Relatorio {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Relatorio(nil), models.FilterRelatorios(d.items, d.search)...)
}

// Detail карточка отчёта из загруженного списка.
func (d *Dashboard) Detail(id int64) (*Detail, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.items {
		if d.items[i].ID == id {
			return BuildDetail(&d.items[i], d.loc), nil
		}
	}
	return nil, ErrNotFound
}

// Export пишет отфильтрованный список в w и возвращает имя файла.
// Пустой список даёт export.ErrEmpty и ничего не пишет.
func (d *Dashboard) Export(w io.Writer, format export.Format) (string, error) {
	items := d.Visible()
	now := d.now()
	if err := export.Write(w, format, items, export.Options{Location: d.loc, Now: now}); err != nil {
		return "", err
	}
	return export.FileName(format, now), nil
}

// ExportFile сохраняет экспорт в каталог dir и возвращает путь.
func (d *Dashboard) ExportFile(dir string, format export.Format) (string, error) {
	items := d.Visible()
	if len(items) == 0 {
		return "", export.ErrEmpty
	}

	now := d.now()
	path := filepath.Join(dir, export.FileName(format, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("dashboard: export: %w", err)
	}

	if err := export.Write(f, format, items, export.Options{Location: d.loc, Now: now}); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("dashboard: export: %w", err)
	}

	d.log.WithFields(logrus.Fields{
		"format": format,
		"rows":   len(items),
		"path":   path,
	}).Info("exportação concluída")
	return path, nil
}
