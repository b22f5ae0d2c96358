package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/export"
	"github.com/ignatzorin/rso-backend/internal/models"
)

const defaultTimeout = 30 * time.Second

// ErrUnexpectedPayload скачанный файл не соответствует запрошенному формату.
var ErrUnexpectedPayload = errors.New("client: conteúdo inesperado no arquivo exportado")

// APIError ответ сервера с кодом не 2xx.
type APIError struct {
	Status  int
	Message string
	Code    string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: HTTP %d", e.Status)
	}
	return e.Message
}

// IsStatus сообщает, что err это APIError с указанным статусом.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client типизированный клиент API отчётов RSO.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken задаёт токен администратора, полученный ранее.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New создаёт клиент для baseURL (например http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token текущий токен администратора.
func (c *Client) Token() string {
	return c.token
}

// SetToken меняет токен администратора. Пустая строка выходит из сессии локально.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Create отправляет новый отчёт.
func (c *Client) Create(ctx context.Context, in *models.RelatorioInput) (*models.Relatorio, error) {
	var out models.Relatorio
	if err := c.do(ctx, http.MethodPost, "/api/rso", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List возвращает все отчёты.
func (c *Client) List(ctx context.Context) ([]models.Relatorio, error) {
	out := []models.Relatorio{}
	if err := c.do(ctx, http.MethodGet, "/api/rso", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get возвращает отчёт по ID.
func (c *Client) Get(ctx context.Context, id int64) (*models.Relatorio, error) {
	var out models.Relatorio
	if err := c.do(ctx, http.MethodGet, "/api/rso/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update частично обновляет отчёт. Требует сессию администратора.
func (c *Client) Update(ctx context.Context, id int64, patch *models.RelatorioPatch) error {
	return c.do(ctx, http.MethodPatch, "/api/rso/"+strconv.FormatInt(id, 10), patch, &dto.AckResponse{})
}

// Delete удаляет отчёт. Требует сессию администратора.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/rso/"+strconv.FormatInt(id, 10), nil, &dto.AckResponse{})
}

// Catalog возвращает справочники формы.
func (c *Client) Catalog(ctx context.Context) (*dto.CatalogResponse, error) {
	var out dto.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login входит как администратор и запоминает токен.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	req := dto.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", req, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Logout закрывает серверную сессию. Токен сбрасывается в любом случае.
func (c *Client) Logout(ctx context.Context) error {
	defer func() { c.token = "" }()
	if c.token == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/admin/logout", nil, &dto.AckResponse{})
	if IsStatus(err, http.StatusUnauthorized) {
		return nil
	}
	return err
}

// Me возвращает администратора текущей сессии.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/admin/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download скачанный файл экспорта.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Export скачивает отфильтрованный серверный экспорт.
func (c *Client) Export(ctx context.Context, format export.Format, search string) (*Download, error) {
	path := "/api/admin/rso/export/" + string(format)
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read export: %w", err)
	}
	if err := CheckPayload(format, data); err != nil {
		return nil, err
	}

	name := export.FileName(format, time.Now())
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	return &Download{FileName: name, ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// CheckPayload сверяет магические байты с форматом: xlsx это zip контейнер,
// csv и txt не должны распознаваться как двоичный тип.
func CheckPayload(format export.Format, data []byte) error {
	kind, err := filetype.Match(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}

	switch format {
	case export.FormatXLSX:
		if kind.Extension != "xlsx" && kind.Extension != "zip" {
			return fmt.Errorf("%w: esperado xlsx, recebido %q", ErrUnexpectedPayload, kind.Extension)
		}
	default:
		if kind != filetype.Unknown {
			return fmt.Errorf("%w: esperado texto, recebido %q", ErrUnexpectedPayload, kind.Extension)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
		apiErr.Fields = body.Fields
	}
	return apiErr
}
