package dto

import (
	"time"

	"github.com/ignatzorin/rso-backend/internal/models"
)

// ErrorResponse стандартный ответ с ошибкой. Fields заполняется для ошибок валидации.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// AckResponse подтверждение без данных (update, delete, logout).
type AckResponse struct {
	Success bool `json:"success"`
}

// LoginResponse ответ на успешный вход администратора.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// CatalogResponse справочники формы: патенты, модели виатур и плоский список значений.
type CatalogResponse struct {
	Patentes []string              `json:"patentes"`
	Viaturas []models.VehicleModel `json:"viaturas"`
	Prefixos []string              `json:"prefixos"`
}

// NewCatalogResponse собирает ответ из каталога.
func NewCatalogResponse(catalog *models.Catalog) *CatalogResponse {
	return &CatalogResponse{
		Patentes: append([]string(nil), models.Patentes...),
		Viaturas: catalog.Models(),
		Prefixos: catalog.Flat(),
	}
}

// Event сообщение живой ленты панели администратора.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
