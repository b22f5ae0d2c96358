package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/http/middleware"
)

var (
	// ErrNoPrincipal в контексте нет данных аутентификации
	ErrNoPrincipal = errors.New("usuário não encontrado no contexto")

	// ErrInvalidID параметр пути не является положительным целым
	ErrInvalidID = errors.New("identificador inválido")
)

// CurrentUserID извлекает ID администратора из контекста.
func CurrentUserID(c *gin.Context) (int64, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, ErrNoPrincipal
	}
	userID, ok := raw.(int64)
	if !ok {
		return 0, ErrNoPrincipal
	}
	return userID, nil
}

// CurrentSessionID извлекает ID сессии из контекста.
func CurrentSessionID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextSessionIDKey)
	if !exists {
		return uuid.Nil, ErrNoPrincipal
	}
	sessionID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoPrincipal
	}
	return sessionID, nil
}

// ParseIDParam разбирает положительный целый идентификатор из пути.
func ParseIDParam(c *gin.Context, paramName string) (int64, error) {
	param := c.Param(paramName)
	if param == "" {
		return 0, fmt.Errorf("parâmetro %s ausente", paramName)
	}

	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// RespondError отправляет стандартный ответ с ошибкой.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondJSON отправляет JSON с указанным статусом.
func RespondJSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondAck отвечает {"success": true}.
func RespondAck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.AckResponse{Success: true})
}

// RespondBadRequest отправляет 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "requisição inválida"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// RespondUnauthorized отправляет 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "autenticação necessária"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// Fail передаёт ошибку в middleware.ErrorHandler и прерывает цепочку.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
