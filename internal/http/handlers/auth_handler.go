package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/rso-backend/internal/dto"
	"github.com/ignatzorin/rso-backend/internal/http/handlers/common"
	"github.com/ignatzorin/rso-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rso-backend/internal/service"
)

// SessionCloser закрывает живые соединения сессии после выхода.
type SessionCloser interface {
	CloseSession(sessionID uuid.UUID)
}

// AuthHandler предоставляет HTTP слой для входа администратора.
type AuthHandler struct {
	auth     *service.AuthService
	sessions SessionCloser
}

// NewAuthHandler создаёт хэндлер. sessions может быть nil.
func NewAuthHandler(auth *service.AuthService, sessions SessionCloser) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Login обрабатывает POST /api/admin/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// пустые поля получают тот же ответ, что и неверный пароль
		common.Fail(c, apperror.ErrInvalidCredentials)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, service.SessionMeta{
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	})
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// Logout обрабатывает POST /api/admin/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := common.CurrentSessionID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		common.Fail(c, err)
		return
	}
	if h.sessions != nil {
		h.sessions.CloseSession(sessionID)
	}

	common.RespondAck(c)
}

// Me обрабатывает GET /api/admin/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, user)
}
