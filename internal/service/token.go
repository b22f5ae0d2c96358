package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/rso-backend/internal/models"
)

// AccessClaims клеймы токена администратора. ID (jti) совпадает с id серверной сессии.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID возвращает числовой идентификатор из sub.
func (c *AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// SessionID возвращает jti как UUID.
func (c *AccessClaims) SessionID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

// IssuedToken выпущенный токен и его параметры.
type IssuedToken struct {
	Token     string
	SessionID uuid.UUID
	ExpiresAt time.Time
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает HS256 токен с новым jti.
func (m *TokenManager) Issue(user *models.User) (*IssuedToken, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	sessionID := uuid.New()

	claims := AccessClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("token manager: sign %w", err)
	}

	return &IssuedToken{Token: token, SessionID: sessionID, ExpiresAt: exp}, nil
}

// Parse проверяет подпись и срок действия токена.
func (m *TokenManager) Parse(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, errors.New("sub e jti são obrigatórios"))
	}

	return claims, nil
}
