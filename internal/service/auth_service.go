package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/models"
	"github.com/ignatzorin/rso-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rso-backend/internal/repository"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastSignedIn(ctx context.Context, userID int64, at time.Time) error
	CreateSession(ctx context.Context, session *models.AdminSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.AdminSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// AuthService вход администратора и проверка его сессий.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Username string
	Password string
}

// SessionMeta сведения о клиенте, сохраняемые вместе с сессией.
type SessionMeta struct {
	UserAgent string
	IP        string
}

// LoginResult итог успешного входа.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Principal аутентифицированный администратор текущего запроса.
type Principal struct {
	UserID    int64
	Role      string
	SessionID uuid.UUID
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizer хэш для сравнения, когда пользователь не найден:
// время ответа не выдаёт существование логина.
func equalizer() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("rso-dummy-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// Login проверяет учётные данные администратора и открывает сессию.
// Любая неверная комбинация даёт одну и ту же ошибку ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta SessionMeta) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao verificar credenciais")
		}
		_ = bcrypt.CompareHashAndPassword(equalizer(), []byte(in.Password))
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsAdmin() {
		return nil, apperror.ErrInvalidCredentials
	}

	issued, err := s.tokenManager.Issue(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao emitir token")
	}

	session := &models.AdminSession{
		ID:        issued.SessionID,
		UserID:    user.ID,
		ExpiresAt: issued.ExpiresAt,
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		session.UserAgent = &ua
	}
	if meta.IP != "" {
		ip := meta.IP
		session.IPAddress = &ip
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao criar sessão")
	}

	if err := s.repo.UpdateLastSignedIn(ctx, user.ID, time.Now()); err != nil {
		// вход не прерываем
		logger.Log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("auth service: falha ao atualizar last_signed_in")
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"session_id": issued.SessionID,
	}).Info("administrador autenticado")

	return &LoginResult{User: user, Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// Authenticate проверяет токен и наличие серверной сессии.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.tokenManager.Parse(token)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	sessionID, err := claims.SessionID()
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao verificar sessão")
	}
	if session.UserID != userID {
		return nil, apperror.ErrUnauthorized
	}

	return &Principal{UserID: userID, Role: claims.Role, SessionID: sessionID}, nil
}

// Logout закрывает сессию. Повторный выход не ошибка.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao encerrar sessão")
	}
	logger.Log.WithField("session_id", sessionID).Info("sessão encerrada")
	return nil
}

// Me возвращает пользователя текущей сессии.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "falha ao carregar usuário")
	}
	return user, nil
}
