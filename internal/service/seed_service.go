package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/rso-backend/internal/logger"
	"github.com/ignatzorin/rso-backend/internal/models"
)

// AdminSeedRepository хранилище, в которое заводится администратор.
type AdminSeedRepository interface {
	Upsert(ctx context.Context, user *models.User) error
}

// SeedService заводит учётную запись администратора при старте.
type SeedService struct {
	repo AdminSeedRepository
	cost int
}

// NewSeedService создаёт сервис начального заполнения.
func NewSeedService(repo AdminSeedRepository) *SeedService {
	return &SeedService{repo: repo, cost: bcrypt.DefaultCost}
}

// EnsureAdmin создаёт администратора или обновляет его пароль из конфигурации.
func (s *SeedService) EnsureAdmin(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("seed service: falha ao gerar hash da senha: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("seed service: %w", err)
	}

	logger.Log.WithField("username", username).Info("administrador garantido")
	return user, nil
}
