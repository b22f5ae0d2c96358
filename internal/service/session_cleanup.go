package service

import (
	"context"
	"time"

	"github.com/ignatzorin/rso-backend/internal/logger"
)

// SessionPurger удаляет истёкшие сессии администраторов.
type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// RunSessionCleanup периодически чистит истёкшие сессии до отмены ctx.
func RunSessionCleanup(ctx context.Context, repo SessionPurger, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpiredSessions(ctx)
			if err != nil {
				logger.Log.WithField("error", err.Error()).Warn("session cleanup: falha ao remover sessões expiradas")
				continue
			}
			if n > 0 {
				logger.Log.WithField("removed", n).Info("session cleanup: sessões expiradas removidas")
			}
		}
	}
}
