package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/rso-backend/internal/logger"
)

// Logger интерфейс для логирования ошибок. Ему удовлетворяет *logrus.Logger.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// Recover вызывается через defer и журналирует panic со стеком.
func (rh *RecoveryHandler) Recover(where string) {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic em %s: %v\nStack trace:\n%s", where, r, debug.Stack())
	}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(where string, fn func()) {
	go func() {
		defer rh.Recover(where)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, where string, fn func(context.Context)) {
	go func() {
		defer rh.Recover(where)
		fn(ctx)
	}()
}

type globalLogger struct{}

func (globalLogger) Errorf(format string, args ...interface{}) {
	logger.Log.Errorf(format, args...)
}

// DefaultRecoveryHandler пишет в глобальный logger.Log, даже если его пересоздали через Init.
var DefaultRecoveryHandler = NewRecoveryHandler(globalLogger{})

// SafeGo запускает безопасную горутину с обработчиком по умолчанию.
func SafeGo(where string, fn func()) {
	DefaultRecoveryHandler.SafeGo(where, fn)
}

// SafeGoWithContext то же, что SafeGo, но с контекстом.
func SafeGoWithContext(ctx context.Context, where string, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, where, fn)
}
