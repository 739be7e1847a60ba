package sessions

import (
	"context"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SessionRecord, error)
	ListByTrainerBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*domain.SessionRecord, error)
	ListByClientBetween(ctx context.Context, clientID int64, from, to time.Time) ([]*domain.SessionRecord, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
