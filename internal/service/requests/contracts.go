package requests

import (
	"context"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// RequestRepository интерфейс репозитория запросов на перенос
type RequestRepository interface {
	Create(ctx context.Context, req *domain.ScheduleChangeRequest) (*domain.ScheduleChangeRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleChangeRequest, error)
	GetPendingBySession(ctx context.Context, sessionID int64) (*domain.ScheduleChangeRequest, error)
	ListBySession(ctx context.Context, sessionID int64) ([]*domain.ScheduleChangeRequest, error)
	MarkResponded(ctx context.Context, id int64, state domain.RequestState, responderID int64, message string) (time.Time, error)
	MarkCancelled(ctx context.Context, id int64, note string) error
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SessionRecord, error)
	GetByTrainerOn(ctx context.Context, trainerID int64, date time.Time) ([]*domain.SessionRecord, error)
	GetByClientOn(ctx context.Context, clientID int64, date time.Time) ([]*domain.SessionRecord, error)
	FindOrCreateSlot(ctx context.Context, date time.Time, start, end domain.TimeCode) (int64, error)
	Repoint(ctx context.Context, sessionID, slotID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
