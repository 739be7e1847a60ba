package commit_schedule

import (
	"context"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	"github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	// GetByTrainerOn получает все сессии тренера на конкретную дату
	GetByTrainerOn(ctx context.Context, trainerID int64, date time.Time) ([]*domain.SessionRecord, error)
	// GetByClientOn получает все сессии клиента на конкретную дату
	GetByClientOn(ctx context.Context, clientID int64, date time.Time) ([]*domain.SessionRecord, error)
	// FindOrCreateSlot находит или создает общую запись интервала
	FindOrCreateSlot(ctx context.Context, date time.Time, start, end domain.TimeCode) (int64, error)
	// Create создает сессию, привязанную к записи интервала
	Create(ctx context.Context, s *domain.SessionRecord) (*domain.SessionRecord, error)
}

// ApplicationRepository интерфейс репозитория заявок на пакеты
type ApplicationRepository interface {
	// GetByID получает заявку по ID
	GetByID(ctx context.Context, id int64) (*domain.PackageApplication, error)
	// MarkConfirmed переводит ожидающую заявку в состояние confirmed
	MarkConfirmed(ctx context.Context, id int64) error
}

// MemberServiceClient интерфейс клиента для MemberService
type MemberServiceClient interface {
	GetTrainer(ctx context.Context, trainerID int64) (*memberservice.Trainer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
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
