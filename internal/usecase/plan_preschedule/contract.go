package plan_preschedule

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
}

// WorkHoursRepository интерфейс репозитория рабочих часов
type WorkHoursRepository interface {
	// GetWindow получает рабочее окно владельца на день недели
	GetWindow(ctx context.Context, ownerID int64, weekday time.Weekday) (domain.HoursWindow, error)
	// GetTrainerWindow получает рабочее окно тренера с наследованием от зала
	GetTrainerWindow(ctx context.Context, trainerID, facilityID int64, weekday time.Weekday) (domain.HoursWindow, error)
}

// OffPeriodRepository интерфейс репозитория перерывов
type OffPeriodRepository interface {
	// GetActiveOn получает перерывы владельца, действующие на дату
	GetActiveOn(ctx context.Context, ownerID int64, date time.Time) ([]domain.OffPeriod, error)
	// GetByOwnerBetween получает перерывы владельца, пересекающие диапазон дат
	GetByOwnerBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.OffPeriod, error)
}

// ApplicationRepository интерфейс репозитория заявок на пакеты
type ApplicationRepository interface {
	// GetPendingByClient получает ожидающую заявку клиента к тренеру
	GetPendingByClient(ctx context.Context, clientID, trainerID int64) (*domain.PackageApplication, error)
}

// MemberServiceClient интерфейс клиента для MemberService
type MemberServiceClient interface {
	GetTrainer(ctx context.Context, trainerID int64) (*memberservice.Trainer, error)
	GetClient(ctx context.Context, clientID int64) (*memberservice.ClientProfile, error)
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
