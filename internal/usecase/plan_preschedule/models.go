package plan_preschedule

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// Request модель запроса на пробное планирование пакета тренировок.
// Для регулярного паттерна Proposed содержит якорные сессии первой недели,
// для разовых - явно выбранные клиентом даты.
type Request struct {
	ClientID        int64             // ID клиента (инициатор планирования)
	TrainerID       int64             // ID тренера
	DurationMinutes int               // Длительность сессии в минутах (кратна 30)
	Proposed        []ProposedSession // Предлагаемые сессии
}

// ProposedSession одна предлагаемая сессия
type ProposedSession struct {
	Date  time.Time       // Дата сессии (без времени)
	Start domain.TimeCode // Код времени начала (HHMM)
}

// Response результат пробного планирования: полное разбиение предложенного
// расписания на осуществимые и неосуществимые сессии, без записи в хранилище
type Response struct {
	ApplicationID int64             // ID заявки, против которой шло планирование
	Possible      []PlannedSession  // Сессии, которые можно зафиксировать
	Impossible    []RejectedSession // Сессии, которые зафиксировать нельзя
}

// PlannedSession осуществимая сессия
type PlannedSession struct {
	Date  time.Time       // Дата сессии
	Start domain.TimeCode // Код времени начала
	End   domain.TimeCode // Код времени конца
}

// RejectedSession неосуществимая сессия с причиной
type RejectedSession struct {
	Date   time.Time       // Дата сессии
	Start  domain.TimeCode // Код времени начала
	End    domain.TimeCode // Код времени конца
	Reason RejectReason    // Причина отказа
}

// RejectReason причина, по которой сессия неосуществима
type RejectReason string

const (
	// ReasonOutsideWorkingHours сессия не помещается в рабочие окна дня
	ReasonOutsideWorkingHours RejectReason = "outside_working_hours"
	// ReasonTrainerBusy интервал занят другой сессией тренера
	ReasonTrainerBusy RejectReason = "trainer_busy"
	// ReasonClientBusy интервал занят другой сессией клиента
	ReasonClientBusy RejectReason = "client_busy"
)
