package commit_schedule

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// Request модель запроса на фиксацию запланированного расписания
type Request struct {
	ClientID      int64            // ID клиента (инициатор фиксации)
	TrainerID     int64            // ID тренера
	ApplicationID int64            // ID заявки, по которой шло планирование
	Sessions      []PlannedSession // Осуществимые сессии из пробного планирования
}

// PlannedSession одна фиксируемая сессия
type PlannedSession struct {
	Date  time.Time       // Дата сессии (без времени)
	Start domain.TimeCode // Код времени начала (HHMM)
	End   domain.TimeCode // Код времени конца (HHMM)
}

// Response результат фиксации: какие сессии записаны, какие пропущены.
// Частичный успех ожидаем - каждая сессия фиксируется в своей транзакции,
// и конкурирующая бронь может успеть занять интервал после пробного плана
type Response struct {
	ApplicationID int64            // ID заявки
	Confirmed     bool             // Переведена ли заявка в confirmed
	Created       []CreatedSession // Записанные сессии
	Skipped       []SkippedSession // Пропущенные сессии с причинами
}

// CreatedSession записанная сессия
type CreatedSession struct {
	ID    int64           // ID сессии
	Date  time.Time       // Дата сессии
	Start domain.TimeCode // Код времени начала
	End   domain.TimeCode // Код времени конца
}

// SkippedSession пропущенная сессия
type SkippedSession struct {
	Date   time.Time       // Дата сессии
	Start  domain.TimeCode // Код времени начала
	End    domain.TimeCode // Код времени конца
	Reason SkipReason      // Причина пропуска
}

// SkipReason причина, по которой сессия не была записана
type SkipReason string

const (
	// SkipTrainerBusy интервал успел занять тренер
	SkipTrainerBusy SkipReason = "trainer_busy"
	// SkipClientBusy интервал успел занять клиент
	SkipClientBusy SkipReason = "client_busy"
	// SkipConcurrentUpdate транзакция не прошла после повторов
	SkipConcurrentUpdate SkipReason = "concurrent_update"
)
