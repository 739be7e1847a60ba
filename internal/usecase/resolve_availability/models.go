package resolve_availability

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// Request модель запроса на получение свободных интервалов тренера
type Request struct {
	UserID          int64     // ID пользователя (для логирования, не влияет на результат)
	TrainerID       int64     // ID тренера
	Date            time.Time // Дата для получения интервалов (без времени)
	DurationMinutes int       // Длительность сессии в минутах (кратна 30)
}

// Response модель ответа со списком свободных интервалов
type Response struct {
	TrainerID       int64     // ID тренера
	Date            time.Time // Дата, на которую запрашивались интервалы
	DurationMinutes int       // Длительность сессии
	Slots           []Slot    // Список свободных интервалов
}

// Slot свободный интервал [Start, End)
type Slot struct {
	Start domain.TimeCode // Код времени начала (HHMM)
	End   domain.TimeCode // Код времени конца (HHMM)
}
