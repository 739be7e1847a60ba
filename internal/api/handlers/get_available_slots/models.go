package get_available_slots

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	resolveAvailability "github.com/m04kA/PT-SchedulingService/internal/usecase/resolve_availability"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TrainerID       int64           `json:"trainerId"`
	Date            string          `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot свободный интервал; времена передаются кодами HHMM
type AvailableSlot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Start: int(slot.Start),
			End:   int(slot.End),
		}
	}

	return &AvailableSlotsResponse{
		TrainerID:       resp.TrainerID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(userID, trainerID int64, dateStr string, duration int) (*resolveAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &resolveAvailability.Request{
		UserID:          userID,
		TrainerID:       trainerID,
		Date:            date,
		DurationMinutes: duration,
	}, nil
}
