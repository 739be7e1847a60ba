package resolve_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainer id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinSessionDurationMinutes ||
		req.DurationMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidDuration, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}
	if req.DurationMinutes%domain.SlotMinutes != 0 {
		return fmt.Errorf("%w: duration must be a multiple of %d minutes",
			ErrInvalidDuration, domain.SlotMinutes)
	}
	return nil
}

func validateDate(date, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}
	return nil
}
