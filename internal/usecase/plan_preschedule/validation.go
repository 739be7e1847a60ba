package plan_preschedule

import (
	"fmt"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

func validateRequest(req *Request, now time.Time) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: client id must be positive", ErrInvalidInput)
	}
	if req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainer id must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinSessionDurationMinutes ||
		req.DurationMinutes > domain.MaxSessionDurationMinutes ||
		req.DurationMinutes%domain.SlotMinutes != 0 {
		return fmt.Errorf("%w: duration must be a multiple of %d minutes between %d and %d",
			ErrInvalidDuration, domain.SlotMinutes,
			domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}
	if len(req.Proposed) == 0 {
		return fmt.Errorf("%w: at least one session must be proposed", ErrInvalidInput)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i, p := range req.Proposed {
		if p.Date.IsZero() {
			return fmt.Errorf("%w: proposed session %d has no date", ErrInvalidInput, i)
		}
		if p.Date.Before(today) {
			return fmt.Errorf("%w: proposed session %d is in the past", ErrInvalidInput, i)
		}
		if err := p.Start.Validate(); err != nil {
			return fmt.Errorf("%w: proposed session %d: %v", ErrInvalidInput, i, err)
		}
		end := p.Start.AddMinutes(req.DurationMinutes)
		if end > domain.DayEnd {
			return fmt.Errorf("%w: proposed session %d runs past midnight", ErrInvalidInput, i)
		}
	}
	return nil
}

// validatePattern проверяет предложенные сессии против паттерна заявки
func validatePattern(app *domain.PackageApplication, proposed []ProposedSession) error {
	if app.Pattern.Regular {
		if len(proposed) != app.Pattern.Count {
			return fmt.Errorf("%w: expected %d anchors, got %d",
				ErrAnchorCountMismatch, app.Pattern.Count, len(proposed))
		}
		return validateAnchorWindow(proposed)
	}

	if len(proposed) < domain.MinAdHocSessions {
		return fmt.Errorf("%w: at least %d sessions are required",
			ErrTooFewAdHocSessions, domain.MinAdHocSessions)
	}
	if len(proposed) > app.TotalSessions {
		return fmt.Errorf("%w: package holds %d sessions",
			ErrTooManySessions, app.TotalSessions)
	}
	return nil
}

// validateAnchorWindow проверяет, что все якорные сессии регулярного паттерна
// лежат в пределах одной недели от самой ранней из них
func validateAnchorWindow(proposed []ProposedSession) error {
	earliest := proposed[0].Date
	for _, p := range proposed[1:] {
		if p.Date.Before(earliest) {
			earliest = p.Date
		}
	}
	limit := earliest.AddDate(0, 0, domain.AnchorWindowDays)
	for _, p := range proposed {
		if !p.Date.Before(limit) {
			return fmt.Errorf("%w: %s is more than %d days after %s",
				ErrAnchorsOutsideWindow,
				p.Date.Format(domain.DateFormat), domain.AnchorWindowDays,
				earliest.Format(domain.DateFormat))
		}
	}
	return nil
}
