package commit_schedule

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	commitSchedule "github.com/m04kA/PT-SchedulingService/internal/usecase/commit_schedule"
)

// CommitRequest HTTP request model
type CommitRequest struct {
	TrainerID     int64            `json:"trainerId"`
	ApplicationID int64            `json:"applicationId"`
	Sessions      []PlannedSession `json:"sessions"`
}

// PlannedSession одна фиксируемая сессия
type PlannedSession struct {
	Date  string `json:"date"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// CommitResponse HTTP response model
type CommitResponse struct {
	ApplicationID int64            `json:"applicationId"`
	Confirmed     bool             `json:"confirmed"`
	Created       []CreatedSession `json:"created"`
	Skipped       []SkippedSession `json:"skipped"`
}

// CreatedSession записанная сессия
type CreatedSession struct {
	ID    int64  `json:"id"`
	Date  string `json:"date"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SkippedSession пропущенная сессия
type SkippedSession struct {
	Date   string `json:"date"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Reason string `json:"reason"`
}

// ToUseCaseRequest создает запрос use case из HTTP модели
func ToUseCaseRequest(clientID int64, req *CommitRequest) (*commitSchedule.Request, error) {
	sessions := make([]commitSchedule.PlannedSession, 0, len(req.Sessions))
	for _, s := range req.Sessions {
		date, err := time.Parse(domain.DateFormat, s.Date)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, commitSchedule.PlannedSession{
			Date:  date,
			Start: domain.TimeCode(s.Start),
			End:   domain.TimeCode(s.End),
		})
	}

	return &commitSchedule.Request{
		ClientID:      clientID,
		TrainerID:     req.TrainerID,
		ApplicationID: req.ApplicationID,
		Sessions:      sessions,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *commitSchedule.Response) *CommitResponse {
	created := make([]CreatedSession, len(resp.Created))
	for i, s := range resp.Created {
		created[i] = CreatedSession{
			ID:    s.ID,
			Date:  s.Date.Format(domain.DateFormat),
			Start: int(s.Start),
			End:   int(s.End),
		}
	}
	skipped := make([]SkippedSession, len(resp.Skipped))
	for i, s := range resp.Skipped {
		skipped[i] = SkippedSession{
			Date:   s.Date.Format(domain.DateFormat),
			Start:  int(s.Start),
			End:    int(s.End),
			Reason: string(s.Reason),
		}
	}

	return &CommitResponse{
		ApplicationID: resp.ApplicationID,
		Confirmed:     resp.Confirmed,
		Created:       created,
		Skipped:       skipped,
	}
}
