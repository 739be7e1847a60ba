package plan_preschedule

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	planPreschedule "github.com/m04kA/PT-SchedulingService/internal/usecase/plan_preschedule"
)

// PlanRequest HTTP request model
type PlanRequest struct {
	TrainerID       int64             `json:"trainerId"`
	DurationMinutes int               `json:"durationMinutes"`
	Sessions        []ProposedSession `json:"sessions"`
}

// ProposedSession одна предлагаемая сессия
type ProposedSession struct {
	Date  string `json:"date"`
	Start int    `json:"start"`
}

// PlanResponse HTTP response model: разбиение предложенного расписания
type PlanResponse struct {
	ApplicationID int64             `json:"applicationId"`
	Possible      []PlannedSession  `json:"possible"`
	Impossible    []RejectedSession `json:"impossible"`
}

// PlannedSession осуществимая сессия
type PlannedSession struct {
	Date  string `json:"date"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// RejectedSession неосуществимая сессия с причиной
type RejectedSession struct {
	Date   string `json:"date"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Reason string `json:"reason"`
}

// ToUseCaseRequest создает запрос use case из HTTP модели
func ToUseCaseRequest(clientID int64, req *PlanRequest) (*planPreschedule.Request, error) {
	proposed := make([]planPreschedule.ProposedSession, 0, len(req.Sessions))
	for _, s := range req.Sessions {
		date, err := time.Parse(domain.DateFormat, s.Date)
		if err != nil {
			return nil, err
		}
		proposed = append(proposed, planPreschedule.ProposedSession{
			Date:  date,
			Start: domain.TimeCode(s.Start),
		})
	}

	return &planPreschedule.Request{
		ClientID:        clientID,
		TrainerID:       req.TrainerID,
		DurationMinutes: req.DurationMinutes,
		Proposed:        proposed,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *planPreschedule.Response) *PlanResponse {
	possible := make([]PlannedSession, len(resp.Possible))
	for i, s := range resp.Possible {
		possible[i] = PlannedSession{
			Date:  s.Date.Format(domain.DateFormat),
			Start: int(s.Start),
			End:   int(s.End),
		}
	}
	impossible := make([]RejectedSession, len(resp.Impossible))
	for i, s := range resp.Impossible {
		impossible[i] = RejectedSession{
			Date:   s.Date.Format(domain.DateFormat),
			Start:  int(s.Start),
			End:    int(s.End),
			Reason: string(s.Reason),
		}
	}

	return &PlanResponse{
		ApplicationID: resp.ApplicationID,
		Possible:      possible,
		Impossible:    impossible,
	}
}
