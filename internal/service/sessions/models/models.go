package models

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// ListSessionsRequest запрос на получение сессий стороны за период
type ListSessionsRequest struct {
	UserID int64     `json:"userId"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// SessionResponse сессия в ответе API.
// Времена передаются целочисленными кодами HHMM
type SessionResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	StartTime int       `json:"startTime"`
	EndTime   int       `json:"endTime"`
	TrainerID int64     `json:"trainerId"`
	ClientID  int64     `json:"clientId"`
	PackageID int64     `json:"packageId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionListResponse список сессий
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// FromDomainSession конвертирует domain сессию в модель ответа
func FromDomainSession(s *domain.SessionRecord) *SessionResponse {
	return &SessionResponse{
		ID:        s.ID,
		Date:      s.Date.Format(domain.DateFormat),
		StartTime: int(s.StartTime),
		EndTime:   int(s.EndTime),
		TrainerID: s.TrainerID,
		ClientID:  s.ClientID,
		PackageID: s.PackageID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromDomainSessionList конвертирует список domain сессий
func FromDomainSessionList(sessions []*domain.SessionRecord) *SessionListResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *FromDomainSession(s))
	}
	return &SessionListResponse{Sessions: out}
}
