package models

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// CreateRequest запрос на создание переноса сессии.
// Expected-поля фиксируют интервал, который инициатор видел перед отправкой:
// если сессию успели перенести, создание отклоняется вместо переноса не туда
type CreateRequest struct {
	SessionID      int64     `json:"sessionId"`
	RequestorID    int64     `json:"requestorId"`
	RequestedDate  time.Time `json:"requestedDate"`
	RequestedStart int       `json:"requestedStart"`
	RequestedEnd   int       `json:"requestedEnd"`
	Reason         string    `json:"reason"`
	ExpectedDate   time.Time `json:"expectedDate"`
	ExpectedStart  int       `json:"expectedStart"`
}

// RespondRequest ответ на запрос переноса (подтверждение или отклонение)
type RespondRequest struct {
	ResponderID int64  `json:"responderId"`
	Message     string `json:"message"`
}

// CancelRequest отмена запроса переноса инициатором
type CancelRequest struct {
	RequestorID int64 `json:"requestorId"`
}

// RequestResponse запрос на перенос в ответе API.
// State отражает эффективное состояние: ожидающий запрос с истекшим
// сроком ответа отдается как expired
type RequestResponse struct {
	ID              int64      `json:"id"`
	SessionID       int64      `json:"sessionId"`
	RequestorID     int64      `json:"requestorId"`
	RequestedDate   string     `json:"requestedDate"`
	RequestedStart  int        `json:"requestedStart"`
	RequestedEnd    int        `json:"requestedEnd"`
	Reason          string     `json:"reason"`
	State           string     `json:"state"`
	ResponderID     *int64     `json:"responderId,omitempty"`
	ResponseMessage *string    `json:"responseMessage,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	RespondedAt     *time.Time `json:"respondedAt,omitempty"`
}

// RequestListResponse список запросов на перенос
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
}

// FromDomainRequest конвертирует domain запрос в модель ответа
func FromDomainRequest(r *domain.ScheduleChangeRequest, now time.Time) *RequestResponse {
	return &RequestResponse{
		ID:              r.ID,
		SessionID:       r.SessionID,
		RequestorID:     r.RequestorID,
		RequestedDate:   r.RequestedDate.Format(domain.DateFormat),
		RequestedStart:  int(r.RequestedStart),
		RequestedEnd:    int(r.RequestedEnd),
		Reason:          r.Reason,
		State:           string(r.EffectiveState(now)),
		ResponderID:     r.ResponderID,
		ResponseMessage: r.ResponseMessage,
		CreatedAt:       r.CreatedAt,
		ExpiresAt:       r.ExpiresAt,
		RespondedAt:     r.RespondedAt,
	}
}

// FromDomainRequestList конвертирует список domain запросов
func FromDomainRequestList(requests []*domain.ScheduleChangeRequest, now time.Time) *RequestListResponse {
	out := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, *FromDomainRequest(r, now))
	}
	return &RequestListResponse{Requests: out}
}
