package approve_change_request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PT-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PT-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PT-SchedulingService/internal/service/requests"
	"github.com/m04kA/PT-SchedulingService/internal/service/requests/models"
)

const (
	msgInvalidRequestID = "некорректный ID запроса"
	msgInvalidBody      = "некорректное тело запроса"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "запрос на перенос не найден"
	msgNotCounterparty  = "подтвердить может только вторая сторона сессии"
	msgNotPending       = "запрос уже обработан"
	msgExpired          = "срок ответа на запрос истек, создайте новый"
	msgIntervalBusy     = "запрошенный интервал уже занят"
)

type Handler struct {
	service RequestService
	logger  Logger
}

func NewHandler(service RequestService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RequestBody тело запроса на подтверждение
type RequestBody struct {
	Message string `json:"message"`
}

// Handle POST /api/v1/change-requests/{requestId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	requestID, err := strconv.ParseInt(vars["requestId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /change-requests/{id}/approve - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /change-requests/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body RequestBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /change-requests/{id}/approve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Approve(r.Context(), requestID, &models.RespondRequest{
		ResponderID: userID,
		Message:     body.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrRequestNotFound), errors.Is(err, requests.ErrSessionNotFound):
			h.logger.Warn("POST /change-requests/{id}/approve - Not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrNotCounterparty):
			h.logger.Warn("POST /change-requests/{id}/approve - Not counterparty: request_id=%d, user_id=%d",
				requestID, userID)
			handlers.RespondForbidden(w, msgNotCounterparty)

		case errors.Is(err, requests.ErrRequestNotPending):
			h.logger.Warn("POST /change-requests/{id}/approve - Not pending: request_id=%d", requestID)
			handlers.RespondConflict(w, msgNotPending)

		case errors.Is(err, requests.ErrRequestExpired):
			h.logger.Warn("POST /change-requests/{id}/approve - Expired: request_id=%d", requestID)
			handlers.RespondGone(w, msgExpired)

		case errors.Is(err, requests.ErrIntervalBusy):
			h.logger.Warn("POST /change-requests/{id}/approve - Interval busy: request_id=%d", requestID)
			handlers.RespondConflict(w, msgIntervalBusy)

		default:
			h.logger.Error("POST /change-requests/{id}/approve - Failed to approve: request_id=%d, error=%v",
				requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /change-requests/{id}/approve - Request approved: request_id=%d, session_id=%d",
		requestID, result.SessionID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
