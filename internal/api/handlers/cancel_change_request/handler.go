package cancel_change_request

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
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "запрос на перенос не найден"
	msgNotRequestor     = "отменить может только инициатор запроса"
	msgNotPending       = "запрос уже обработан"
	msgExpired          = "срок ответа на запрос истек"
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

// Handle POST /api/v1/change-requests/{requestId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	requestID, err := strconv.ParseInt(vars["requestId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /change-requests/{id}/cancel - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /change-requests/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Cancel(r.Context(), requestID, &models.CancelRequest{
		RequestorID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrRequestNotFound):
			h.logger.Warn("POST /change-requests/{id}/cancel - Not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requests.ErrNotRequestor):
			h.logger.Warn("POST /change-requests/{id}/cancel - Not requestor: request_id=%d, user_id=%d",
				requestID, userID)
			handlers.RespondForbidden(w, msgNotRequestor)

		case errors.Is(err, requests.ErrRequestNotPending):
			h.logger.Warn("POST /change-requests/{id}/cancel - Not pending: request_id=%d", requestID)
			handlers.RespondConflict(w, msgNotPending)

		case errors.Is(err, requests.ErrRequestExpired):
			h.logger.Warn("POST /change-requests/{id}/cancel - Expired: request_id=%d", requestID)
			handlers.RespondGone(w, msgExpired)

		default:
			h.logger.Error("POST /change-requests/{id}/cancel - Failed to cancel: request_id=%d, error=%v",
				requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /change-requests/{id}/cancel - Request cancelled: request_id=%d", requestID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
