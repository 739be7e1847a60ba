package create_change_request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PT-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PT-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PT-SchedulingService/internal/service/requests"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgSessionNotFound  = "сессия не найдена"
	msgNotParty         = "перенос может запросить только участник сессии"
	msgSessionChanged   = "сессия уже была перенесена, обновите данные"
	msgSessionInPast    = "сессия уже началась"
	msgTooLate          = "клиент может запросить перенос не позднее чем за 24 часа"
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

// Handle POST /api/v1/sessions/{sessionId}/change-requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	sessionID, err := strconv.ParseInt(vars["sessionId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/change-requests - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions/{id}/change-requests - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body CreateChangeRequestBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /sessions/{id}/change-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	serviceReq, err := ToServiceRequest(sessionID, userID, &body)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/change-requests - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/change-requests - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, requests.ErrNotSessionParty):
			h.logger.Warn("POST /sessions/{id}/change-requests - Not a session party: session_id=%d, user_id=%d",
				sessionID, userID)
			handlers.RespondForbidden(w, msgNotParty)

		case errors.Is(err, requests.ErrSessionChanged):
			h.logger.Warn("POST /sessions/{id}/change-requests - Session changed: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgSessionChanged)

		case errors.Is(err, requests.ErrSessionInPast):
			h.logger.Warn("POST /sessions/{id}/change-requests - Session in past: session_id=%d", sessionID)
			handlers.RespondUnprocessable(w, msgSessionInPast)

		case errors.Is(err, requests.ErrTooLateToReschedule):
			h.logger.Warn("POST /sessions/{id}/change-requests - Too late to reschedule: session_id=%d", sessionID)
			handlers.RespondUnprocessable(w, msgTooLate)

		case errors.Is(err, requests.ErrIntervalBusy):
			h.logger.Warn("POST /sessions/{id}/change-requests - Interval busy: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgIntervalBusy)

		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("POST /sessions/{id}/change-requests - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /sessions/{id}/change-requests - Failed to create request: session_id=%d, error=%v",
				sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/change-requests - Request created: request_id=%d, session_id=%d",
		result.ID, sessionID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
