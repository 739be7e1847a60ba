package get_client_sessions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PT-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PT-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PT-SchedulingService/internal/domain"
	"github.com/m04kA/PT-SchedulingService/internal/service/sessions"
	"github.com/m04kA/PT-SchedulingService/internal/service/sessions/models"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgInvalidPeriod   = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/{clientId}/sessions
// Query params: from, to (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clientID, err := strconv.ParseInt(vars["clientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clients/{id}/sessions - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /clients/{id}/sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /clients/{id}/sessions - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /clients/{id}/sessions - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.GetClientSessions(r.Context(), clientID, &models.ListSessionsRequest{
		UserID: userID,
		From:   from,
		To:     to,
	})
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrAccessDenied):
			h.logger.Warn("GET /clients/{id}/sessions - Access denied: client_id=%d, user_id=%d",
				clientID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("GET /clients/{id}/sessions - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /clients/{id}/sessions - Failed to get sessions: client_id=%d, error=%v",
				clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clients/{id}/sessions - Sessions retrieved: client_id=%d, count=%d",
		clientID, len(result.Sessions))
	handlers.RespondJSON(w, http.StatusOK, result)
}
