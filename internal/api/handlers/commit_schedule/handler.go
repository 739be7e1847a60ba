package commit_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/PT-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PT-SchedulingService/internal/api/middleware"
	commitSchedule "github.com/m04kA/PT-SchedulingService/internal/usecase/commit_schedule"
)

const (
	msgInvalidBody           = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgTrainerNotFound       = "тренер не найден"
	msgApplicationNotFound   = "заявка не найдена"
	msgApplicationNotPending = "заявка уже подтверждена"
	msgApplicationMismatch   = "заявка принадлежит другой паре клиент-тренер"
	msgTooManySessions       = "предложено больше сессий, чем вмещает пакет"
)

type Handler struct {
	useCase CommitScheduleUseCase
	logger  Logger
}

func NewHandler(useCase CommitScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/preschedule/commit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /preschedule/commit - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CommitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /preschedule/commit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	useCaseReq, err := ToUseCaseRequest(userID, &req)
	if err != nil {
		h.logger.Warn("POST /preschedule/commit - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, commitSchedule.ErrTrainerNotFound):
			h.logger.Warn("POST /preschedule/commit - Trainer not found: trainer_id=%d", req.TrainerID)
			handlers.RespondNotFound(w, msgTrainerNotFound)

		case errors.Is(err, commitSchedule.ErrApplicationNotFound):
			h.logger.Warn("POST /preschedule/commit - Application not found: application_id=%d", req.ApplicationID)
			handlers.RespondNotFound(w, msgApplicationNotFound)

		case errors.Is(err, commitSchedule.ErrApplicationNotPending):
			h.logger.Warn("POST /preschedule/commit - Application not pending: application_id=%d", req.ApplicationID)
			handlers.RespondConflict(w, msgApplicationNotPending)

		case errors.Is(err, commitSchedule.ErrApplicationMismatch):
			h.logger.Warn("POST /preschedule/commit - Application mismatch: application_id=%d, user_id=%d",
				req.ApplicationID, userID)
			handlers.RespondForbidden(w, msgApplicationMismatch)

		case errors.Is(err, commitSchedule.ErrTooManySessions):
			h.logger.Warn("POST /preschedule/commit - Too many sessions: application_id=%d", req.ApplicationID)
			handlers.RespondUnprocessable(w, msgTooManySessions)

		case errors.Is(err, commitSchedule.ErrInvalidInput):
			h.logger.Warn("POST /preschedule/commit - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /preschedule/commit - Failed to commit: application_id=%d, error=%v",
				req.ApplicationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /preschedule/commit - Schedule committed: application_id=%d, created=%d, skipped=%d",
		result.ApplicationID, len(result.Created), len(result.Skipped))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
