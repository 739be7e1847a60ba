package plan_preschedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/PT-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PT-SchedulingService/internal/api/middleware"
	planPreschedule "github.com/m04kA/PT-SchedulingService/internal/usecase/plan_preschedule"
)

const (
	msgInvalidBody          = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgTrainerNotFound      = "тренер не найден"
	msgClientNotFound       = "клиент не найден"
	msgNoPendingApplication = "нет ожидающей заявки на пакет тренировок"
	msgUnsatisfiable        = "регулярное расписание не удается построить"
)

type Handler struct {
	useCase PlanPrescheduleUseCase
	logger  Logger
}

func NewHandler(useCase PlanPrescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/preschedule/plan
// Пробное планирование: ничего не пишет и не блокирует, можно повторять
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /preschedule/plan - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PlanRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /preschedule/plan - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	useCaseReq, err := ToUseCaseRequest(userID, &req)
	if err != nil {
		h.logger.Warn("POST /preschedule/plan - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, planPreschedule.ErrTrainerNotFound):
			h.logger.Warn("POST /preschedule/plan - Trainer not found: trainer_id=%d", req.TrainerID)
			handlers.RespondNotFound(w, msgTrainerNotFound)

		case errors.Is(err, planPreschedule.ErrClientNotFound):
			h.logger.Warn("POST /preschedule/plan - Client not found: client_id=%d", userID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, planPreschedule.ErrNoPendingApplication):
			h.logger.Warn("POST /preschedule/plan - No pending application: client_id=%d, trainer_id=%d",
				userID, req.TrainerID)
			handlers.RespondUnprocessable(w, msgNoPendingApplication)

		case errors.Is(err, planPreschedule.ErrTooFewAdHocSessions),
			errors.Is(err, planPreschedule.ErrTooManySessions),
			errors.Is(err, planPreschedule.ErrAnchorCountMismatch),
			errors.Is(err, planPreschedule.ErrAnchorsOutsideWindow):
			h.logger.Warn("POST /preschedule/plan - Precondition failed: %v", err)
			handlers.RespondUnprocessable(w, err.Error())

		case errors.Is(err, planPreschedule.ErrScheduleUnsatisfiable):
			h.logger.Warn("POST /preschedule/plan - Schedule unsatisfiable: client_id=%d, trainer_id=%d",
				userID, req.TrainerID)
			handlers.RespondUnprocessable(w, msgUnsatisfiable)

		case errors.Is(err, planPreschedule.ErrInvalidDuration),
			errors.Is(err, planPreschedule.ErrInvalidInput):
			h.logger.Warn("POST /preschedule/plan - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /preschedule/plan - Failed to plan: client_id=%d, trainer_id=%d, error=%v",
				userID, req.TrainerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /preschedule/plan - Plan built: client_id=%d, trainer_id=%d, possible=%d, impossible=%d",
		userID, req.TrainerID, len(result.Possible), len(result.Impossible))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
