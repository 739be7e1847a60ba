package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PT-SchedulingService/internal/api/handlers"
	resolveAvailability "github.com/m04kA/PT-SchedulingService/internal/usecase/resolve_availability"
)

const (
	msgInvalidTrainerID = "некорректный ID тренера"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration  = "некорректная длительность сессии"
	msgTrainerNotFound  = "тренер не найден"
	msgTrainerInactive  = "тренер не принимает записи"
	msgDurationTooLong  = "сессия такой длительности не помещается в рабочий день"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/trainers/{trainerId}/available-slots
// Query params: date (required, YYYY-MM-DD), duration (required, минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	trainerID, err := strconv.ParseInt(vars["trainerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/available-slots - Invalid trainer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainerID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /trainers/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	duration, err := strconv.Atoi(r.URL.Query().Get("duration"))
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/available-slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	useCaseReq, err := ToUseCaseRequest(0, trainerID, dateStr, duration)
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, resolveAvailability.ErrTrainerNotFound):
			h.logger.Warn("GET /trainers/{id}/available-slots - Trainer not found: trainer_id=%d", trainerID)
			handlers.RespondNotFound(w, msgTrainerNotFound)

		case errors.Is(err, resolveAvailability.ErrTrainerInactive):
			h.logger.Warn("GET /trainers/{id}/available-slots - Trainer inactive: trainer_id=%d", trainerID)
			handlers.RespondBadRequest(w, msgTrainerInactive)

		case errors.Is(err, resolveAvailability.ErrDurationTooLong):
			h.logger.Warn("GET /trainers/{id}/available-slots - Duration too long: trainer_id=%d, duration=%d",
				trainerID, duration)
			handlers.RespondUnprocessable(w, msgDurationTooLong)

		case errors.Is(err, resolveAvailability.ErrInvalidDuration),
			errors.Is(err, resolveAvailability.ErrInvalidDate),
			errors.Is(err, resolveAvailability.ErrInvalidInput):
			h.logger.Warn("GET /trainers/{id}/available-slots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /trainers/{id}/available-slots - Failed to resolve availability: trainer_id=%d, error=%v",
				trainerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /trainers/{id}/available-slots - Slots retrieved successfully: trainer_id=%d, date=%s, slots_count=%d",
		trainerID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
