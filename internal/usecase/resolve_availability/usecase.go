package resolve_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	workhoursRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/workhours"
	memberClient "github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
)

// UseCase use case для получения свободных интервалов тренера на дату
type UseCase struct {
	sessionRepo   SessionRepository
	workHoursRepo WorkHoursRepository
	offPeriodRepo OffPeriodRepository
	memberClient  MemberServiceClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	workHoursRepo WorkHoursRepository,
	offPeriodRepo OffPeriodRepository,
	memberClient MemberServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:   sessionRepo,
		workHoursRepo: workHoursRepo,
		offPeriodRepo: offPeriodRepo,
		memberClient:  memberClient,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения свободных интервалов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveAvailability: user=%d, trainer=%d, date=%s, duration=%d",
		req.UserID, req.TrainerID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем дату относительно текущего времени
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("ResolveAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем тренера
	trainer, err := uc.memberClient.GetTrainer(ctx, req.TrainerID)
	if err != nil {
		if errors.Is(err, memberClient.ErrTrainerNotFound) {
			uc.logger.Warn("ResolveAvailability: trainer id=%d not found", req.TrainerID)
			return nil, ErrTrainerNotFound
		}
		uc.logger.Error("ResolveAvailability: failed to get trainer id=%d: %v", req.TrainerID, err)
		return nil, fmt.Errorf("%w: failed to get trainer: %v", ErrInternal, err)
	}
	if !trainer.IsActive {
		uc.logger.Warn("ResolveAvailability: trainer id=%d is inactive", req.TrainerID)
		return nil, ErrTrainerInactive
	}

	// 4. Эффективное рабочее окно = окно тренера ∩ окно зала
	effective, err := uc.effectiveWindow(ctx, trainer, req.Date)
	if err != nil {
		return nil, err
	}
	if !effective.IsOpen() {
		uc.logger.Info("ResolveAvailability: trainer=%d has no working window on %s",
			req.TrainerID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 5. Вычитаем перерывы тренера и зала
	offs, err := uc.activeOffPeriods(ctx, trainer, req.Date)
	if err != nil {
		return nil, err
	}
	windows := freeWindows(effective, offs)
	if len(windows) == 0 {
		uc.logger.Info("ResolveAvailability: whole day blocked by off periods for trainer=%d on %s",
			req.TrainerID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 6. Рабочие окна есть, но сессия такой длины не помещается ни в одно
	if !fitsAnywhere(windows, req.DurationMinutes) {
		uc.logger.Warn("ResolveAvailability: duration=%d does not fit any window for trainer=%d on %s",
			req.DurationMinutes, req.TrainerID, req.Date.Format(domain.DateFormat))
		return nil, ErrDurationTooLong
	}

	// 7. Получаем занятые слоты тренера на дату
	sessions, err := uc.sessionRepo.GetByTrainerOn(ctx, req.TrainerID, req.Date)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to get sessions: %v", ErrInternal, err)
	}
	busy := domain.BusySlots(sessions, 0)

	// 8. Генерируем свободные интервалы
	slots := generateSlots(windows, req.DurationMinutes, busy)

	uc.logger.Info("ResolveAvailability: generated %d slots for trainer=%d, date=%s",
		len(slots), req.TrainerID, req.Date.Format(domain.DateFormat))

	return &Response{
		TrainerID:       req.TrainerID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Slots:           slots,
	}, nil
}

func (uc *UseCase) effectiveWindow(ctx context.Context, trainer *memberClient.Trainer, date time.Time) (domain.HoursWindow, error) {
	weekday := date.Weekday()

	facilityWindow, err := uc.workHoursRepo.GetWindow(ctx, trainer.FacilityID, weekday)
	if err != nil {
		if errors.Is(err, workhoursRepo.ErrWorkingHourNotFound) {
			return domain.ClosedWindow(), nil
		}
		uc.logger.Error("ResolveAvailability: failed to get facility window: %v", err)
		return domain.ClosedWindow(), fmt.Errorf("%w: failed to get facility working hours: %v", ErrInternal, err)
	}

	trainerWindow, err := uc.workHoursRepo.GetTrainerWindow(ctx, trainer.ID, trainer.FacilityID, weekday)
	if err != nil {
		if errors.Is(err, workhoursRepo.ErrWorkingHourNotFound) {
			return domain.ClosedWindow(), nil
		}
		uc.logger.Error("ResolveAvailability: failed to get trainer window: %v", err)
		return domain.ClosedWindow(), fmt.Errorf("%w: failed to get trainer working hours: %v", ErrInternal, err)
	}

	return trainerWindow.Intersect(facilityWindow), nil
}

func (uc *UseCase) activeOffPeriods(ctx context.Context, trainer *memberClient.Trainer, date time.Time) ([]domain.OffPeriod, error) {
	trainerOffs, err := uc.offPeriodRepo.GetActiveOn(ctx, trainer.ID, date)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get trainer off periods: %v", err)
		return nil, fmt.Errorf("%w: failed to get trainer off periods: %v", ErrInternal, err)
	}
	facilityOffs, err := uc.offPeriodRepo.GetActiveOn(ctx, trainer.FacilityID, date)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get facility off periods: %v", err)
		return nil, fmt.Errorf("%w: failed to get facility off periods: %v", ErrInternal, err)
	}
	return append(trainerOffs, facilityOffs...), nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		TrainerID:       req.TrainerID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Slots:           []Slot{},
	}
}
