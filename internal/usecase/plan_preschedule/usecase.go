package plan_preschedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	applicationRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/application"
	memberClient "github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
)

// UseCase use case пробного планирования пакета тренировок: разворачивает
// предложенное расписание и возвращает разбиение на осуществимые и
// неосуществимые сессии, не записывая и не блокируя ничего
type UseCase struct {
	sessionRepo     SessionRepository
	workHoursRepo   WorkHoursRepository
	offPeriodRepo   OffPeriodRepository
	applicationRepo ApplicationRepository
	memberClient    MemberServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	workHoursRepo WorkHoursRepository,
	offPeriodRepo OffPeriodRepository,
	applicationRepo ApplicationRepository,
	memberClient MemberServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:     sessionRepo,
		workHoursRepo:   workHoursRepo,
		offPeriodRepo:   offPeriodRepo,
		applicationRepo: applicationRepo,
		memberClient:    memberClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет пробное планирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PlanPreschedule: client=%d, trainer=%d, duration=%d, proposed=%d",
		req.ClientID, req.TrainerID, req.DurationMinutes, len(req.Proposed))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("PlanPreschedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тренера и клиента
	trainer, err := uc.memberClient.GetTrainer(ctx, req.TrainerID)
	if err != nil {
		if errors.Is(err, memberClient.ErrTrainerNotFound) {
			uc.logger.Warn("PlanPreschedule: trainer id=%d not found", req.TrainerID)
			return nil, ErrTrainerNotFound
		}
		uc.logger.Error("PlanPreschedule: failed to get trainer id=%d: %v", req.TrainerID, err)
		return nil, fmt.Errorf("%w: failed to get trainer: %v", ErrInternal, err)
	}
	if _, err := uc.memberClient.GetClient(ctx, req.ClientID); err != nil {
		if errors.Is(err, memberClient.ErrClientNotFound) {
			uc.logger.Warn("PlanPreschedule: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("PlanPreschedule: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 3. Находим ожидающую заявку клиента на пакет у этого тренера
	app, err := uc.applicationRepo.GetPendingByClient(ctx, req.ClientID, req.TrainerID)
	if err != nil {
		if errors.Is(err, applicationRepo.ErrApplicationNotFound) {
			uc.logger.Warn("PlanPreschedule: no pending application for client=%d, trainer=%d",
				req.ClientID, req.TrainerID)
			return nil, ErrNoPendingApplication
		}
		uc.logger.Error("PlanPreschedule: failed to get application: %v", err)
		return nil, fmt.Errorf("%w: failed to get application: %v", ErrInternal, err)
	}

	// 4. Проверяем предложенные сессии против паттерна заявки
	if err := validatePattern(app, req.Proposed); err != nil {
		uc.logger.Warn("PlanPreschedule: pattern validation failed: %v", err)
		return nil, err
	}

	// 5. Разворачиваем полный список сессий
	occurrences, err := uc.expand(ctx, app, req)
	if err != nil {
		return nil, err
	}

	// 6. Прогоняем каждую сессию через доступность и детектор конфликтов
	p := newPlanner(uc, trainer, req.ClientID)
	possible := make([]PlannedSession, 0, len(occurrences))
	impossible := make([]RejectedSession, 0)
	for _, occ := range occurrences {
		reason, err := p.evaluate(ctx, occ)
		if err != nil {
			uc.logger.Error("PlanPreschedule: failed to evaluate %s %s: %v",
				occ.Date.Format(domain.DateFormat), occ.Start, err)
			return nil, err
		}
		if reason != "" {
			impossible = append(impossible, RejectedSession{
				Date: occ.Date, Start: occ.Start, End: occ.End, Reason: reason,
			})
			continue
		}
		possible = append(possible, PlannedSession{
			Date: occ.Date, Start: occ.Start, End: occ.End,
		})
	}

	uc.logger.Info("PlanPreschedule: application=%d partitioned into %d possible, %d impossible",
		app.ID, len(possible), len(impossible))

	return &Response{
		ApplicationID: app.ID,
		Possible:      possible,
		Impossible:    impossible,
	}, nil
}

// expand строит полный список сессий: для регулярного паттерна проецирует
// якорные сессии по неделям, для разового берет выбранные даты как есть
func (uc *UseCase) expand(ctx context.Context, app *domain.PackageApplication, req *Request) ([]domain.Occurrence, error) {
	proposed := make([]ProposedSession, len(req.Proposed))
	copy(proposed, req.Proposed)
	sort.Slice(proposed, func(i, j int) bool {
		if proposed[i].Date.Equal(proposed[j].Date) {
			return proposed[i].Start < proposed[j].Start
		}
		return proposed[i].Date.Before(proposed[j].Date)
	})

	if !app.Pattern.Regular {
		occurrences := make([]domain.Occurrence, 0, len(proposed))
		for _, p := range proposed {
			occurrences = append(occurrences, domain.Occurrence{
				Date:  p.Date,
				Start: p.Start,
				End:   p.Start.AddMinutes(req.DurationMinutes),
			})
		}
		return occurrences, nil
	}

	anchors := make([]domain.Anchor, 0, len(proposed))
	for _, p := range proposed {
		anchors = append(anchors, domain.Anchor{Date: p.Date, Start: p.Start})
	}

	horizonEnd := proposed[0].Date.AddDate(0, 0, 7*domain.MaxProjectionWeeks)
	offs, err := uc.offPeriodRepo.GetByOwnerBetween(ctx, req.TrainerID, proposed[0].Date, horizonEnd)
	if err != nil {
		uc.logger.Error("PlanPreschedule: failed to get off periods for projection: %v", err)
		return nil, fmt.Errorf("%w: failed to get off periods: %v", ErrInternal, err)
	}

	occurrences, err := domain.ProjectRegularSchedule(anchors, req.DurationMinutes, app.TotalSessions, offs)
	if err != nil {
		uc.logger.Warn("PlanPreschedule: projection failed for application=%d: %v", app.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrScheduleUnsatisfiable, err)
	}
	return occurrences, nil
}
