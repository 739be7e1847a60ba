package commit_schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	applicationRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/application"
	memberClient "github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
	"github.com/m04kA/PT-SchedulingService/pkg/txmanager"
)

// UseCase use case фиксации запланированного расписания. Каждая сессия
// записывается в своей сериализуемой транзакции: перед записью занятость
// обеих сторон перечитывается под блокировкой и конфликт проверяется заново
type UseCase struct {
	sessionRepo     SessionRepository
	applicationRepo ApplicationRepository
	memberClient    MemberServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	applicationRepo ApplicationRepository,
	memberClient MemberServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:     sessionRepo,
		applicationRepo: applicationRepo,
		memberClient:    memberClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет фиксацию расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CommitSchedule: client=%d, trainer=%d, application=%d, sessions=%d",
		req.ClientID, req.TrainerID, req.ApplicationID, len(req.Sessions))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CommitSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тренера
	if _, err := uc.memberClient.GetTrainer(ctx, req.TrainerID); err != nil {
		if errors.Is(err, memberClient.ErrTrainerNotFound) {
			uc.logger.Warn("CommitSchedule: trainer id=%d not found", req.TrainerID)
			return nil, ErrTrainerNotFound
		}
		uc.logger.Error("CommitSchedule: failed to get trainer id=%d: %v", req.TrainerID, err)
		return nil, fmt.Errorf("%w: failed to get trainer: %v", ErrInternal, err)
	}

	// 3. Проверяем заявку
	app, err := uc.applicationRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		if errors.Is(err, applicationRepo.ErrApplicationNotFound) {
			uc.logger.Warn("CommitSchedule: application id=%d not found", req.ApplicationID)
			return nil, ErrApplicationNotFound
		}
		uc.logger.Error("CommitSchedule: failed to get application id=%d: %v", req.ApplicationID, err)
		return nil, fmt.Errorf("%w: failed to get application: %v", ErrInternal, err)
	}
	if !app.IsPending() {
		uc.logger.Warn("CommitSchedule: application id=%d is not pending", req.ApplicationID)
		return nil, ErrApplicationNotPending
	}
	if app.ClientID != req.ClientID || app.TrainerID != req.TrainerID {
		uc.logger.Warn("CommitSchedule: application id=%d belongs to client=%d, trainer=%d",
			req.ApplicationID, app.ClientID, app.TrainerID)
		return nil, ErrApplicationMismatch
	}
	if len(req.Sessions) > app.TotalSessions {
		uc.logger.Warn("CommitSchedule: %d sessions exceed package size %d",
			len(req.Sessions), app.TotalSessions)
		return nil, ErrTooManySessions
	}

	// 4. Фиксируем сессии по одной, ранние даты первыми
	sessions := make([]PlannedSession, len(req.Sessions))
	copy(sessions, req.Sessions)
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Start < sessions[j].Start
		}
		return sessions[i].Date.Before(sessions[j].Date)
	})

	created := make([]CreatedSession, 0, len(sessions))
	skipped := make([]SkippedSession, 0)
	for _, s := range sessions {
		rec, reason, err := uc.commitOne(ctx, app, s)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			uc.logger.Warn("CommitSchedule: skipped %s %s-%s: %s",
				s.Date.Format(domain.DateFormat), s.Start, s.End, reason)
			skipped = append(skipped, SkippedSession{Date: s.Date, Start: s.Start, End: s.End, Reason: reason})
			continue
		}
		created = append(created, CreatedSession{ID: rec.ID, Date: rec.Date, Start: rec.StartTime, End: rec.EndTime})
	}

	// 5. Подтверждаем заявку, если хоть одна сессия записана
	confirmed := false
	if len(created) > 0 {
		if err := uc.applicationRepo.MarkConfirmed(ctx, app.ID); err != nil {
			uc.logger.Error("CommitSchedule: failed to confirm application id=%d: %v", app.ID, err)
			return nil, fmt.Errorf("%w: failed to confirm application: %v", ErrInternal, err)
		}
		confirmed = true
	}

	uc.logger.Info("CommitSchedule: application=%d committed %d sessions, skipped %d",
		app.ID, len(created), len(skipped))

	return &Response{
		ApplicationID: app.ID,
		Confirmed:     confirmed,
		Created:       created,
		Skipped:       skipped,
	}, nil
}

// commitOne записывает одну сессию в сериализуемой транзакции.
// Конфликт и исчерпание повторов не прерывают фиксацию остальных сессий
func (uc *UseCase) commitOne(ctx context.Context, app *domain.PackageApplication, s PlannedSession) (*domain.SessionRecord, SkipReason, error) {
	var rec *domain.SessionRecord
	var conflict *domain.Conflict

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		trainerSessions, err := uc.sessionRepo.GetByTrainerOn(txCtx, app.TrainerID, s.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get trainer sessions: %v", ErrInternal, err)
		}
		clientSessions, err := uc.sessionRepo.GetByClientOn(txCtx, app.ClientID, s.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get client sessions: %v", ErrInternal, err)
		}

		conflict = domain.DetectConflict(s.Start, s.End,
			domain.BusySlots(trainerSessions, 0), domain.BusySlots(clientSessions, 0))
		if conflict != nil {
			return errConflictInTx
		}

		slotID, err := uc.sessionRepo.FindOrCreateSlot(txCtx, s.Date, s.Start, s.End)
		if err != nil {
			return fmt.Errorf("%w: failed to find or create slot: %v", ErrInternal, err)
		}

		rec, err = uc.sessionRepo.Create(txCtx, &domain.SessionRecord{
			SlotID:    slotID,
			Date:      s.Date,
			StartTime: s.Start,
			EndTime:   s.End,
			TrainerID: app.TrainerID,
			ClientID:  app.ClientID,
			PackageID: app.ID,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
		}
		return nil
	})

	if err == nil {
		return rec, "", nil
	}
	if errors.Is(err, errConflictInTx) {
		if conflict != nil && conflict.Party == domain.PartyClient {
			return nil, SkipClientBusy, nil
		}
		return nil, SkipTrainerBusy, nil
	}
	if errors.Is(err, txmanager.ErrSerializationFailure) {
		return nil, SkipConcurrentUpdate, nil
	}
	return nil, "", err
}

func validateRequest(req *Request, now time.Time) error {
	if req.ClientID <= 0 || req.TrainerID <= 0 {
		return fmt.Errorf("%w: client and trainer ids must be positive", ErrInvalidInput)
	}
	if req.ApplicationID <= 0 {
		return fmt.Errorf("%w: application id must be positive", ErrInvalidInput)
	}
	if len(req.Sessions) == 0 {
		return fmt.Errorf("%w: at least one session must be committed", ErrInvalidInput)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i, s := range req.Sessions {
		if s.Date.IsZero() || s.Date.Before(today) {
			return fmt.Errorf("%w: session %d date is missing or in the past", ErrInvalidInput, i)
		}
		if err := s.Start.Validate(); err != nil {
			return fmt.Errorf("%w: session %d: %v", ErrInvalidInput, i, err)
		}
		if err := s.End.Validate(); err != nil {
			return fmt.Errorf("%w: session %d: %v", ErrInvalidInput, i, err)
		}
		if s.Start >= s.End {
			return fmt.Errorf("%w: session %d start must precede end", ErrInvalidInput, i)
		}
	}
	return nil
}
