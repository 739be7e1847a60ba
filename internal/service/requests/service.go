package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	requestRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/request"
	sessionRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/PT-SchedulingService/internal/service/requests/models"
)

// Системные пометки для автоматических переходов
const (
	noteSuperseded = "отменен автоматически: создан новый запрос на перенос"
	noteCancelled  = "отменен инициатором"
)

// Service сервис запросов на перенос сессий. Все переходы состояния
// перепроверяют состояние и права внутри той же транзакции, что пишет:
// чтение вне транзакции может устареть к моменту записи
type Service struct {
	requestRepo  RequestRepository
	sessionRepo  SessionRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса запросов на перенос
func NewService(
	requestRepo RequestRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		requestRepo:  requestRepo,
		sessionRepo:  sessionRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает запрос на перенос сессии.
// Инициатор - любой участник сессии; для клиента сессия должна начинаться
// не раньше чем через 24 часа, для тренера - просто в будущем. Запрошенный
// интервал проверяется на конфликты уже при создании, а не при подтверждении.
// Существующий ожидающий запрос по той же сессии вытесняется с пометкой
func (s *Service) Create(ctx context.Context, req *models.CreateRequest) (*models.RequestResponse, error) {
	s.logger.Info("CreateRequest: session=%d, requestor=%d, date=%s, interval=%d-%d",
		req.SessionID, req.RequestorID, req.RequestedDate.Format(domain.DateFormat),
		req.RequestedStart, req.RequestedEnd)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("CreateRequest: validation failed: %v", err)
		return nil, err
	}

	now := s.timeProvider.Now()
	var created *domain.ScheduleChangeRequest

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		session, err := s.getSession(txCtx, req.SessionID)
		if err != nil {
			return err
		}

		if session.TrainerID != req.RequestorID && session.ClientID != req.RequestorID {
			return ErrNotSessionParty
		}

		// Инициатор мог смотреть на уже перенесенную сессию
		if !req.ExpectedDate.IsZero() {
			if session.StartTime != domain.TimeCode(req.ExpectedStart) ||
				!sameDate(session.Date, req.ExpectedDate) {
				return ErrSessionChanged
			}
		}

		if err := checkNotice(session, req.RequestorID, now); err != nil {
			return err
		}

		if err := s.checkRequestedInterval(txCtx, session, req.RequestedDate,
			domain.TimeCode(req.RequestedStart), domain.TimeCode(req.RequestedEnd)); err != nil {
			return err
		}

		// Вытесняем предыдущий ожидающий запрос
		prior, err := s.requestRepo.GetPendingBySession(txCtx, req.SessionID)
		if err != nil && !errors.Is(err, requestRepo.ErrRequestNotFound) {
			return fmt.Errorf("%w: failed to get pending request: %v", ErrInternal, err)
		}
		if prior != nil {
			if err := s.requestRepo.MarkCancelled(txCtx, prior.ID, noteSuperseded); err != nil {
				return fmt.Errorf("%w: failed to supersede request id=%d: %v", ErrInternal, prior.ID, err)
			}
			s.logger.Info("CreateRequest: superseded pending request id=%d for session=%d",
				prior.ID, req.SessionID)
		}

		created, err = s.requestRepo.Create(txCtx, &domain.ScheduleChangeRequest{
			SessionID:      req.SessionID,
			RequestorID:    req.RequestorID,
			RequestedDate:  req.RequestedDate,
			RequestedStart: domain.TimeCode(req.RequestedStart),
			RequestedEnd:   domain.TimeCode(req.RequestedEnd),
			Reason:         req.Reason,
			ExpiresAt:      now.Add(domain.RequestTTL),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("CreateRequest: session=%d failed: %v", req.SessionID, err)
		return nil, err
	}

	s.logger.Info("CreateRequest: created request id=%d for session=%d, expires=%s",
		created.ID, created.SessionID, created.ExpiresAt.Format(time.RFC3339))
	return models.FromDomainRequest(created, now), nil
}

// Approve подтверждает запрос на перенос.
// Подтвердить может только участник сессии, не создававший запрос, пока
// запрос ожидает ответа и срок не истек. Запрошенный интервал проверяется
// заново под блокировкой, затем сессия перепривязывается к новому интервалу
func (s *Service) Approve(ctx context.Context, requestID int64, req *models.RespondRequest) (*models.RequestResponse, error) {
	s.logger.Info("ApproveRequest: request=%d, responder=%d", requestID, req.ResponderID)

	now := s.timeProvider.Now()
	var approved *domain.ScheduleChangeRequest

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		r, session, err := s.getRespondable(txCtx, requestID, req.ResponderID, now)
		if err != nil {
			return err
		}

		if err := s.checkRequestedInterval(txCtx, session, r.RequestedDate,
			r.RequestedStart, r.RequestedEnd); err != nil {
			return err
		}

		slotID, err := s.sessionRepo.FindOrCreateSlot(txCtx, r.RequestedDate, r.RequestedStart, r.RequestedEnd)
		if err != nil {
			return fmt.Errorf("%w: failed to find or create slot: %v", ErrInternal, err)
		}
		if err := s.sessionRepo.Repoint(txCtx, session.ID, slotID); err != nil {
			return fmt.Errorf("%w: failed to repoint session id=%d: %v", ErrInternal, session.ID, err)
		}

		respondedAt, err := s.requestRepo.MarkResponded(txCtx, r.ID, domain.RequestApproved, req.ResponderID, req.Message)
		if err != nil {
			return fmt.Errorf("%w: failed to mark approved: %v", ErrInternal, err)
		}

		r.State = domain.RequestApproved
		r.ResponderID = &req.ResponderID
		r.ResponseMessage = &req.Message
		r.RespondedAt = &respondedAt
		approved = r
		return nil
	})
	if err != nil {
		s.logger.Warn("ApproveRequest: request=%d failed: %v", requestID, err)
		return nil, err
	}

	s.logger.Info("ApproveRequest: request=%d approved, session=%d moved", requestID, approved.SessionID)
	return models.FromDomainRequest(approved, now), nil
}

// Reject отклоняет запрос на перенос с обязательным пояснением.
// Сессия остается как была
func (s *Service) Reject(ctx context.Context, requestID int64, req *models.RespondRequest) (*models.RequestResponse, error) {
	s.logger.Info("RejectRequest: request=%d, responder=%d", requestID, req.ResponderID)

	if req.Message == "" {
		s.logger.Warn("RejectRequest: request=%d has no response message", requestID)
		return nil, ErrEmptyResponseMessage
	}

	now := s.timeProvider.Now()
	var rejected *domain.ScheduleChangeRequest

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		r, _, err := s.getRespondable(txCtx, requestID, req.ResponderID, now)
		if err != nil {
			return err
		}

		respondedAt, err := s.requestRepo.MarkResponded(txCtx, r.ID, domain.RequestRejected, req.ResponderID, req.Message)
		if err != nil {
			return fmt.Errorf("%w: failed to mark rejected: %v", ErrInternal, err)
		}

		r.State = domain.RequestRejected
		r.ResponderID = &req.ResponderID
		r.ResponseMessage = &req.Message
		r.RespondedAt = &respondedAt
		rejected = r
		return nil
	})
	if err != nil {
		s.logger.Warn("RejectRequest: request=%d failed: %v", requestID, err)
		return nil, err
	}

	s.logger.Info("RejectRequest: request=%d rejected", requestID)
	return models.FromDomainRequest(rejected, now), nil
}

// Cancel отменяет запрос на перенос.
// Отменить может только инициатор, пока запрос ожидает ответа
func (s *Service) Cancel(ctx context.Context, requestID int64, req *models.CancelRequest) (*models.RequestResponse, error) {
	s.logger.Info("CancelRequest: request=%d, requestor=%d", requestID, req.RequestorID)

	now := s.timeProvider.Now()
	var cancelled *domain.ScheduleChangeRequest

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		r, err := s.getRequest(txCtx, requestID)
		if err != nil {
			return err
		}
		if r.IsTerminal() {
			return ErrRequestNotPending
		}
		if r.IsExpiredAt(now) {
			return ErrRequestExpired
		}
		if r.RequestorID != req.RequestorID {
			return ErrNotRequestor
		}

		if err := s.requestRepo.MarkCancelled(txCtx, r.ID, noteCancelled); err != nil {
			return fmt.Errorf("%w: failed to mark cancelled: %v", ErrInternal, err)
		}

		note := noteCancelled
		respondedAt := now
		r.State = domain.RequestCancelled
		r.ResponseMessage = &note
		r.RespondedAt = &respondedAt
		cancelled = r
		return nil
	})
	if err != nil {
		s.logger.Warn("CancelRequest: request=%d failed: %v", requestID, err)
		return nil, err
	}

	s.logger.Info("CancelRequest: request=%d cancelled", requestID)
	return models.FromDomainRequest(cancelled, now), nil
}

// ListBySession получает все запросы на перенос для сессии.
// Доступно только участникам сессии
func (s *Service) ListBySession(ctx context.Context, sessionID int64, userID int64) (*models.RequestListResponse, error) {
	s.logger.Info("ListRequests: session=%d, user=%d", sessionID, userID)

	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TrainerID != userID && session.ClientID != userID {
		s.logger.Warn("ListRequests: user=%d is not a party of session=%d", userID, sessionID)
		return nil, ErrNotSessionParty
	}

	requests, err := s.requestRepo.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("ListRequests: repository error for session=%d: %v", sessionID, err)
		return nil, fmt.Errorf("%w: ListBySession - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListRequests: fetched %d requests for session=%d", len(requests), sessionID)
	return models.FromDomainRequestList(requests, s.timeProvider.Now()), nil
}

// getRespondable читает запрос и его сессию под блокировкой и проверяет,
// что на запрос можно ответить и отвечает нужная сторона
func (s *Service) getRespondable(ctx context.Context, requestID, responderID int64, now time.Time) (*domain.ScheduleChangeRequest, *domain.SessionRecord, error) {
	r, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if r.IsTerminal() {
		return nil, nil, ErrRequestNotPending
	}
	if r.IsExpiredAt(now) {
		return nil, nil, ErrRequestExpired
	}

	session, err := s.getSession(ctx, r.SessionID)
	if err != nil {
		return nil, nil, err
	}

	counterparty := session.TrainerID
	if r.RequestorID == session.TrainerID {
		counterparty = session.ClientID
	}
	if responderID != counterparty {
		return nil, nil, ErrNotCounterparty
	}
	return r, session, nil
}

// checkRequestedInterval проверяет, что новый интервал свободен у обеих
// сторон; занятость самой переносимой сессии не считается
func (s *Service) checkRequestedInterval(ctx context.Context, session *domain.SessionRecord, date time.Time, start, end domain.TimeCode) error {
	trainerSessions, err := s.sessionRepo.GetByTrainerOn(ctx, session.TrainerID, date)
	if err != nil {
		return fmt.Errorf("%w: failed to get trainer sessions: %v", ErrInternal, err)
	}
	clientSessions, err := s.sessionRepo.GetByClientOn(ctx, session.ClientID, date)
	if err != nil {
		return fmt.Errorf("%w: failed to get client sessions: %v", ErrInternal, err)
	}

	conflict := domain.DetectConflict(start, end,
		domain.BusySlots(trainerSessions, session.ID),
		domain.BusySlots(clientSessions, session.ID))
	if conflict != nil {
		return fmt.Errorf("%w: %s is busy at %s-%s", ErrIntervalBusy,
			conflict.Party, conflict.Start, conflict.End)
	}
	return nil
}

func (s *Service) getRequest(ctx context.Context, id int64) (*domain.ScheduleChangeRequest, error) {
	r, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("%w: failed to get request id=%d: %v", ErrInternal, id, err)
	}
	return r, nil
}

func (s *Service) getSession(ctx context.Context, id int64) (*domain.SessionRecord, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: failed to get session id=%d: %v", ErrInternal, id, err)
	}
	return session, nil
}

// checkNotice проверяет временные правила создания запроса:
// клиенту нужен запас в 24 часа, тренеру - чтобы сессия еще не началась
func checkNotice(session *domain.SessionRecord, requestorID int64, now time.Time) error {
	startsAt := session.StartsAt()
	if !startsAt.After(now) {
		return ErrSessionInPast
	}
	if requestorID == session.ClientID {
		if startsAt.Before(now.Add(domain.ClientRescheduleNotice)) {
			return ErrTooLateToReschedule
		}
	}
	return nil
}

func validateCreateRequest(req *models.CreateRequest) error {
	if req.SessionID <= 0 || req.RequestorID <= 0 {
		return fmt.Errorf("%w: session and requestor ids must be positive", ErrInvalidInput)
	}
	if req.RequestedDate.IsZero() {
		return fmt.Errorf("%w: requested date is required", ErrInvalidInput)
	}
	start := domain.TimeCode(req.RequestedStart)
	end := domain.TimeCode(req.RequestedEnd)
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start must precede end", ErrInvalidInput)
	}
	minutes := end.TotalMinutes() - start.TotalMinutes()
	if minutes < domain.MinSessionDurationMinutes || minutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}
	return nil
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
