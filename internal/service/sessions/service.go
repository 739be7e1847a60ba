package sessions

import (
	"context"
	"errors"
	"fmt"

	sessionRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/PT-SchedulingService/internal/service/sessions/models"
)

// Service сервис чтения сессий
type Service struct {
	sessionRepo SessionRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(sessionRepo SessionRepository, logger Logger) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// GetByID получает сессию по ID
// Сессию видят только её участники - тренер и клиент
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.SessionResponse, error) {
	s.logger.Info("GetByID: fetching session id=%d for user=%d", id, userID)

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("GetByID: session id=%d not found", id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("GetByID: repository error for session id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if session.TrainerID != userID && session.ClientID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to session id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainSession(session), nil
}

// GetTrainerSessions получает сессии тренера за период
// Доступно только самому тренеру
func (s *Service) GetTrainerSessions(ctx context.Context, trainerID int64, req *models.ListSessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("GetTrainerSessions: trainer=%d, from=%s, to=%s",
		trainerID, req.From.Format("2006-01-02"), req.To.Format("2006-01-02"))

	if err := validateListRequest(req); err != nil {
		return nil, err
	}
	if req.UserID != trainerID {
		s.logger.Warn("GetTrainerSessions: user=%d is not trainer=%d", req.UserID, trainerID)
		return nil, ErrAccessDenied
	}

	sessions, err := s.sessionRepo.ListByTrainerBetween(ctx, trainerID, req.From, req.To)
	if err != nil {
		s.logger.Error("GetTrainerSessions: repository error for trainer=%d: %v", trainerID, err)
		return nil, fmt.Errorf("%w: GetTrainerSessions - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTrainerSessions: fetched %d sessions for trainer=%d", len(sessions), trainerID)
	return models.FromDomainSessionList(sessions), nil
}

// GetClientSessions получает сессии клиента за период
// Доступно только самому клиенту
func (s *Service) GetClientSessions(ctx context.Context, clientID int64, req *models.ListSessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("GetClientSessions: client=%d, from=%s, to=%s",
		clientID, req.From.Format("2006-01-02"), req.To.Format("2006-01-02"))

	if err := validateListRequest(req); err != nil {
		return nil, err
	}
	if req.UserID != clientID {
		s.logger.Warn("GetClientSessions: user=%d is not client=%d", req.UserID, clientID)
		return nil, ErrAccessDenied
	}

	sessions, err := s.sessionRepo.ListByClientBetween(ctx, clientID, req.From, req.To)
	if err != nil {
		s.logger.Error("GetClientSessions: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetClientSessions - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientSessions: fetched %d sessions for client=%d", len(sessions), clientID)
	return models.FromDomainSessionList(sessions), nil
}

func validateListRequest(req *models.ListSessionsRequest) error {
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: period bounds are required", ErrInvalidInput)
	}
	if req.To.Before(req.From) {
		return fmt.Errorf("%w: period end precedes start", ErrInvalidInput)
	}
	return nil
}
