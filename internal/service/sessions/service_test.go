package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	sessionRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/PT-SchedulingService/internal/service/sessions/models"
)

type mockSessionRepo struct {
	byID   map[int64]*domain.SessionRecord
	listed []*domain.SessionRecord
}

func (m *mockSessionRepo) GetByID(_ context.Context, id int64) (*domain.SessionRecord, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockSessionRepo) ListByTrainerBetween(_ context.Context, _ int64, _, _ time.Time) ([]*domain.SessionRecord, error) {
	return m.listed, nil
}

func (m *mockSessionRepo) ListByClientBetween(_ context.Context, _ int64, _, _ time.Time) ([]*domain.SessionRecord, error) {
	return m.listed, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	trainerID = int64(10)
	clientID  = int64(7)
)

func testSession() *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:        1,
		Date:      time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		StartTime: 1000,
		EndTime:   1100,
		TrainerID: trainerID,
		ClientID:  clientID,
	}
}

func TestGetByID(t *testing.T) {
	svc := NewService(&mockSessionRepo{byID: map[int64]*domain.SessionRecord{1: testSession()}}, nopLogger{})

	t.Run("trainer sees the session", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), 1, trainerID)
		require.NoError(t, err)
		assert.Equal(t, "2026-09-08", resp.Date)
		assert.Equal(t, 1000, resp.StartTime)
	})

	t.Run("client sees the session", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, clientID)
		assert.NoError(t, err)
	})

	t.Run("outsider is denied", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, 999)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 42, trainerID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestGetTrainerSessions(t *testing.T) {
	svc := NewService(&mockSessionRepo{listed: []*domain.SessionRecord{testSession()}}, nopLogger{})
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	t.Run("trainer lists own schedule", func(t *testing.T) {
		resp, err := svc.GetTrainerSessions(context.Background(), trainerID, &models.ListSessionsRequest{
			UserID: trainerID, From: from, To: to,
		})
		require.NoError(t, err)
		require.Len(t, resp.Sessions, 1)
	})

	t.Run("someone else is denied", func(t *testing.T) {
		_, err := svc.GetTrainerSessions(context.Background(), trainerID, &models.ListSessionsRequest{
			UserID: clientID, From: from, To: to,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("inverted period is rejected", func(t *testing.T) {
		_, err := svc.GetTrainerSessions(context.Background(), trainerID, &models.ListSessionsRequest{
			UserID: trainerID, From: to, To: from,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetClientSessions(t *testing.T) {
	svc := NewService(&mockSessionRepo{listed: []*domain.SessionRecord{testSession()}}, nopLogger{})
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	t.Run("client lists own schedule", func(t *testing.T) {
		resp, err := svc.GetClientSessions(context.Background(), clientID, &models.ListSessionsRequest{
			UserID: clientID, From: from, To: to,
		})
		require.NoError(t, err)
		require.Len(t, resp.Sessions, 1)
	})

	t.Run("someone else is denied", func(t *testing.T) {
		_, err := svc.GetClientSessions(context.Background(), clientID, &models.ListSessionsRequest{
			UserID: trainerID, From: from, To: to,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
