package commit_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	applicationRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/application"
	"github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
	"github.com/m04kA/PT-SchedulingService/pkg/txmanager"
)

// mockSessionRepo хранит записанные сессии в памяти: сессии, созданные
// внутри фиксации, видны последующим проверкам занятости
type mockSessionRepo struct {
	sessions   []*domain.SessionRecord
	nextID     int64
	nextSlotID int64
}

func (m *mockSessionRepo) GetByTrainerOn(_ context.Context, trainerID int64, date time.Time) ([]*domain.SessionRecord, error) {
	var out []*domain.SessionRecord
	for _, s := range m.sessions {
		if s.TrainerID == trainerID && s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) GetByClientOn(_ context.Context, clientID int64, date time.Time) ([]*domain.SessionRecord, error) {
	var out []*domain.SessionRecord
	for _, s := range m.sessions {
		if s.ClientID == clientID && s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) FindOrCreateSlot(_ context.Context, _ time.Time, _, _ domain.TimeCode) (int64, error) {
	m.nextSlotID++
	return m.nextSlotID, nil
}

func (m *mockSessionRepo) Create(_ context.Context, s *domain.SessionRecord) (*domain.SessionRecord, error) {
	m.nextID++
	rec := *s
	rec.ID = m.nextID
	m.sessions = append(m.sessions, &rec)
	return &rec, nil
}

type mockApplicationRepo struct {
	app           *domain.PackageApplication
	err           error
	confirmedID   int64
	confirmCalled bool
}

func (m *mockApplicationRepo) GetByID(_ context.Context, _ int64) (*domain.PackageApplication, error) {
	return m.app, m.err
}

func (m *mockApplicationRepo) MarkConfirmed(_ context.Context, id int64) error {
	m.confirmCalled = true
	m.confirmedID = id
	return nil
}

type mockMemberClient struct{}

func (mockMemberClient) GetTrainer(_ context.Context, id int64) (*memberservice.Trainer, error) {
	return &memberservice.Trainer{ID: id, FacilityID: 100, IsActive: true}, nil
}

// passthroughTxManager выполняет fn без транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// failingTxManager имитирует исчерпание повторов сериализации на n-м вызове
type failingTxManager struct {
	failOnCall int
	calls      int
}

func (m *failingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.calls == m.failOnCall {
		return txmanager.ErrSerializationFailure
	}
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	testClientID  = int64(7)
	testTrainerID = int64(10)
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func pendingApp(total int) *domain.PackageApplication {
	return &domain.PackageApplication{
		ID:            3,
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		Pattern:       domain.Pattern{Regular: false, Count: total},
		TotalSessions: total,
		Status:        domain.ApplicationPending,
	}
}

func newTestUseCase(sessions *mockSessionRepo, apps *mockApplicationRepo, tx TransactionManager) *UseCase {
	uc := NewUseCase(sessions, apps, mockMemberClient{}, tx, nopLogger{})
	uc.timeProvider = &fixedTime{t: testNow}
	return uc
}

func TestExecute_AllSessionsCreated(t *testing.T) {
	sessions := &mockSessionRepo{}
	apps := &mockApplicationRepo{app: pendingApp(4)}
	uc := newTestUseCase(sessions, apps, passthroughTxManager{})

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		ApplicationID: 3,
		Sessions: []PlannedSession{
			{Date: day(1), Start: 1100, End: 1200},
			{Date: day(0), Start: 1000, End: 1100},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Created, 2)
	assert.Empty(t, resp.Skipped)
	assert.True(t, resp.Confirmed)
	assert.True(t, apps.confirmCalled)
	assert.Equal(t, int64(3), apps.confirmedID)

	// sessions are committed in date order regardless of input order
	assert.Equal(t, day(0), resp.Created[0].Date)
	assert.Equal(t, day(1), resp.Created[1].Date)

	for _, c := range resp.Created {
		assert.NotZero(t, c.ID)
	}
	for _, s := range sessions.sessions {
		assert.Equal(t, int64(3), s.PackageID)
		assert.NotZero(t, s.SlotID)
	}
}

func TestExecute_PartialSuccessOnConflict(t *testing.T) {
	// trainer already has a session at the second interval
	sessions := &mockSessionRepo{
		sessions: []*domain.SessionRecord{
			{ID: 99, Date: day(1), StartTime: 1000, EndTime: 1100, TrainerID: testTrainerID, ClientID: 500},
		},
		nextID: 100,
	}
	apps := &mockApplicationRepo{app: pendingApp(4)}
	uc := newTestUseCase(sessions, apps, passthroughTxManager{})

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		ApplicationID: 3,
		Sessions: []PlannedSession{
			{Date: day(0), Start: 1000, End: 1100},
			{Date: day(1), Start: 1000, End: 1100},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Created, 1)
	assert.Equal(t, day(0), resp.Created[0].Date)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, day(1), resp.Skipped[0].Date)
	assert.Equal(t, SkipTrainerBusy, resp.Skipped[0].Reason)

	// one created session is enough to confirm the application
	assert.True(t, resp.Confirmed)
}

func TestExecute_ClientConflictReason(t *testing.T) {
	sessions := &mockSessionRepo{
		sessions: []*domain.SessionRecord{
			{ID: 99, Date: day(0), StartTime: 1000, EndTime: 1100, TrainerID: 555, ClientID: testClientID},
		},
		nextID: 100,
	}
	apps := &mockApplicationRepo{app: pendingApp(4)}
	uc := newTestUseCase(sessions, apps, passthroughTxManager{})

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		ApplicationID: 3,
		Sessions: []PlannedSession{
			{Date: day(0), Start: 1030, End: 1130},
			{Date: day(2), Start: 1030, End: 1130},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, SkipClientBusy, resp.Skipped[0].Reason)
	require.Len(t, resp.Created, 1)
}

func TestExecute_SerializationFailureSkipsSession(t *testing.T) {
	sessions := &mockSessionRepo{}
	apps := &mockApplicationRepo{app: pendingApp(4)}
	uc := newTestUseCase(sessions, apps, &failingTxManager{failOnCall: 1})

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		ApplicationID: 3,
		Sessions: []PlannedSession{
			{Date: day(0), Start: 1000, End: 1100},
			{Date: day(1), Start: 1000, End: 1100},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, SkipConcurrentUpdate, resp.Skipped[0].Reason)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, day(1), resp.Created[0].Date)
}

func TestExecute_AllSkippedLeavesApplicationPending(t *testing.T) {
	sessions := &mockSessionRepo{
		sessions: []*domain.SessionRecord{
			{ID: 99, Date: day(0), StartTime: 1000, EndTime: 1100, TrainerID: testTrainerID, ClientID: 500},
		},
		nextID: 100,
	}
	apps := &mockApplicationRepo{app: pendingApp(4)}
	uc := newTestUseCase(sessions, apps, passthroughTxManager{})

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		ApplicationID: 3,
		Sessions: []PlannedSession{
			{Date: day(0), Start: 1000, End: 1100},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Created)
	require.Len(t, resp.Skipped, 1)
	assert.False(t, resp.Confirmed)
	assert.False(t, apps.confirmCalled)
}

func TestExecute_IntraCommitOverlapSkipped(t *testing.T) {
	// both sessions target the same interval: the first lands, the second
	// sees it as busy when its own transaction re-reads the calendars
	sessions := &mockSessionRepo{}
	apps := &mockApplicationRepo{app: pendingApp(4)}
	uc := newTestUseCase(sessions, apps, passthroughTxManager{})

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		ApplicationID: 3,
		Sessions: []PlannedSession{
			{Date: day(0), Start: 1000, End: 1100},
			{Date: day(0), Start: 1030, End: 1130},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Created, 1)
	assert.Equal(t, domain.TimeCode(1000), resp.Created[0].Start)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, SkipTrainerBusy, resp.Skipped[0].Reason)
}

func TestExecute_ApplicationChecks(t *testing.T) {
	valid := []PlannedSession{{Date: day(0), Start: 1000, End: 1100}}

	confirmed := pendingApp(4)
	confirmed.Status = domain.ApplicationConfirmed

	foreign := pendingApp(4)
	foreign.ClientID = 999

	tests := []struct {
		name    string
		app     *domain.PackageApplication
		appErr  error
		req     *Request
		wantErr error
	}{
		{
			name:    "application not found",
			appErr:  applicationRepo.ErrApplicationNotFound,
			req:     &Request{ClientID: testClientID, TrainerID: testTrainerID, ApplicationID: 3, Sessions: valid},
			wantErr: ErrApplicationNotFound,
		},
		{
			name:    "application already confirmed",
			app:     confirmed,
			req:     &Request{ClientID: testClientID, TrainerID: testTrainerID, ApplicationID: 3, Sessions: valid},
			wantErr: ErrApplicationNotPending,
		},
		{
			name:    "application belongs to another client",
			app:     foreign,
			req:     &Request{ClientID: testClientID, TrainerID: testTrainerID, ApplicationID: 3, Sessions: valid},
			wantErr: ErrApplicationMismatch,
		},
		{
			name: "more sessions than the package holds",
			app:  pendingApp(1),
			req: &Request{
				ClientID: testClientID, TrainerID: testTrainerID, ApplicationID: 3,
				Sessions: []PlannedSession{
					{Date: day(0), Start: 1000, End: 1100},
					{Date: day(1), Start: 1000, End: 1100},
				},
			},
			wantErr: ErrTooManySessions,
		},
		{
			name:    "empty session list",
			app:     pendingApp(4),
			req:     &Request{ClientID: testClientID, TrainerID: testTrainerID, ApplicationID: 3},
			wantErr: ErrInvalidInput,
		},
		{
			name: "start not before end",
			app:  pendingApp(4),
			req: &Request{
				ClientID: testClientID, TrainerID: testTrainerID, ApplicationID: 3,
				Sessions: []PlannedSession{{Date: day(0), Start: 1100, End: 1100}},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(
				&mockSessionRepo{},
				&mockApplicationRepo{app: tt.app, err: tt.appErr},
				passthroughTxManager{},
			)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
