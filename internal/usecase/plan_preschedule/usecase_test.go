package plan_preschedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	applicationRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/application"
	"github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
)

type mockSessionRepo struct {
	trainerByDate map[string][]*domain.SessionRecord
	clientByDate  map[string][]*domain.SessionRecord
}

func (m *mockSessionRepo) GetByTrainerOn(_ context.Context, _ int64, date time.Time) ([]*domain.SessionRecord, error) {
	return m.trainerByDate[date.Format(domain.DateFormat)], nil
}

func (m *mockSessionRepo) GetByClientOn(_ context.Context, _ int64, date time.Time) ([]*domain.SessionRecord, error) {
	return m.clientByDate[date.Format(domain.DateFormat)], nil
}

type mockWorkHoursRepo struct {
	window domain.HoursWindow
}

func (m *mockWorkHoursRepo) GetWindow(_ context.Context, _ int64, _ time.Weekday) (domain.HoursWindow, error) {
	return m.window, nil
}

func (m *mockWorkHoursRepo) GetTrainerWindow(_ context.Context, _, _ int64, _ time.Weekday) (domain.HoursWindow, error) {
	return m.window, nil
}

type mockOffPeriodRepo struct {
	active  map[int64][]domain.OffPeriod
	between []domain.OffPeriod
}

func (m *mockOffPeriodRepo) GetActiveOn(_ context.Context, ownerID int64, _ time.Time) ([]domain.OffPeriod, error) {
	return m.active[ownerID], nil
}

func (m *mockOffPeriodRepo) GetByOwnerBetween(_ context.Context, _ int64, _, _ time.Time) ([]domain.OffPeriod, error) {
	return m.between, nil
}

type mockApplicationRepo struct {
	app *domain.PackageApplication
	err error
}

func (m *mockApplicationRepo) GetPendingByClient(_ context.Context, _, _ int64) (*domain.PackageApplication, error) {
	return m.app, m.err
}

type mockMemberClient struct{}

func (mockMemberClient) GetTrainer(_ context.Context, id int64) (*memberservice.Trainer, error) {
	return &memberservice.Trainer{ID: id, FacilityID: 100, IsActive: true}, nil
}

func (mockMemberClient) GetClient(_ context.Context, id int64) (*memberservice.ClientProfile, error) {
	return &memberservice.ClientProfile{ID: id, IsActive: true}, nil
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

func adHocApp(total int) *domain.PackageApplication {
	return &domain.PackageApplication{
		ID:            1,
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		Pattern:       domain.Pattern{Regular: false, Count: total},
		TotalSessions: total,
		Status:        domain.ApplicationPending,
	}
}

func regularApp(weekly, total int) *domain.PackageApplication {
	return &domain.PackageApplication{
		ID:            2,
		ClientID:      testClientID,
		TrainerID:     testTrainerID,
		Pattern:       domain.Pattern{Regular: true, Count: weekly},
		TotalSessions: total,
		Status:        domain.ApplicationPending,
	}
}

func newTestUseCase(
	sessions *mockSessionRepo,
	hours *mockWorkHoursRepo,
	offs *mockOffPeriodRepo,
	apps *mockApplicationRepo,
	now time.Time,
) *UseCase {
	uc := NewUseCase(sessions, hours, offs, apps, mockMemberClient{}, nopLogger{})
	uc.timeProvider = &fixedTime{t: now}
	return uc
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestExecute_AdHocPartition(t *testing.T) {
	// trainer has a confirmed session 10:00-11:00 on the second date
	busyDate := day(2)
	sessions := &mockSessionRepo{
		trainerByDate: map[string][]*domain.SessionRecord{
			busyDate.Format(domain.DateFormat): {
				{ID: 1, Date: busyDate, StartTime: 1000, EndTime: 1100, TrainerID: testTrainerID},
			},
		},
	}

	uc := newTestUseCase(
		sessions,
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)},
		&mockOffPeriodRepo{},
		&mockApplicationRepo{app: adHocApp(4)},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: day(0), Start: 1000},
			{Date: busyDate, Start: 1000},
			{Date: day(4), Start: 1000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ApplicationID)
	require.Len(t, resp.Possible, 2)
	require.Len(t, resp.Impossible, 1)
	assert.Equal(t, busyDate, resp.Impossible[0].Date)
	assert.Equal(t, ReasonTrainerBusy, resp.Impossible[0].Reason)
}

func TestExecute_ClientBusyReason(t *testing.T) {
	busyDate := day(0)
	sessions := &mockSessionRepo{
		clientByDate: map[string][]*domain.SessionRecord{
			busyDate.Format(domain.DateFormat): {
				{ID: 5, Date: busyDate, StartTime: 1000, EndTime: 1100, ClientID: testClientID},
			},
		},
	}

	uc := newTestUseCase(
		sessions,
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)},
		&mockOffPeriodRepo{},
		&mockApplicationRepo{app: adHocApp(4)},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: busyDate, Start: 1030},
			{Date: day(2), Start: 1030},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Impossible, 1)
	assert.Equal(t, ReasonClientBusy, resp.Impossible[0].Reason)
}

func TestExecute_IntraPlanOverlapRejected(t *testing.T) {
	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)},
		&mockOffPeriodRepo{},
		&mockApplicationRepo{app: adHocApp(4)},
		testNow,
	)

	// two proposals overlap on the same day; the earlier one wins
	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: day(0), Start: 1030},
			{Date: day(0), Start: 1000},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Possible, 1)
	assert.Equal(t, domain.TimeCode(1000), resp.Possible[0].Start)
	require.Len(t, resp.Impossible, 1)
	assert.Equal(t, domain.TimeCode(1030), resp.Impossible[0].Start)
	assert.Equal(t, ReasonTrainerBusy, resp.Impossible[0].Reason)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1200)},
		&mockOffPeriodRepo{},
		&mockApplicationRepo{app: adHocApp(4)},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: day(0), Start: 1000},
			{Date: day(0), Start: 1130}, // runs until 12:30, past closing
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Impossible, 1)
	assert.Equal(t, ReasonOutsideWorkingHours, resp.Impossible[0].Reason)
}

func TestExecute_RegularProjection(t *testing.T) {
	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)},
		&mockOffPeriodRepo{},
		&mockApplicationRepo{app: regularApp(2, 6)},
		testNow,
	)

	// anchors: Monday 10:00, Thursday 17:00; package of 6 spans three weeks
	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: day(0), Start: 1000},
			{Date: day(3), Start: 1700},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Possible, 6)
	assert.Empty(t, resp.Impossible)
	assert.Equal(t, day(0), resp.Possible[0].Date)
	assert.Equal(t, day(3), resp.Possible[1].Date)
	assert.Equal(t, day(7), resp.Possible[2].Date)
	assert.Equal(t, day(17), resp.Possible[5].Date)
}

func TestExecute_RegularProjectionSkipsOffWeeks(t *testing.T) {
	// second Monday is blocked for the trainer: the projection skips it and
	// extends the series by one more Monday
	blocked := day(7)

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)},
		&mockOffPeriodRepo{
			active: map[int64][]domain.OffPeriod{
				testTrainerID: {{OwnerID: testTrainerID, Date: &blocked, FullDay: true}},
			},
			between: []domain.OffPeriod{
				{OwnerID: testTrainerID, Date: &blocked, FullDay: true},
			},
		},
		&mockApplicationRepo{app: regularApp(1, 3)},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: day(0), Start: 1000},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Possible, 3)
	assert.Empty(t, resp.Impossible)
	assert.Equal(t, day(0), resp.Possible[0].Date)
	assert.Equal(t, day(14), resp.Possible[1].Date)
	assert.Equal(t, day(21), resp.Possible[2].Date)
}

func TestExecute_Preconditions(t *testing.T) {
	hours := &mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)}

	tests := []struct {
		name     string
		app      *domain.PackageApplication
		appErr   error
		proposed []ProposedSession
		wantErr  error
	}{
		{
			name:     "no pending application",
			appErr:   applicationRepo.ErrApplicationNotFound,
			proposed: []ProposedSession{{Date: day(0), Start: 1000}, {Date: day(1), Start: 1000}},
			wantErr:  ErrNoPendingApplication,
		},
		{
			name:     "ad-hoc below minimum",
			app:      adHocApp(8),
			proposed: []ProposedSession{{Date: day(0), Start: 1000}},
			wantErr:  ErrTooFewAdHocSessions,
		},
		{
			name: "ad-hoc above package size",
			app:  adHocApp(2),
			proposed: []ProposedSession{
				{Date: day(0), Start: 1000},
				{Date: day(1), Start: 1000},
				{Date: day(2), Start: 1000},
			},
			wantErr: ErrTooManySessions,
		},
		{
			name:     "regular anchor count mismatch",
			app:      regularApp(2, 8),
			proposed: []ProposedSession{{Date: day(0), Start: 1000}},
			wantErr:  ErrAnchorCountMismatch,
		},
		{
			name: "regular anchors outside one week",
			app:  regularApp(2, 8),
			proposed: []ProposedSession{
				{Date: day(0), Start: 1000},
				{Date: day(8), Start: 1000},
			},
			wantErr: ErrAnchorsOutsideWindow,
		},
		{
			name:     "proposal in the past",
			app:      adHocApp(4),
			proposed: []ProposedSession{{Date: day(-10), Start: 1000}, {Date: day(0), Start: 1000}},
			wantErr:  ErrInvalidInput,
		},
		{
			name:     "session runs past midnight",
			app:      adHocApp(4),
			proposed: []ProposedSession{{Date: day(0), Start: 2330}, {Date: day(1), Start: 1000}},
			wantErr:  ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(
				&mockSessionRepo{},
				hours,
				&mockOffPeriodRepo{},
				&mockApplicationRepo{app: tt.app, err: tt.appErr},
				testNow,
			)
			_, err := uc.Execute(context.Background(), &Request{
				ClientID:        testClientID,
				TrainerID:       testTrainerID,
				DurationMinutes: 60,
				Proposed:        tt.proposed,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_RegularUnsatisfiable(t *testing.T) {
	// a weekly off period on the anchor weekday blocks every occurrence
	wd := day(0).Weekday()

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)},
		&mockOffPeriodRepo{
			between: []domain.OffPeriod{
				{OwnerID: testTrainerID, Weekday: &wd, FullDay: true},
			},
		},
		&mockApplicationRepo{app: regularApp(1, 3)},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: day(0), Start: 1000},
		},
	})
	assert.ErrorIs(t, err, ErrScheduleUnsatisfiable)
}

func TestExecute_DryRunIsRepeatable(t *testing.T) {
	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{window: domain.OpenWindow(900, 1800)},
		&mockOffPeriodRepo{},
		&mockApplicationRepo{app: adHocApp(4)},
		testNow,
	)

	req := &Request{
		ClientID:        testClientID,
		TrainerID:       testTrainerID,
		DurationMinutes: 60,
		Proposed: []ProposedSession{
			{Date: day(0), Start: 1000},
			{Date: day(1), Start: 1000},
		},
	}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// planning writes nothing, so repeating it yields the same partition
	assert.Equal(t, first, second)
}
