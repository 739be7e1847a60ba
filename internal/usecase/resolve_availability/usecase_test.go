package resolve_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	workhoursRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/workhours"
	"github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
)

type mockSessionRepo struct {
	sessions []*domain.SessionRecord
	err      error
}

func (m *mockSessionRepo) GetByTrainerOn(_ context.Context, _ int64, _ time.Time) ([]*domain.SessionRecord, error) {
	return m.sessions, m.err
}

type mockWorkHoursRepo struct {
	facilityWindow domain.HoursWindow
	trainerWindow  domain.HoursWindow
	facilityErr    error
	trainerErr     error
}

func (m *mockWorkHoursRepo) GetWindow(_ context.Context, _ int64, _ time.Weekday) (domain.HoursWindow, error) {
	return m.facilityWindow, m.facilityErr
}

func (m *mockWorkHoursRepo) GetTrainerWindow(_ context.Context, _, _ int64, _ time.Weekday) (domain.HoursWindow, error) {
	return m.trainerWindow, m.trainerErr
}

type mockOffPeriodRepo struct {
	byOwner map[int64][]domain.OffPeriod
}

func (m *mockOffPeriodRepo) GetActiveOn(_ context.Context, ownerID int64, _ time.Time) ([]domain.OffPeriod, error) {
	return m.byOwner[ownerID], nil
}

type mockMemberClient struct {
	trainer *memberservice.Trainer
	err     error
}

func (m *mockMemberClient) GetTrainer(_ context.Context, _ int64) (*memberservice.Trainer, error) {
	return m.trainer, m.err
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	testTrainerID  = int64(10)
	testFacilityID = int64(100)
)

func activeTrainer() *memberservice.Trainer {
	return &memberservice.Trainer{ID: testTrainerID, FacilityID: testFacilityID, IsActive: true}
}

func newTestUseCase(
	sessions *mockSessionRepo,
	hours *mockWorkHoursRepo,
	offs *mockOffPeriodRepo,
	member *mockMemberClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(sessions, hours, offs, member, nopLogger{})
	uc.timeProvider = &fixedTime{t: now}
	return uc
}

func TestExecute_FreeDay(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{
			facilityWindow: domain.OpenWindow(800, 2200),
			trainerWindow:  domain.OpenWindow(900, 1200),
		},
		&mockOffPeriodRepo{},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TrainerID:       testTrainerID,
		Date:            reqDate,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// effective window 9:00-12:00, hour-long sessions on a 30-minute grid
	want := []Slot{
		{Start: 900, End: 1000},
		{Start: 930, End: 1030},
		{Start: 1000, End: 1100},
		{Start: 1030, End: 1130},
		{Start: 1100, End: 1200},
	}
	assert.Equal(t, want, resp.Slots)
}

func TestExecute_BusySlotsExcluded(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&mockSessionRepo{sessions: []*domain.SessionRecord{
			{ID: 1, Date: reqDate, StartTime: 1000, EndTime: 1100, TrainerID: testTrainerID},
		}},
		&mockWorkHoursRepo{
			facilityWindow: domain.OpenWindow(900, 1200),
			trainerWindow:  domain.OpenWindow(900, 1200),
		},
		&mockOffPeriodRepo{},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TrainerID:       testTrainerID,
		Date:            reqDate,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// 10:00-11:00 session removes every candidate overlapping it
	want := []Slot{
		{Start: 900, End: 1000},
		{Start: 1100, End: 1200},
	}
	assert.Equal(t, want, resp.Slots)
}

func TestExecute_OffPeriodSplitsDay(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	wd := reqDate.Weekday()

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{
			facilityWindow: domain.OpenWindow(900, 1300),
			trainerWindow:  domain.OpenWindow(900, 1300),
		},
		&mockOffPeriodRepo{byOwner: map[int64][]domain.OffPeriod{
			testTrainerID: {{OwnerID: testTrainerID, Weekday: &wd, Start: 1030, End: 1130}},
		}},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TrainerID:       testTrainerID,
		Date:            reqDate,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// the break splits 9:00-13:00 into 9:00-10:30 and 11:30-13:00
	want := []Slot{
		{Start: 900, End: 1000},
		{Start: 930, End: 1030},
		{Start: 1130, End: 1230},
		{Start: 1200, End: 1300},
	}
	assert.Equal(t, want, resp.Slots)
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{
			facilityWindow: domain.OpenWindow(800, 2200),
			trainerWindow:  domain.ClosedWindow(),
		},
		&mockOffPeriodRepo{},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TrainerID:       testTrainerID,
		Date:            reqDate,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FullDayOffReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{
			facilityWindow: domain.OpenWindow(900, 1800),
			trainerWindow:  domain.OpenWindow(900, 1800),
		},
		&mockOffPeriodRepo{byOwner: map[int64][]domain.OffPeriod{
			testFacilityID: {{OwnerID: testFacilityID, Date: &reqDate, FullDay: true}},
		}},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TrainerID:       testTrainerID,
		Date:            reqDate,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DurationTooLong(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{
			facilityWindow: domain.OpenWindow(900, 1030),
			trainerWindow:  domain.OpenWindow(900, 1030),
		},
		&mockOffPeriodRepo{},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	// window holds 90 minutes, asking for 120
	_, err := uc.Execute(context.Background(), &Request{
		TrainerID:       testTrainerID,
		Date:            reqDate,
		DurationMinutes: 120,
	})
	assert.ErrorIs(t, err, ErrDurationTooLong)
}

func TestExecute_Validation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	future := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{},
		&mockOffPeriodRepo{},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "duration below minimum",
			req:     &Request{TrainerID: testTrainerID, Date: future, DurationMinutes: 15},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "duration not on slot grid",
			req:     &Request{TrainerID: testTrainerID, Date: future, DurationMinutes: 45},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "duration above maximum",
			req:     &Request{TrainerID: testTrainerID, Date: future, DurationMinutes: 270},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "date in the past",
			req:     &Request{TrainerID: testTrainerID, Date: now.AddDate(0, 0, -1), DurationMinutes: 60},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "invalid trainer id",
			req:     &Request{TrainerID: 0, Date: future, DurationMinutes: 60},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_TrainerChecks(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	t.Run("trainer not found", func(t *testing.T) {
		uc := newTestUseCase(
			&mockSessionRepo{},
			&mockWorkHoursRepo{},
			&mockOffPeriodRepo{},
			&mockMemberClient{err: memberservice.ErrTrainerNotFound},
			now,
		)
		_, err := uc.Execute(context.Background(), &Request{
			TrainerID: testTrainerID, Date: reqDate, DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, ErrTrainerNotFound)
	})

	t.Run("trainer inactive", func(t *testing.T) {
		trainer := activeTrainer()
		trainer.IsActive = false
		uc := newTestUseCase(
			&mockSessionRepo{},
			&mockWorkHoursRepo{},
			&mockOffPeriodRepo{},
			&mockMemberClient{trainer: trainer},
			now,
		)
		_, err := uc.Execute(context.Background(), &Request{
			TrainerID: testTrainerID, Date: reqDate, DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, ErrTrainerInactive)
	})
}

func TestExecute_NoWorkingHoursRecord(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reqDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&mockSessionRepo{},
		&mockWorkHoursRepo{facilityErr: workhoursRepo.ErrWorkingHourNotFound},
		&mockOffPeriodRepo{},
		&mockMemberClient{trainer: activeTrainer()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TrainerID:       testTrainerID,
		Date:            reqDate,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
