package requests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	requestRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/request"
	sessionRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/PT-SchedulingService/internal/service/requests/models"
)

type slotKey struct {
	date  string
	start domain.TimeCode
	end   domain.TimeCode
}

type slot struct {
	date  time.Time
	start domain.TimeCode
	end   domain.TimeCode
}

// mockSessionRepo хранит сессии и слоты в памяти; Repoint перепривязывает
// сессию к слоту и переносит ее интервал, как это делает join в хранилище
type mockSessionRepo struct {
	sessions map[int64]*domain.SessionRecord
	slots    map[int64]slot
	slotIDs  map[slotKey]int64
	nextSlot int64
}

func newMockSessionRepo(sessions ...*domain.SessionRecord) *mockSessionRepo {
	m := &mockSessionRepo{
		sessions: make(map[int64]*domain.SessionRecord),
		slots:    make(map[int64]slot),
		slotIDs:  make(map[slotKey]int64),
	}
	for _, s := range sessions {
		m.sessions[s.ID] = s
		id, _ := m.FindOrCreateSlot(context.Background(), s.Date, s.StartTime, s.EndTime)
		s.SlotID = id
	}
	return m
}

func (m *mockSessionRepo) GetByID(_ context.Context, id int64) (*domain.SessionRecord, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
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

func (m *mockSessionRepo) FindOrCreateSlot(_ context.Context, date time.Time, start, end domain.TimeCode) (int64, error) {
	key := slotKey{date: date.Format(domain.DateFormat), start: start, end: end}
	if id, ok := m.slotIDs[key]; ok {
		return id, nil
	}
	m.nextSlot++
	m.slotIDs[key] = m.nextSlot
	m.slots[m.nextSlot] = slot{date: date, start: start, end: end}
	return m.nextSlot, nil
}

func (m *mockSessionRepo) Repoint(_ context.Context, sessionID, slotID int64) error {
	s, ok := m.sessions[sessionID]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	sl := m.slots[slotID]
	s.SlotID = slotID
	s.Date = sl.date
	s.StartTime = sl.start
	s.EndTime = sl.end
	return nil
}

type mockRequestRepo struct {
	requests map[int64]*domain.ScheduleChangeRequest
	nextID   int64
	now      func() time.Time
}

func newMockRequestRepo(now func() time.Time) *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[int64]*domain.ScheduleChangeRequest), now: now}
}

func (m *mockRequestRepo) Create(_ context.Context, req *domain.ScheduleChangeRequest) (*domain.ScheduleChangeRequest, error) {
	m.nextID++
	cp := *req
	cp.ID = m.nextID
	cp.State = domain.RequestPending
	cp.CreatedAt = m.now()
	m.requests[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id int64) (*domain.ScheduleChangeRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, requestRepo.ErrRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRequestRepo) GetPendingBySession(_ context.Context, sessionID int64) (*domain.ScheduleChangeRequest, error) {
	for _, r := range m.requests {
		if r.SessionID == sessionID && r.State == domain.RequestPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, requestRepo.ErrRequestNotFound
}

func (m *mockRequestRepo) ListBySession(_ context.Context, sessionID int64) ([]*domain.ScheduleChangeRequest, error) {
	var out []*domain.ScheduleChangeRequest
	for _, r := range m.requests {
		if r.SessionID == sessionID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRequestRepo) MarkResponded(_ context.Context, id int64, state domain.RequestState, responderID int64, message string) (time.Time, error) {
	r, ok := m.requests[id]
	if !ok || r.State != domain.RequestPending {
		return time.Time{}, requestRepo.ErrRequestNotFound
	}
	respondedAt := m.now()
	r.State = state
	r.ResponderID = &responderID
	r.ResponseMessage = &message
	r.RespondedAt = &respondedAt
	return respondedAt, nil
}

func (m *mockRequestRepo) MarkCancelled(_ context.Context, id int64, note string) error {
	r, ok := m.requests[id]
	if !ok || r.State != domain.RequestPending {
		return requestRepo.ErrRequestNotFound
	}
	respondedAt := m.now()
	r.State = domain.RequestCancelled
	r.ResponseMessage = &note
	r.RespondedAt = &respondedAt
	return nil
}

// passthroughTxManager выполняет fn без транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mutableTime struct{ t time.Time }

func (m *mutableTime) Now() time.Time { return m.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	trainerID = int64(10)
	clientID  = int64(7)
	outsider  = int64(999)
)

var sessionDate = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

// testSession 8 сентября 10:00-11:00
func testSession() *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:        1,
		Date:      sessionDate,
		StartTime: 1000,
		EndTime:   1100,
		TrainerID: trainerID,
		ClientID:  clientID,
	}
}

type fixture struct {
	svc      *Service
	sessions *mockSessionRepo
	requests *mockRequestRepo
	clock    *mutableTime
}

func newFixture(now time.Time, sessions ...*domain.SessionRecord) *fixture {
	clock := &mutableTime{t: now}
	sessRepo := newMockSessionRepo(sessions...)
	reqRepo := newMockRequestRepo(func() time.Time { return clock.t })
	svc := NewService(reqRepo, sessRepo, passthroughTxManager{}, nopLogger{})
	svc.timeProvider = clock
	return &fixture{svc: svc, sessions: sessRepo, requests: reqRepo, clock: clock}
}

func createReq(requestorID int64) *models.CreateRequest {
	return &models.CreateRequest{
		SessionID:      1,
		RequestorID:    requestorID,
		RequestedDate:  sessionDate.AddDate(0, 0, 2),
		RequestedStart: 1400,
		RequestedEnd:   1500,
		Reason:         "не успеваю к десяти",
	}
}

func TestCreate_ClientHappyPath(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	resp, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)

	assert.Equal(t, string(domain.RequestPending), resp.State)
	assert.Equal(t, int64(1), resp.SessionID)
	assert.Equal(t, clientID, resp.RequestorID)
	assert.Equal(t, now.Add(domain.RequestTTL), resp.ExpiresAt)
	assert.Equal(t, 1400, resp.RequestedStart)
}

func TestCreate_NoticeBoundary(t *testing.T) {
	// session starts 2026-09-08 10:00 UTC
	start := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)

	t.Run("client exactly 24h before start succeeds", func(t *testing.T) {
		f := newFixture(start.Add(-domain.ClientRescheduleNotice), testSession())
		_, err := f.svc.Create(context.Background(), createReq(clientID))
		assert.NoError(t, err)
	})

	t.Run("client 23h59m before start fails", func(t *testing.T) {
		f := newFixture(start.Add(-domain.ClientRescheduleNotice+time.Minute), testSession())
		_, err := f.svc.Create(context.Background(), createReq(clientID))
		assert.ErrorIs(t, err, ErrTooLateToReschedule)
	})

	t.Run("trainer only needs the session to be in the future", func(t *testing.T) {
		f := newFixture(start.Add(-time.Hour), testSession())
		_, err := f.svc.Create(context.Background(), createReq(trainerID))
		assert.NoError(t, err)
	})

	t.Run("started session cannot be moved by anyone", func(t *testing.T) {
		f := newFixture(start.Add(time.Minute), testSession())
		_, err := f.svc.Create(context.Background(), createReq(trainerID))
		assert.ErrorIs(t, err, ErrSessionInPast)
	})
}

func TestCreate_Authorization(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	_, err := f.svc.Create(context.Background(), createReq(outsider))
	assert.ErrorIs(t, err, ErrNotSessionParty)
}

func TestCreate_ExpectedIntervalMismatch(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	req := createReq(clientID)
	req.ExpectedDate = sessionDate
	req.ExpectedStart = 1200 // initiator saw a stale interval

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrSessionChanged)
}

func TestCreate_RequestedIntervalBusy(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	other := &domain.SessionRecord{
		ID:        2,
		Date:      sessionDate.AddDate(0, 0, 2),
		StartTime: 1400,
		EndTime:   1500,
		TrainerID: trainerID,
		ClientID:  500,
	}
	f := newFixture(now, testSession(), other)

	_, err := f.svc.Create(context.Background(), createReq(clientID))
	assert.ErrorIs(t, err, ErrIntervalBusy)
}

func TestCreate_OwnIntervalExcluded(t *testing.T) {
	// moving the session half an hour later overlaps its own current
	// interval; the session being moved must not count as busy
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	req := &models.CreateRequest{
		SessionID:      1,
		RequestorID:    clientID,
		RequestedDate:  sessionDate,
		RequestedStart: 1030,
		RequestedEnd:   1130,
	}
	_, err := f.svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreate_SupersedesPendingRequest(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	first, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)

	second, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// the first request is auto-cancelled with a note, the second is pending
	stale, err := f.requests.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestCancelled, stale.State)
	require.NotNil(t, stale.ResponseMessage)
	assert.Equal(t, noteSuperseded, *stale.ResponseMessage)

	pending, err := f.requests.GetPendingBySession(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, pending.ID)
}

func TestApprove_MovesSession(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	created, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)

	resp, err := f.svc.Approve(context.Background(), created.ID, &models.RespondRequest{
		ResponderID: trainerID,
		Message:     "ок, подходит",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestApproved), resp.State)
	require.NotNil(t, resp.ResponderID)
	assert.Equal(t, trainerID, *resp.ResponderID)
	assert.NotNil(t, resp.RespondedAt)

	// the session now lives at the requested interval
	moved, err := f.sessions.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, sessionDate.AddDate(0, 0, 2), moved.Date)
	assert.Equal(t, domain.TimeCode(1400), moved.StartTime)
	assert.Equal(t, domain.TimeCode(1500), moved.EndTime)
}

func TestApprove_OnlyCounterparty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	created, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)

	// the initiator cannot answer their own request
	_, err = f.svc.Approve(context.Background(), created.ID, &models.RespondRequest{
		ResponderID: clientID, Message: "сам себе подтверждаю",
	})
	assert.ErrorIs(t, err, ErrNotCounterparty)

	_, err = f.svc.Approve(context.Background(), created.ID, &models.RespondRequest{
		ResponderID: outsider, Message: "мимо проходил",
	})
	assert.ErrorIs(t, err, ErrNotCounterparty)
}

func TestApprove_IntervalTakenSinceCreation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	created, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)

	// a session lands on the requested interval between creation and approval
	f.sessions.sessions[3] = &domain.SessionRecord{
		ID:        3,
		Date:      sessionDate.AddDate(0, 0, 2),
		StartTime: 1430,
		EndTime:   1530,
		TrainerID: trainerID,
		ClientID:  500,
	}

	_, err = f.svc.Approve(context.Background(), created.ID, &models.RespondRequest{
		ResponderID: trainerID, Message: "ок",
	})
	assert.ErrorIs(t, err, ErrIntervalBusy)

	// the request stays answerable and the session has not moved
	r, err := f.requests.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, r.State)
}

func TestApprove_Expired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	created, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)

	f.clock.t = now.Add(domain.RequestTTL + time.Minute)

	_, err = f.svc.Approve(context.Background(), created.ID, &models.RespondRequest{
		ResponderID: trainerID, Message: "поздно, но ок",
	})
	assert.ErrorIs(t, err, ErrRequestExpired)
}

func TestReject(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("requires a message", func(t *testing.T) {
		f := newFixture(now, testSession())
		created, err := f.svc.Create(context.Background(), createReq(clientID))
		require.NoError(t, err)

		_, err = f.svc.Reject(context.Background(), created.ID, &models.RespondRequest{
			ResponderID: trainerID,
		})
		assert.ErrorIs(t, err, ErrEmptyResponseMessage)
	})

	t.Run("leaves the session in place", func(t *testing.T) {
		f := newFixture(now, testSession())
		created, err := f.svc.Create(context.Background(), createReq(clientID))
		require.NoError(t, err)

		resp, err := f.svc.Reject(context.Background(), created.ID, &models.RespondRequest{
			ResponderID: trainerID, Message: "в это время занят",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.RequestRejected), resp.State)

		session, err := f.sessions.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, domain.TimeCode(1000), session.StartTime)
		assert.Equal(t, sessionDate, session.Date)
	})

	t.Run("terminal request cannot be answered again", func(t *testing.T) {
		f := newFixture(now, testSession())
		created, err := f.svc.Create(context.Background(), createReq(clientID))
		require.NoError(t, err)

		_, err = f.svc.Reject(context.Background(), created.ID, &models.RespondRequest{
			ResponderID: trainerID, Message: "нет",
		})
		require.NoError(t, err)

		_, err = f.svc.Approve(context.Background(), created.ID, &models.RespondRequest{
			ResponderID: trainerID, Message: "передумал",
		})
		assert.ErrorIs(t, err, ErrRequestNotPending)
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("by requestor", func(t *testing.T) {
		f := newFixture(now, testSession())
		created, err := f.svc.Create(context.Background(), createReq(clientID))
		require.NoError(t, err)

		resp, err := f.svc.Cancel(context.Background(), created.ID, &models.CancelRequest{RequestorID: clientID})
		require.NoError(t, err)
		assert.Equal(t, string(domain.RequestCancelled), resp.State)
		require.NotNil(t, resp.ResponseMessage)
		assert.Equal(t, noteCancelled, *resp.ResponseMessage)
	})

	t.Run("counterparty cannot cancel", func(t *testing.T) {
		f := newFixture(now, testSession())
		created, err := f.svc.Create(context.Background(), createReq(clientID))
		require.NoError(t, err)

		_, err = f.svc.Cancel(context.Background(), created.ID, &models.CancelRequest{RequestorID: trainerID})
		assert.ErrorIs(t, err, ErrNotRequestor)
	})

	t.Run("expired request cannot be cancelled", func(t *testing.T) {
		f := newFixture(now, testSession())
		created, err := f.svc.Create(context.Background(), createReq(clientID))
		require.NoError(t, err)

		f.clock.t = now.Add(domain.RequestTTL + time.Minute)
		_, err = f.svc.Cancel(context.Background(), created.ID, &models.CancelRequest{RequestorID: clientID})
		assert.ErrorIs(t, err, ErrRequestExpired)
	})
}

func TestListBySession(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	created, err := f.svc.Create(context.Background(), createReq(clientID))
	require.NoError(t, err)

	t.Run("party sees the requests", func(t *testing.T) {
		resp, err := f.svc.ListBySession(context.Background(), 1, trainerID)
		require.NoError(t, err)
		require.Len(t, resp.Requests, 1)
		assert.Equal(t, created.ID, resp.Requests[0].ID)
	})

	t.Run("outsider is denied", func(t *testing.T) {
		_, err := f.svc.ListBySession(context.Background(), 1, outsider)
		assert.ErrorIs(t, err, ErrNotSessionParty)
	})

	t.Run("pending request past its deadline reads as expired", func(t *testing.T) {
		f.clock.t = now.Add(domain.RequestTTL + time.Minute)
		resp, err := f.svc.ListBySession(context.Background(), 1, clientID)
		require.NoError(t, err)
		require.Len(t, resp.Requests, 1)
		assert.Equal(t, string(domain.RequestExpired), resp.Requests[0].State)
	})
}

func TestCreate_Validation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, testSession())

	tests := []struct {
		name string
		mut  func(r *models.CreateRequest)
	}{
		{"start not before end", func(r *models.CreateRequest) { r.RequestedStart, r.RequestedEnd = 1500, 1400 }},
		{"duration above maximum", func(r *models.CreateRequest) { r.RequestedStart, r.RequestedEnd = 900, 1400 }},
		{"start off the slot grid", func(r *models.CreateRequest) { r.RequestedStart = 1415 }},
		{"missing date", func(r *models.CreateRequest) { r.RequestedDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createReq(clientID)
			tt.mut(req)
			_, err := f.svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
