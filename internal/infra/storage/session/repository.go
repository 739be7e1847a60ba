package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	"github.com/m04kA/PT-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PT-SchedulingService/pkg/psqlbuilder"
)

var sessionColumns = []string{
	"s.id",
	"s.slot_id",
	"sl.session_date",
	"sl.start_time",
	"sl.end_time",
	"s.trainer_id",
	"s.client_id",
	"s.package_id",
	"s.created_at",
	"s.updated_at",
}

// Repository репозиторий для работы с тренировочными сессиями
//
// Сессия ссылается на разделяемый слот (schedule_slots) с интервалом
// (date, start_time, end_time); перенос сессии через change request
// перепривязывает её к другому слоту
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindOrCreateSlot находит или создает разделяемый слот для интервала
// Слоты уникальны по (session_date, start_time, end_time), поэтому insert
// выполняется с ON CONFLICT DO NOTHING и повторным select
func (r *Repository) FindOrCreateSlot(ctx context.Context, date time.Time, start, end domain.TimeCode) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("schedule_slots").
		Columns("session_date", "start_time", "end_time").
		Values(date, int(start), int(end)).
		Suffix("ON CONFLICT (session_date, start_time, end_time) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: FindOrCreateSlot - build insert query: %v", ErrBuildQuery, err)
	}

	var slotID int64
	err = executor.QueryRowContext(ctx, insertQuery, insertArgs...).Scan(&slotID)
	if err == nil {
		return slotID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: FindOrCreateSlot - execute insert: %v", ErrExecQuery, err)
	}

	// Слот уже существует - выбираем его id
	selectQuery, selectArgs, err := psqlbuilder.Select("id").
		From("schedule_slots").
		Where(squirrel.Eq{
			"session_date": date,
			"start_time":   int(start),
			"end_time":     int(end),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: FindOrCreateSlot - build select query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, selectQuery, selectArgs...).Scan(&slotID); err != nil {
		return 0, fmt.Errorf("%w: FindOrCreateSlot - scan slot id: %v", ErrScanRow, err)
	}

	return slotID, nil
}

// Create создает новую сессию, находя или создавая слот для её интервала
func (r *Repository) Create(ctx context.Context, s *domain.SessionRecord) (*domain.SessionRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slotID, err := r.FindOrCreateSlot(ctx, s.Date, s.StartTime, s.EndTime)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("sessions").
		Columns("slot_id", "trainer_id", "client_id", "package_id").
		Values(slotID, s.TrainerID, s.ClientID, s.PackageID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.SlotID = slotID
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.SessionRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("sessions s").
		Join("schedule_slots sl ON sl.id = s.slot_id").
		Where(squirrel.Eq{"s.id": id})

	// Внутри транзакции блокируем строку сессии (участвует в переносе)
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF s")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetByTrainerOn получает подтвержденные сессии тренера на конкретную дату,
// отсортированные по времени начала
// Внутри транзакции строки блокируются (FOR UPDATE) - используется коммитом
// расписания и одобрением переноса для перепроверки занятости
func (r *Repository) GetByTrainerOn(ctx context.Context, trainerID int64, date time.Time) ([]*domain.SessionRecord, error) {
	return r.listOn(ctx, squirrel.Eq{"s.trainer_id": trainerID}, date, "GetByTrainerOn")
}

// GetByClientOn получает подтвержденные сессии клиента на конкретную дату,
// отсортированные по времени начала
func (r *Repository) GetByClientOn(ctx context.Context, clientID int64, date time.Time) ([]*domain.SessionRecord, error) {
	return r.listOn(ctx, squirrel.Eq{"s.client_id": clientID}, date, "GetByClientOn")
}

// ListByTrainerBetween получает сессии тренера за период [from, to]
func (r *Repository) ListByTrainerBetween(ctx context.Context, trainerID int64, from, to time.Time) ([]*domain.SessionRecord, error) {
	return r.listBetween(ctx, squirrel.Eq{"s.trainer_id": trainerID}, from, to, "ListByTrainerBetween")
}

// ListByClientBetween получает сессии клиента за период [from, to]
func (r *Repository) ListByClientBetween(ctx context.Context, clientID int64, from, to time.Time) ([]*domain.SessionRecord, error) {
	return r.listBetween(ctx, squirrel.Eq{"s.client_id": clientID}, from, to, "ListByClientBetween")
}

// Repoint перепривязывает сессию к другому слоту (перенос на новый интервал)
func (r *Repository) Repoint(ctx context.Context, sessionID, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("slot_id", slotID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Repoint - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Repoint - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Repoint - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *Repository) listOn(ctx context.Context, cond squirrel.Eq, date time.Time, op string) ([]*domain.SessionRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("sessions s").
		Join("schedule_slots sl ON sl.id = s.slot_id").
		Where(cond).
		Where(squirrel.Eq{"sl.session_date": date}).
		OrderBy("sl.start_time ASC")

	// Внутри транзакции блокируем строки для перепроверки занятости
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF s")
	}

	return r.querySessions(ctx, executor, selectBuilder, op)
}

func (r *Repository) listBetween(ctx context.Context, cond squirrel.Eq, from, to time.Time, op string) ([]*domain.SessionRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("sessions s").
		Join("schedule_slots sl ON sl.id = s.slot_id").
		Where(cond).
		Where(squirrel.GtOrEq{"sl.session_date": from}).
		Where(squirrel.LtOrEq{"sl.session_date": to}).
		OrderBy("sl.session_date ASC, sl.start_time ASC")

	return r.querySessions(ctx, executor, selectBuilder, op)
}

func (r *Repository) querySessions(ctx context.Context, executor DBExecutor, selectBuilder squirrel.SelectBuilder, op string) ([]*domain.SessionRecord, error) {
	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	sessions := make([]*domain.SessionRecord, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return sessions, nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.SessionRecord, error) {
	var s domain.SessionRecord
	var start, end int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.SlotID,
		&s.Date,
		&start,
		&end,
		&s.TrainerID,
		&s.ClientID,
		&s.PackageID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.StartTime = domain.TimeCode(start)
	s.EndTime = domain.TimeCode(end)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
