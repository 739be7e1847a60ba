package request

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
	"github.com/m04kA/PT-SchedulingService/pkg/ptr"
)

var requestColumns = []string{
	"id",
	"session_id",
	"requestor_id",
	"requested_date",
	"requested_start",
	"requested_end",
	"reason",
	"state",
	"responder_id",
	"response_message",
	"created_at",
	"expires_at",
	"responded_at",
}

// Repository репозиторий для работы с запросами на перенос сессий
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория запросов на перенос
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый запрос на перенос в состоянии pending
func (r *Repository) Create(ctx context.Context, req *domain.ScheduleChangeRequest) (*domain.ScheduleChangeRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_change_requests").
		Columns(
			"session_id",
			"requestor_id",
			"requested_date",
			"requested_start",
			"requested_end",
			"reason",
			"state",
			"expires_at",
		).
		Values(
			req.SessionID,
			req.RequestorID,
			req.RequestedDate,
			int(req.RequestedStart),
			int(req.RequestedEnd),
			req.Reason,
			string(domain.RequestPending),
			req.ExpiresAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	req.State = domain.RequestPending
	req.CreatedAt = createdAt.Time

	return req, nil
}

// GetByID получает запрос на перенос по ID
// Внутри транзакции строка блокируется (FOR UPDATE) - ответы на запрос
// перепроверяют состояние перед записью
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ScheduleChangeRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From("schedule_change_requests").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// GetPendingBySession получает pending-запрос для сессии, если он есть
// На сессию единовременно существует не более одного pending-запроса
func (r *Repository) GetPendingBySession(ctx context.Context, sessionID int64) (*domain.ScheduleChangeRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From("schedule_change_requests").
		Where(squirrel.Eq{
			"session_id": sessionID,
			"state":      string(domain.RequestPending),
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingBySession - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingBySession - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// ListBySession получает все запросы на перенос для сессии, новые первыми
func (r *Repository) ListBySession(ctx context.Context, sessionID int64) ([]*domain.ScheduleChangeRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("schedule_change_requests").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	requests := make([]*domain.ScheduleChangeRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBySession - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySession - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}

// MarkResponded переводит pending-запрос в терминальное состояние с ответом
// Условие state='pending' в WHERE закрывает гонку между конкурентными ответами:
// проигравший получает ErrRequestNotFound
func (r *Repository) MarkResponded(ctx context.Context, id int64, state domain.RequestState, responderID int64, message string) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_change_requests").
		Set("state", string(state)).
		Set("responder_id", responderID).
		Set("response_message", message).
		Set("responded_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":    id,
			"state": string(domain.RequestPending),
		}).
		Suffix("RETURNING responded_at").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: MarkResponded - build update query: %v", ErrBuildQuery, err)
	}

	var respondedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&respondedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrRequestNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: MarkResponded - execute update: %v", ErrExecQuery, err)
	}

	return respondedAt, nil
}

// MarkCancelled переводит pending-запрос в состояние cancelled
// Используется и для отмены инициатором, и для автоматического вытеснения
// старого запроса новым (с системной пометкой)
func (r *Repository) MarkCancelled(ctx context.Context, id int64, note string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_change_requests").
		Set("state", string(domain.RequestCancelled)).
		Set("response_message", note).
		Set("responded_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":    id,
			"state": string(domain.RequestPending),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.ScheduleChangeRequest, error) {
	var req domain.ScheduleChangeRequest
	var start, end int
	var state string
	var responderID sql.NullInt64
	var responseMessage sql.NullString
	var createdAt, expiresAt, respondedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.SessionID,
		&req.RequestorID,
		&req.RequestedDate,
		&start,
		&end,
		&req.Reason,
		&state,
		&responderID,
		&responseMessage,
		&createdAt,
		&expiresAt,
		&respondedAt,
	)
	if err != nil {
		return nil, err
	}

	req.RequestedStart = domain.TimeCode(start)
	req.RequestedEnd = domain.TimeCode(end)
	req.State = domain.RequestState(state)
	if responderID.Valid {
		req.ResponderID = ptr.Ptr(responderID.Int64)
	}
	if responseMessage.Valid {
		req.ResponseMessage = ptr.Ptr(responseMessage.String)
	}
	req.CreatedAt = createdAt.Time
	req.ExpiresAt = expiresAt.Time
	if respondedAt.Valid {
		req.RespondedAt = ptr.Ptr(respondedAt.Time)
	}

	return &req, nil
}
