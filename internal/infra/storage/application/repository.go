package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	"github.com/m04kA/PT-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PT-SchedulingService/pkg/psqlbuilder"
)

var applicationColumns = []string{
	"id",
	"client_id",
	"trainer_id",
	"is_regular",
	"session_count",
	"total_sessions",
	"status",
	"created_at",
	"confirmed_at",
}

// Repository репозиторий для работы с заявками на пакеты тренировок
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает заявку по ID
// Внутри транзакции строка блокируется (FOR UPDATE) - подтверждение заявки
// не должно гоняться с параллельным коммитом того же плана
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PackageApplication, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(applicationColumns...).
		From("package_applications").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	app, err := scanApplication(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan application: %v", ErrScanRow, err)
	}

	return app, nil
}

// GetPendingByClient получает ожидающую заявку клиента к тренеру, если она есть
func (r *Repository) GetPendingByClient(ctx context.Context, clientID, trainerID int64) (*domain.PackageApplication, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(applicationColumns...).
		From("package_applications").
		Where(squirrel.Eq{
			"client_id":  clientID,
			"trainer_id": trainerID,
			"status":     string(domain.ApplicationPending),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingByClient - build select query: %v", ErrBuildQuery, err)
	}

	app, err := scanApplication(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingByClient - scan application: %v", ErrScanRow, err)
	}

	return app, nil
}

// MarkConfirmed переводит ожидающую заявку в состояние confirmed
// Условие status='pending' в WHERE защищает от повторного подтверждения
func (r *Repository) MarkConfirmed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("package_applications").
		Set("status", string(domain.ApplicationConfirmed)).
		Set("confirmed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": string(domain.ApplicationPending),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkConfirmed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkConfirmed - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkConfirmed - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrApplicationNotFound
	}

	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*domain.PackageApplication, error) {
	var app domain.PackageApplication
	var status string
	var createdAt sql.NullTime
	var confirmedAt sql.NullTime

	err := row.Scan(
		&app.ID,
		&app.ClientID,
		&app.TrainerID,
		&app.Pattern.Regular,
		&app.Pattern.Count,
		&app.TotalSessions,
		&status,
		&createdAt,
		&confirmedAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = domain.ApplicationStatus(status)
	app.CreatedAt = createdAt.Time
	if confirmedAt.Valid {
		t := confirmedAt.Time
		app.ConfirmedAt = &t
	}

	return &app, nil
}
