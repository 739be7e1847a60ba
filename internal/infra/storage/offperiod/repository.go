package offperiod

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	"github.com/m04kA/PT-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PT-SchedulingService/pkg/psqlbuilder"
)

var offPeriodColumns = []string{
	"id",
	"owner_id",
	"weekday",
	"off_date",
	"full_day",
	"start_time",
	"end_time",
}

// Repository репозиторий для чтения off-периодов тренеров и залов
//
// Off-период - это ограничение поверх рабочих часов: либо еженедельная
// запись (weekday), либо датированная (off_date). full_day закрывает
// весь день целиком
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория off-периодов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveOn получает все off-периоды владельца, действующие на конкретную дату:
// датированные на эту дату и еженедельные на её день недели
func (r *Repository) GetActiveOn(ctx context.Context, ownerID int64, date time.Time) ([]domain.OffPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(offPeriodColumns...).
		From("off_periods").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.Or{
			squirrel.Eq{"off_date": date},
			squirrel.Eq{"weekday": int(date.Weekday())},
		}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOn - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, query, args, "GetActiveOn")
}

// GetByOwnerBetween получает off-периоды владельца для горизонта планирования:
// датированные внутри [from, to] плюс все еженедельные
func (r *Repository) GetByOwnerBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.OffPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(offPeriodColumns...).
		From("off_periods").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.GtOrEq{"off_date": from},
				squirrel.LtOrEq{"off_date": to},
			},
			squirrel.NotEq{"weekday": nil},
		}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerBetween - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, query, args, "GetByOwnerBetween")
}

func (r *Repository) query(ctx context.Context, executor dbmetrics.DBExecutor, query string, args []interface{}, op string) ([]domain.OffPeriod, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	periods := make([]domain.OffPeriod, 0)
	for rows.Next() {
		var p domain.OffPeriod
		var weekday sql.NullInt64
		var offDate sql.NullTime
		var start, end int

		err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&weekday,
			&offDate,
			&p.FullDay,
			&start,
			&end,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}

		if weekday.Valid {
			wd := time.Weekday(weekday.Int64)
			p.Weekday = &wd
		}
		if offDate.Valid {
			d := offDate.Time
			p.Date = &d
		}
		p.Start = domain.TimeCode(start)
		p.End = domain.TimeCode(end)

		periods = append(periods, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return periods, nil
}
