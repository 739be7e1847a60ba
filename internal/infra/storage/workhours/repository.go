package workhours

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

// Repository репозиторий для чтения рабочих часов тренеров и залов
//
// Таблица working_hours хранит по одной записи на день недели для каждого
// владельца (тренер или зал). Пара (0,0) означает выходной день
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWindow получает окно рабочих часов владельца на день недели
// Возвращает ErrWorkingHourNotFound, если записи на этот день нет
func (r *Repository) GetWindow(ctx context.Context, ownerID int64, weekday time.Weekday) (domain.HoursWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("open_time", "close_time").
		From("working_hours").
		Where(squirrel.Eq{
			"owner_id": ownerID,
			"weekday":  int(weekday),
		}).
		ToSql()
	if err != nil {
		return domain.ClosedWindow(), fmt.Errorf("%w: GetWindow - build select query: %v", ErrBuildQuery, err)
	}

	var openTime, closeTime int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&openTime, &closeTime)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ClosedWindow(), ErrWorkingHourNotFound
	}
	if err != nil {
		return domain.ClosedWindow(), fmt.Errorf("%w: GetWindow - scan working hour: %v", ErrScanRow, err)
	}

	return toWindow(openTime, closeTime), nil
}

// GetTrainerWindow получает окно рабочих часов тренера на день недели
// с учетом наследования: если у тренера нет собственной записи на этот день,
// используется запись зала. Если нет ни той, ни другой - ErrWorkingHourNotFound
//
// Приоритет применения:
// 1. Собственная запись тренера (trainerID, weekday)
// 2. Запись зала (facilityID, weekday)
func (r *Repository) GetTrainerWindow(ctx context.Context, trainerID, facilityID int64, weekday time.Weekday) (domain.HoursWindow, error) {
	window, err := r.GetWindow(ctx, trainerID, weekday)
	if err == nil {
		return window, nil
	}
	if !errors.Is(err, ErrWorkingHourNotFound) {
		return domain.ClosedWindow(), fmt.Errorf("%w: GetTrainerWindow - trainer level: %v", ErrExecQuery, err)
	}

	window, err = r.GetWindow(ctx, facilityID, weekday)
	if err == nil {
		return window, nil
	}
	if !errors.Is(err, ErrWorkingHourNotFound) {
		return domain.ClosedWindow(), fmt.Errorf("%w: GetTrainerWindow - facility level: %v", ErrExecQuery, err)
	}

	return domain.ClosedWindow(), ErrWorkingHourNotFound
}

// toWindow конвертирует пару (open, close) из БД в доменное окно
// Сентинель (0,0) означает выходной день
func toWindow(openTime, closeTime int) domain.HoursWindow {
	if openTime == 0 && closeTime == 0 {
		return domain.ClosedWindow()
	}
	return domain.OpenWindow(domain.TimeCode(openTime), domain.TimeCode(closeTime))
}
