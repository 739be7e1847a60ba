package workhours

import "errors"

var (
	// ErrWorkingHourNotFound возвращается, когда запись рабочих часов не найдена
	ErrWorkingHourNotFound = errors.New("workhours.repository: working hour not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("workhours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("workhours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("workhours.repository: failed to scan row")
)
