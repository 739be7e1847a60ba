package commit_schedule

import "errors"

var (
	// ErrApplicationNotFound возвращается, когда заявка не найдена
	ErrApplicationNotFound = errors.New("package application not found")

	// ErrApplicationNotPending возвращается, когда заявка уже подтверждена
	ErrApplicationNotPending = errors.New("package application is not pending")

	// ErrApplicationMismatch возвращается, когда заявка принадлежит
	// другой паре клиент-тренер
	ErrApplicationMismatch = errors.New("application belongs to a different client or trainer")

	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("trainer not found")

	// ErrTooManySessions возвращается, когда фиксируется больше сессий,
	// чем вмещает пакет
	ErrTooManySessions = errors.New("too many sessions for the package")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

// errConflictInTx сигнальная ошибка: конфликт обнаружен внутри транзакции,
// сессия пропускается, а не прерывает всю фиксацию
var errConflictInTx = errors.New("conflict detected in transaction")
