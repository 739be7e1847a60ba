package resolve_availability

import "errors"

var (
	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("trainer not found")

	// ErrTrainerInactive возвращается, когда тренер деактивирован
	ErrTrainerInactive = errors.New("trainer is inactive")

	// ErrInvalidDuration возвращается при недопустимой длительности сессии
	ErrInvalidDuration = errors.New("invalid session duration")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date")

	// ErrDurationTooLong возвращается, когда ни одно рабочее окно дня
	// не вмещает сессию такой длительности
	ErrDurationTooLong = errors.New("duration does not fit any working window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
