package plan_preschedule

import "errors"

var (
	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("trainer not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("client not found")

	// ErrNoPendingApplication возвращается, когда у клиента нет ожидающей
	// заявки на пакет у этого тренера
	ErrNoPendingApplication = errors.New("no pending package application")

	// ErrTooFewAdHocSessions возвращается, когда для разового паттерна
	// предложено меньше минимума сессий
	ErrTooFewAdHocSessions = errors.New("too few sessions for an ad-hoc plan")

	// ErrTooManySessions возвращается, когда предложено больше сессий,
	// чем вмещает пакет
	ErrTooManySessions = errors.New("too many sessions for the package")

	// ErrAnchorCountMismatch возвращается, когда число якорных сессий
	// регулярного паттерна не совпадает с недельным количеством пакета
	ErrAnchorCountMismatch = errors.New("anchor count does not match the weekly pattern")

	// ErrAnchorsOutsideWindow возвращается, когда якорные сессии не
	// укладываются в одну неделю от первой выбранной даты
	ErrAnchorsOutsideWindow = errors.New("anchors are not within one week of the first date")

	// ErrScheduleUnsatisfiable возвращается, когда регулярный паттерн
	// не удается развернуть в пределах горизонта проекции
	ErrScheduleUnsatisfiable = errors.New("regular schedule cannot be satisfied")

	// ErrInvalidDuration возвращается при недопустимой длительности сессии
	ErrInvalidDuration = errors.New("invalid session duration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
