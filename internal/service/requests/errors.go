package requests

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("session not found")

	// ErrRequestNotFound возвращается, когда запрос на перенос не найден
	ErrRequestNotFound = errors.New("schedule change request not found")

	// ErrNotSessionParty возвращается, когда инициатор не является
	// участником сессии
	ErrNotSessionParty = errors.New("actor is not a party of the session")

	// ErrNotCounterparty возвращается, когда на запрос отвечает не та
	// сторона: ответить может только участник, не создававший запрос
	ErrNotCounterparty = errors.New("only the other party may respond to the request")

	// ErrNotRequestor возвращается, когда запрос отменяет не его инициатор
	ErrNotRequestor = errors.New("only the requestor may cancel the request")

	// ErrSessionChanged возвращается, когда сессия уже не совпадает с тем,
	// что ожидал инициатор (её успели перенести)
	ErrSessionChanged = errors.New("session no longer matches the expected interval")

	// ErrSessionInPast возвращается, когда переносимая сессия уже началась
	ErrSessionInPast = errors.New("session is not in the future")

	// ErrTooLateToReschedule возвращается, когда клиент просит перенос
	// менее чем за 24 часа до начала сессии
	ErrTooLateToReschedule = errors.New("client requests require at least 24 hours notice")

	// ErrIntervalBusy возвращается, когда запрошенный интервал занят
	// у тренера или у клиента
	ErrIntervalBusy = errors.New("requested interval is already booked")

	// ErrRequestNotPending возвращается при попытке ответить на запрос
	// в терминальном состоянии
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrRequestExpired возвращается при попытке операции над запросом,
	// у которого истек срок ответа
	ErrRequestExpired = errors.New("request has expired")

	// ErrEmptyResponseMessage возвращается при отклонении без пояснения
	ErrEmptyResponseMessage = errors.New("rejection requires a response message")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
