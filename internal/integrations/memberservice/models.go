package memberservice

// Trainer модель тренера из MemberService
type Trainer struct {
	ID         int64  `json:"id"`
	FacilityID int64  `json:"facility_id"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
}

// ClientProfile модель клиента из MemberService
type ClientProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от MemberService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
