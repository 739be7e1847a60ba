package create_change_request

import (
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	"github.com/m04kA/PT-SchedulingService/internal/service/requests/models"
)

// CreateChangeRequestBody HTTP request model.
// Expected-поля фиксируют интервал сессии, который видел инициатор
type CreateChangeRequestBody struct {
	RequestedDate  string `json:"requestedDate"`
	RequestedStart int    `json:"requestedStart"`
	RequestedEnd   int    `json:"requestedEnd"`
	Reason         string `json:"reason"`
	ExpectedDate   string `json:"expectedDate,omitempty"`
	ExpectedStart  int    `json:"expectedStart,omitempty"`
}

// ToServiceRequest создает запрос сервиса из HTTP модели
func ToServiceRequest(sessionID, requestorID int64, body *CreateChangeRequestBody) (*models.CreateRequest, error) {
	requestedDate, err := time.Parse(domain.DateFormat, body.RequestedDate)
	if err != nil {
		return nil, err
	}

	var expectedDate time.Time
	if body.ExpectedDate != "" {
		expectedDate, err = time.Parse(domain.DateFormat, body.ExpectedDate)
		if err != nil {
			return nil, err
		}
	}

	return &models.CreateRequest{
		SessionID:      sessionID,
		RequestorID:    requestorID,
		RequestedDate:  requestedDate,
		RequestedStart: body.RequestedStart,
		RequestedEnd:   body.RequestedEnd,
		Reason:         body.Reason,
		ExpectedDate:   expectedDate,
		ExpectedStart:  body.ExpectedStart,
	}, nil
}
