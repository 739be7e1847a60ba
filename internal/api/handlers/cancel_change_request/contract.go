package cancel_change_request

import (
	"context"

	"github.com/m04kA/PT-SchedulingService/internal/service/requests/models"
)

type RequestService interface {
	Cancel(ctx context.Context, requestID int64, req *models.CancelRequest) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
