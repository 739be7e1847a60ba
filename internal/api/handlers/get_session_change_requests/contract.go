package get_session_change_requests

import (
	"context"

	"github.com/m04kA/PT-SchedulingService/internal/service/requests/models"
)

type RequestService interface {
	ListBySession(ctx context.Context, sessionID int64, userID int64) (*models.RequestListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
