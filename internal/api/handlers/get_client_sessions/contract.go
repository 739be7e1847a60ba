package get_client_sessions

import (
	"context"

	"github.com/m04kA/PT-SchedulingService/internal/service/sessions/models"
)

type SessionService interface {
	GetClientSessions(ctx context.Context, clientID int64, req *models.ListSessionsRequest) (*models.SessionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
