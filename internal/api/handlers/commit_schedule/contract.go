package commit_schedule

import (
	"context"

	commitSchedule "github.com/m04kA/PT-SchedulingService/internal/usecase/commit_schedule"
)

type CommitScheduleUseCase interface {
	Execute(ctx context.Context, req *commitSchedule.Request) (*commitSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
