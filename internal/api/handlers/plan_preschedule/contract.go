package plan_preschedule

import (
	"context"

	planPreschedule "github.com/m04kA/PT-SchedulingService/internal/usecase/plan_preschedule"
)

type PlanPrescheduleUseCase interface {
	Execute(ctx context.Context, req *planPreschedule.Request) (*planPreschedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
