package plan_preschedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PT-SchedulingService/internal/domain"
	workhoursRepo "github.com/m04kA/PT-SchedulingService/internal/infra/storage/workhours"
	"github.com/m04kA/PT-SchedulingService/internal/integrations/memberservice"
)

// daySnapshot снимок одного дня: свободные рабочие окна после вычитания
// перерывов и занятые слоты обеих сторон по подтвержденным сессиям
type daySnapshot struct {
	windows     []domain.HoursWindow
	trainerBusy []domain.TimeCode
	clientBusy  []domain.TimeCode
}

// planner прогоняет предложенные сессии через доступность и детектор
// конфликтов, накапливая уже принятые предложения как занятые слоты:
// два предложения одного плана тоже не должны пересекаться между собой
type planner struct {
	uc      *UseCase
	trainer *memberservice.Trainer
	client  int64

	snapshots       map[string]*daySnapshot
	proposedTrainer domain.DaySchedule
	proposedClient  domain.DaySchedule
}

func newPlanner(uc *UseCase, trainer *memberservice.Trainer, clientID int64) *planner {
	return &planner{
		uc:              uc,
		trainer:         trainer,
		client:          clientID,
		snapshots:       make(map[string]*daySnapshot),
		proposedTrainer: make(domain.DaySchedule),
		proposedClient:  make(domain.DaySchedule),
	}
}

// evaluate проверяет одну сессию; nil-причина означает, что сессия
// осуществима и учтена в дальнейших проверках как занятая
func (p *planner) evaluate(ctx context.Context, occ domain.Occurrence) (RejectReason, error) {
	snap, err := p.snapshot(ctx, occ.Date)
	if err != nil {
		return "", err
	}

	if !fitsWindows(snap.windows, occ.Start, occ.End) {
		return ReasonOutsideWorkingHours, nil
	}

	trainerBusy := append(append([]domain.TimeCode{}, snap.trainerBusy...), p.proposedTrainer.Occupied(occ.Date)...)
	clientBusy := append(append([]domain.TimeCode{}, snap.clientBusy...), p.proposedClient.Occupied(occ.Date)...)

	if conflict := domain.DetectConflict(occ.Start, occ.End, trainerBusy, clientBusy); conflict != nil {
		if conflict.Party == domain.PartyTrainer {
			return ReasonTrainerBusy, nil
		}
		return ReasonClientBusy, nil
	}

	p.proposedTrainer.Add(occ.Date, occ.Start, occ.End)
	p.proposedClient.Add(occ.Date, occ.Start, occ.End)
	return "", nil
}

func (p *planner) snapshot(ctx context.Context, date time.Time) (*daySnapshot, error) {
	key := date.Format(domain.DateFormat)
	if snap, ok := p.snapshots[key]; ok {
		return snap, nil
	}

	windows, err := p.freeWindows(ctx, date)
	if err != nil {
		return nil, err
	}

	trainerSessions, err := p.uc.sessionRepo.GetByTrainerOn(ctx, p.trainer.ID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get trainer sessions: %v", ErrInternal, err)
	}
	clientSessions, err := p.uc.sessionRepo.GetByClientOn(ctx, p.client, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get client sessions: %v", ErrInternal, err)
	}

	snap := &daySnapshot{
		windows:     windows,
		trainerBusy: domain.BusySlots(trainerSessions, 0),
		clientBusy:  domain.BusySlots(clientSessions, 0),
	}
	p.snapshots[key] = snap
	return snap, nil
}

func (p *planner) freeWindows(ctx context.Context, date time.Time) ([]domain.HoursWindow, error) {
	weekday := date.Weekday()

	facilityWindow, err := p.uc.workHoursRepo.GetWindow(ctx, p.trainer.FacilityID, weekday)
	if err != nil {
		if errors.Is(err, workhoursRepo.ErrWorkingHourNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get facility working hours: %v", ErrInternal, err)
	}
	trainerWindow, err := p.uc.workHoursRepo.GetTrainerWindow(ctx, p.trainer.ID, p.trainer.FacilityID, weekday)
	if err != nil {
		if errors.Is(err, workhoursRepo.ErrWorkingHourNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get trainer working hours: %v", ErrInternal, err)
	}

	effective := trainerWindow.Intersect(facilityWindow)
	if !effective.IsOpen() {
		return nil, nil
	}

	trainerOffs, err := p.uc.offPeriodRepo.GetActiveOn(ctx, p.trainer.ID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get trainer off periods: %v", ErrInternal, err)
	}
	facilityOffs, err := p.uc.offPeriodRepo.GetActiveOn(ctx, p.trainer.FacilityID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get facility off periods: %v", ErrInternal, err)
	}

	windows := []domain.HoursWindow{effective}
	for _, off := range append(trainerOffs, facilityOffs...) {
		if off.FullDay {
			return nil, nil
		}
		var rest []domain.HoursWindow
		for _, w := range windows {
			rest = append(rest, w.Subtract(off.Start, off.End)...)
		}
		windows = rest
	}
	return windows, nil
}

// fitsWindows проверяет, что интервал целиком лежит в одном свободном окне
func fitsWindows(windows []domain.HoursWindow, start, end domain.TimeCode) bool {
	for _, w := range windows {
		if w.IsOpen() && start >= w.Start() && end <= w.End() {
			return true
		}
	}
	return false
}
