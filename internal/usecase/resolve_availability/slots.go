package resolve_availability

import (
	"github.com/m04kA/PT-SchedulingService/internal/domain"
)

// freeWindows вычитает действующие перерывы из эффективного рабочего окна дня
// и возвращает оставшиеся фрагменты в порядке времени
func freeWindows(effective domain.HoursWindow, offs []domain.OffPeriod) []domain.HoursWindow {
	windows := []domain.HoursWindow{effective}
	for _, off := range offs {
		if off.FullDay {
			return nil
		}
		var rest []domain.HoursWindow
		for _, w := range windows {
			rest = append(rest, w.Subtract(off.Start, off.End)...)
		}
		windows = rest
	}
	return windows
}

// fitsAnywhere проверяет, вмещает ли хоть одно окно интервал такой длительности
func fitsAnywhere(windows []domain.HoursWindow, durationMinutes int) bool {
	for _, w := range windows {
		if w.End().TotalMinutes()-w.Start().TotalMinutes() >= durationMinutes {
			return true
		}
	}
	return false
}

// generateSlots перебирает кандидатов с шагом 30 минут внутри свободных окон
// и оставляет интервалы, не пересекающиеся с занятыми слотами тренера
func generateSlots(windows []domain.HoursWindow, durationMinutes int, busy []domain.TimeCode) []Slot {
	slots := make([]Slot, 0)
	for _, w := range windows {
		for start := w.Start(); start.AddMinutes(durationMinutes) <= w.End(); start = start.AddSlot() {
			end := start.AddMinutes(durationMinutes)
			if overlapsBusy(start, end, busy) {
				continue
			}
			slots = append(slots, Slot{Start: start, End: end})
		}
	}
	return slots
}

func overlapsBusy(start, end domain.TimeCode, busy []domain.TimeCode) bool {
	for _, b := range busy {
		if domain.Overlaps(start, end, b, b.AddSlot()) {
			return true
		}
	}
	return false
}
