package domain

import "time"

// HoursWindow is the operating window of one party (trainer or facility) on one
// day of the week. The closed state is explicit rather than the (0,0) sentinel
// the storage layer uses, so no arithmetic can run on a closed window by mistake.
type HoursWindow struct {
	open  bool
	start TimeCode
	end   TimeCode
}

// ClosedWindow returns the window of a non-operating day.
func ClosedWindow() HoursWindow {
	return HoursWindow{}
}

// OpenWindow returns an operating window [start, end).
func OpenWindow(start, end TimeCode) HoursWindow {
	return HoursWindow{open: true, start: start, end: end}
}

// IsOpen reports whether the party operates at all within this window.
func (w HoursWindow) IsOpen() bool {
	return w.open && w.start < w.end
}

// Start returns the opening TimeCode. Only meaningful when IsOpen.
func (w HoursWindow) Start() TimeCode {
	return w.start
}

// End returns the closing TimeCode. Only meaningful when IsOpen.
func (w HoursWindow) End() TimeCode {
	return w.end
}

// Intersect returns the overlap of two windows. If either side is closed or
// the windows do not meet, the result is closed.
func (w HoursWindow) Intersect(other HoursWindow) HoursWindow {
	if !w.IsOpen() || !other.IsOpen() {
		return ClosedWindow()
	}
	start := w.start
	if other.start > start {
		start = other.start
	}
	end := w.end
	if other.end < end {
		end = other.end
	}
	if start >= end {
		return ClosedWindow()
	}
	return OpenWindow(start, end)
}

// Subtract removes the half-open interval [from, to) from the window and
// returns the remaining fragments, in order. Subtracting from a closed window
// yields nothing; an interval outside the window leaves it intact.
func (w HoursWindow) Subtract(from, to TimeCode) []HoursWindow {
	if !w.IsOpen() {
		return nil
	}
	if !Overlaps(w.start, w.end, from, to) {
		return []HoursWindow{w}
	}

	var rest []HoursWindow
	if w.start < from {
		rest = append(rest, OpenWindow(w.start, from))
	}
	if to < w.end {
		rest = append(rest, OpenWindow(to, w.end))
	}
	return rest
}

// WorkingHour is one weekday row of a party's operating calendar.
// Trainers and facilities each own an independent set, one entry per weekday;
// a trainer without an entry for a day inherits the facility's.
type WorkingHour struct {
	OwnerID int64
	Weekday time.Weekday
	Window  HoursWindow
}

// OffPeriod is an additive restriction on top of working hours: either a
// recurring weekly entry (Weekday set) or a dated one (Date set), scoped to a
// trainer or a facility. A full-day entry removes the entire day; off periods
// never extend availability.
type OffPeriod struct {
	ID      int64
	OwnerID int64
	Weekday *time.Weekday
	Date    *time.Time
	FullDay bool
	Start   TimeCode
	End     TimeCode
}

// AppliesTo reports whether the off period is active on the given calendar date.
func (o OffPeriod) AppliesTo(date time.Time) bool {
	if o.Date != nil {
		return sameDate(*o.Date, date)
	}
	if o.Weekday != nil {
		return *o.Weekday == date.Weekday()
	}
	return false
}

// Blocks reports whether the off period removes any part of [start, end)
// on a date it applies to.
func (o OffPeriod) Blocks(start, end TimeCode) bool {
	if o.FullDay {
		return true
	}
	return Overlaps(o.Start, o.End, start, end)
}

// DaySchedule maps an ISO date ("2006-01-02") to the ascending slot-start
// TimeCodes occupied on that date by one party. It serves both as the occupied
// snapshot read from storage and as the proposed schedule a planner builds up.
type DaySchedule map[string][]TimeCode

// Occupied returns the occupied slot starts for a date.
func (d DaySchedule) Occupied(date time.Time) []TimeCode {
	return d[date.Format(DateFormat)]
}

// Add marks the slots of the half-open interval [start, end) occupied on date.
func (d DaySchedule) Add(date time.Time, start, end TimeCode) {
	key := date.Format(DateFormat)
	d[key] = append(d[key], SlotsBetween(start, end)...)
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
