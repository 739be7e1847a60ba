package domain

import "fmt"

// TimeCode is a time of day encoded as an integer in HHMM form (e.g. 1430 = 14:30).
// All scheduling happens at 30-minute granularity, so a valid TimeCode is always
// a multiple of 30 minutes in the range [0, 2400].
//
// Time-of-day values cross every service boundary in this encoding, never as
// wall-clock strings, so there is no timezone ambiguity inside the core.
type TimeCode int

const (
	// DayStart is the earliest TimeCode of a calendar day.
	DayStart TimeCode = 0
	// DayEnd is the exclusive upper bound of a calendar day.
	DayEnd TimeCode = 2400
)

// NewTimeCode builds a TimeCode from an hour and minute pair.
func NewTimeCode(hour, minute int) TimeCode {
	return TimeCode(hour*100 + minute)
}

// Hour returns the hour component.
func (t TimeCode) Hour() int {
	return int(t) / 100
}

// Minute returns the minute component.
func (t TimeCode) Minute() int {
	return int(t) % 100
}

// TotalMinutes returns the number of minutes since midnight.
func (t TimeCode) TotalMinutes() int {
	return t.Hour()*60 + t.Minute()
}

// Validate reports whether the TimeCode is a well-formed slot boundary:
// in range [0, 2400] and aligned to the 30-minute grid.
func (t TimeCode) Validate() error {
	if t < DayStart || t > DayEnd {
		return fmt.Errorf("time code %d out of range [0, 2400]", int(t))
	}
	if m := t.Minute(); m != 0 && m != SlotMinutes {
		return fmt.Errorf("time code %d is not aligned to %d-minute slots", int(t), SlotMinutes)
	}
	return nil
}

// AddSlot returns the TimeCode one slot (30 minutes) later, rolling the hour
// on the half-hour boundary: 1430.AddSlot() == 1500.
func (t TimeCode) AddSlot() TimeCode {
	if t.Minute() >= SlotMinutes {
		return TimeCode((t.Hour()+1)*100)
	}
	return t + SlotMinutes
}

// AddMinutes returns the TimeCode the given number of minutes later.
// Minutes must be a multiple of the slot size for the result to stay on the grid.
func (t TimeCode) AddMinutes(minutes int) TimeCode {
	total := t.TotalMinutes() + minutes
	return TimeCode((total/60)*100 + total%60)
}

// String formats the TimeCode as "HH:MM".
func (t TimeCode) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap, so
// back-to-back sessions never conflict.
func Overlaps(aStart, aEnd, bStart, bEnd TimeCode) bool {
	return aStart < bEnd && bStart < aEnd
}

// SlotsBetween enumerates the slot-start TimeCodes occupied by the half-open
// interval [start, end) in ascending order. A 90-minute session starting at
// 1400 occupies {1400, 1430, 1500}.
func SlotsBetween(start, end TimeCode) []TimeCode {
	if start >= end {
		return nil
	}
	slots := make([]TimeCode, 0, (end.TotalMinutes()-start.TotalMinutes())/SlotMinutes)
	for t := start; t < end; t = t.AddSlot() {
		slots = append(slots, t)
	}
	return slots
}
