package domain

import (
	"errors"
	"time"
)

// MaxProjectionWeeks bounds how far a weekly recurrence may be extended to make
// up for skipped occurrences. A recurring off period that blocks an anchor
// weekday forever would otherwise never let the projection terminate.
const MaxProjectionWeeks = 52

// ErrProjectionUnsatisfiable is returned when the recurrence cannot reach the
// requested session total within MaxProjectionWeeks.
var ErrProjectionUnsatisfiable = errors.New("regular schedule cannot be satisfied within the projection horizon")

// Anchor is one weekday/time slot of the first week of a regular pattern.
type Anchor struct {
	Date  time.Time
	Start TimeCode
}

// Occurrence is one projected session interval.
type Occurrence struct {
	Date  time.Time
	Start TimeCode
	End   TimeCode
}

// occurrenceIterator lazily walks the weekly recurrence of a set of anchors:
// week 0 yields every anchor at its own date, week 1 the same slots seven days
// later, and so on. It yields candidates only; filtering is the caller's job.
type occurrenceIterator struct {
	anchors         []Anchor
	durationMinutes int
	week            int
	idx             int
}

func newOccurrenceIterator(anchors []Anchor, durationMinutes int) *occurrenceIterator {
	return &occurrenceIterator{anchors: anchors, durationMinutes: durationMinutes}
}

// next returns the following candidate occurrence and whether the iterator is
// still within the projection horizon.
func (it *occurrenceIterator) next() (Occurrence, bool) {
	if len(it.anchors) == 0 || it.week >= MaxProjectionWeeks {
		return Occurrence{}, false
	}
	a := it.anchors[it.idx]
	occ := Occurrence{
		Date:  a.Date.AddDate(0, 0, 7*it.week),
		Start: a.Start,
		End:   a.Start.AddMinutes(it.durationMinutes),
	}
	it.idx++
	if it.idx == len(it.anchors) {
		it.idx = 0
		it.week++
	}
	return occ, true
}

// ProjectRegularSchedule expands a regular pattern into totalCount concrete
// occurrences. Candidates blocked by an off period are skipped and made up by
// extending the recurrence another week, so the result always holds exactly
// totalCount occurrences; a skipped week lengthens the series, it never
// shrinks it.
func ProjectRegularSchedule(anchors []Anchor, durationMinutes, totalCount int, offs []OffPeriod) ([]Occurrence, error) {
	out := make([]Occurrence, 0, totalCount)
	it := newOccurrenceIterator(anchors, durationMinutes)
	for len(out) < totalCount {
		occ, ok := it.next()
		if !ok {
			return nil, ErrProjectionUnsatisfiable
		}
		if occurrenceBlocked(occ, offs) {
			continue
		}
		out = append(out, occ)
	}
	return out, nil
}

func occurrenceBlocked(occ Occurrence, offs []OffPeriod) bool {
	for _, off := range offs {
		if off.AppliesTo(occ.Date) && off.Blocks(occ.Start, occ.End) {
			return true
		}
	}
	return false
}
