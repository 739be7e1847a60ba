package domain

import "time"

// SessionRecord is one confirmed one-on-one training session. It references a
// shared slot row (SlotID) holding the (date, start, end) interval; rescheduling
// through an approved change request repoints the session to another slot.
//
// Invariant: for a fixed TrainerID no two records with overlapping
// [StartTime, EndTime) exist on the same date, and the same holds independently
// for ClientID. This is the central correctness property of the service.
type SessionRecord struct {
	ID        int64
	SlotID    int64
	Date      time.Time
	StartTime TimeCode
	EndTime   TimeCode
	TrainerID int64
	ClientID  int64
	PackageID int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartsAt composes the calendar date and start TimeCode into a wall-clock
// instant in the date's location.
func (s *SessionRecord) StartsAt() time.Time {
	return time.Date(
		s.Date.Year(), s.Date.Month(), s.Date.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), 0, 0, s.Date.Location(),
	)
}

// DurationMinutes returns the session length in minutes.
func (s *SessionRecord) DurationMinutes() int {
	return s.EndTime.TotalMinutes() - s.StartTime.TotalMinutes()
}

// Pattern describes how a training package lays out its sessions.
// When Regular is true, Count is the number of sessions per calendar week and
// all sessions share their weekday/time across weeks, anchored to the first
// chosen date. When Regular is false, Count is the total number of sessions
// and each date is chosen independently.
type Pattern struct {
	Regular bool
	Count   int
}

// BusySlots flattens confirmed sessions into the ascending slot-start TimeCodes
// they occupy, skipping the excluded session (used when validating a move of
// that same session). Sessions are expected to be pre-sorted by start time.
func BusySlots(sessions []*SessionRecord, excludeSessionID int64) []TimeCode {
	var busy []TimeCode
	for _, s := range sessions {
		if excludeSessionID != 0 && s.ID == excludeSessionID {
			continue
		}
		busy = append(busy, SlotsBetween(s.StartTime, s.EndTime)...)
	}
	return busy
}
