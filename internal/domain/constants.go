package domain

import "time"

// Slot granularity
const (
	// SlotMinutes is the scheduling granularity. Every session starts and ends
	// on a 30-minute boundary.
	SlotMinutes = 30
)

// Session duration limits
const (
	MinSessionDurationMinutes = 30
	MaxSessionDurationMinutes = 240 // 4 hours
)

// Change-request rules
const (
	// RequestTTL is how long a pending schedule-change request stays answerable.
	RequestTTL = 48 * time.Hour

	// ClientRescheduleNotice is the minimum time before session start for a
	// client-initiated change request. Trainer-initiated requests only require
	// the session to still be in the future.
	ClientRescheduleNotice = 24 * time.Hour
)

// Preschedule rules
const (
	// MinAdHocSessions is the minimum number of dates an ad-hoc plan must pick
	// up front; the remainder of the package can be filled in later.
	MinAdHocSessions = 2

	// AnchorWindowDays is the window from the anchor date within which all
	// first-week sessions of a regular plan must fall.
	AnchorWindowDays = 7
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
