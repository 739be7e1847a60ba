package domain

import "time"

// RequestState represents the lifecycle state of a schedule-change request.
type RequestState string

const (
	RequestPending   RequestState = "pending"
	RequestApproved  RequestState = "approved"
	RequestRejected  RequestState = "rejected"
	RequestCancelled RequestState = "cancelled"
	// RequestExpired is never stored: a pending request past its ExpiresAt is
	// reported as expired by read-time checks.
	RequestExpired RequestState = "expired"
)

// ScheduleChangeRequest is a proposal by one party of a confirmed session to
// move it to a new (date, start, end) interval. At most one pending request
// exists per session; a newer request supersedes and cancels the older one.
type ScheduleChangeRequest struct {
	ID          int64
	SessionID   int64
	RequestorID int64

	RequestedDate  time.Time
	RequestedStart TimeCode
	RequestedEnd   TimeCode
	Reason         string

	State           RequestState
	ResponderID     *int64
	ResponseMessage *string

	CreatedAt   time.Time
	ExpiresAt   time.Time
	RespondedAt *time.Time
}

// IsExpiredAt reports whether a pending request has outlived its response window.
func (r *ScheduleChangeRequest) IsExpiredAt(now time.Time) bool {
	return r.State == RequestPending && now.After(r.ExpiresAt)
}

// EffectiveState returns the state as seen at the given instant: a pending
// request past ExpiresAt reads as expired, everything else as stored.
func (r *ScheduleChangeRequest) EffectiveState(now time.Time) RequestState {
	if r.IsExpiredAt(now) {
		return RequestExpired
	}
	return r.State
}

// IsTerminal reports whether the stored state can no longer change.
func (r *ScheduleChangeRequest) IsTerminal() bool {
	return r.State != RequestPending
}
