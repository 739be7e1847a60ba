package domain

import "time"

// ApplicationStatus is the confirmation state of a package application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationConfirmed ApplicationStatus = "confirmed"
)

// PackageApplication is a client's purchased-but-unscheduled training package.
// Prescheduling plans sessions against a pending application; committing the
// plan confirms it. A client holds at most one pending application per trainer.
type PackageApplication struct {
	ID        int64
	ClientID  int64
	TrainerID int64
	Pattern   Pattern
	// TotalSessions is the package size. For a regular pattern it spans several
	// weeks of Pattern.Count sessions each; for an ad-hoc pattern it equals
	// Pattern.Count.
	TotalSessions int
	Status        ApplicationStatus

	CreatedAt   time.Time
	ConfirmedAt *time.Time
}

// IsPending reports whether the application still awaits a committed plan.
func (a *PackageApplication) IsPending() bool {
	return a.Status == ApplicationPending
}
