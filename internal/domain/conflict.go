package domain

// ConflictParty identifies whose calendar a conflict was found on.
type ConflictParty string

const (
	PartyTrainer ConflictParty = "trainer"
	PartyClient  ConflictParty = "client"
)

// Conflict describes the first existing interval that collides with a
// candidate, for diagnostics.
type Conflict struct {
	Party ConflictParty
	Start TimeCode
	End   TimeCode
}

// DetectConflict checks the candidate interval [start, end) against the
// occupied slot snapshots of the trainer and the client for one date.
// Both parties are checked independently; occupancy must be derived from
// confirmed sessions only. Returns nil when the interval is free for both.
//
// Each busy TimeCode occupies the half-open slot [t, t+30), so a session
// ending exactly where the candidate starts never conflicts.
func DetectConflict(start, end TimeCode, trainerBusy, clientBusy []TimeCode) *Conflict {
	if c := firstConflict(start, end, trainerBusy, PartyTrainer); c != nil {
		return c
	}
	return firstConflict(start, end, clientBusy, PartyClient)
}

func firstConflict(start, end TimeCode, busy []TimeCode, party ConflictParty) *Conflict {
	for _, slot := range busy {
		if Overlaps(start, end, slot, slot.AddSlot()) {
			return &Conflict{Party: party, Start: slot, End: slot.AddSlot()}
		}
	}
	return nil
}
