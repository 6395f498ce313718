package precedence

import "time"

// Channel names one of the two parallel pick collections a user can hold
// for the same week.
type Channel string

const (
	ChannelAuthenticated Channel = "authenticated"
	ChannelAnonymous     Channel = "anonymous"
)

// State classifies a (user, week) after scanning both channels.
type State string

const (
	StateNoConflict          State = "no_conflict"
	StateAuthenticatedActive State = "authenticated_active"
	StateAnonymousActive     State = "anonymous_active"
	// StateUnresolved means both channels hold picks and no admin decision
	// exists. The user is excluded from aggregates until resolved; totals
	// are never blended and never guessed.
	StateUnresolved State = "unresolved"
)

// Decision is an admin's explicit choice of winning channel for a user and
// week. PickSetID optionally names a specific anonymous pick set when the
// anonymous channel wins.
type Decision struct {
	UserID    string
	Season    int
	Week      int
	Winner    Channel
	PickSetID string
	DecidedBy string
	DecidedAt time.Time
}

// Resolution is the resolver's verdict for one (user, week).
type Resolution struct {
	State     State
	Active    Channel
	PickSetID string
}

// Eligible reports whether the resolution selects any channel at all.
func (r Resolution) Eligible() bool {
	return r.State != StateUnresolved
}
