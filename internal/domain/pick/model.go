package pick

import (
	"strings"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
)

type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomePush    Outcome = "push"
)

// Pick is an authenticated user's chosen side for a matchup. Outcome and
// Points are derived values owned by the grading pipeline; everything else
// is immutable once the matchup kicks off.
type Pick struct {
	ID        string
	UserID    string
	MatchupID string
	Season    int
	Week      int
	Side      matchup.Side
	IsLock    bool
	Visible   bool
	Outcome   Outcome
	Points    *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidationState tracks how an anonymous submission was vetted before a
// claim. It never affects grading, only operator review.
type ValidationState string

const (
	ValidationUnvalidated   ValidationState = "unvalidated"
	ValidationAutoValidated ValidationState = "auto_validated"
	ValidationManual        ValidationState = "manually_validated"
)

// AnonymousPick is a pick submitted by email before the submitter has an
// account. PickSetID groups one email's picks for a week; a claim binds the
// whole set to a user, at which point the set becomes a second, parallel
// pick collection for that user and week.
type AnonymousPick struct {
	ID            string
	PickSetID     string
	Email         string
	ClaimedUserID string
	MatchupID     string
	Season        int
	Week          int
	Side          matchup.Side
	IsLock        bool
	Visible       bool
	Validation    ValidationState
	Outcome       Outcome
	Points        *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *AnonymousPick) IsClaimed() bool {
	return strings.TrimSpace(p.ClaimedUserID) != ""
}

// NormalizeSide accepts only the two pickable sides; a grade's push side is
// never a valid choice.
func NormalizeSide(value string) (matchup.Side, bool) {
	switch matchup.Side(strings.ToLower(strings.TrimSpace(value))) {
	case matchup.SideHome:
		return matchup.SideHome, true
	case matchup.SideAway:
		return matchup.SideAway, true
	default:
		return "", false
	}
}
