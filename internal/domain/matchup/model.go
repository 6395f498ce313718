package matchup

import (
	"math"
	"strings"
	"time"
)

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Side identifies one side of a matchup. A Grade may also carry SidePush
// when neither side covers the spread.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	SidePush Side = "push"
)

// pushTolerance absorbs fractional spreads: any adjusted margin closer to
// zero than this grades as a push.
const pushTolerance = 0.5

// Grade is the derived spread result of a completed matchup.
type Grade struct {
	CoveringSide Side
	BonusTier    int
}

// Matchup is one scheduled contest between two sides with a point spread.
// Spread is relative to the home side: negative means home is favored.
// Scores stay nil until reported by the feed or an admin correction.
type Matchup struct {
	ID        string
	Season    int
	Week      int
	HomeTeam  string
	AwayTeam  string
	Spread    float64
	KickoffAt time.Time
	HomeScore *int
	AwayScore *int
	Status    string
	Grade     *Grade
	UpdatedAt time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusScheduled, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

func (m *Matchup) IsCompleted() bool {
	return NormalizeStatus(m.Status) == StatusCompleted
}

// ResolveSpread grades a finished score line against a spread. It is total
// and deterministic: the same inputs always yield the same grade, which is
// what makes re-grading safe to run arbitrarily often.
func ResolveSpread(homeScore, awayScore int, spread float64) Grade {
	margin := float64(homeScore-awayScore) + spread
	tier := bonusTier(math.Abs(margin))

	if math.Abs(margin) < pushTolerance {
		return Grade{CoveringSide: SidePush, BonusTier: tier}
	}
	if margin > 0 {
		return Grade{CoveringSide: SideHome, BonusTier: tier}
	}
	return Grade{CoveringSide: SideAway, BonusTier: tier}
}

func bonusTier(absMargin float64) int {
	switch {
	case absMargin >= 29:
		return 5
	case absMargin >= 20:
		return 3
	case absMargin >= 11:
		return 1
	default:
		return 0
	}
}

// Regrade derives the grade the matchup should carry from its current
// scores, spread and status. It returns nil whenever the matchup is not
// gradeable; callers must clear the stored grade in that case rather than
// leave a stale one behind.
func (m *Matchup) Regrade() *Grade {
	if !m.IsCompleted() || m.HomeScore == nil || m.AwayScore == nil {
		return nil
	}
	grade := ResolveSpread(*m.HomeScore, *m.AwayScore, m.Spread)
	return &grade
}

// GradeMatches reports whether the stored grade equals the freshly derived
// one. Used by the auditor to detect drift without mutating anything.
func (m *Matchup) GradeMatches(derived *Grade) bool {
	if m.Grade == nil || derived == nil {
		return m.Grade == nil && derived == nil
	}
	return m.Grade.CoveringSide == derived.CoveringSide && m.Grade.BonusTier == derived.BonusTier
}
