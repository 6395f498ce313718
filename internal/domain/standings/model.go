package standings

import (
	"sort"
	"time"
)

// Scope addresses one leaderboard. Week 0 selects the season-to-date board.
type Scope struct {
	Season int
	Week   int
}

// IsSeason reports whether the scope covers the whole season.
func (s Scope) IsSeason() bool { return s.Week == 0 }

// Entry is one user's aggregate row for a scope. Rows are derived entirely
// from graded picks; they are recomputed, never incremented.
type Entry struct {
	UserID     string
	Season     int
	Week       int
	Wins       int
	Losses     int
	Pushes     int
	LockWins   int
	LockLosses int
	Points     int
	Rank       int
	UpdatedAt  time.Time
}

// SameTotals reports whether two entries carry identical counted values,
// ignoring rank and timestamps. Used to detect drift between a stored row
// and a fresh recompute.
func (e Entry) SameTotals(other Entry) bool {
	return e.Wins == other.Wins &&
		e.Losses == other.Losses &&
		e.Pushes == other.Pushes &&
		e.LockWins == other.LockWins &&
		e.LockLosses == other.LockLosses &&
		e.Points == other.Points
}

// AssignRanks sorts entries by points descending with user ID as the
// deterministic tiebreak, then writes dense ranks: equal points share a
// rank and the next distinct total takes the next rank number.
func AssignRanks(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Points != entries[i-1].Points {
			rank++
		}
		entries[i].Rank = rank
	}
}
