package pick

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyPicks     = errors.New("pick limit for week exceeded")
	ErrDuplicateLock    = errors.New("only one lock pick allowed per week")
	ErrDuplicateMatchup = errors.New("duplicate pick for matchup")
	ErrUnknownSide      = errors.New("unknown pick side")
	ErrMatchupStarted   = errors.New("matchup already started")
)

// Rules stores submission validation parameters.
type Rules struct {
	MaxPicksPerWeek int
}

func DefaultRules() Rules {
	return Rules{MaxPicksPerWeek: 6}
}

// Candidate is the side/lock pair a submission proposes for one matchup.
type Candidate struct {
	MatchupID string
	Side      string
	IsLock    bool
}

// ValidateAddition checks a week's pick set after applying one candidate on
// top of the picks already stored for that user and week. A candidate for a
// matchup the set already contains replaces the stored pick, so it does not
// count against the limit twice. Violations are rejected here, at write
// time, never clamped.
func ValidateAddition(existingMatchupIDs []string, existingLocks int, replacesLock bool, candidate Candidate, rules Rules) error {
	if _, ok := NormalizeSide(candidate.Side); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSide, candidate.Side)
	}

	replacing := false
	for _, id := range existingMatchupIDs {
		if id == candidate.MatchupID {
			replacing = true
			break
		}
	}

	count := len(existingMatchupIDs)
	if !replacing {
		count++
	}
	if count > rules.MaxPicksPerWeek {
		return fmt.Errorf("%w: max=%d", ErrTooManyPicks, rules.MaxPicksPerWeek)
	}

	locks := existingLocks
	if replacing && replacesLock {
		locks--
	}
	if candidate.IsLock {
		locks++
	}
	if locks > 1 {
		return ErrDuplicateLock
	}

	return nil
}
