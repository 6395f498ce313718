package pick

import "github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"

const (
	BaseWinPoints  = 20
	BasePushPoints = 10
)

// Grade computes a pick's outcome and point value from its matchup's
// current grade. An ungraded matchup yields (pending, nil) so that a status
// reversal cascades into cleared pick results instead of stale ones.
//
// Points: win = 20 base + bonus tier, push = 10, loss = 0. A lock doubles
// the bonus only; base points are never doubled, and a locked push earns no
// bonus because bonus applies to wins alone.
func Grade(grade *matchup.Grade, side matchup.Side, isLock bool) (Outcome, *int) {
	if grade == nil {
		return OutcomePending, nil
	}

	if grade.CoveringSide == matchup.SidePush {
		points := BasePushPoints
		return OutcomePush, &points
	}

	if side != grade.CoveringSide {
		points := 0
		return OutcomeLoss, &points
	}

	bonus := grade.BonusTier
	if isLock {
		bonus *= 2
	}
	points := BaseWinPoints + bonus
	return OutcomeWin, &points
}

// GradeMatches reports whether stored (outcome, points) equal the freshly
// derived pair. Shared by the grading cascade (skip unchanged writes) and
// the auditor (detect drift).
func GradeMatches(stored Outcome, storedPoints *int, derived Outcome, derivedPoints *int) bool {
	if stored != derived {
		return false
	}
	if storedPoints == nil || derivedPoints == nil {
		return storedPoints == nil && derivedPoints == nil
	}
	return *storedPoints == *derivedPoints
}
