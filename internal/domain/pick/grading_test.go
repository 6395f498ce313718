package pick

import (
	"testing"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
)

func intPtr(v int) *int { return &v }

func TestGrade_Points(t *testing.T) {
	cases := []struct {
		name        string
		grade       *matchup.Grade
		side        matchup.Side
		isLock      bool
		wantOutcome Outcome
		wantPoints  *int
	}{
		{
			name:        "ungraded matchup stays pending",
			grade:       nil,
			side:        matchup.SideHome,
			wantOutcome: OutcomePending,
			wantPoints:  nil,
		},
		{
			name:        "push pays base push points either side",
			grade:       &matchup.Grade{CoveringSide: matchup.SidePush},
			side:        matchup.SideAway,
			wantOutcome: OutcomePush,
			wantPoints:  intPtr(10),
		},
		{
			name:        "locked push gets no bonus",
			grade:       &matchup.Grade{CoveringSide: matchup.SidePush},
			side:        matchup.SideHome,
			isLock:      true,
			wantOutcome: OutcomePush,
			wantPoints:  intPtr(10),
		},
		{
			name:        "win tier one",
			grade:       &matchup.Grade{CoveringSide: matchup.SideHome, BonusTier: 1},
			side:        matchup.SideHome,
			wantOutcome: OutcomeWin,
			wantPoints:  intPtr(21),
		},
		{
			name:        "locked win doubles bonus only",
			grade:       &matchup.Grade{CoveringSide: matchup.SideHome, BonusTier: 1},
			side:        matchup.SideHome,
			isLock:      true,
			wantOutcome: OutcomeWin,
			wantPoints:  intPtr(22),
		},
		{
			name:        "win without bonus tier",
			grade:       &matchup.Grade{CoveringSide: matchup.SideAway, BonusTier: 0},
			side:        matchup.SideAway,
			wantOutcome: OutcomeWin,
			wantPoints:  intPtr(20),
		},
		{
			name:        "loss scores zero",
			grade:       &matchup.Grade{CoveringSide: matchup.SideAway, BonusTier: 0},
			side:        matchup.SideHome,
			wantOutcome: OutcomeLoss,
			wantPoints:  intPtr(0),
		},
		{
			name:        "locked loss still scores zero",
			grade:       &matchup.Grade{CoveringSide: matchup.SideAway, BonusTier: 3},
			side:        matchup.SideHome,
			isLock:      true,
			wantOutcome: OutcomeLoss,
			wantPoints:  intPtr(0),
		},
		{
			name:        "locked blowout win",
			grade:       &matchup.Grade{CoveringSide: matchup.SideHome, BonusTier: 5},
			side:        matchup.SideHome,
			isLock:      true,
			wantOutcome: OutcomeWin,
			wantPoints:  intPtr(30),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, points := Grade(tc.grade, tc.side, tc.isLock)
			if outcome != tc.wantOutcome {
				t.Fatalf("outcome: got=%s want=%s", outcome, tc.wantOutcome)
			}
			if !GradeMatches(outcome, points, tc.wantOutcome, tc.wantPoints) {
				t.Fatalf("points: got=%v want=%v", points, tc.wantPoints)
			}
		})
	}
}

func TestGrade_LockNeverChangesBasePoints(t *testing.T) {
	grades := []*matchup.Grade{
		{CoveringSide: matchup.SideHome, BonusTier: 0},
		{CoveringSide: matchup.SideHome, BonusTier: 1},
		{CoveringSide: matchup.SideHome, BonusTier: 3},
		{CoveringSide: matchup.SideHome, BonusTier: 5},
		{CoveringSide: matchup.SidePush},
	}

	for _, g := range grades {
		_, plain := Grade(g, matchup.SideHome, false)
		_, locked := Grade(g, matchup.SideHome, true)
		if plain == nil || locked == nil {
			t.Fatalf("graded matchup must yield points, tier=%d", g.BonusTier)
		}
		if *locked-*plain != g.BonusTier && g.CoveringSide != matchup.SidePush {
			t.Fatalf("lock must add exactly one extra bonus tier: plain=%d locked=%d tier=%d", *plain, *locked, g.BonusTier)
		}
		if g.CoveringSide == matchup.SidePush && *locked != *plain {
			t.Fatalf("locked push must not differ: plain=%d locked=%d", *plain, *locked)
		}
	}
}
