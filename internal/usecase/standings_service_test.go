package usecase

import (
	"context"
	"reflect"
	"testing"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
)

// completeMatchup publishes scores so the home side covers at tier 0.
func completeMatchup(t *testing.T, f *serviceFixture, matchupID string) {
	t.Helper()
	if _, err := f.grading.ReportMatchupState(context.Background(), ReportStateInput{
		MatchupID: matchupID,
		HomeScore: intPtr(24),
		AwayScore: intPtr(14),
		Status:    matchup.StatusCompleted,
	}); err != nil {
		t.Fatalf("complete matchup %s: %v", matchupID, err)
	}
}

func TestRecomputeUser_Idempotent(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 3, -7)
	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "home"}); err != nil {
		t.Fatalf("submit pick: %v", err)
	}
	completeMatchup(t, f, "m-1")

	if err := f.standings.RecomputeUser(ctx, "u-1", 2025, 3); err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	first := f.standingsRepo.snapshot()

	if err := f.standings.RecomputeUser(ctx, "u-1", 2025, 3); err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if !reflect.DeepEqual(first, f.standingsRepo.snapshot()) {
		t.Fatal("repeated recompute on unchanged inputs changed rows")
	}
}

func TestRecomputeUser_UnresolvedConflictExcluded(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 3, -7)
	f.seedMatchup("m-2", 2025, 3, -7)

	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "home"}); err != nil {
		t.Fatalf("submit authenticated pick: %v", err)
	}
	ap, err := f.picks.SubmitAnonymousPick(ctx, SubmitAnonymousPickInput{Email: "u1@example.com", MatchupID: "m-2", Side: "home"})
	if err != nil {
		t.Fatalf("submit anonymous pick: %v", err)
	}
	if _, err := f.picks.ClaimAnonymousPickSet(ctx, ap.PickSetID, "u-1"); err != nil {
		t.Fatalf("claim pick set: %v", err)
	}

	completeMatchup(t, f, "m-1")
	completeMatchup(t, f, "m-2")

	// Both channels hold picks and no decision exists: no row at all, never
	// a blended sum.
	if _, ok, _ := f.standingsRepo.Get(ctx, "u-1", 2025, 3); ok {
		t.Fatal("unresolved week should have no standings row")
	}
	if _, ok, _ := f.standingsRepo.Get(ctx, "u-1", 2025, 0); ok {
		t.Fatal("season row should exclude the unresolved week")
	}

	if _, err := f.precedence.SetPrecedence(ctx, SetPrecedenceInput{
		UserID: "u-1", Season: 2025, Week: 3, Winner: "authenticated", DecidedBy: "admin",
	}); err != nil {
		t.Fatalf("set precedence: %v", err)
	}

	entry, ok, _ := f.standingsRepo.Get(ctx, "u-1", 2025, 3)
	if !ok {
		t.Fatal("expected standings row after decision")
	}
	if entry.Points != 20 || entry.Wins != 1 {
		t.Fatalf("entry = %+v, want only the authenticated channel counted (20 points)", entry)
	}
}

func TestRecomputeUser_SeasonRowSkipsUnresolvedWeeks(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-w1", 2025, 1, -7)
	f.seedMatchup("m-w2a", 2025, 2, -7)
	f.seedMatchup("m-w2b", 2025, 2, -7)

	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-w1", Side: "home"}); err != nil {
		t.Fatalf("submit week 1 pick: %v", err)
	}
	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-w2a", Side: "home"}); err != nil {
		t.Fatalf("submit week 2 pick: %v", err)
	}
	ap, err := f.picks.SubmitAnonymousPick(ctx, SubmitAnonymousPickInput{Email: "u1@example.com", MatchupID: "m-w2b", Side: "home"})
	if err != nil {
		t.Fatalf("submit anonymous week 2 pick: %v", err)
	}
	if _, err := f.picks.ClaimAnonymousPickSet(ctx, ap.PickSetID, "u-1"); err != nil {
		t.Fatalf("claim pick set: %v", err)
	}

	completeMatchup(t, f, "m-w1")
	completeMatchup(t, f, "m-w2a")
	completeMatchup(t, f, "m-w2b")

	season, ok, _ := f.standingsRepo.Get(ctx, "u-1", 2025, 0)
	if !ok {
		t.Fatal("expected season row")
	}
	if season.Points != 20 || season.Wins != 1 {
		t.Fatalf("season = %+v, want only resolved week 1 counted", season)
	}
}

func TestRecomputeUser_HiddenPicksDropOut(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 3, -7)
	p, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "home"})
	if err != nil {
		t.Fatalf("submit pick: %v", err)
	}
	completeMatchup(t, f, "m-1")

	if err := f.picks.SetPickVisibility(ctx, SetPickVisibilityInput{PickID: p.ID, Visible: false}); err != nil {
		t.Fatalf("hide pick: %v", err)
	}
	if _, ok, _ := f.standingsRepo.Get(ctx, "u-1", 2025, 3); ok {
		t.Fatal("week with only hidden picks should have no row")
	}

	if err := f.picks.SetPickVisibility(ctx, SetPickVisibilityInput{PickID: p.ID, Visible: true}); err != nil {
		t.Fatalf("unhide pick: %v", err)
	}
	entry, ok, _ := f.standingsRepo.Get(ctx, "u-1", 2025, 3)
	if !ok || entry.Points != 20 {
		t.Fatalf("entry = %+v ok=%v, want 20 points restored", entry, ok)
	}
}

func TestLeaderboard_RanksAndFilters(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 3, -7)
	f.seedMatchup("m-2", 2025, 3, -7)

	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-top", MatchupID: "m-1", Side: "home", IsLock: true}); err != nil {
		t.Fatalf("submit pick: %v", err)
	}
	for _, userID := range []string{"u-mid", "u-also"} {
		if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: userID, MatchupID: "m-1", Side: "home"}); err != nil {
			t.Fatalf("submit pick for %s: %v", userID, err)
		}
	}
	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-low", MatchupID: "m-2", Side: "away"}); err != nil {
		t.Fatalf("submit pick: %v", err)
	}

	// 31-10 at -7 grades home at tier 1: lock win 22, plain wins 21.
	if _, err := f.grading.ReportMatchupState(ctx, ReportStateInput{
		MatchupID: "m-1", HomeScore: intPtr(31), AwayScore: intPtr(10), Status: matchup.StatusCompleted,
	}); err != nil {
		t.Fatalf("complete m-1: %v", err)
	}
	completeMatchup(t, f, "m-2")

	entries, err := f.standings.Leaderboard(ctx, standings.Scope{Season: 2025, Week: 3})
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}

	wantUsers := []string{"u-top", "u-also", "u-mid", "u-low"}
	wantRanks := []int{1, 2, 2, 3}
	for i := range entries {
		if entries[i].UserID != wantUsers[i] || entries[i].Rank != wantRanks[i] {
			t.Fatalf("position %d: got %s rank %d, want %s rank %d", i, entries[i].UserID, entries[i].Rank, wantUsers[i], wantRanks[i])
		}
	}
}

type denyListVerifier struct{ denied map[string]struct{} }

func (v denyListVerifier) IsEligible(_ context.Context, userID string) (bool, error) {
	_, denied := v.denied[userID]
	return !denied, nil
}

func TestLeaderboard_VerifierFiltersRows(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 3, -7)
	for _, userID := range []string{"u-paid", "u-unpaid"} {
		if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: userID, MatchupID: "m-1", Side: "home"}); err != nil {
			t.Fatalf("submit pick for %s: %v", userID, err)
		}
	}
	completeMatchup(t, f, "m-1")

	f.standings.verifier = denyListVerifier{denied: map[string]struct{}{"u-unpaid": {}}}

	entries, err := f.standings.Leaderboard(ctx, standings.Scope{Season: 2025, Week: 3})
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "u-paid" {
		t.Fatalf("entries = %+v, want only u-paid", entries)
	}
}

func TestGradeOutcomes_PushScoring(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 3, -14)

	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-plain", MatchupID: "m-1", Side: "home"}); err != nil {
		t.Fatalf("submit pick: %v", err)
	}
	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-lock", MatchupID: "m-1", Side: "away", IsLock: true}); err != nil {
		t.Fatalf("submit locked pick: %v", err)
	}

	// 28-14 at -14 is an exact push on both sides.
	if _, err := f.grading.ReportMatchupState(ctx, ReportStateInput{
		MatchupID: "m-1", HomeScore: intPtr(28), AwayScore: intPtr(14), Status: matchup.StatusCompleted,
	}); err != nil {
		t.Fatalf("complete matchup: %v", err)
	}

	for _, userID := range []string{"u-plain", "u-lock"} {
		entry, ok, _ := f.standingsRepo.Get(ctx, userID, 2025, 3)
		if !ok {
			t.Fatalf("missing entry for %s", userID)
		}
		if entry.Points != pick.BasePushPoints || entry.Pushes != 1 {
			t.Fatalf("user %s: entry = %+v, want a 10 point push; the lock adds nothing without a win", userID, entry)
		}
	}
}
