package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
)

func TestSubmitPick_WeeklyLimit(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		f.seedMatchup(fmt.Sprintf("m-%d", i), 2025, 4, -3)
	}

	for i := 1; i <= 6; i++ {
		if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: fmt.Sprintf("m-%d", i), Side: "home"}); err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
	}

	_, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-7", Side: "home"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("seventh pick: err = %v, want ErrInvalidInput", err)
	}

	// Replacing an existing pick stays within the limit.
	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-3", Side: "away"}); err != nil {
		t.Fatalf("replacement pick: %v", err)
	}
}

func TestSubmitPick_SingleLock(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 4, -3)
	f.seedMatchup("m-2", 2025, 4, -3)

	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "home", IsLock: true}); err != nil {
		t.Fatalf("first lock: %v", err)
	}
	_, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-2", Side: "home", IsLock: true})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second lock: err = %v, want ErrInvalidInput", err)
	}

	// Moving the lock by replacing the locked pick is fine.
	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "away", IsLock: true}); err != nil {
		t.Fatalf("replace locked pick: %v", err)
	}
}

func TestSubmitPick_RejectedAfterKickoff(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	m := f.seedMatchup("m-1", 2025, 4, -3)
	m.Status = matchup.StatusInProgress
	_ = f.matchupRepo.Upsert(ctx, m)

	_, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "home"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict once the matchup has started", err)
	}
}

func TestSubmitAnonymousPick_SharesOnePickSetPerWeek(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 4, -3)
	f.seedMatchup("m-2", 2025, 4, -3)
	f.seedMatchup("m-next", 2025, 5, -3)

	first, err := f.picks.SubmitAnonymousPick(ctx, SubmitAnonymousPickInput{Email: "Fan@Example.com", MatchupID: "m-1", Side: "home"})
	if err != nil {
		t.Fatalf("first anonymous pick: %v", err)
	}
	if first.Email != "fan@example.com" {
		t.Fatalf("email = %q, want lowercased", first.Email)
	}
	if first.Validation != pick.ValidationUnvalidated {
		t.Fatalf("validation = %q, want unvalidated", first.Validation)
	}

	second, err := f.picks.SubmitAnonymousPick(ctx, SubmitAnonymousPickInput{Email: "fan@example.com", MatchupID: "m-2", Side: "away"})
	if err != nil {
		t.Fatalf("second anonymous pick: %v", err)
	}
	if second.PickSetID != first.PickSetID {
		t.Fatalf("same week picks split across sets: %q vs %q", second.PickSetID, first.PickSetID)
	}

	nextWeek, err := f.picks.SubmitAnonymousPick(ctx, SubmitAnonymousPickInput{Email: "fan@example.com", MatchupID: "m-next", Side: "home"})
	if err != nil {
		t.Fatalf("next week anonymous pick: %v", err)
	}
	if nextWeek.PickSetID == first.PickSetID {
		t.Fatal("a new week must start a new pick set")
	}
}

func TestClaimAnonymousPickSet(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 4, -3)

	ap, err := f.picks.SubmitAnonymousPick(ctx, SubmitAnonymousPickInput{Email: "fan@example.com", MatchupID: "m-1", Side: "home"})
	if err != nil {
		t.Fatalf("submit anonymous pick: %v", err)
	}

	claimed, err := f.picks.ClaimAnonymousPickSet(ctx, ap.PickSetID, "u-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 1 || claimed[0].ClaimedUserID != "u-1" {
		t.Fatalf("claimed = %+v, want one pick owned by u-1", claimed)
	}
	if claimed[0].Validation != pick.ValidationAutoValidated {
		t.Fatalf("validation = %q, want auto_validated after claim", claimed[0].Validation)
	}

	// Claiming again with the same user is a no-op.
	if _, err := f.picks.ClaimAnonymousPickSet(ctx, ap.PickSetID, "u-1"); err != nil {
		t.Fatalf("repeat claim: %v", err)
	}

	_, err = f.picks.ClaimAnonymousPickSet(ctx, ap.PickSetID, "u-2")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("claim by second user: err = %v, want ErrConflict", err)
	}

	_, err = f.picks.ClaimAnonymousPickSet(ctx, "missing-set", "u-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("claim of missing set: err = %v, want ErrNotFound", err)
	}
}

func TestSetPickVisibility_Ownership(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 4, -3)
	p, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "home"})
	if err != nil {
		t.Fatalf("submit pick: %v", err)
	}

	err = f.picks.SetPickVisibility(ctx, SetPickVisibilityInput{PickID: p.ID, ActorUserID: "u-2", Visible: false})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign actor: err = %v, want ErrUnauthorized", err)
	}

	if err := f.picks.SetPickVisibility(ctx, SetPickVisibilityInput{PickID: p.ID, ActorUserID: "u-1", Visible: false}); err != nil {
		t.Fatalf("owner hiding pick: %v", err)
	}
	stored, _, _ := f.pickRepo.GetByID(ctx, p.ID)
	if stored.Visible {
		t.Fatal("pick should be hidden")
	}

	err = f.picks.SetPickVisibility(ctx, SetPickVisibilityInput{PickID: "missing", Visible: true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing pick: err = %v, want ErrNotFound", err)
	}
}

func TestListUserWeekPicks(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	f.seedMatchup("m-1", 2025, 4, -3)
	f.seedMatchup("m-2", 2025, 4, -3)

	if _, err := f.picks.SubmitPick(ctx, SubmitPickInput{UserID: "u-1", MatchupID: "m-1", Side: "home"}); err != nil {
		t.Fatalf("submit pick: %v", err)
	}
	ap, err := f.picks.SubmitAnonymousPick(ctx, SubmitAnonymousPickInput{Email: "u1@example.com", MatchupID: "m-2", Side: "away"})
	if err != nil {
		t.Fatalf("submit anonymous pick: %v", err)
	}
	if _, err := f.picks.ClaimAnonymousPickSet(ctx, ap.PickSetID, "u-1"); err != nil {
		t.Fatalf("claim: %v", err)
	}

	week, err := f.picks.ListUserWeekPicks(ctx, "u-1", 2025, 4)
	if err != nil {
		t.Fatalf("list week picks: %v", err)
	}
	if len(week.Authenticated) != 1 || len(week.Anonymous) != 1 {
		t.Fatalf("got %d authenticated, %d anonymous, want 1 and 1", len(week.Authenticated), len(week.Anonymous))
	}
	if week.Resolution.State != "unresolved" {
		t.Fatalf("resolution state = %q, want unresolved without a decision", week.Resolution.State)
	}
}
