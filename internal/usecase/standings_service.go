package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/cache"
)

// AggregateRecomputer is the write-side hook the pick, grading, and
// precedence services use to refresh a user's aggregates after mutating
// anything those aggregates are derived from. StandingsService implements it.
type AggregateRecomputer interface {
	RecomputeUser(ctx context.Context, userID string, season, week int) error
}

// AccountVerifier reports whether a user's account is in good standing for
// leaderboard display. A nil verifier treats everyone as eligible, and so
// does any verifier error: account trouble must never hide scored rows.
type AccountVerifier interface {
	IsEligible(ctx context.Context, userID string) (bool, error)
}

const leaderboardCachePrefix = "leaderboard:"

type StandingsService struct {
	matchupRepo   matchup.Repository
	pickRepo      pick.Repository
	anonPickRepo  pick.AnonymousRepository
	decisionRepo  precedence.Repository
	standingsRepo standings.Repository
	verifier      AccountVerifier
	cache         *cache.Store
	now           func() time.Time
}

func NewStandingsService(
	matchupRepo matchup.Repository,
	pickRepo pick.Repository,
	anonPickRepo pick.AnonymousRepository,
	decisionRepo precedence.Repository,
	standingsRepo standings.Repository,
	verifier AccountVerifier,
	cacheStore *cache.Store,
) *StandingsService {
	return &StandingsService{
		matchupRepo:   matchupRepo,
		pickRepo:      pickRepo,
		anonPickRepo:  anonPickRepo,
		decisionRepo:  decisionRepo,
		standingsRepo: standingsRepo,
		verifier:      verifier,
		cache:         cacheStore,
		now:           time.Now,
	}
}

// EligibleWeekPicks resolves the single countable pick collection for one
// user and week: it scans both channels, applies any admin precedence
// decision, and filters by each pick's visibility flag. Anonymous picks are
// returned normalized onto the claimed user.
func (s *StandingsService) EligibleWeekPicks(ctx context.Context, userID string, season, week int) (precedence.Resolution, []pick.Pick, error) {
	authPicks, err := s.pickRepo.ListByUserWeek(ctx, userID, season, week)
	if err != nil {
		return precedence.Resolution{}, nil, fmt.Errorf("list user week picks: %w", err)
	}
	anonPicks, err := s.anonPickRepo.ListByClaimedUserWeek(ctx, userID, season, week)
	if err != nil {
		return precedence.Resolution{}, nil, fmt.Errorf("list claimed anonymous picks: %w", err)
	}

	var decision *precedence.Decision
	if d, ok, getErr := s.decisionRepo.Get(ctx, userID, season, week); getErr != nil {
		return precedence.Resolution{}, nil, fmt.Errorf("get precedence decision: %w", getErr)
	} else if ok {
		decision = &d
	}

	res := precedence.Resolve(len(authPicks) > 0, len(anonPicks) > 0, decision)

	var eligible []pick.Pick
	switch res.Active {
	case precedence.ChannelAuthenticated:
		for _, p := range authPicks {
			if p.Visible {
				eligible = append(eligible, p)
			}
		}
	case precedence.ChannelAnonymous:
		for _, ap := range anonPicks {
			if res.PickSetID != "" && ap.PickSetID != res.PickSetID {
				continue
			}
			if !ap.Visible {
				continue
			}
			eligible = append(eligible, normalizeAnonymousPick(ap))
		}
	}

	return res, eligible, nil
}

func normalizeAnonymousPick(ap pick.AnonymousPick) pick.Pick {
	return pick.Pick{
		ID:        ap.ID,
		UserID:    ap.ClaimedUserID,
		MatchupID: ap.MatchupID,
		Season:    ap.Season,
		Week:      ap.Week,
		Side:      ap.Side,
		IsLock:    ap.IsLock,
		Visible:   ap.Visible,
		Outcome:   ap.Outcome,
		Points:    ap.Points,
		CreatedAt: ap.CreatedAt,
		UpdatedAt: ap.UpdatedAt,
	}
}

// RecomputeUser rebuilds the user's week row and season row from scratch,
// then reranks both scopes. The whole path is a pure recompute over current
// source state, so concurrent or repeated invocations converge on the same
// rows instead of double counting.
func (s *StandingsService) RecomputeUser(ctx context.Context, userID string, season, week int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecomputeUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if season <= 0 {
		return fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if week <= 0 {
		return fmt.Errorf("%w: week must be positive", ErrInvalidInput)
	}

	if err := s.recomputeUserWeek(ctx, userID, season, week); err != nil {
		return err
	}
	if err := s.recomputeUserSeason(ctx, userID, season); err != nil {
		return err
	}
	if err := s.rankScope(ctx, standings.Scope{Season: season, Week: week}); err != nil {
		return err
	}
	if err := s.rankScope(ctx, standings.Scope{Season: season}); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
	}
	return nil
}

func (s *StandingsService) recomputeUserWeek(ctx context.Context, userID string, season, week int) error {
	res, eligible, err := s.EligibleWeekPicks(ctx, userID, season, week)
	if err != nil {
		return err
	}

	// Unresolved conflicts and empty weeks are excluded from aggregates
	// entirely: no row rather than a guessed or blended row.
	if res.State == precedence.StateUnresolved || len(eligible) == 0 {
		if delErr := s.standingsRepo.Delete(ctx, userID, season, week); delErr != nil {
			return fmt.Errorf("delete standings row: %w", delErr)
		}
		return nil
	}

	entry := standings.Entry{
		UserID:    userID,
		Season:    season,
		Week:      week,
		UpdatedAt: s.now().UTC(),
	}
	tallyPicks(&entry, eligible)

	if err := s.standingsRepo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert week standings: %w", err)
	}
	return nil
}

func (s *StandingsService) recomputeUserSeason(ctx context.Context, userID string, season int) error {
	weeks, err := s.userWeeks(ctx, userID, season)
	if err != nil {
		return err
	}

	total := standings.Entry{
		UserID:    userID,
		Season:    season,
		UpdatedAt: s.now().UTC(),
	}
	counted := false
	for _, week := range weeks {
		res, eligible, weekErr := s.EligibleWeekPicks(ctx, userID, season, week)
		if weekErr != nil {
			return weekErr
		}
		if res.State == precedence.StateUnresolved || len(eligible) == 0 {
			continue
		}
		counted = true
		tallyPicks(&total, eligible)
	}

	if !counted {
		if delErr := s.standingsRepo.Delete(ctx, userID, season, 0); delErr != nil {
			return fmt.Errorf("delete season standings row: %w", delErr)
		}
		return nil
	}

	if err := s.standingsRepo.Upsert(ctx, total); err != nil {
		return fmt.Errorf("upsert season standings: %w", err)
	}
	return nil
}

func tallyPicks(entry *standings.Entry, picks []pick.Pick) {
	for _, p := range picks {
		if p.Points != nil {
			entry.Points += *p.Points
		}
		switch p.Outcome {
		case pick.OutcomeWin:
			entry.Wins++
			if p.IsLock {
				entry.LockWins++
			}
		case pick.OutcomeLoss:
			entry.Losses++
			if p.IsLock {
				entry.LockLosses++
			}
		case pick.OutcomePush:
			entry.Pushes++
		}
	}
}

func (s *StandingsService) userWeeks(ctx context.Context, userID string, season int) ([]int, error) {
	authPicks, err := s.pickRepo.ListByUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("list user season picks: %w", err)
	}
	anonPicks, err := s.anonPickRepo.ListByClaimedUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("list claimed anonymous season picks: %w", err)
	}

	seen := make(map[int]struct{})
	for _, p := range authPicks {
		seen[p.Week] = struct{}{}
	}
	for _, ap := range anonPicks {
		seen[ap.Week] = struct{}{}
	}

	weeks := make([]int, 0, len(seen))
	for week := range seen {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)
	return weeks, nil
}

// rankScope rewrites rank numbers from a single ordering pass over every row
// in the scope. Only rows whose rank changed are written back, so a rerun on
// unchanged inputs writes nothing.
func (s *StandingsService) rankScope(ctx context.Context, scope standings.Scope) error {
	entries, err := s.standingsRepo.ListByScope(ctx, scope)
	if err != nil {
		return fmt.Errorf("list standings for ranking: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	previous := make(map[string]int, len(entries))
	for _, e := range entries {
		previous[e.UserID] = e.Rank
	}

	standings.AssignRanks(entries)

	for _, e := range entries {
		if previous[e.UserID] == e.Rank {
			continue
		}
		if err := s.standingsRepo.Upsert(ctx, e); err != nil {
			return fmt.Errorf("upsert ranked standings: %w", err)
		}
	}
	return nil
}

// UserWeekRef names one pending unit of recompute work.
type UserWeekRef struct {
	UserID string
	Week   int
}

// UsersInScope lists every (user, week) pair holding picks inside the scope,
// covering both channels. Unclaimed anonymous picks have no user to
// recompute and are skipped.
func (s *StandingsService) UsersInScope(ctx context.Context, scope standings.Scope) ([]UserWeekRef, error) {
	var matchups []matchup.Matchup
	var err error
	if scope.IsSeason() {
		matchups, err = s.matchupRepo.ListBySeason(ctx, scope.Season)
	} else {
		matchups, err = s.matchupRepo.ListByWeek(ctx, scope.Season, scope.Week)
	}
	if err != nil {
		return nil, fmt.Errorf("list matchups in scope: %w", err)
	}

	seen := make(map[UserWeekRef]struct{})
	for _, m := range matchups {
		picks, listErr := s.pickRepo.ListByMatchup(ctx, m.ID)
		if listErr != nil {
			return nil, fmt.Errorf("list picks by matchup: %w", listErr)
		}
		for _, p := range picks {
			seen[UserWeekRef{UserID: p.UserID, Week: p.Week}] = struct{}{}
		}

		anonPicks, listErr := s.anonPickRepo.ListByMatchup(ctx, m.ID)
		if listErr != nil {
			return nil, fmt.Errorf("list anonymous picks by matchup: %w", listErr)
		}
		for _, ap := range anonPicks {
			if !ap.IsClaimed() {
				continue
			}
			seen[UserWeekRef{UserID: ap.ClaimedUserID, Week: ap.Week}] = struct{}{}
		}
	}

	refs := make([]UserWeekRef, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].UserID != refs[j].UserID {
			return refs[i].UserID < refs[j].UserID
		}
		return refs[i].Week < refs[j].Week
	})
	return refs, nil
}

// Leaderboard returns the ranked rows for a scope, cached briefly to absorb
// read bursts between recomputes.
func (s *StandingsService) Leaderboard(ctx context.Context, scope standings.Scope) ([]standings.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Leaderboard")
	defer span.End()

	if scope.Season <= 0 {
		return nil, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if scope.Week < 0 {
		return nil, fmt.Errorf("%w: week must not be negative", ErrInvalidInput)
	}

	if s.cache == nil {
		return s.loadLeaderboard(ctx, scope)
	}

	key := fmt.Sprintf("%s%d:%d", leaderboardCachePrefix, scope.Season, scope.Week)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.loadLeaderboard(ctx, scope)
	})
	if err != nil {
		return nil, err
	}
	entries, ok := value.([]standings.Entry)
	if !ok {
		return s.loadLeaderboard(ctx, scope)
	}
	return entries, nil
}

func (s *StandingsService) loadLeaderboard(ctx context.Context, scope standings.Scope) ([]standings.Entry, error) {
	entries, err := s.standingsRepo.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list standings by scope: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank < entries[j].Rank
		}
		return entries[i].UserID < entries[j].UserID
	})

	if s.verifier == nil {
		return entries, nil
	}

	filtered := make([]standings.Entry, 0, len(entries))
	for _, e := range entries {
		eligible, verifyErr := s.verifier.IsEligible(ctx, e.UserID)
		if verifyErr != nil {
			// Account lookups failing must not blank the board.
			filtered = append(filtered, e)
			continue
		}
		if eligible {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}
