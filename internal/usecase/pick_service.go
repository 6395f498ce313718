package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/id"
)

// PickService owns both submission channels. Rule violations (too many
// picks, duplicate lock, started matchup) are rejected at write time and
// never clamped; no scoring logic lives here.
type PickService struct {
	matchupRepo  matchup.Repository
	pickRepo     pick.Repository
	anonPickRepo pick.AnonymousRepository
	decisionRepo precedence.Repository
	recomputer   AggregateRecomputer
	idGen        id.Generator
	rules        pick.Rules
	now          func() time.Time
}

func NewPickService(
	matchupRepo matchup.Repository,
	pickRepo pick.Repository,
	anonPickRepo pick.AnonymousRepository,
	decisionRepo precedence.Repository,
	recomputer AggregateRecomputer,
	idGen id.Generator,
	rules pick.Rules,
) *PickService {
	if rules.MaxPicksPerWeek <= 0 {
		rules = pick.DefaultRules()
	}
	return &PickService{
		matchupRepo:  matchupRepo,
		pickRepo:     pickRepo,
		anonPickRepo: anonPickRepo,
		decisionRepo: decisionRepo,
		recomputer:   recomputer,
		idGen:        idGen,
		rules:        rules,
		now:          time.Now,
	}
}

type SubmitPickInput struct {
	UserID    string
	MatchupID string
	Side      string
	IsLock    bool
}

// SubmitPick creates or replaces the user's pick on a matchup. Resubmitting
// for the same matchup replaces the existing pick in place.
func (s *PickService) SubmitPick(ctx context.Context, input SubmitPickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SubmitPick")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return pick.Pick{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	m, err := s.pickableMatchup(ctx, input.MatchupID)
	if err != nil {
		return pick.Pick{}, err
	}

	existing, err := s.pickRepo.ListByUserWeek(ctx, userID, m.Season, m.Week)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("list user week picks: %w", err)
	}

	var replaced *pick.Pick
	matchupIDs := make([]string, 0, len(existing))
	locks := 0
	for i := range existing {
		matchupIDs = append(matchupIDs, existing[i].MatchupID)
		if existing[i].IsLock {
			locks++
		}
		if existing[i].MatchupID == m.ID {
			replaced = &existing[i]
		}
	}

	replacesLock := replaced != nil && replaced.IsLock
	candidate := pick.Candidate{MatchupID: m.ID, Side: input.Side, IsLock: input.IsLock}
	if err := pick.ValidateAddition(matchupIDs, locks, replacesLock, candidate, s.rules); err != nil {
		return pick.Pick{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	side, _ := pick.NormalizeSide(input.Side)

	now := s.now().UTC()
	var row pick.Pick
	if replaced != nil {
		row = *replaced
		row.Side = side
		row.IsLock = input.IsLock
		row.Outcome = pick.OutcomePending
		row.Points = nil
		row.UpdatedAt = now
	} else {
		pickID, idErr := s.idGen.NewID()
		if idErr != nil {
			return pick.Pick{}, fmt.Errorf("generate pick id: %w", idErr)
		}
		row = pick.Pick{
			ID:        pickID,
			UserID:    userID,
			MatchupID: m.ID,
			Season:    m.Season,
			Week:      m.Week,
			Side:      side,
			IsLock:    input.IsLock,
			Visible:   true,
			Outcome:   pick.OutcomePending,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := s.pickRepo.Upsert(ctx, row); err != nil {
		return pick.Pick{}, fmt.Errorf("upsert pick: %w", err)
	}
	if err := s.recomputer.RecomputeUser(ctx, userID, m.Season, m.Week); err != nil {
		return pick.Pick{}, err
	}
	return row, nil
}

type SubmitAnonymousPickInput struct {
	Email     string
	MatchupID string
	Side      string
	IsLock    bool
}

// SubmitAnonymousPick records a pick owned by an email address. Picks for
// the same email and week share one pick set so a later claim moves them as
// a unit. Unclaimed picks never touch aggregates.
func (s *PickService) SubmitAnonymousPick(ctx context.Context, input SubmitAnonymousPickInput) (pick.AnonymousPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SubmitAnonymousPick")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return pick.AnonymousPick{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	m, err := s.pickableMatchup(ctx, input.MatchupID)
	if err != nil {
		return pick.AnonymousPick{}, err
	}

	existing, err := s.anonPickRepo.ListByEmailWeek(ctx, email, m.Season, m.Week)
	if err != nil {
		return pick.AnonymousPick{}, fmt.Errorf("list anonymous picks by email: %w", err)
	}

	var replaced *pick.AnonymousPick
	pickSetID := ""
	matchupIDs := make([]string, 0, len(existing))
	locks := 0
	for i := range existing {
		pickSetID = existing[i].PickSetID
		matchupIDs = append(matchupIDs, existing[i].MatchupID)
		if existing[i].IsLock {
			locks++
		}
		if existing[i].MatchupID == m.ID {
			replaced = &existing[i]
		}
	}

	replacesLock := replaced != nil && replaced.IsLock
	candidate := pick.Candidate{MatchupID: m.ID, Side: input.Side, IsLock: input.IsLock}
	if err := pick.ValidateAddition(matchupIDs, locks, replacesLock, candidate, s.rules); err != nil {
		return pick.AnonymousPick{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	side, _ := pick.NormalizeSide(input.Side)

	now := s.now().UTC()
	var row pick.AnonymousPick
	if replaced != nil {
		row = *replaced
		row.Side = side
		row.IsLock = input.IsLock
		row.Outcome = pick.OutcomePending
		row.Points = nil
		row.UpdatedAt = now
	} else {
		if pickSetID == "" {
			generated, idErr := s.idGen.NewID()
			if idErr != nil {
				return pick.AnonymousPick{}, fmt.Errorf("generate pick set id: %w", idErr)
			}
			pickSetID = generated
		}
		pickID, idErr := s.idGen.NewID()
		if idErr != nil {
			return pick.AnonymousPick{}, fmt.Errorf("generate pick id: %w", idErr)
		}
		row = pick.AnonymousPick{
			ID:         pickID,
			PickSetID:  pickSetID,
			Email:      email,
			MatchupID:  m.ID,
			Season:     m.Season,
			Week:       m.Week,
			Side:       side,
			IsLock:     input.IsLock,
			Visible:    true,
			Validation: pick.ValidationUnvalidated,
			Outcome:    pick.OutcomePending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	if err := s.anonPickRepo.Upsert(ctx, row); err != nil {
		return pick.AnonymousPick{}, fmt.Errorf("upsert anonymous pick: %w", err)
	}
	return row, nil
}

// ClaimAnonymousPickSet assigns an anonymous pick set to a user account.
// After the claim the set becomes a second channel for that user's week, so
// aggregates are recomputed immediately; a resulting conflict simply leaves
// the week excluded until precedence is decided.
func (s *PickService) ClaimAnonymousPickSet(ctx context.Context, pickSetID, userID string) ([]pick.AnonymousPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ClaimAnonymousPickSet")
	defer span.End()

	pickSetID = strings.TrimSpace(pickSetID)
	userID = strings.TrimSpace(userID)
	if pickSetID == "" {
		return nil, fmt.Errorf("%w: pick set id is required", ErrInvalidInput)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	set, err := s.anonPickRepo.ListByPickSet(ctx, pickSetID)
	if err != nil {
		return nil, fmt.Errorf("list anonymous pick set: %w", err)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: pick set=%s", ErrNotFound, pickSetID)
	}
	for _, ap := range set {
		if ap.IsClaimed() && ap.ClaimedUserID != userID {
			return nil, fmt.Errorf("%w: pick set=%s is claimed by another user", ErrConflict, pickSetID)
		}
	}

	now := s.now().UTC()
	claimed := make([]pick.AnonymousPick, 0, len(set))
	for _, ap := range set {
		if !ap.IsClaimed() || ap.Validation == pick.ValidationUnvalidated {
			ap.ClaimedUserID = userID
			if ap.Validation == pick.ValidationUnvalidated {
				ap.Validation = pick.ValidationAutoValidated
			}
			ap.UpdatedAt = now
			if err := s.anonPickRepo.Upsert(ctx, ap); err != nil {
				return nil, fmt.Errorf("upsert claimed anonymous pick: %w", err)
			}
		}
		claimed = append(claimed, ap)
	}

	if err := s.recomputer.RecomputeUser(ctx, userID, set[0].Season, set[0].Week); err != nil {
		return nil, err
	}
	return claimed, nil
}

type SetPickVisibilityInput struct {
	PickID string
	// ActorUserID, when set, must own the pick. Internal callers leave it
	// empty.
	ActorUserID string
	Visible     bool
}

// SetPickVisibility flips the visibility flag on a pick in either channel.
// Hidden picks drop out of the eligible set, so aggregates are recomputed.
func (s *PickService) SetPickVisibility(ctx context.Context, input SetPickVisibilityInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SetPickVisibility")
	defer span.End()

	pickID := strings.TrimSpace(input.PickID)
	if pickID == "" {
		return fmt.Errorf("%w: pick id is required", ErrInvalidInput)
	}

	now := s.now().UTC()

	if p, exists, err := s.pickRepo.GetByID(ctx, pickID); err != nil {
		return fmt.Errorf("get pick: %w", err)
	} else if exists {
		if input.ActorUserID != "" && input.ActorUserID != p.UserID {
			return fmt.Errorf("%w: pick=%s belongs to another user", ErrUnauthorized, pickID)
		}
		if p.Visible == input.Visible {
			return nil
		}
		p.Visible = input.Visible
		p.UpdatedAt = now
		if err := s.pickRepo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert pick: %w", err)
		}
		return s.recomputer.RecomputeUser(ctx, p.UserID, p.Season, p.Week)
	}

	ap, exists, err := s.anonPickRepo.GetByID(ctx, pickID)
	if err != nil {
		return fmt.Errorf("get anonymous pick: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: pick=%s", ErrNotFound, pickID)
	}
	if input.ActorUserID != "" && input.ActorUserID != ap.ClaimedUserID {
		return fmt.Errorf("%w: pick=%s belongs to another user", ErrUnauthorized, pickID)
	}
	if ap.Visible == input.Visible {
		return nil
	}
	ap.Visible = input.Visible
	ap.UpdatedAt = now
	if err := s.anonPickRepo.Upsert(ctx, ap); err != nil {
		return fmt.Errorf("upsert anonymous pick: %w", err)
	}
	if ap.IsClaimed() {
		return s.recomputer.RecomputeUser(ctx, ap.ClaimedUserID, ap.Season, ap.Week)
	}
	return nil
}

// WeekPicks is both channels of a user's week plus the precedence verdict
// over them.
type WeekPicks struct {
	Resolution    precedence.Resolution
	Authenticated []pick.Pick
	Anonymous     []pick.AnonymousPick
}

func (s *PickService) ListUserWeekPicks(ctx context.Context, userID string, season, week int) (WeekPicks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListUserWeekPicks")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return WeekPicks{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if season <= 0 || week <= 0 {
		return WeekPicks{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	authPicks, err := s.pickRepo.ListByUserWeek(ctx, userID, season, week)
	if err != nil {
		return WeekPicks{}, fmt.Errorf("list user week picks: %w", err)
	}
	anonPicks, err := s.anonPickRepo.ListByClaimedUserWeek(ctx, userID, season, week)
	if err != nil {
		return WeekPicks{}, fmt.Errorf("list claimed anonymous picks: %w", err)
	}

	var decision *precedence.Decision
	if d, ok, getErr := s.decisionRepo.Get(ctx, userID, season, week); getErr != nil {
		return WeekPicks{}, fmt.Errorf("get precedence decision: %w", getErr)
	} else if ok {
		decision = &d
	}

	return WeekPicks{
		Resolution:    precedence.Resolve(len(authPicks) > 0, len(anonPicks) > 0, decision),
		Authenticated: authPicks,
		Anonymous:     anonPicks,
	}, nil
}

// pickableMatchup loads a matchup and enforces pick immutability: once a
// matchup leaves the scheduled state its picks can no longer change.
func (s *PickService) pickableMatchup(ctx context.Context, matchupID string) (matchup.Matchup, error) {
	matchupID = strings.TrimSpace(matchupID)
	if matchupID == "" {
		return matchup.Matchup{}, fmt.Errorf("%w: matchup id is required", ErrInvalidInput)
	}
	m, exists, err := s.matchupRepo.GetByID(ctx, matchupID)
	if err != nil {
		return matchup.Matchup{}, fmt.Errorf("get matchup: %w", err)
	}
	if !exists {
		return matchup.Matchup{}, fmt.Errorf("%w: matchup=%s", ErrNotFound, matchupID)
	}
	if m.Status != matchup.StatusScheduled {
		return matchup.Matchup{}, fmt.Errorf("%w: %s", ErrConflict, pick.ErrMatchupStarted)
	}
	return m, nil
}
