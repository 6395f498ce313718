package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/id"
)

// GradingService owns matchup lifecycle: publishing, spread corrections, and
// score/status reports from the feed or an admin. Every state change ends in
// the same pure pipeline: recompute the matchup grade, re-grade every pick
// referencing it, and recompute aggregates for the affected users.
type GradingService struct {
	matchupRepo  matchup.Repository
	pickRepo     pick.Repository
	anonPickRepo pick.AnonymousRepository
	recomputer   AggregateRecomputer
	idGen        id.Generator
	now          func() time.Time
}

func NewGradingService(
	matchupRepo matchup.Repository,
	pickRepo pick.Repository,
	anonPickRepo pick.AnonymousRepository,
	recomputer AggregateRecomputer,
	idGen id.Generator,
) *GradingService {
	return &GradingService{
		matchupRepo:  matchupRepo,
		pickRepo:     pickRepo,
		anonPickRepo: anonPickRepo,
		recomputer:   recomputer,
		idGen:        idGen,
		now:          time.Now,
	}
}

type PublishMatchupInput struct {
	ID        string
	Season    int
	Week      int
	HomeTeam  string
	AwayTeam  string
	Spread    float64
	KickoffAt time.Time
}

func (s *GradingService) PublishMatchup(ctx context.Context, input PublishMatchupInput) (matchup.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.PublishMatchup")
	defer span.End()

	input.HomeTeam = strings.TrimSpace(input.HomeTeam)
	input.AwayTeam = strings.TrimSpace(input.AwayTeam)
	if input.Season <= 0 {
		return matchup.Matchup{}, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if input.Week <= 0 {
		return matchup.Matchup{}, fmt.Errorf("%w: week must be positive", ErrInvalidInput)
	}
	if input.HomeTeam == "" || input.AwayTeam == "" {
		return matchup.Matchup{}, fmt.Errorf("%w: both teams are required", ErrInvalidInput)
	}
	if input.HomeTeam == input.AwayTeam {
		return matchup.Matchup{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	if input.KickoffAt.IsZero() {
		return matchup.Matchup{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	matchupID := strings.TrimSpace(input.ID)
	if matchupID == "" {
		generated, err := s.idGen.NewID()
		if err != nil {
			return matchup.Matchup{}, fmt.Errorf("generate matchup id: %w", err)
		}
		matchupID = generated
	} else {
		if _, exists, err := s.matchupRepo.GetByID(ctx, matchupID); err != nil {
			return matchup.Matchup{}, fmt.Errorf("get matchup: %w", err)
		} else if exists {
			return matchup.Matchup{}, fmt.Errorf("%w: matchup=%s already exists", ErrConflict, matchupID)
		}
	}

	m := matchup.Matchup{
		ID:        matchupID,
		Season:    input.Season,
		Week:      input.Week,
		HomeTeam:  input.HomeTeam,
		AwayTeam:  input.AwayTeam,
		Spread:    input.Spread,
		KickoffAt: input.KickoffAt.UTC(),
		Status:    matchup.StatusScheduled,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.matchupRepo.Upsert(ctx, m); err != nil {
		return matchup.Matchup{}, fmt.Errorf("upsert matchup: %w", err)
	}
	return m, nil
}

// SetSpread corrects the spread on an existing matchup. When the matchup is
// already graded the correction re-grades it and cascades, so a late line
// fix converges the same way a score correction does.
func (s *GradingService) SetSpread(ctx context.Context, matchupID string, spread float64) (matchup.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.SetSpread")
	defer span.End()

	m, err := s.getMatchup(ctx, matchupID)
	if err != nil {
		return matchup.Matchup{}, err
	}

	m.Spread = spread
	return s.applyAndCascade(ctx, m)
}

type ReportStateInput struct {
	MatchupID string
	HomeScore *int
	AwayScore *int
	Status    string
}

// ReportMatchupState ingests a score/status report. Completed reports missing
// either score leave the grade null and dependent picks pending; reverting a
// completed matchup nulls its grade and every dependent pick's outcome.
func (s *GradingService) ReportMatchupState(ctx context.Context, input ReportStateInput) (matchup.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.ReportMatchupState")
	defer span.End()

	status := matchup.NormalizeStatus(input.Status)
	if !matchup.IsValidStatus(status) {
		return matchup.Matchup{}, fmt.Errorf("%w: unknown matchup status %q", ErrInvalidInput, input.Status)
	}
	if input.HomeScore != nil && *input.HomeScore < 0 {
		return matchup.Matchup{}, fmt.Errorf("%w: home score must not be negative", ErrInvalidInput)
	}
	if input.AwayScore != nil && *input.AwayScore < 0 {
		return matchup.Matchup{}, fmt.Errorf("%w: away score must not be negative", ErrInvalidInput)
	}

	m, err := s.getMatchup(ctx, input.MatchupID)
	if err != nil {
		return matchup.Matchup{}, err
	}

	m.HomeScore = input.HomeScore
	m.AwayScore = input.AwayScore
	m.Status = status
	return s.applyAndCascade(ctx, m)
}

func (s *GradingService) GetMatchup(ctx context.Context, matchupID string) (matchup.Matchup, error) {
	return s.getMatchup(ctx, matchupID)
}

func (s *GradingService) ListMatchups(ctx context.Context, season, week int) ([]matchup.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.ListMatchups")
	defer span.End()

	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if week < 0 {
		return nil, fmt.Errorf("%w: week must not be negative", ErrInvalidInput)
	}

	if week == 0 {
		items, err := s.matchupRepo.ListBySeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("list matchups by season: %w", err)
		}
		return items, nil
	}
	items, err := s.matchupRepo.ListByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("list matchups by week: %w", err)
	}
	return items, nil
}

func (s *GradingService) getMatchup(ctx context.Context, matchupID string) (matchup.Matchup, error) {
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
	return m, nil
}

// applyAndCascade persists the mutated matchup with a freshly derived grade,
// then re-grades dependent picks and recomputes the affected aggregates.
func (s *GradingService) applyAndCascade(ctx context.Context, m matchup.Matchup) (matchup.Matchup, error) {
	m.Grade = m.Regrade()
	m.UpdatedAt = s.now().UTC()
	if err := s.matchupRepo.Upsert(ctx, m); err != nil {
		return matchup.Matchup{}, fmt.Errorf("upsert matchup: %w", err)
	}

	affected, err := s.regradePicks(ctx, m)
	if err != nil {
		return matchup.Matchup{}, err
	}

	for _, ref := range affected {
		if err := s.recomputer.RecomputeUser(ctx, ref.UserID, m.Season, ref.Week); err != nil {
			return matchup.Matchup{}, fmt.Errorf("recompute aggregates for user=%s: %w", ref.UserID, err)
		}
	}
	return m, nil
}

// regradePicks recomputes outcome/points for every pick on the matchup, both
// channels, writing only rows that actually changed. It returns the users
// whose aggregates those changes invalidated.
func (s *GradingService) regradePicks(ctx context.Context, m matchup.Matchup) ([]UserWeekRef, error) {
	now := s.now().UTC()
	affected := make(map[UserWeekRef]struct{})

	picks, err := s.pickRepo.ListByMatchup(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list picks by matchup: %w", err)
	}
	for _, p := range picks {
		outcome, points := pick.Grade(m.Grade, p.Side, p.IsLock)
		if pick.GradeMatches(p.Outcome, p.Points, outcome, points) {
			continue
		}
		p.Outcome = outcome
		p.Points = points
		p.UpdatedAt = now
		if err := s.pickRepo.Upsert(ctx, p); err != nil {
			return nil, fmt.Errorf("upsert regraded pick: %w", err)
		}
		affected[UserWeekRef{UserID: p.UserID, Week: p.Week}] = struct{}{}
	}

	anonPicks, err := s.anonPickRepo.ListByMatchup(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list anonymous picks by matchup: %w", err)
	}
	for _, ap := range anonPicks {
		outcome, points := pick.Grade(m.Grade, ap.Side, ap.IsLock)
		if pick.GradeMatches(ap.Outcome, ap.Points, outcome, points) {
			continue
		}
		ap.Outcome = outcome
		ap.Points = points
		ap.UpdatedAt = now
		if err := s.anonPickRepo.Upsert(ctx, ap); err != nil {
			return nil, fmt.Errorf("upsert regraded anonymous pick: %w", err)
		}
		if ap.IsClaimed() {
			affected[UserWeekRef{UserID: ap.ClaimedUserID, Week: ap.Week}] = struct{}{}
		}
	}

	refs := make([]UserWeekRef, 0, len(affected))
	for ref := range affected {
		refs = append(refs, ref)
	}
	return refs, nil
}
