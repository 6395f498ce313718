package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
	"github.com/sourcegraph/conc/pool"
)

const (
	MismatchMatchupGrade       = "matchup_grade"
	MismatchPickOutcome        = "pick_outcome"
	MismatchAggregateTotals    = "aggregate_totals"
	MismatchUnresolvedConflict = "unresolved_conflict"
)

// Mismatch pinpoints one inconsistency with enough detail to target a
// repair: re-running the recompute pipeline for exactly the named scope.
type Mismatch struct {
	Kind      string `json:"kind"`
	Season    int    `json:"season"`
	Week      int    `json:"week,omitempty"`
	MatchupID string `json:"matchup_id,omitempty"`
	PickID    string `json:"pick_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Detail    string `json:"detail"`
}

type AuditReport struct {
	Season          int        `json:"season"`
	Week            int        `json:"week"`
	CheckedMatchups int        `json:"checked_matchups"`
	CheckedPicks    int        `json:"checked_picks"`
	CheckedEntries  int        `json:"checked_entries"`
	Mismatches      []Mismatch `json:"mismatches"`
}

// AuditService is a read-only scan comparing every stored derived value in a
// scope against a fresh recomputation. It never writes; repairs go through
// the rebuild pipeline.
type AuditService struct {
	matchupRepo   matchup.Repository
	pickRepo      pick.Repository
	anonPickRepo  pick.AnonymousRepository
	standingsRepo standings.Repository
	standings     *StandingsService
}

func NewAuditService(
	matchupRepo matchup.Repository,
	pickRepo pick.Repository,
	anonPickRepo pick.AnonymousRepository,
	standingsRepo standings.Repository,
	standingsService *StandingsService,
) *AuditService {
	return &AuditService{
		matchupRepo:   matchupRepo,
		pickRepo:      pickRepo,
		anonPickRepo:  anonPickRepo,
		standingsRepo: standingsRepo,
		standings:     standingsService,
	}
}

type auditCollector struct {
	mu         sync.Mutex
	mismatches []Mismatch
	matchups   int
	picks      int
	entries    int
}

func (c *auditCollector) add(m Mismatch) {
	c.mu.Lock()
	c.mismatches = append(c.mismatches, m)
	c.mu.Unlock()
}

func (s *AuditService) Run(ctx context.Context, scope standings.Scope) (AuditReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.Run")
	defer span.End()

	if scope.Season <= 0 {
		return AuditReport{}, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if scope.Week < 0 {
		return AuditReport{}, fmt.Errorf("%w: week must not be negative", ErrInvalidInput)
	}

	var matchups []matchup.Matchup
	var err error
	if scope.IsSeason() {
		matchups, err = s.matchupRepo.ListBySeason(ctx, scope.Season)
	} else {
		matchups, err = s.matchupRepo.ListByWeek(ctx, scope.Season, scope.Week)
	}
	if err != nil {
		return AuditReport{}, fmt.Errorf("list matchups in scope: %w", err)
	}

	collector := &auditCollector{}

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return s.auditMatchupGrades(matchups, collector)
	})
	p.Go(func(ctx context.Context) error {
		return s.auditPickOutcomes(ctx, matchups, collector)
	})
	p.Go(func(ctx context.Context) error {
		return s.auditAggregates(ctx, scope, collector)
	})
	if err := p.Wait(); err != nil {
		return AuditReport{}, err
	}

	sort.SliceStable(collector.mismatches, func(i, j int) bool {
		a, b := collector.mismatches[i], collector.mismatches[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.MatchupID != b.MatchupID {
			return a.MatchupID < b.MatchupID
		}
		return a.PickID < b.PickID
	})

	return AuditReport{
		Season:          scope.Season,
		Week:            scope.Week,
		CheckedMatchups: collector.matchups,
		CheckedPicks:    collector.picks,
		CheckedEntries:  collector.entries,
		Mismatches:      collector.mismatches,
	}, nil
}

func (s *AuditService) auditMatchupGrades(matchups []matchup.Matchup, collector *auditCollector) error {
	for _, m := range matchups {
		collector.mu.Lock()
		collector.matchups++
		collector.mu.Unlock()

		derived := m.Regrade()
		if m.GradeMatches(derived) {
			continue
		}
		collector.add(Mismatch{
			Kind:      MismatchMatchupGrade,
			Season:    m.Season,
			Week:      m.Week,
			MatchupID: m.ID,
			Detail:    fmt.Sprintf("stored grade %s, recomputed %s", describeGrade(m.Grade), describeGrade(derived)),
		})
	}
	return nil
}

func (s *AuditService) auditPickOutcomes(ctx context.Context, matchups []matchup.Matchup, collector *auditCollector) error {
	for _, m := range matchups {
		picks, err := s.pickRepo.ListByMatchup(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list picks by matchup: %w", err)
		}
		for _, p := range picks {
			collector.mu.Lock()
			collector.picks++
			collector.mu.Unlock()

			outcome, points := pick.Grade(m.Grade, p.Side, p.IsLock)
			if pick.GradeMatches(p.Outcome, p.Points, outcome, points) {
				continue
			}
			collector.add(Mismatch{
				Kind:      MismatchPickOutcome,
				Season:    m.Season,
				Week:      m.Week,
				MatchupID: m.ID,
				PickID:    p.ID,
				UserID:    p.UserID,
				Detail:    fmt.Sprintf("stored %s/%s, recomputed %s/%s", p.Outcome, describePoints(p.Points), outcome, describePoints(points)),
			})
		}

		anonPicks, err := s.anonPickRepo.ListByMatchup(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list anonymous picks by matchup: %w", err)
		}
		for _, ap := range anonPicks {
			collector.mu.Lock()
			collector.picks++
			collector.mu.Unlock()

			outcome, points := pick.Grade(m.Grade, ap.Side, ap.IsLock)
			if pick.GradeMatches(ap.Outcome, ap.Points, outcome, points) {
				continue
			}
			collector.add(Mismatch{
				Kind:      MismatchPickOutcome,
				Season:    m.Season,
				Week:      m.Week,
				MatchupID: m.ID,
				PickID:    ap.ID,
				UserID:    ap.ClaimedUserID,
				Detail:    fmt.Sprintf("stored %s/%s, recomputed %s/%s", ap.Outcome, describePoints(ap.Points), outcome, describePoints(points)),
			})
		}
	}
	return nil
}

func (s *AuditService) auditAggregates(ctx context.Context, scope standings.Scope, collector *auditCollector) error {
	refs, err := s.standings.UsersInScope(ctx, scope)
	if err != nil {
		return err
	}

	seenUsers := make(map[string]struct{})
	for _, ref := range refs {
		if _, ok := seenUsers[ref.UserID]; !ok {
			seenUsers[ref.UserID] = struct{}{}
			if err := s.auditSeasonRow(ctx, ref.UserID, scope.Season, collector); err != nil {
				return err
			}
		}
	}

	for _, ref := range refs {
		collector.mu.Lock()
		collector.entries++
		collector.mu.Unlock()

		res, eligible, err := s.standings.EligibleWeekPicks(ctx, ref.UserID, scope.Season, ref.Week)
		if err != nil {
			return err
		}

		stored, exists, err := s.standingsRepo.Get(ctx, ref.UserID, scope.Season, ref.Week)
		if err != nil {
			return fmt.Errorf("get standings row: %w", err)
		}

		if res.State == precedence.StateUnresolved {
			collector.add(Mismatch{
				Kind:   MismatchUnresolvedConflict,
				Season: scope.Season,
				Week:   ref.Week,
				UserID: ref.UserID,
				Detail: "picks exist in both channels with no precedence decision",
			})
			if exists {
				collector.add(Mismatch{
					Kind:   MismatchAggregateTotals,
					Season: scope.Season,
					Week:   ref.Week,
					UserID: ref.UserID,
					Detail: "aggregate row exists for an unresolved week",
				})
			}
			continue
		}

		if len(eligible) == 0 {
			if exists {
				collector.add(Mismatch{
					Kind:   MismatchAggregateTotals,
					Season: scope.Season,
					Week:   ref.Week,
					UserID: ref.UserID,
					Detail: "aggregate row exists for a week with no eligible picks",
				})
			}
			continue
		}

		expected := standings.Entry{UserID: ref.UserID, Season: scope.Season, Week: ref.Week}
		tallyPicks(&expected, eligible)

		if !exists {
			collector.add(Mismatch{
				Kind:   MismatchAggregateTotals,
				Season: scope.Season,
				Week:   ref.Week,
				UserID: ref.UserID,
				Detail: fmt.Sprintf("aggregate row missing, expected %d points", expected.Points),
			})
			continue
		}
		if !stored.SameTotals(expected) {
			collector.add(Mismatch{
				Kind:   MismatchAggregateTotals,
				Season: scope.Season,
				Week:   ref.Week,
				UserID: ref.UserID,
				Detail: fmt.Sprintf("stored %d points (%d-%d-%d), recomputed %d points (%d-%d-%d)", stored.Points, stored.Wins, stored.Losses, stored.Pushes, expected.Points, expected.Wins, expected.Losses, expected.Pushes),
			})
		}
	}
	return nil
}

// auditSeasonRow recomputes a user's season totals from their resolved weeks
// and compares them with the stored week-0 row. Season rows are aggregate
// entries in their own right, so drift there must surface even when every
// weekly row checks out.
func (s *AuditService) auditSeasonRow(ctx context.Context, userID string, season int, collector *auditCollector) error {
	collector.mu.Lock()
	collector.entries++
	collector.mu.Unlock()

	weeks, err := s.standings.userWeeks(ctx, userID, season)
	if err != nil {
		return err
	}

	expected := standings.Entry{UserID: userID, Season: season}
	counted := false
	for _, week := range weeks {
		res, eligible, weekErr := s.standings.EligibleWeekPicks(ctx, userID, season, week)
		if weekErr != nil {
			return weekErr
		}
		if res.State == precedence.StateUnresolved || len(eligible) == 0 {
			continue
		}
		counted = true
		tallyPicks(&expected, eligible)
	}

	stored, exists, err := s.standingsRepo.Get(ctx, userID, season, 0)
	if err != nil {
		return fmt.Errorf("get season standings row: %w", err)
	}

	if !counted {
		if exists {
			collector.add(Mismatch{
				Kind:   MismatchAggregateTotals,
				Season: season,
				UserID: userID,
				Detail: "season aggregate row exists with no resolved weeks",
			})
		}
		return nil
	}
	if !exists {
		collector.add(Mismatch{
			Kind:   MismatchAggregateTotals,
			Season: season,
			UserID: userID,
			Detail: fmt.Sprintf("season aggregate row missing, expected %d points", expected.Points),
		})
		return nil
	}
	if !stored.SameTotals(expected) {
		collector.add(Mismatch{
			Kind:   MismatchAggregateTotals,
			Season: season,
			UserID: userID,
			Detail: fmt.Sprintf("season row stored %d points (%d-%d-%d), recomputed %d points (%d-%d-%d)", stored.Points, stored.Wins, stored.Losses, stored.Pushes, expected.Points, expected.Wins, expected.Losses, expected.Pushes),
		})
	}
	return nil
}

func describeGrade(g *matchup.Grade) string {
	if g == nil {
		return "ungraded"
	}
	return fmt.Sprintf("%s/tier %d", g.CoveringSide, g.BonusTier)
}

func describePoints(points *int) string {
	if points == nil {
		return "nil"
	}
	return fmt.Sprintf("%d", *points)
}
