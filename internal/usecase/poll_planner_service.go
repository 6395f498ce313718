package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
)

// JobQueue enqueues a delayed HTTP callback to one of this service's own
// internal job routes.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type PollPlannerConfig struct {
	// LiveInterval spaces repeat polls for weeks with games in progress.
	LiveInterval time.Duration
	// PreKickoffLead schedules the first poll this far before kickoff.
	PreKickoffLead time.Duration
}

type PollPlanResult struct {
	SeasonMatchups int   `json:"season_matchups"`
	QueuedWeeks    []int `json:"queued_weeks"`
	QueuedCount    int   `json:"queued_count"`
}

// PollPlannerService decides which weeks need a score poll and enqueues the
// callbacks. It runs from a cron-style trigger; the dedup ID keeps repeated
// triggers inside one interval from stacking duplicate polls.
type PollPlannerService struct {
	matchupRepo matchup.Repository
	queue       JobQueue
	cfg         PollPlannerConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewPollPlannerService(
	matchupRepo matchup.Repository,
	queue JobQueue,
	cfg PollPlannerConfig,
	logger *logging.Logger,
) *PollPlannerService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 2 * time.Minute
	}
	if cfg.PreKickoffLead <= 0 {
		cfg.PreKickoffLead = 15 * time.Minute
	}

	return &PollPlannerService{
		matchupRepo: matchupRepo,
		queue:       queue,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// PlanScorePolls scans the season and enqueues one poll per week that has a
// game in progress or kicking off inside the lead window. Weeks whose games
// are all completed or far in the future enqueue nothing.
func (s *PollPlannerService) PlanScorePolls(ctx context.Context, season int) (PollPlanResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PollPlannerService.PlanScorePolls")
	defer span.End()

	if season <= 0 {
		return PollPlanResult{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	matchups, err := s.matchupRepo.ListBySeason(ctx, season)
	if err != nil {
		return PollPlanResult{}, fmt.Errorf("list season matchups: %w", err)
	}

	now := s.now().UTC()
	delays := make(map[int]time.Duration)
	for _, m := range matchups {
		delay, ok := s.pollDelay(m, now)
		if !ok {
			continue
		}
		existing, seen := delays[m.Week]
		if !seen || delay < existing {
			delays[m.Week] = delay
		}
	}

	weeks := make([]int, 0, len(delays))
	for week := range delays {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	result := PollPlanResult{SeasonMatchups: len(matchups), QueuedWeeks: make([]int, 0, len(weeks))}
	bucket := now.Truncate(s.cfg.LiveInterval).Unix()
	for _, week := range weeks {
		dedupID := fmt.Sprintf("poll-scores-%d-%d-%d", season, week, bucket)
		payload := map[string]int{"season": season, "week": week}
		if err := s.queue.Enqueue(ctx, "/v1/internal/jobs/poll-scores", payload, delays[week], dedupID); err != nil {
			s.logger.WarnContext(ctx, "enqueue score poll failed", "season", season, "week", week, "error", err)
			continue
		}
		result.QueuedWeeks = append(result.QueuedWeeks, week)
		result.QueuedCount++
	}

	return result, nil
}

// pollDelay reports whether a matchup warrants a poll and how long to wait.
// In-progress games poll after one live interval; upcoming games poll at
// kickoff minus the lead, immediately when that point has already passed.
func (s *PollPlannerService) pollDelay(m matchup.Matchup, now time.Time) (time.Duration, bool) {
	switch m.Status {
	case matchup.StatusInProgress:
		return s.cfg.LiveInterval, true
	case matchup.StatusScheduled:
		pollAt := m.KickoffAt.Add(-s.cfg.PreKickoffLead)
		if !now.Before(pollAt) {
			return 0, true
		}
		delay := pollAt.Sub(now)
		// Anything beyond a day out is the next planner run's problem.
		if delay > 24*time.Hour {
			return 0, false
		}
		return delay, true
	default:
		return 0, false
	}
}
