package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/resilience"
)

// ExternalScoreReport is one matchup state row as the score feed reports it.
type ExternalScoreReport struct {
	MatchupID string
	HomeScore *int
	AwayScore *int
	Status    string
}

// ScoreProvider is the outbound port to the live score feed.
type ScoreProvider interface {
	FetchScores(ctx context.Context, season, week int) ([]ExternalScoreReport, error)
}

type ScoreSyncConfig struct {
	Enabled bool
	// MinPollInterval throttles back-to-back polls for the same week; a poll
	// landing inside the window is skipped.
	MinPollInterval time.Duration
}

type ScoreSyncResult struct {
	Fetched  int      `json:"fetched"`
	Applied  int      `json:"applied"`
	Unknown  int      `json:"unknown"`
	Failed   int      `json:"failed"`
	Skipped  bool     `json:"skipped"`
	Messages []string `json:"messages,omitempty"`
}

// ScoreSyncService pulls matchup state from the feed and pushes each row
// through the grading pipeline. Reports are full state, not deltas, so
// replaying a poll is harmless.
type ScoreSyncService struct {
	provider   ScoreProvider
	grading    *GradingService
	cfg        ScoreSyncConfig
	pollFlight resilience.SingleFlight
	pollMu     sync.Mutex
	lastPollAt map[string]time.Time
	now        func() time.Time
}

const defaultScoreSyncMinPollInterval = 15 * time.Second

func NewScoreSyncService(provider ScoreProvider, grading *GradingService, cfg ScoreSyncConfig) *ScoreSyncService {
	if cfg.MinPollInterval <= 0 {
		cfg.MinPollInterval = defaultScoreSyncMinPollInterval
	}
	return &ScoreSyncService{
		provider:   provider,
		grading:    grading,
		cfg:        cfg,
		lastPollAt: make(map[string]time.Time),
		now:        time.Now,
	}
}

// Poll fetches the feed's current view of a week and applies every row.
// Rows the feed knows but we do not are counted, not fatal; one bad row
// never blocks the rest.
func (s *ScoreSyncService) Poll(ctx context.Context, season, week int) (ScoreSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreSyncService.Poll")
	defer span.End()

	if !s.cfg.Enabled {
		return ScoreSyncResult{}, fmt.Errorf("%w: score feed sync is disabled (SCOREFEED_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil || s.grading == nil {
		return ScoreSyncResult{}, fmt.Errorf("%w: score feed sync is not fully configured", ErrDependencyUnavailable)
	}
	if season <= 0 || week <= 0 {
		return ScoreSyncResult{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	key := fmt.Sprintf("scoresync:poll:%d:%d", season, week)
	value, err, _ := s.pollFlight.Do(key, func() (any, error) {
		if s.shouldSkipPoll(key, s.now().UTC()) {
			return ScoreSyncResult{Skipped: true}, nil
		}
		result, pollErr := s.pollOnce(ctx, season, week)
		if pollErr != nil {
			return ScoreSyncResult{}, pollErr
		}
		s.markPoll(key, s.now().UTC())
		return result, nil
	})
	if err != nil {
		return ScoreSyncResult{}, err
	}
	result, _ := value.(ScoreSyncResult)
	return result, nil
}

func (s *ScoreSyncService) pollOnce(ctx context.Context, season, week int) (ScoreSyncResult, error) {
	reports, err := s.provider.FetchScores(ctx, season, week)
	if err != nil {
		return ScoreSyncResult{}, fmt.Errorf("%w: fetch scores: %s", ErrDependencyUnavailable, err)
	}

	result := ScoreSyncResult{Fetched: len(reports)}
	for _, report := range reports {
		_, applyErr := s.grading.ReportMatchupState(ctx, ReportStateInput{
			MatchupID: report.MatchupID,
			HomeScore: report.HomeScore,
			AwayScore: report.AwayScore,
			Status:    report.Status,
		})
		switch {
		case applyErr == nil:
			result.Applied++
		case errors.Is(applyErr, ErrNotFound):
			result.Unknown++
		default:
			result.Failed++
			result.Messages = append(result.Messages, fmt.Sprintf("matchup=%s: %s", report.MatchupID, applyErr))
		}
	}
	return result, nil
}

func (s *ScoreSyncService) shouldSkipPoll(key string, now time.Time) bool {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	last, ok := s.lastPollAt[key]
	if !ok {
		return false
	}
	return now.Sub(last) < s.cfg.MinPollInterval
}

func (s *ScoreSyncService) markPoll(key string, now time.Time) {
	s.pollMu.Lock()
	s.lastPollAt[key] = now
	s.pollMu.Unlock()
}
