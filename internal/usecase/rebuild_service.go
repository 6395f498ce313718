package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
	"github.com/panjf2000/ants/v2"
)

const (
	rebuildStatusSuccess = "success"
	rebuildStatusFailed  = "failed"

	defaultRebuildWorkers = 4
	maxRebuildWorkers     = 32
)

type RebuildInput struct {
	Season int
	// Week narrows the rebuild to one week; 0 rebuilds the whole season.
	Week       int
	MaxWorkers int
}

type RebuildResult struct {
	TaskCount    int                 `json:"task_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	Tasks        []RebuildTaskResult `json:"tasks"`
}

type RebuildTaskResult struct {
	UserID     string `json:"user_id"`
	Week       int    `json:"week"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// RebuildService re-runs the full recompute pipeline over a scope. Work is
// split into one task per (user, week) so a failure mid-rebuild leaves
// already-written rows valid and only the failed tasks need a retry.
type RebuildService struct {
	standings *StandingsService
}

func NewRebuildService(standingsService *StandingsService) *RebuildService {
	return &RebuildService{standings: standingsService}
}

func (s *RebuildService) ForceRebuild(ctx context.Context, input RebuildInput) (RebuildResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RebuildService.ForceRebuild")
	defer span.End()

	if input.Season <= 0 {
		return RebuildResult{}, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if input.Week < 0 {
		return RebuildResult{}, fmt.Errorf("%w: week must not be negative", ErrInvalidInput)
	}

	scope := standings.Scope{Season: input.Season, Week: input.Week}
	refs, err := s.standings.UsersInScope(ctx, scope)
	if err != nil {
		return RebuildResult{}, err
	}

	workerCount := normalizeRebuildWorkerCount(input.MaxWorkers, len(refs))
	result := RebuildResult{
		TaskCount:   len(refs),
		WorkerCount: workerCount,
		Tasks:       make([]RebuildTaskResult, 0, len(refs)),
	}
	if len(refs) == 0 {
		return result, nil
	}

	results := make(chan RebuildTaskResult, len(refs))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, ref := range refs {
		ref := ref
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RebuildTaskResult{
				UserID: ref.UserID,
				Week:   ref.Week,
			}

			if runErr := s.standings.RecomputeUser(ctx, ref.UserID, input.Season, ref.Week); runErr != nil {
				row.Status = rebuildStatusFailed
				row.Message = runErr.Error()
				failedCount.Add(1)
			} else {
				row.Status = rebuildStatusSuccess
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return RebuildResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].UserID != result.Tasks[j].UserID {
			return result.Tasks[i].UserID < result.Tasks[j].UserID
		}
		return result.Tasks[i].Week < result.Tasks[j].Week
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func normalizeRebuildWorkerCount(requested, taskCount int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultRebuildWorkers
	}
	if workers > maxRebuildWorkers {
		workers = maxRebuildWorkers
	}
	if taskCount > 0 && workers > taskCount {
		workers = taskCount
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
