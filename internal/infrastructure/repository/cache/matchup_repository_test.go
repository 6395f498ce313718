package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/infrastructure/repository/memory"
	basecache "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/cache"
)

type countingMatchupRepo struct {
	*memory.MatchupRepository
	gets atomic.Int32
}

func (r *countingMatchupRepo) GetByID(ctx context.Context, matchupID string) (matchup.Matchup, bool, error) {
	r.gets.Add(1)
	return r.MatchupRepository.GetByID(ctx, matchupID)
}

func TestMatchupRepository_CachesReads(t *testing.T) {
	t.Parallel()

	inner := &countingMatchupRepo{MatchupRepository: memory.NewMatchupRepository([]matchup.Matchup{
		{ID: "m-1", Season: 2025, Week: 1, HomeTeam: "Georgia", AwayTeam: "Alabama", Status: matchup.StatusScheduled},
	})}
	repo := NewMatchupRepository(inner, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		m, ok, err := repo.GetByID(context.Background(), "m-1")
		if err != nil || !ok {
			t.Fatalf("get matchup: ok=%v err=%v", ok, err)
		}
		if m.HomeTeam != "Georgia" {
			t.Fatalf("unexpected home team: %s", m.HomeTeam)
		}
	}

	if got := inner.gets.Load(); got != 1 {
		t.Fatalf("expected one inner read, got %d", got)
	}
}

func TestMatchupRepository_UpsertInvalidates(t *testing.T) {
	t.Parallel()

	inner := &countingMatchupRepo{MatchupRepository: memory.NewMatchupRepository([]matchup.Matchup{
		{ID: "m-1", Season: 2025, Week: 1, HomeTeam: "Georgia", AwayTeam: "Alabama", Spread: -7, Status: matchup.StatusScheduled},
	})}
	repo := NewMatchupRepository(inner, basecache.NewStore(time.Minute))

	m, _, err := repo.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("get matchup: %v", err)
	}

	m.Spread = -3.5
	if err := repo.Upsert(context.Background(), m); err != nil {
		t.Fatalf("upsert matchup: %v", err)
	}

	fresh, _, err := repo.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("get matchup after upsert: %v", err)
	}
	if fresh.Spread != -3.5 {
		t.Fatalf("expected fresh spread -3.5, got %v", fresh.Spread)
	}

	week, err := repo.ListByWeek(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("list by week: %v", err)
	}
	if len(week) != 1 || week[0].Spread != -3.5 {
		t.Fatalf("expected invalidated week list, got %+v", week)
	}
}
