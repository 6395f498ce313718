package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
)

type MatchupRepository struct {
	mu    sync.RWMutex
	items map[string]matchup.Matchup
}

func NewMatchupRepository(matchups []matchup.Matchup) *MatchupRepository {
	items := make(map[string]matchup.Matchup, len(matchups))
	for _, m := range matchups {
		items[m.ID] = m
	}
	return &MatchupRepository{items: items}
}

func (r *MatchupRepository) GetByID(_ context.Context, matchupID string) (matchup.Matchup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchupID]
	if !ok {
		return matchup.Matchup{}, false, nil
	}
	return m, true, nil
}

func (r *MatchupRepository) ListByWeek(_ context.Context, season, week int) ([]matchup.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []matchup.Matchup
	for _, m := range r.items {
		if m.Season == season && m.Week == week {
			out = append(out, m)
		}
	}
	sortMatchups(out)
	return out, nil
}

func (r *MatchupRepository) ListBySeason(_ context.Context, season int) ([]matchup.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []matchup.Matchup
	for _, m := range r.items {
		if m.Season == season {
			out = append(out, m)
		}
	}
	sortMatchups(out)
	return out, nil
}

func (r *MatchupRepository) Upsert(_ context.Context, m matchup.Matchup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = m
	return nil
}

func sortMatchups(items []matchup.Matchup) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Week != items[j].Week {
			return items[i].Week < items[j].Week
		}
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
}
