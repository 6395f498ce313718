package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
)

type entryKey struct {
	userID string
	season int
	week   int
}

type StandingsRepository struct {
	mu    sync.RWMutex
	items map[entryKey]standings.Entry
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{items: make(map[entryKey]standings.Entry)}
}

func (r *StandingsRepository) Get(_ context.Context, userID string, season, week int) (standings.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[entryKey{userID: userID, season: season, week: week}]
	if !ok {
		return standings.Entry{}, false, nil
	}
	return e, true, nil
}

func (r *StandingsRepository) ListByScope(_ context.Context, scope standings.Scope) ([]standings.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []standings.Entry
	for _, e := range r.items {
		if e.Season == scope.Season && e.Week == scope.Week {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *StandingsRepository) Upsert(_ context.Context, e standings.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[entryKey{userID: e.UserID, season: e.Season, week: e.Week}] = e
	return nil
}

func (r *StandingsRepository) Delete(_ context.Context, userID string, season, week int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, entryKey{userID: userID, season: season, week: week})
	return nil
}
