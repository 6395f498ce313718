package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	items map[string]pick.Pick
}

func NewPickRepository(picks []pick.Pick) *PickRepository {
	items := make(map[string]pick.Pick, len(picks))
	for _, p := range picks {
		items[p.ID] = p
	}
	return &PickRepository{items: items}
}

func (r *PickRepository) GetByID(_ context.Context, pickID string) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[pickID]
	if !ok {
		return pick.Pick{}, false, nil
	}
	return p, true, nil
}

func (r *PickRepository) ListByMatchup(_ context.Context, matchupID string) ([]pick.Pick, error) {
	return r.filter(func(p pick.Pick) bool {
		return p.MatchupID == matchupID
	}), nil
}

func (r *PickRepository) ListByUserWeek(_ context.Context, userID string, season, week int) ([]pick.Pick, error) {
	return r.filter(func(p pick.Pick) bool {
		return p.UserID == userID && p.Season == season && p.Week == week
	}), nil
}

func (r *PickRepository) ListByUserSeason(_ context.Context, userID string, season int) ([]pick.Pick, error) {
	return r.filter(func(p pick.Pick) bool {
		return p.UserID == userID && p.Season == season
	}), nil
}

func (r *PickRepository) Upsert(_ context.Context, p pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = p
	return nil
}

func (r *PickRepository) filter(keep func(pick.Pick) bool) []pick.Pick {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, p := range r.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].ID < out[j].ID
	})
	return out
}
