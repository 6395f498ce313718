package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
)

type AnonymousPickRepository struct {
	mu    sync.RWMutex
	items map[string]pick.AnonymousPick
}

func NewAnonymousPickRepository(picks []pick.AnonymousPick) *AnonymousPickRepository {
	items := make(map[string]pick.AnonymousPick, len(picks))
	for _, ap := range picks {
		items[ap.ID] = ap
	}
	return &AnonymousPickRepository{items: items}
}

func (r *AnonymousPickRepository) GetByID(_ context.Context, pickID string) (pick.AnonymousPick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.items[pickID]
	if !ok {
		return pick.AnonymousPick{}, false, nil
	}
	return ap, true, nil
}

func (r *AnonymousPickRepository) ListByPickSet(_ context.Context, pickSetID string) ([]pick.AnonymousPick, error) {
	return r.filter(func(ap pick.AnonymousPick) bool {
		return ap.PickSetID == pickSetID
	}), nil
}

func (r *AnonymousPickRepository) ListByEmailWeek(_ context.Context, email string, season, week int) ([]pick.AnonymousPick, error) {
	return r.filter(func(ap pick.AnonymousPick) bool {
		return ap.Email == email && ap.Season == season && ap.Week == week
	}), nil
}

func (r *AnonymousPickRepository) ListByMatchup(_ context.Context, matchupID string) ([]pick.AnonymousPick, error) {
	return r.filter(func(ap pick.AnonymousPick) bool {
		return ap.MatchupID == matchupID
	}), nil
}

func (r *AnonymousPickRepository) ListByClaimedUserWeek(_ context.Context, userID string, season, week int) ([]pick.AnonymousPick, error) {
	if userID == "" {
		return nil, nil
	}
	return r.filter(func(ap pick.AnonymousPick) bool {
		return ap.ClaimedUserID == userID && ap.Season == season && ap.Week == week
	}), nil
}

func (r *AnonymousPickRepository) ListByClaimedUserSeason(_ context.Context, userID string, season int) ([]pick.AnonymousPick, error) {
	if userID == "" {
		return nil, nil
	}
	return r.filter(func(ap pick.AnonymousPick) bool {
		return ap.ClaimedUserID == userID && ap.Season == season
	}), nil
}

func (r *AnonymousPickRepository) Upsert(_ context.Context, ap pick.AnonymousPick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[ap.ID] = ap
	return nil
}

func (r *AnonymousPickRepository) filter(keep func(pick.AnonymousPick) bool) []pick.AnonymousPick {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.AnonymousPick
	for _, ap := range r.items {
		if keep(ap) {
			out = append(out, ap)
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
