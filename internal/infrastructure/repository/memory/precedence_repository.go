package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
)

type decisionKey struct {
	userID string
	season int
	week   int
}

type PrecedenceRepository struct {
	mu    sync.RWMutex
	items map[decisionKey]precedence.Decision
}

func NewPrecedenceRepository() *PrecedenceRepository {
	return &PrecedenceRepository{items: make(map[decisionKey]precedence.Decision)}
}

func (r *PrecedenceRepository) Get(_ context.Context, userID string, season, week int) (precedence.Decision, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[decisionKey{userID: userID, season: season, week: week}]
	if !ok {
		return precedence.Decision{}, false, nil
	}
	return d, true, nil
}

func (r *PrecedenceRepository) ListBySeason(_ context.Context, season int) ([]precedence.Decision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []precedence.Decision
	for _, d := range r.items {
		if d.Season == season {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Week < out[j].Week
	})
	return out, nil
}

func (r *PrecedenceRepository) Upsert(_ context.Context, d precedence.Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[decisionKey{userID: d.UserID, season: d.Season, week: d.Week}] = d
	return nil
}
