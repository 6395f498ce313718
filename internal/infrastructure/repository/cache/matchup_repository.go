package cache

import (
	"context"
	"strconv"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	basecache "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/cache"
)

// MatchupRepository is a read-through cache in front of the matchup store.
// Matchups are read on every pick submission and every leaderboard page but
// change only on spread corrections and score reports, so Upsert invalidates
// the whole matchup keyspace rather than tracking keys per row.
type MatchupRepository struct {
	next  matchup.Repository
	cache *basecache.Store
}

func NewMatchupRepository(next matchup.Repository, cache *basecache.Store) *MatchupRepository {
	return &MatchupRepository{next: next, cache: cache}
}

const matchupKeyPrefix = "matchup:"

func (r *MatchupRepository) GetByID(ctx context.Context, matchupID string) (matchup.Matchup, bool, error) {
	key := matchupKeyPrefix + "id:" + matchupID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchupID)
		if err != nil {
			return nil, err
		}
		return cachedMatchup{value: item, exists: exists}, nil
	})
	if err != nil {
		return matchup.Matchup{}, false, err
	}

	cached, _ := v.(cachedMatchup)
	return cached.value, cached.exists, nil
}

func (r *MatchupRepository) ListByWeek(ctx context.Context, season, week int) ([]matchup.Matchup, error) {
	key := matchupKeyPrefix + "week:" + strconv.Itoa(season) + ":" + strconv.Itoa(week)
	return r.cachedList(ctx, key, func(ctx context.Context) ([]matchup.Matchup, error) {
		return r.next.ListByWeek(ctx, season, week)
	})
}

func (r *MatchupRepository) ListBySeason(ctx context.Context, season int) ([]matchup.Matchup, error) {
	key := matchupKeyPrefix + "season:" + strconv.Itoa(season)
	return r.cachedList(ctx, key, func(ctx context.Context) ([]matchup.Matchup, error) {
		return r.next.ListBySeason(ctx, season)
	})
}

func (r *MatchupRepository) Upsert(ctx context.Context, m matchup.Matchup) error {
	if err := r.next.Upsert(ctx, m); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, matchupKeyPrefix)
	return nil
}

func (r *MatchupRepository) cachedList(ctx context.Context, key string, load func(context.Context) ([]matchup.Matchup, error)) ([]matchup.Matchup, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]matchup.Matchup(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]matchup.Matchup)
	return append([]matchup.Matchup(nil), items...), nil
}

type cachedMatchup struct {
	value  matchup.Matchup
	exists bool
}
