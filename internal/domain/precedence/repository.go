package precedence

import "context"

// Repository persists admin precedence decisions keyed by (user, season, week).
type Repository interface {
	Get(ctx context.Context, userID string, season, week int) (Decision, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Decision, error)
	Upsert(ctx context.Context, d Decision) error
}
