package standings

import "context"

// Repository persists aggregate rows keyed by (user, season, week).
// Week 0 rows hold season-to-date totals.
type Repository interface {
	Get(ctx context.Context, userID string, season, week int) (Entry, bool, error)
	ListByScope(ctx context.Context, scope Scope) ([]Entry, error)
	Upsert(ctx context.Context, e Entry) error
	Delete(ctx context.Context, userID string, season, week int) error
}
