package matchup

import "context"

type Repository interface {
	GetByID(ctx context.Context, matchupID string) (Matchup, bool, error)
	ListByWeek(ctx context.Context, season, week int) ([]Matchup, error)
	ListBySeason(ctx context.Context, season int) ([]Matchup, error)
	Upsert(ctx context.Context, m Matchup) error
}
