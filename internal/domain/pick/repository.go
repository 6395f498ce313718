package pick

import "context"

type Repository interface {
	GetByID(ctx context.Context, pickID string) (Pick, bool, error)
	ListByMatchup(ctx context.Context, matchupID string) ([]Pick, error)
	ListByUserWeek(ctx context.Context, userID string, season, week int) ([]Pick, error)
	ListByUserSeason(ctx context.Context, userID string, season int) ([]Pick, error)
	Upsert(ctx context.Context, p Pick) error
}

type AnonymousRepository interface {
	GetByID(ctx context.Context, pickID string) (AnonymousPick, bool, error)
	ListByPickSet(ctx context.Context, pickSetID string) ([]AnonymousPick, error)
	ListByEmailWeek(ctx context.Context, email string, season, week int) ([]AnonymousPick, error)
	ListByMatchup(ctx context.Context, matchupID string) ([]AnonymousPick, error)
	ListByClaimedUserWeek(ctx context.Context, userID string, season, week int) ([]AnonymousPick, error)
	ListByClaimedUserSeason(ctx context.Context, userID string, season int) ([]AnonymousPick, error)
	Upsert(ctx context.Context, p AnonymousPick) error
}
