package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	qb "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/querybuilder"
)

const anonymousPickUpsertSuffix = `ON CONFLICT (public_id)
DO UPDATE SET
    claimed_user_id = EXCLUDED.claimed_user_id,
    side = EXCLUDED.side,
    is_lock = EXCLUDED.is_lock,
    visible = EXCLUDED.visible,
    validation = EXCLUDED.validation,
    outcome = EXCLUDED.outcome,
    points = EXCLUDED.points,
    updated_at = EXCLUDED.updated_at`

type AnonymousPickRepository struct {
	db *sqlx.DB
}

func NewAnonymousPickRepository(db *sqlx.DB) *AnonymousPickRepository {
	return &AnonymousPickRepository{db: db}
}

func (r *AnonymousPickRepository) GetByID(ctx context.Context, pickID string) (pick.AnonymousPick, bool, error) {
	query, args, err := qb.Select("*").From("anonymous_picks").
		Where(qb.Eq("public_id", pickID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return pick.AnonymousPick{}, false, fmt.Errorf("build select anonymous pick query: %w", err)
	}

	var row anonymousPickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.AnonymousPick{}, false, nil
		}
		return pick.AnonymousPick{}, false, fmt.Errorf("select anonymous pick: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *AnonymousPickRepository) ListByPickSet(ctx context.Context, pickSetID string) ([]pick.AnonymousPick, error) {
	return r.list(ctx, qb.Eq("pick_set_id", pickSetID))
}

func (r *AnonymousPickRepository) ListByEmailWeek(ctx context.Context, email string, season, week int) ([]pick.AnonymousPick, error) {
	return r.list(ctx, qb.Eq("email", email), qb.Eq("season", season), qb.Eq("week", week))
}

func (r *AnonymousPickRepository) ListByMatchup(ctx context.Context, matchupID string) ([]pick.AnonymousPick, error) {
	return r.list(ctx, qb.Eq("matchup_public_id", matchupID))
}

func (r *AnonymousPickRepository) ListByClaimedUserWeek(ctx context.Context, userID string, season, week int) ([]pick.AnonymousPick, error) {
	return r.list(ctx, qb.Eq("claimed_user_id", userID), qb.Eq("season", season), qb.Eq("week", week))
}

func (r *AnonymousPickRepository) ListByClaimedUserSeason(ctx context.Context, userID string, season int) ([]pick.AnonymousPick, error) {
	return r.list(ctx, qb.Eq("claimed_user_id", userID), qb.Eq("season", season))
}

func (r *AnonymousPickRepository) list(ctx context.Context, conditions ...qb.Condition) ([]pick.AnonymousPick, error) {
	query, args, err := qb.Select("*").From("anonymous_picks").
		Where(conditions...).
		OrderBy("week", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list anonymous picks query: %w", err)
	}

	var rows []anonymousPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list anonymous picks: %w", err)
	}

	out := make([]pick.AnonymousPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AnonymousPickRepository) Upsert(ctx context.Context, ap pick.AnonymousPick) error {
	query, args, err := qb.InsertModel("anonymous_picks", anonymousPickToInsertModel(ap), anonymousPickUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert anonymous pick query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert anonymous pick: %w", err)
	}
	return nil
}
