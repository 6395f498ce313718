package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	qb "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/querybuilder"
)

const pickUpsertSuffix = `ON CONFLICT (public_id)
DO UPDATE SET
    side = EXCLUDED.side,
    is_lock = EXCLUDED.is_lock,
    visible = EXCLUDED.visible,
    outcome = EXCLUDED.outcome,
    points = EXCLUDED.points,
    updated_at = EXCLUDED.updated_at`

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByID(ctx context.Context, pickID string) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(qb.Eq("public_id", pickID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build select pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("select pick: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PickRepository) ListByMatchup(ctx context.Context, matchupID string) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("matchup_public_id", matchupID))
}

func (r *PickRepository) ListByUserWeek(ctx context.Context, userID string, season, week int) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID), qb.Eq("season", season), qb.Eq("week", week))
}

func (r *PickRepository) ListByUserSeason(ctx context.Context, userID string, season int) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID), qb.Eq("season", season))
}

func (r *PickRepository) list(ctx context.Context, conditions ...qb.Condition) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(conditions...).
		OrderBy("week", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) Upsert(ctx context.Context, p pick.Pick) error {
	query, args, err := qb.InsertModel("picks", pickToInsertModel(p), pickUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert pick query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert pick: %w", err)
	}
	return nil
}
