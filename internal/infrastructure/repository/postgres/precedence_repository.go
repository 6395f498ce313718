package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
	qb "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/querybuilder"
)

const precedenceUpsertSuffix = `ON CONFLICT (user_id, season, week)
DO UPDATE SET
    winner = EXCLUDED.winner,
    pick_set_id = EXCLUDED.pick_set_id,
    decided_by = EXCLUDED.decided_by,
    decided_at = EXCLUDED.decided_at`

type PrecedenceRepository struct {
	db *sqlx.DB
}

func NewPrecedenceRepository(db *sqlx.DB) *PrecedenceRepository {
	return &PrecedenceRepository{db: db}
}

func (r *PrecedenceRepository) Get(ctx context.Context, userID string, season, week int) (precedence.Decision, bool, error) {
	query, args, err := qb.Select("*").From("precedence_decisions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("season", season),
			qb.Eq("week", week),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return precedence.Decision{}, false, fmt.Errorf("build select precedence decision query: %w", err)
	}

	var row precedenceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return precedence.Decision{}, false, nil
		}
		return precedence.Decision{}, false, fmt.Errorf("select precedence decision: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PrecedenceRepository) ListBySeason(ctx context.Context, season int) ([]precedence.Decision, error) {
	query, args, err := qb.Select("*").From("precedence_decisions").
		Where(qb.Eq("season", season)).
		OrderBy("user_id", "week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list precedence decisions query: %w", err)
	}

	var rows []precedenceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list precedence decisions: %w", err)
	}

	out := make([]precedence.Decision, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PrecedenceRepository) Upsert(ctx context.Context, d precedence.Decision) error {
	query, args, err := qb.InsertModel("precedence_decisions", decisionToInsertModel(d), precedenceUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert precedence decision query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert precedence decision: %w", err)
	}
	return nil
}
