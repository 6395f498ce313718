package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
	qb "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/querybuilder"
)

// The single-statement upsert keyed by (user_id, season, week) is what keeps
// concurrent recomputes from racing a read-then-write into duplicate rows.
const standingsUpsertSuffix = `ON CONFLICT (user_id, season, week)
DO UPDATE SET
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    pushes = EXCLUDED.pushes,
    lock_wins = EXCLUDED.lock_wins,
    lock_losses = EXCLUDED.lock_losses,
    points = EXCLUDED.points,
    rank = EXCLUDED.rank,
    updated_at = EXCLUDED.updated_at`

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) Get(ctx context.Context, userID string, season, week int) (standings.Entry, bool, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("season", season),
			qb.Eq("week", week),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return standings.Entry{}, false, fmt.Errorf("build select standings query: %w", err)
	}

	var row standingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standings.Entry{}, false, nil
		}
		return standings.Entry{}, false, fmt.Errorf("select standings: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *StandingsRepository) ListByScope(ctx context.Context, scope standings.Scope) ([]standings.Entry, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("season", scope.Season),
			qb.Eq("week", scope.Week),
		).
		OrderBy("points DESC", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standings.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StandingsRepository) Upsert(ctx context.Context, e standings.Entry) error {
	query, args, err := qb.InsertModel("standings", entryToInsertModel(e), standingsUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert standings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standings: %w", err)
	}
	return nil
}

func (r *StandingsRepository) Delete(ctx context.Context, userID string, season, week int) error {
	query := `DELETE FROM standings WHERE user_id = $1 AND season = $2 AND week = $3`
	if _, err := r.db.ExecContext(ctx, query, userID, season, week); err != nil {
		return fmt.Errorf("delete standings: %w", err)
	}
	return nil
}
