package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	qb "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/querybuilder"
)

const matchupUpsertSuffix = `ON CONFLICT (public_id)
DO UPDATE SET
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    spread = EXCLUDED.spread,
    kickoff_at = EXCLUDED.kickoff_at,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    grade_side = EXCLUDED.grade_side,
    grade_bonus_tier = EXCLUDED.grade_bonus_tier,
    updated_at = EXCLUDED.updated_at`

type MatchupRepository struct {
	db *sqlx.DB
}

func NewMatchupRepository(db *sqlx.DB) *MatchupRepository {
	return &MatchupRepository{db: db}
}

func (r *MatchupRepository) GetByID(ctx context.Context, matchupID string) (matchup.Matchup, bool, error) {
	query, args, err := qb.Select("*").From("matchups").
		Where(qb.Eq("public_id", matchupID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return matchup.Matchup{}, false, fmt.Errorf("build select matchup query: %w", err)
	}

	var row matchupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchup.Matchup{}, false, nil
		}
		return matchup.Matchup{}, false, fmt.Errorf("select matchup: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchupRepository) ListByWeek(ctx context.Context, season, week int) ([]matchup.Matchup, error) {
	return r.list(ctx, qb.Eq("season", season), qb.Eq("week", week))
}

func (r *MatchupRepository) ListBySeason(ctx context.Context, season int) ([]matchup.Matchup, error) {
	return r.list(ctx, qb.Eq("season", season))
}

func (r *MatchupRepository) list(ctx context.Context, conditions ...qb.Condition) ([]matchup.Matchup, error) {
	query, args, err := qb.Select("*").From("matchups").
		Where(conditions...).
		OrderBy("week", "kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matchups query: %w", err)
	}

	var rows []matchupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matchups: %w", err)
	}

	out := make([]matchup.Matchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchupRepository) Upsert(ctx context.Context, m matchup.Matchup) error {
	query, args, err := qb.InsertModel("matchups", matchupToInsertModel(m), matchupUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert matchup query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert matchup: %w", err)
	}
	return nil
}
