package postgres

import (
	"database/sql"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
)

type matchupTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	Season         int            `db:"season"`
	Week           int            `db:"week"`
	HomeTeam       string         `db:"home_team"`
	AwayTeam       string         `db:"away_team"`
	Spread         float64        `db:"spread"`
	KickoffAt      time.Time      `db:"kickoff_at"`
	HomeScore      sql.NullInt64  `db:"home_score"`
	AwayScore      sql.NullInt64  `db:"away_score"`
	Status         string         `db:"status"`
	GradeSide      sql.NullString `db:"grade_side"`
	GradeBonusTier sql.NullInt64  `db:"grade_bonus_tier"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type matchupInsertModel struct {
	PublicID       string         `db:"public_id"`
	Season         int            `db:"season"`
	Week           int            `db:"week"`
	HomeTeam       string         `db:"home_team"`
	AwayTeam       string         `db:"away_team"`
	Spread         float64        `db:"spread"`
	KickoffAt      time.Time      `db:"kickoff_at"`
	HomeScore      sql.NullInt64  `db:"home_score"`
	AwayScore      sql.NullInt64  `db:"away_score"`
	Status         string         `db:"status"`
	GradeSide      sql.NullString `db:"grade_side"`
	GradeBonusTier sql.NullInt64  `db:"grade_bonus_tier"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (row matchupTableModel) toDomain() matchup.Matchup {
	m := matchup.Matchup{
		ID:        row.PublicID,
		Season:    row.Season,
		Week:      row.Week,
		HomeTeam:  row.HomeTeam,
		AwayTeam:  row.AwayTeam,
		Spread:    row.Spread,
		KickoffAt: row.KickoffAt,
		HomeScore: nullInt64ToIntPtr(row.HomeScore),
		AwayScore: nullInt64ToIntPtr(row.AwayScore),
		Status:    row.Status,
		UpdatedAt: row.UpdatedAt,
	}
	if row.GradeSide.Valid && row.GradeBonusTier.Valid {
		m.Grade = &matchup.Grade{
			CoveringSide: matchup.Side(row.GradeSide.String),
			BonusTier:    int(row.GradeBonusTier.Int64),
		}
	}
	return m
}

func matchupToInsertModel(m matchup.Matchup) matchupInsertModel {
	row := matchupInsertModel{
		PublicID:  m.ID,
		Season:    m.Season,
		Week:      m.Week,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Spread:    m.Spread,
		KickoffAt: m.KickoffAt.UTC(),
		HomeScore: intPtrToNullInt64(m.HomeScore),
		AwayScore: intPtrToNullInt64(m.AwayScore),
		Status:    m.Status,
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.Grade != nil {
		row.GradeSide = sql.NullString{String: string(m.Grade.CoveringSide), Valid: true}
		row.GradeBonusTier = sql.NullInt64{Int64: int64(m.Grade.BonusTier), Valid: true}
	}
	return row
}
