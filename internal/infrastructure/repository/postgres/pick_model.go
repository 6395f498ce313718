package postgres

import (
	"database/sql"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
)

type pickTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	UserID    string        `db:"user_id"`
	MatchupID string        `db:"matchup_public_id"`
	Season    int           `db:"season"`
	Week      int           `db:"week"`
	Side      string        `db:"side"`
	IsLock    bool          `db:"is_lock"`
	Visible   bool          `db:"visible"`
	Outcome   string        `db:"outcome"`
	Points    sql.NullInt64 `db:"points"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type pickInsertModel struct {
	PublicID  string        `db:"public_id"`
	UserID    string        `db:"user_id"`
	MatchupID string        `db:"matchup_public_id"`
	Season    int           `db:"season"`
	Week      int           `db:"week"`
	Side      string        `db:"side"`
	IsLock    bool          `db:"is_lock"`
	Visible   bool          `db:"visible"`
	Outcome   string        `db:"outcome"`
	Points    sql.NullInt64 `db:"points"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func (row pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		ID:        row.PublicID,
		UserID:    row.UserID,
		MatchupID: row.MatchupID,
		Season:    row.Season,
		Week:      row.Week,
		Side:      matchup.Side(row.Side),
		IsLock:    row.IsLock,
		Visible:   row.Visible,
		Outcome:   pick.Outcome(row.Outcome),
		Points:    nullInt64ToIntPtr(row.Points),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func pickToInsertModel(p pick.Pick) pickInsertModel {
	return pickInsertModel{
		PublicID:  p.ID,
		UserID:    p.UserID,
		MatchupID: p.MatchupID,
		Season:    p.Season,
		Week:      p.Week,
		Side:      string(p.Side),
		IsLock:    p.IsLock,
		Visible:   p.Visible,
		Outcome:   string(p.Outcome),
		Points:    intPtrToNullInt64(p.Points),
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}
