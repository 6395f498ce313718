package postgres

import (
	"database/sql"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
)

type precedenceTableModel struct {
	ID        int64          `db:"id"`
	UserID    string         `db:"user_id"`
	Season    int            `db:"season"`
	Week      int            `db:"week"`
	Winner    string         `db:"winner"`
	PickSetID sql.NullString `db:"pick_set_id"`
	DecidedBy sql.NullString `db:"decided_by"`
	DecidedAt time.Time      `db:"decided_at"`
}

type precedenceInsertModel struct {
	UserID    string         `db:"user_id"`
	Season    int            `db:"season"`
	Week      int            `db:"week"`
	Winner    string         `db:"winner"`
	PickSetID sql.NullString `db:"pick_set_id"`
	DecidedBy sql.NullString `db:"decided_by"`
	DecidedAt time.Time      `db:"decided_at"`
}

func (row precedenceTableModel) toDomain() precedence.Decision {
	return precedence.Decision{
		UserID:    row.UserID,
		Season:    row.Season,
		Week:      row.Week,
		Winner:    precedence.Channel(row.Winner),
		PickSetID: nullStringToString(row.PickSetID),
		DecidedBy: nullStringToString(row.DecidedBy),
		DecidedAt: row.DecidedAt,
	}
}

func decisionToInsertModel(d precedence.Decision) precedenceInsertModel {
	return precedenceInsertModel{
		UserID:    d.UserID,
		Season:    d.Season,
		Week:      d.Week,
		Winner:    string(d.Winner),
		PickSetID: stringToNullString(d.PickSetID),
		DecidedBy: stringToNullString(d.DecidedBy),
		DecidedAt: d.DecidedAt.UTC(),
	}
}
