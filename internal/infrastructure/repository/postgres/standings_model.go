package postgres

import (
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
)

type standingsTableModel struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	Season     int       `db:"season"`
	Week       int       `db:"week"`
	Wins       int       `db:"wins"`
	Losses     int       `db:"losses"`
	Pushes     int       `db:"pushes"`
	LockWins   int       `db:"lock_wins"`
	LockLosses int       `db:"lock_losses"`
	Points     int       `db:"points"`
	Rank       int       `db:"rank"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type standingsInsertModel struct {
	UserID     string    `db:"user_id"`
	Season     int       `db:"season"`
	Week       int       `db:"week"`
	Wins       int       `db:"wins"`
	Losses     int       `db:"losses"`
	Pushes     int       `db:"pushes"`
	LockWins   int       `db:"lock_wins"`
	LockLosses int       `db:"lock_losses"`
	Points     int       `db:"points"`
	Rank       int       `db:"rank"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (row standingsTableModel) toDomain() standings.Entry {
	return standings.Entry{
		UserID:     row.UserID,
		Season:     row.Season,
		Week:       row.Week,
		Wins:       row.Wins,
		Losses:     row.Losses,
		Pushes:     row.Pushes,
		LockWins:   row.LockWins,
		LockLosses: row.LockLosses,
		Points:     row.Points,
		Rank:       row.Rank,
		UpdatedAt:  row.UpdatedAt,
	}
}

func entryToInsertModel(e standings.Entry) standingsInsertModel {
	return standingsInsertModel{
		UserID:     e.UserID,
		Season:     e.Season,
		Week:       e.Week,
		Wins:       e.Wins,
		Losses:     e.Losses,
		Pushes:     e.Pushes,
		LockWins:   e.LockWins,
		LockLosses: e.LockLosses,
		Points:     e.Points,
		Rank:       e.Rank,
		UpdatedAt:  e.UpdatedAt.UTC(),
	}
}
