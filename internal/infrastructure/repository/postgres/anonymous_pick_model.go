package postgres

import (
	"database/sql"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
)

type anonymousPickTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	PickSetID     string         `db:"pick_set_id"`
	Email         string         `db:"email"`
	ClaimedUserID sql.NullString `db:"claimed_user_id"`
	MatchupID     string         `db:"matchup_public_id"`
	Season        int            `db:"season"`
	Week          int            `db:"week"`
	Side          string         `db:"side"`
	IsLock        bool           `db:"is_lock"`
	Visible       bool           `db:"visible"`
	Validation    string         `db:"validation"`
	Outcome       string         `db:"outcome"`
	Points        sql.NullInt64  `db:"points"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type anonymousPickInsertModel struct {
	PublicID      string         `db:"public_id"`
	PickSetID     string         `db:"pick_set_id"`
	Email         string         `db:"email"`
	ClaimedUserID sql.NullString `db:"claimed_user_id"`
	MatchupID     string         `db:"matchup_public_id"`
	Season        int            `db:"season"`
	Week          int            `db:"week"`
	Side          string         `db:"side"`
	IsLock        bool           `db:"is_lock"`
	Visible       bool           `db:"visible"`
	Validation    string         `db:"validation"`
	Outcome       string         `db:"outcome"`
	Points        sql.NullInt64  `db:"points"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (row anonymousPickTableModel) toDomain() pick.AnonymousPick {
	return pick.AnonymousPick{
		ID:            row.PublicID,
		PickSetID:     row.PickSetID,
		Email:         row.Email,
		ClaimedUserID: nullStringToString(row.ClaimedUserID),
		MatchupID:     row.MatchupID,
		Season:        row.Season,
		Week:          row.Week,
		Side:          matchup.Side(row.Side),
		IsLock:        row.IsLock,
		Visible:       row.Visible,
		Validation:    pick.ValidationState(row.Validation),
		Outcome:       pick.Outcome(row.Outcome),
		Points:        nullInt64ToIntPtr(row.Points),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func anonymousPickToInsertModel(ap pick.AnonymousPick) anonymousPickInsertModel {
	return anonymousPickInsertModel{
		PublicID:      ap.ID,
		PickSetID:     ap.PickSetID,
		Email:         ap.Email,
		ClaimedUserID: stringToNullString(ap.ClaimedUserID),
		MatchupID:     ap.MatchupID,
		Season:        ap.Season,
		Week:          ap.Week,
		Side:          string(ap.Side),
		IsLock:        ap.IsLock,
		Visible:       ap.Visible,
		Validation:    string(ap.Validation),
		Outcome:       string(ap.Outcome),
		Points:        intPtrToNullInt64(ap.Points),
		CreatedAt:     ap.CreatedAt.UTC(),
		UpdatedAt:     ap.UpdatedAt.UTC(),
	}
}
