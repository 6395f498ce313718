package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

// queryInt reads a required positive integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: query parameter %q is required", usecase.ErrInvalidInput, name)
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: query parameter %q must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// queryIntDefault reads an optional integer query parameter; absent or blank
// values fall back to def.
func queryIntDefault(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: query parameter %q must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// scopeFromQuery parses season (required) and week (optional, 0 = season
// scope) query parameters.
func scopeFromQuery(r *http.Request) (standings.Scope, error) {
	season, err := queryInt(r, "season")
	if err != nil {
		return standings.Scope{}, err
	}
	week, err := queryIntDefault(r, "week", 0)
	if err != nil {
		return standings.Scope{}, err
	}
	return standings.Scope{Season: season, Week: week}, nil
}

type gradeDTO struct {
	CoveringSide string `json:"covering_side"`
	BonusTier    int    `json:"bonus_tier"`
}

type matchupDTO struct {
	ID        string    `json:"id"`
	Season    int       `json:"season"`
	Week      int       `json:"week"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Spread    float64   `json:"spread"`
	KickoffAt time.Time `json:"kickoff_at"`
	HomeScore *int      `json:"home_score,omitempty"`
	AwayScore *int      `json:"away_score,omitempty"`
	Status    string    `json:"status"`
	Grade     *gradeDTO `json:"grade,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func matchupToDTO(m matchup.Matchup) matchupDTO {
	dto := matchupDTO{
		ID:        m.ID,
		Season:    m.Season,
		Week:      m.Week,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Spread:    m.Spread,
		KickoffAt: m.KickoffAt,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Status:    m.Status,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Grade != nil {
		dto.Grade = &gradeDTO{
			CoveringSide: string(m.Grade.CoveringSide),
			BonusTier:    m.Grade.BonusTier,
		}
	}
	return dto
}

type pickDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MatchupID string    `json:"matchup_id"`
	Season    int       `json:"season"`
	Week      int       `json:"week"`
	Side      string    `json:"side"`
	IsLock    bool      `json:"is_lock"`
	Visible   bool      `json:"visible"`
	Outcome   string    `json:"outcome"`
	Points    *int      `json:"points,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func pickToDTO(p pick.Pick) pickDTO {
	return pickDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		MatchupID: p.MatchupID,
		Season:    p.Season,
		Week:      p.Week,
		Side:      string(p.Side),
		IsLock:    p.IsLock,
		Visible:   p.Visible,
		Outcome:   string(p.Outcome),
		Points:    p.Points,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type anonymousPickDTO struct {
	ID            string    `json:"id"`
	PickSetID     string    `json:"pick_set_id"`
	Email         string    `json:"email"`
	ClaimedUserID string    `json:"claimed_user_id,omitempty"`
	MatchupID     string    `json:"matchup_id"`
	Season        int       `json:"season"`
	Week          int       `json:"week"`
	Side          string    `json:"side"`
	IsLock        bool      `json:"is_lock"`
	Visible       bool      `json:"visible"`
	Validation    string    `json:"validation"`
	Outcome       string    `json:"outcome"`
	Points        *int      `json:"points,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func anonymousPickToDTO(p pick.AnonymousPick) anonymousPickDTO {
	return anonymousPickDTO{
		ID:            p.ID,
		PickSetID:     p.PickSetID,
		Email:         p.Email,
		ClaimedUserID: p.ClaimedUserID,
		MatchupID:     p.MatchupID,
		Season:        p.Season,
		Week:          p.Week,
		Side:          string(p.Side),
		IsLock:        p.IsLock,
		Visible:       p.Visible,
		Validation:    string(p.Validation),
		Outcome:       string(p.Outcome),
		Points:        p.Points,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type standingsEntryDTO struct {
	UserID     string    `json:"user_id"`
	Season     int       `json:"season"`
	Week       int       `json:"week"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	Pushes     int       `json:"pushes"`
	LockWins   int       `json:"lock_wins"`
	LockLosses int       `json:"lock_losses"`
	Points     int       `json:"points"`
	Rank       int       `json:"rank"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func standingsEntryToDTO(e standings.Entry) standingsEntryDTO {
	return standingsEntryDTO{
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
		UpdatedAt:  e.UpdatedAt,
	}
}

type precedenceDecisionDTO struct {
	UserID    string    `json:"user_id"`
	Season    int       `json:"season"`
	Week      int       `json:"week"`
	Winner    string    `json:"winner"`
	PickSetID string    `json:"pick_set_id,omitempty"`
	DecidedBy string    `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}

func precedenceDecisionToDTO(d precedence.Decision) precedenceDecisionDTO {
	return precedenceDecisionDTO{
		UserID:    d.UserID,
		Season:    d.Season,
		Week:      d.Week,
		Winner:    string(d.Winner),
		PickSetID: d.PickSetID,
		DecidedBy: d.DecidedBy,
		DecidedAt: d.DecidedAt,
	}
}

type resolutionDTO struct {
	State         string `json:"state"`
	ActiveChannel string `json:"active_channel,omitempty"`
	PickSetID     string `json:"pick_set_id,omitempty"`
}

func resolutionToDTO(r precedence.Resolution) resolutionDTO {
	return resolutionDTO{
		State:         string(r.State),
		ActiveChannel: string(r.Active),
		PickSetID:     r.PickSetID,
	}
}

type weekPicksDTO struct {
	Resolution    resolutionDTO      `json:"resolution"`
	Authenticated []pickDTO          `json:"authenticated"`
	Anonymous     []anonymousPickDTO `json:"anonymous"`
}

func weekPicksToDTO(wp usecase.WeekPicks) weekPicksDTO {
	authenticated := make([]pickDTO, 0, len(wp.Authenticated))
	for _, p := range wp.Authenticated {
		authenticated = append(authenticated, pickToDTO(p))
	}
	anonymous := make([]anonymousPickDTO, 0, len(wp.Anonymous))
	for _, p := range wp.Anonymous {
		anonymous = append(anonymous, anonymousPickToDTO(p))
	}
	return weekPicksDTO{
		Resolution:    resolutionToDTO(wp.Resolution),
		Authenticated: authenticated,
		Anonymous:     anonymous,
	}
}
