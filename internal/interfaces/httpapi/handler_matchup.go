package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

type publishMatchupRequest struct {
	ID        string  `json:"id" validate:"omitempty,max=80"`
	Season    int     `json:"season" validate:"required,gt=0"`
	Week      int     `json:"week" validate:"required,gt=0"`
	HomeTeam  string  `json:"home_team" validate:"required,max=100"`
	AwayTeam  string  `json:"away_team" validate:"required,max=100"`
	Spread    float64 `json:"spread"`
	KickoffAt string  `json:"kickoff_at" validate:"required"`
}

type setSpreadRequest struct {
	Spread *float64 `json:"spread" validate:"required"`
}

type reportStateRequest struct {
	HomeScore *int   `json:"home_score" validate:"omitempty,gte=0"`
	AwayScore *int   `json:"away_score" validate:"omitempty,gte=0"`
	Status    string `json:"status" validate:"required"`
}

func (h *Handler) PublishMatchup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishMatchup")
	defer span.End()

	var req publishMatchupRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kickoffAt, err := time.Parse(time.RFC3339, req.KickoffAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: kickoff_at must be RFC3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	m, err := h.gradingService.PublishMatchup(ctx, usecase.PublishMatchupInput{
		ID:        req.ID,
		Season:    req.Season,
		Week:      req.Week,
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		Spread:    req.Spread,
		KickoffAt: kickoffAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish matchup failed", "season", req.Season, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchupToDTO(m))
}

func (h *Handler) SetSpread(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSpread")
	defer span.End()

	matchupID := r.PathValue("matchupID")

	var req setSpreadRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.gradingService.SetSpread(ctx, matchupID, *req.Spread)
	if err != nil {
		h.logger.WarnContext(ctx, "set spread failed", "matchup_id", matchupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchupToDTO(m))
}

func (h *Handler) ReportMatchupState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReportMatchupState")
	defer span.End()

	matchupID := r.PathValue("matchupID")

	var req reportStateRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.gradingService.ReportMatchupState(ctx, usecase.ReportStateInput{
		MatchupID: matchupID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
		Status:    req.Status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "report matchup state failed", "matchup_id", matchupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchupToDTO(m))
}

func (h *Handler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchup")
	defer span.End()

	matchupID := r.PathValue("matchupID")
	m, err := h.gradingService.GetMatchup(ctx, matchupID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchupToDTO(m))
}

func (h *Handler) ListMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchups")
	defer span.End()

	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchups, err := h.gradingService.ListMatchups(ctx, scope.Season, scope.Week)
	if err != nil {
		h.logger.WarnContext(ctx, "list matchups failed", "season", scope.Season, "week", scope.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchupDTO, 0, len(matchups))
	for _, m := range matchups {
		items = append(items, matchupToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
