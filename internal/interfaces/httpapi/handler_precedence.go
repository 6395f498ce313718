package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

type setPrecedenceRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	Season    int    `json:"season" validate:"required,gt=0"`
	Week      int    `json:"week" validate:"required,gt=0"`
	Winner    string `json:"winner" validate:"required"`
	PickSetID string `json:"pick_set_id" validate:"omitempty,max=80"`
	DecidedBy string `json:"decided_by" validate:"required,max=100"`
}

func (h *Handler) SetPrecedence(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPrecedence")
	defer span.End()

	var req setPrecedenceRequest
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

	decision, err := h.precedenceService.SetPrecedence(ctx, usecase.SetPrecedenceInput{
		UserID:    req.UserID,
		Season:    req.Season,
		Week:      req.Week,
		Winner:    req.Winner,
		PickSetID: req.PickSetID,
		DecidedBy: req.DecidedBy,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set precedence failed", "user_id", req.UserID, "season", req.Season, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, precedenceDecisionToDTO(decision))
}

func (h *Handler) GetPrecedence(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrecedence")
	defer span.End()

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(ctx, w, fmt.Errorf("%w: query parameter %q is required", usecase.ErrInvalidInput, "user_id"))
		return
	}
	season, err := queryInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := queryInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	decision, err := h.precedenceService.GetDecision(ctx, userID, season, week)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, precedenceDecisionToDTO(decision))
}
