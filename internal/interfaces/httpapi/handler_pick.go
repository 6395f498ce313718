package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

type submitPickRequest struct {
	MatchupID string `json:"matchup_id" validate:"required"`
	Side      string `json:"side" validate:"required"`
	IsLock    bool   `json:"is_lock"`
}

type submitAnonymousPickRequest struct {
	Email     string `json:"email" validate:"required,email"`
	MatchupID string `json:"matchup_id" validate:"required"`
	Side      string `json:"side" validate:"required"`
	IsLock    bool   `json:"is_lock"`
}

type setPickVisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPickRequest
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

	p, err := h.pickService.SubmitPick(ctx, usecase.SubmitPickInput{
		UserID:    principal.UserID,
		MatchupID: req.MatchupID,
		Side:      req.Side,
		IsLock:    req.IsLock,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick failed", "user_id", principal.UserID, "matchup_id", req.MatchupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pickToDTO(p))
}

func (h *Handler) SubmitAnonymousPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitAnonymousPick")
	defer span.End()

	var req submitAnonymousPickRequest
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

	p, err := h.pickService.SubmitAnonymousPick(ctx, usecase.SubmitAnonymousPickInput{
		Email:     req.Email,
		MatchupID: req.MatchupID,
		Side:      req.Side,
		IsLock:    req.IsLock,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit anonymous pick failed", "matchup_id", req.MatchupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, anonymousPickToDTO(p))
}

func (h *Handler) ClaimAnonymousPickSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClaimAnonymousPickSet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	pickSetID := r.PathValue("pickSetID")
	picks, err := h.pickService.ClaimAnonymousPickSet(ctx, pickSetID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "claim pick set failed", "pick_set_id", pickSetID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]anonymousPickDTO, 0, len(picks))
	for _, p := range picks {
		items = append(items, anonymousPickToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SetPickVisibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPickVisibility")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	pickID := r.PathValue("pickID")

	var req setPickVisibilityRequest
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

	if err := h.pickService.SetPickVisibility(ctx, usecase.SetPickVisibilityInput{
		PickID:      pickID,
		ActorUserID: principal.UserID,
		Visible:     *req.Visible,
	}); err != nil {
		h.logger.WarnContext(ctx, "set pick visibility failed", "pick_id", pickID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"pick_id": pickID, "visible": *req.Visible})
}

func (h *Handler) ListMyWeekPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyWeekPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
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

	weekPicks, err := h.pickService.ListUserWeekPicks(ctx, principal.UserID, season, week)
	if err != nil {
		h.logger.WarnContext(ctx, "list week picks failed", "user_id", principal.UserID, "season", season, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekPicksToDTO(weekPicks))
}
