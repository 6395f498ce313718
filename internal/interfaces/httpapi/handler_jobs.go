package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

type rebuildJobRequest struct {
	Season     int `json:"season" validate:"required,gt=0"`
	Week       int `json:"week" validate:"gte=0"`
	MaxWorkers int `json:"max_workers" validate:"gte=0"`
}

type pollScoresJobRequest struct {
	Season int `json:"season" validate:"required,gt=0"`
	Week   int `json:"week" validate:"required,gt=0"`
}

// RunRebuildJob drops every cached assumption and recomputes a scope from
// raw picks. Expensive; operators reach for it after manual data surgery or
// when the audit reports drift.
func (h *Handler) RunRebuildJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRebuildJob")
	defer span.End()

	var req rebuildJobRequest
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

	result, err := h.rebuildService.ForceRebuild(ctx, usecase.RebuildInput{
		Season:     req.Season,
		Week:       req.Week,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "rebuild job failed", "season", req.Season, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "rebuild job finished",
		"season", req.Season,
		"week", req.Week,
		"tasks", result.TaskCount,
		"failed", result.FailedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

type planPollsJobRequest struct {
	Season int `json:"season" validate:"required,gt=0"`
}

// RunPlanPollsJob walks the season schedule and queues poll-scores jobs for
// the weeks that are live or about to kick off. Meant to be hit on a cron.
func (h *Handler) RunPlanPollsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPlanPollsJob")
	defer span.End()

	var req planPollsJobRequest
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

	result, err := h.pollPlanner.PlanScorePolls(ctx, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "poll planning job failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunPollScoresJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPollScoresJob")
	defer span.End()

	var req pollScoresJobRequest
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

	result, err := h.scoreSyncService.Poll(ctx, req.Season, req.Week)
	if err != nil {
		h.logger.WarnContext(ctx, "score poll job failed", "season", req.Season, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
