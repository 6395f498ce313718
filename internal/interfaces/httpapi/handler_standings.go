package httpapi

import (
	"net/http"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.standingsService.Leaderboard(ctx, scope)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard read failed", "season", scope.Season, "week", scope.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingsEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, standingsEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAudit")
	defer span.End()

	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.auditService.Run(ctx, scope)
	if err != nil {
		h.logger.WarnContext(ctx, "audit run failed", "season", scope.Season, "week", scope.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
