package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

type Handler struct {
	gradingService    *usecase.GradingService
	pickService       *usecase.PickService
	precedenceService *usecase.PrecedenceService
	standingsService  *usecase.StandingsService
	auditService      *usecase.AuditService
	rebuildService    *usecase.RebuildService
	scoreSyncService  *usecase.ScoreSyncService
	pollPlanner       *usecase.PollPlannerService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	gradingService *usecase.GradingService,
	pickService *usecase.PickService,
	precedenceService *usecase.PrecedenceService,
	standingsService *usecase.StandingsService,
	auditService *usecase.AuditService,
	rebuildService *usecase.RebuildService,
	scoreSyncService *usecase.ScoreSyncService,
	pollPlanner *usecase.PollPlannerService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gradingService:    gradingService,
		pickService:       pickService,
		precedenceService: precedenceService,
		standingsService:  standingsService,
		auditService:      auditService,
		rebuildService:    rebuildService,
		scoreSyncService:  scoreSyncService,
		pollPlanner:       pollPlanner,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
