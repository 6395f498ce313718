package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
)

// PrecedenceService records admin decisions on which channel wins when a
// user holds picks in both for the same week.
type PrecedenceService struct {
	pickRepo     pick.Repository
	anonPickRepo pick.AnonymousRepository
	decisionRepo precedence.Repository
	recomputer   AggregateRecomputer
	now          func() time.Time
}

func NewPrecedenceService(
	pickRepo pick.Repository,
	anonPickRepo pick.AnonymousRepository,
	decisionRepo precedence.Repository,
	recomputer AggregateRecomputer,
) *PrecedenceService {
	return &PrecedenceService{
		pickRepo:     pickRepo,
		anonPickRepo: anonPickRepo,
		decisionRepo: decisionRepo,
		recomputer:   recomputer,
		now:          time.Now,
	}
}

type SetPrecedenceInput struct {
	UserID string
	Season int
	Week   int
	Winner string
	// PickSetID optionally pins a specific anonymous pick set when the
	// anonymous channel wins.
	PickSetID string
	DecidedBy string
}

// SetPrecedence stores the decision and recomputes the user's aggregates so
// the previously excluded week counts immediately.
func (s *PrecedenceService) SetPrecedence(ctx context.Context, input SetPrecedenceInput) (precedence.Decision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrecedenceService.SetPrecedence")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return precedence.Decision{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Season <= 0 || input.Week <= 0 {
		return precedence.Decision{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	winner := precedence.Channel(strings.ToLower(strings.TrimSpace(input.Winner)))
	if winner != precedence.ChannelAuthenticated && winner != precedence.ChannelAnonymous {
		return precedence.Decision{}, fmt.Errorf("%w: unknown winning channel %q", ErrInvalidInput, input.Winner)
	}

	pickSetID := strings.TrimSpace(input.PickSetID)
	if pickSetID != "" {
		if winner != precedence.ChannelAnonymous {
			return precedence.Decision{}, fmt.Errorf("%w: a pick set can only win on the anonymous channel", ErrInvalidInput)
		}
		set, err := s.anonPickRepo.ListByPickSet(ctx, pickSetID)
		if err != nil {
			return precedence.Decision{}, fmt.Errorf("list anonymous pick set: %w", err)
		}
		if len(set) == 0 {
			return precedence.Decision{}, fmt.Errorf("%w: pick set=%s", ErrNotFound, pickSetID)
		}
		if set[0].ClaimedUserID != userID {
			return precedence.Decision{}, fmt.Errorf("%w: pick set=%s is not claimed by user=%s", ErrConflict, pickSetID, userID)
		}
		if set[0].Season != input.Season || set[0].Week != input.Week {
			return precedence.Decision{}, fmt.Errorf("%w: pick set=%s belongs to a different week", ErrConflict, pickSetID)
		}
	}

	decision := precedence.Decision{
		UserID:    userID,
		Season:    input.Season,
		Week:      input.Week,
		Winner:    winner,
		PickSetID: pickSetID,
		DecidedBy: strings.TrimSpace(input.DecidedBy),
		DecidedAt: s.now().UTC(),
	}
	if err := s.decisionRepo.Upsert(ctx, decision); err != nil {
		return precedence.Decision{}, fmt.Errorf("upsert precedence decision: %w", err)
	}

	if err := s.recomputer.RecomputeUser(ctx, userID, input.Season, input.Week); err != nil {
		return precedence.Decision{}, err
	}
	return decision, nil
}

func (s *PrecedenceService) GetDecision(ctx context.Context, userID string, season, week int) (precedence.Decision, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return precedence.Decision{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	d, ok, err := s.decisionRepo.Get(ctx, userID, season, week)
	if err != nil {
		return precedence.Decision{}, fmt.Errorf("get precedence decision: %w", err)
	}
	if !ok {
		return precedence.Decision{}, fmt.Errorf("%w: no decision for user=%s season=%d week=%d", ErrNotFound, userID, season, week)
	}
	return d, nil
}
