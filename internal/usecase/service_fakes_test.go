package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
)

type fakeMatchupRepo struct {
	mu    sync.Mutex
	items map[string]matchup.Matchup
}

func newFakeMatchupRepo() *fakeMatchupRepo {
	return &fakeMatchupRepo{items: make(map[string]matchup.Matchup)}
}

func (r *fakeMatchupRepo) GetByID(_ context.Context, matchupID string) (matchup.Matchup, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[matchupID]
	return m, ok, nil
}

func (r *fakeMatchupRepo) ListByWeek(_ context.Context, season, week int) ([]matchup.Matchup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []matchup.Matchup
	for _, m := range r.items {
		if m.Season == season && m.Week == week {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchupRepo) ListBySeason(_ context.Context, season int) ([]matchup.Matchup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []matchup.Matchup
	for _, m := range r.items {
		if m.Season == season {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchupRepo) Upsert(_ context.Context, m matchup.Matchup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = m
	return nil
}

type fakePickRepo struct {
	mu    sync.Mutex
	items map[string]pick.Pick
}

func newFakePickRepo() *fakePickRepo {
	return &fakePickRepo{items: make(map[string]pick.Pick)}
}

func (r *fakePickRepo) GetByID(_ context.Context, pickID string) (pick.Pick, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[pickID]
	return p, ok, nil
}

func (r *fakePickRepo) list(filter func(pick.Pick) bool) []pick.Pick {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pick.Pick
	for _, p := range r.items {
		if filter(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakePickRepo) ListByMatchup(_ context.Context, matchupID string) ([]pick.Pick, error) {
	return r.list(func(p pick.Pick) bool { return p.MatchupID == matchupID }), nil
}

func (r *fakePickRepo) ListByUserWeek(_ context.Context, userID string, season, week int) ([]pick.Pick, error) {
	return r.list(func(p pick.Pick) bool {
		return p.UserID == userID && p.Season == season && p.Week == week
	}), nil
}

func (r *fakePickRepo) ListByUserSeason(_ context.Context, userID string, season int) ([]pick.Pick, error) {
	return r.list(func(p pick.Pick) bool { return p.UserID == userID && p.Season == season }), nil
}

func (r *fakePickRepo) Upsert(_ context.Context, p pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
	return nil
}

type fakeAnonPickRepo struct {
	mu    sync.Mutex
	items map[string]pick.AnonymousPick
}

func newFakeAnonPickRepo() *fakeAnonPickRepo {
	return &fakeAnonPickRepo{items: make(map[string]pick.AnonymousPick)}
}

func (r *fakeAnonPickRepo) GetByID(_ context.Context, pickID string) (pick.AnonymousPick, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.items[pickID]
	return ap, ok, nil
}

func (r *fakeAnonPickRepo) list(filter func(pick.AnonymousPick) bool) []pick.AnonymousPick {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pick.AnonymousPick
	for _, ap := range r.items {
		if filter(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeAnonPickRepo) ListByPickSet(_ context.Context, pickSetID string) ([]pick.AnonymousPick, error) {
	return r.list(func(ap pick.AnonymousPick) bool { return ap.PickSetID == pickSetID }), nil
}

func (r *fakeAnonPickRepo) ListByEmailWeek(_ context.Context, email string, season, week int) ([]pick.AnonymousPick, error) {
	return r.list(func(ap pick.AnonymousPick) bool {
		return ap.Email == email && ap.Season == season && ap.Week == week
	}), nil
}

func (r *fakeAnonPickRepo) ListByMatchup(_ context.Context, matchupID string) ([]pick.AnonymousPick, error) {
	return r.list(func(ap pick.AnonymousPick) bool { return ap.MatchupID == matchupID }), nil
}

func (r *fakeAnonPickRepo) ListByClaimedUserWeek(_ context.Context, userID string, season, week int) ([]pick.AnonymousPick, error) {
	return r.list(func(ap pick.AnonymousPick) bool {
		return ap.ClaimedUserID == userID && ap.Season == season && ap.Week == week
	}), nil
}

func (r *fakeAnonPickRepo) ListByClaimedUserSeason(_ context.Context, userID string, season int) ([]pick.AnonymousPick, error) {
	return r.list(func(ap pick.AnonymousPick) bool {
		return ap.ClaimedUserID == userID && ap.Season == season
	}), nil
}

func (r *fakeAnonPickRepo) Upsert(_ context.Context, ap pick.AnonymousPick) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ap.ID] = ap
	return nil
}

type decisionKey struct {
	userID string
	season int
	week   int
}

type fakeDecisionRepo struct {
	mu    sync.Mutex
	items map[decisionKey]precedence.Decision
}

func newFakeDecisionRepo() *fakeDecisionRepo {
	return &fakeDecisionRepo{items: make(map[decisionKey]precedence.Decision)}
}

func (r *fakeDecisionRepo) Get(_ context.Context, userID string, season, week int) (precedence.Decision, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[decisionKey{userID, season, week}]
	return d, ok, nil
}

func (r *fakeDecisionRepo) ListBySeason(_ context.Context, season int) ([]precedence.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []precedence.Decision
	for _, d := range r.items {
		if d.Season == season {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeDecisionRepo) Upsert(_ context.Context, d precedence.Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[decisionKey{d.UserID, d.Season, d.Week}] = d
	return nil
}

type standingsKey struct {
	userID string
	season int
	week   int
}

type fakeStandingsRepo struct {
	mu    sync.Mutex
	items map[standingsKey]standings.Entry
}

func newFakeStandingsRepo() *fakeStandingsRepo {
	return &fakeStandingsRepo{items: make(map[standingsKey]standings.Entry)}
}

func (r *fakeStandingsRepo) Get(_ context.Context, userID string, season, week int) (standings.Entry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[standingsKey{userID, season, week}]
	return e, ok, nil
}

func (r *fakeStandingsRepo) ListByScope(_ context.Context, scope standings.Scope) ([]standings.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []standings.Entry
	for _, e := range r.items {
		if e.Season == scope.Season && e.Week == scope.Week {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeStandingsRepo) Upsert(_ context.Context, e standings.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[standingsKey{e.UserID, e.Season, e.Week}] = e
	return nil
}

func (r *fakeStandingsRepo) Delete(_ context.Context, userID string, season, week int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, standingsKey{userID, season, week})
	return nil
}

func (r *fakeStandingsRepo) snapshot() map[standingsKey]standings.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[standingsKey]standings.Entry, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

type sequentialIDGen struct {
	mu   sync.Mutex
	next int
}

func (g *sequentialIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%04d", g.next), nil
}

type serviceFixture struct {
	matchupRepo   *fakeMatchupRepo
	pickRepo      *fakePickRepo
	anonPickRepo  *fakeAnonPickRepo
	decisionRepo  *fakeDecisionRepo
	standingsRepo *fakeStandingsRepo
	idGen         *sequentialIDGen

	standings  *StandingsService
	grading    *GradingService
	picks      *PickService
	precedence *PrecedenceService
	audit      *AuditService
	rebuild    *RebuildService
}

var fixtureNow = time.Date(2025, time.October, 4, 12, 0, 0, 0, time.UTC)

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		matchupRepo:   newFakeMatchupRepo(),
		pickRepo:      newFakePickRepo(),
		anonPickRepo:  newFakeAnonPickRepo(),
		decisionRepo:  newFakeDecisionRepo(),
		standingsRepo: newFakeStandingsRepo(),
		idGen:         &sequentialIDGen{},
	}

	now := func() time.Time { return fixtureNow }

	f.standings = NewStandingsService(f.matchupRepo, f.pickRepo, f.anonPickRepo, f.decisionRepo, f.standingsRepo, nil, nil)
	f.standings.now = now

	f.grading = NewGradingService(f.matchupRepo, f.pickRepo, f.anonPickRepo, f.standings, f.idGen)
	f.grading.now = now

	f.picks = NewPickService(f.matchupRepo, f.pickRepo, f.anonPickRepo, f.decisionRepo, f.standings, f.idGen, pick.DefaultRules())
	f.picks.now = now

	f.precedence = NewPrecedenceService(f.pickRepo, f.anonPickRepo, f.decisionRepo, f.standings)
	f.precedence.now = now

	f.audit = NewAuditService(f.matchupRepo, f.pickRepo, f.anonPickRepo, f.standingsRepo, f.standings)
	f.rebuild = NewRebuildService(f.standings)

	return f
}

func (f *serviceFixture) seedMatchup(id string, season, week int, spread float64) matchup.Matchup {
	m := matchup.Matchup{
		ID:        id,
		Season:    season,
		Week:      week,
		HomeTeam:  "Georgia",
		AwayTeam:  "Alabama",
		Spread:    spread,
		KickoffAt: fixtureNow.Add(24 * time.Hour),
		Status:    matchup.StatusScheduled,
		UpdatedAt: fixtureNow,
	}
	_ = f.matchupRepo.Upsert(context.Background(), m)
	return m
}

func intPtr(v int) *int { return &v }
