package app

import (
	"fmt"
	"net/http"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"

	"github.com/kurtiswh/pigskin-picksix-sub006/external/scorefeed"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/config"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/matchup"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/pick"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/precedence"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/domain/standings"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/infrastructure/account"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/infrastructure/jobqueue"
	repocache "github.com/kurtiswh/pigskin-picksix-sub006/internal/infrastructure/repository/cache"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/infrastructure/repository/memory"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/infrastructure/repository/postgres"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/interfaces/httpapi"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/cache"
	idgen "github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/id"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/resilience"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

type repositories struct {
	matchups  matchup.Repository
	picks     pick.Repository
	anonPicks pick.AnonymousRepository
	decisions precedence.Repository
	standings standings.Repository
}

// NewHTTPServer wires repositories, external clients, and services into a
// ready-to-listen API server. The returned cleanup closes the database pool
// when one was opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
		repos.matchups = repocache.NewMatchupRepository(repos.matchups, store)
	}

	accountClient := account.NewClient(account.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AccountTimeout},
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		AdminKey:       cfg.AccountAdminKey,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
		},
	})

	standingsService := usecase.NewStandingsService(
		repos.matchups, repos.picks, repos.anonPicks, repos.decisions, repos.standings,
		accountClient, store,
	)
	idGenerator := idgen.NewRandomGenerator()
	gradingService := usecase.NewGradingService(repos.matchups, repos.picks, repos.anonPicks, standingsService, idGenerator)
	pickService := usecase.NewPickService(
		repos.matchups, repos.picks, repos.anonPicks, repos.decisions,
		standingsService, idGenerator, pick.Rules{MaxPicksPerWeek: cfg.MaxPicksPerWeek},
	)
	precedenceService := usecase.NewPrecedenceService(repos.picks, repos.anonPicks, repos.decisions, standingsService)
	auditService := usecase.NewAuditService(repos.matchups, repos.picks, repos.anonPicks, repos.standings, standingsService)
	rebuildService := usecase.NewRebuildService(standingsService)
	scoreSyncService := usecase.NewScoreSyncService(
		buildScoreProvider(cfg, logger),
		gradingService,
		usecase.ScoreSyncConfig{
			Enabled:         cfg.ScoreFeedEnabled,
			MinPollInterval: cfg.ScoreFeedMinPollInterval,
		},
	)
	pollPlanner := usecase.NewPollPlannerService(
		repos.matchups,
		buildJobQueue(cfg, logger),
		usecase.PollPlannerConfig{
			LiveInterval:   cfg.PollLiveInterval,
			PreKickoffLead: cfg.PollPreKickoffLead,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		gradingService, pickService, precedenceService, standingsService,
		auditService, rebuildService, scoreSyncService, pollPlanner, logger,
	)
	router := httpapi.NewRouter(handler, accountClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// buildRepositories opens the Postgres pool when DB_URL is set and falls back
// to seeded in-memory repositories otherwise, which keeps local development
// free of a database dependency.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if cfg.DBURL == "" {
		logger.Info("db url empty, using in-memory repositories")
		return repositories{
			matchups:  memory.NewMatchupRepository(memory.SeedMatchups()),
			picks:     memory.NewPickRepository(nil),
			anonPicks: memory.NewAnonymousPickRepository(nil),
			decisions: memory.NewPrecedenceRepository(),
			standings: memory.NewStandingsRepository(),
		}, func() error { return nil }, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)

	logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		matchups:  postgres.NewMatchupRepository(db),
		picks:     postgres.NewPickRepository(db),
		anonPicks: postgres.NewAnonymousPickRepository(db),
		decisions: postgres.NewPrecedenceRepository(db),
		standings: postgres.NewStandingsRepository(db),
	}, db.Close, nil
}

func buildScoreProvider(cfg config.Config, logger *logging.Logger) usecase.ScoreProvider {
	if !cfg.ScoreFeedEnabled {
		return nil
	}

	return scorefeed.NewClient(scorefeed.ClientConfig{
		BaseURL:    cfg.ScoreFeedBaseURL,
		APIKey:     cfg.ScoreFeedAPIKey,
		Timeout:    cfg.ScoreFeedTimeout,
		MaxRetries: cfg.ScoreFeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScoreFeedCircuitEnabled,
			FailureThreshold: cfg.ScoreFeedCircuitFailureCount,
			OpenTimeout:      cfg.ScoreFeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScoreFeedCircuitHalfOpenMaxReq,
		},
	})
}

func buildJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
	}, logger)
}
