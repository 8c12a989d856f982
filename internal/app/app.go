package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fitclash/league-engine/internal/config"
	"github.com/fitclash/league-engine/internal/domain/game"
	"github.com/fitclash/league-engine/internal/domain/league"
	"github.com/fitclash/league-engine/internal/domain/ledger"
	domainnotif "github.com/fitclash/league-engine/internal/domain/notification"
	"github.com/fitclash/league-engine/internal/domain/season"
	"github.com/fitclash/league-engine/internal/domain/standing"
	"github.com/fitclash/league-engine/internal/domain/summary"
	"github.com/fitclash/league-engine/internal/domain/team"
	"github.com/fitclash/league-engine/internal/infrastructure/notification"
	"github.com/fitclash/league-engine/internal/infrastructure/repository/memory"
	"github.com/fitclash/league-engine/internal/infrastructure/repository/postgres"
	"github.com/fitclash/league-engine/internal/platform/cache"
	idgen "github.com/fitclash/league-engine/internal/platform/id"
	"github.com/fitclash/league-engine/internal/platform/logging"
	"github.com/fitclash/league-engine/internal/platform/resilience"
	"github.com/fitclash/league-engine/internal/usecase"
)

// Repositories groups the persistence ports behind one wiring point so
// the memory and postgres stacks are interchangeable.
type Repositories struct {
	Leagues   league.Repository
	Teams     team.Repository
	Seasons   season.Repository
	Games     game.Repository
	Ledger    ledger.Repository
	Standings standing.Repository
	Summaries summary.Repository
}

// Engine is the fully wired service graph.
type Engine struct {
	Config config.Config
	Logger *logging.Logger

	DB        *sqlx.DB
	Repos     Repositories
	Publisher domainnotif.Publisher

	League     *usecase.LeagueService
	Schedule   *usecase.ScheduleService
	Score      *usecase.ScoreService
	Cycle      *usecase.CycleService
	Evaluation *usecase.EvaluationService
	Ingest     *usecase.IngestPool
}

// New wires the engine. Without DB_URL it runs on seeded in-memory
// repositories, which is the dev mode.
func New(cfg config.Config, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.Default()
	}

	e := &Engine{
		Config: cfg,
		Logger: logger,
	}

	if cfg.DBURL == "" {
		logger.Info("no DB_URL set, using in-memory repositories")
		if err := e.wireMemory(); err != nil {
			return nil, err
		}
	} else {
		if err := e.wirePostgres(cfg); err != nil {
			return nil, err
		}
	}

	publisher, err := buildPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	e.Publisher = publisher

	var rosters *cache.Store
	if cfg.CacheEnabled {
		rosters = cache.NewStore(cfg.CacheTTL)
	}

	ids := idgen.NewRandomGenerator()

	e.League = usecase.NewLeagueService(e.Repos.Leagues, e.Repos.Teams, e.Repos.Seasons, e.Repos.Games, e.Repos.Standings, ids)
	e.Schedule = usecase.NewScheduleService(e.Repos.Leagues, e.Repos.Seasons, e.Repos.Teams, e.Repos.Games, e.Repos.Standings, ids, logger)
	e.Score = usecase.NewScoreService(e.Repos.Games, e.Repos.Teams, e.Repos.Ledger, publisher, rosters, ids, logger)
	e.Cycle = usecase.NewCycleService(e.Repos.Games, publisher, logger)
	e.Evaluation = usecase.NewEvaluationService(e.Repos.Games, e.Repos.Seasons, e.Repos.Standings, e.Repos.Summaries, e.Score, publisher, ids, logger)

	pool, err := usecase.NewIngestPool(e.Score, cfg.IngestWorkers, logger)
	if err != nil {
		return nil, fmt.Errorf("create ingest pool: %w", err)
	}
	e.Ingest = pool

	return e, nil
}

// Runners returns the background loops the engine needs: the lifecycle
// tick and, when enabled, the evaluation sweep.
func (e *Engine) Runners() []*usecase.Runner {
	runners := []*usecase.Runner{
		usecase.NewRunner("cycle", e.Config.CycleTickInterval, func(ctx context.Context) error {
			_, err := e.Cycle.Tick(ctx)
			return err
		}, e.Logger),
	}

	if e.Config.EvaluationEnabled {
		runners = append(runners, usecase.NewRunner("evaluation", e.Config.EvaluationInterval, func(ctx context.Context) error {
			_, err := e.Evaluation.EvaluateDue(ctx)
			return err
		}, e.Logger))
	}

	return runners
}

func (e *Engine) wireMemory() error {
	games := memory.NewGameRepository()
	teams := memory.NewTeamRepository(memory.SeedTeams())
	for _, member := range memory.SeedMemberships() {
		if err := teams.AddMember(context.Background(), member); err != nil {
			return fmt.Errorf("seed membership: %w", err)
		}
	}

	e.Repos = Repositories{
		Leagues:   memory.NewLeagueRepository(memory.SeedLeagues()),
		Teams:     teams,
		Seasons:   memory.NewSeasonRepository(),
		Games:     games,
		Ledger:    memory.NewLedgerRepository(games),
		Standings: memory.NewStandingRepository(),
		Summaries: memory.NewSummaryRepository(),
	}
	return nil
}

func (e *Engine) wirePostgres(cfg config.Config) error {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}

	e.DB = db
	e.Repos = Repositories{
		Leagues:   postgres.NewLeagueRepository(db),
		Teams:     postgres.NewTeamRepository(db),
		Seasons:   postgres.NewSeasonRepository(db),
		Games:     postgres.NewGameRepository(db),
		Ledger:    postgres.NewLedgerRepository(db),
		Standings: postgres.NewStandingRepository(db),
		Summaries: postgres.NewSummaryRepository(db),
	}
	return nil
}

// Close releases the engine's resources. Safe on a partially wired
// engine.
func (e *Engine) Close() error {
	if e.Ingest != nil {
		e.Ingest.Drain()
	}
	if e.DB != nil {
		return e.DB.Close()
	}
	return nil
}

func buildPublisher(cfg config.Config, logger *logging.Logger) (domainnotif.Publisher, error) {
	if !cfg.WebhookEnabled {
		logger.Info("webhook notifications disabled, using noop publisher")
		return domainnotif.NewNoopPublisher(), nil
	}

	publisher, err := notification.NewWebhookPublisher(notification.WebhookPublisherConfig{
		URL:     cfg.WebhookURL,
		Token:   cfg.WebhookToken,
		Timeout: cfg.WebhookTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WebhookCircuitEnabled,
			FailureThreshold: cfg.WebhookCircuitFailureCount,
			OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create webhook publisher: %w", err)
	}
	return publisher, nil
}
