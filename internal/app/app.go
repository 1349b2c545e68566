package app

import (
	"fmt"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/poolhouse/confidence-pool/external/scoreline"
	"github.com/poolhouse/confidence-pool/internal/config"
	"github.com/poolhouse/confidence-pool/internal/domain/game"
	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	"github.com/poolhouse/confidence-pool/internal/domain/pick"
	"github.com/poolhouse/confidence-pool/internal/domain/pool"
	"github.com/poolhouse/confidence-pool/internal/domain/standing"
	"github.com/poolhouse/confidence-pool/internal/domain/survivor"
	"github.com/poolhouse/confidence-pool/internal/domain/team"
	"github.com/poolhouse/confidence-pool/internal/infrastructure/notify"
	"github.com/poolhouse/confidence-pool/internal/infrastructure/repository/memory"
	"github.com/poolhouse/confidence-pool/internal/infrastructure/repository/postgres"
	"github.com/poolhouse/confidence-pool/internal/interfaces/httpapi"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
	"github.com/poolhouse/confidence-pool/internal/usecase"
)

// Container holds the wired services plus the resources they own.
type Container struct {
	Settlement *usecase.SettlementService
	Healer     *usecase.ScheduleHealerService

	db *sqlx.DB
}

// Close releases the container's resources. Safe to call on a memory-backed
// container.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// NewContainer wires repositories and services. An empty DATABASE_URL selects
// the in-memory demo season instead of Postgres, which keeps local runs free
// of infrastructure.
func NewContainer(cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db        *sqlx.DB
		deps      repositories
		transactr usecase.Transactor
	)

	if cfg.DBURL == "" {
		logger.Info("database url empty, using in-memory demo season")
		deps = memoryRepositories(memory.DemoSeed())
		transactr = memory.NewTransactor()
	} else {
		opened, err := openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		deps = postgresRepositories(db)
		transactr = postgres.NewTransactor(db)
	}

	feed := scoreline.NewClient(scoreline.ClientConfig{
		BaseURL:        cfg.ScorelineBaseURL,
		Token:          cfg.ScorelineToken,
		Season:         cfg.Season,
		Timeout:        cfg.ScorelineTimeout,
		MaxRetries:     cfg.ScorelineMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.ScorelineCircuitBreaker,
	})

	notifier := notify.NewWebhook(notify.WebhookConfig{
		URL:            cfg.NotifyWebhookURL,
		Token:          cfg.NotifyWebhookToken,
		Timeout:        cfg.NotifyTimeout,
		MaxRetries:     cfg.NotifyMaxRetries,
		CircuitBreaker: cfg.NotifyCircuitBreaker,
	}, logger)

	ledger := usecase.NewPointLedgerService(deps.picks, deps.games, logger)
	healer := usecase.NewScheduleHealerService(feed, deps.games, deps.teams, deps.picks, ledger, notifier, transactr, logger)
	survivorSvc := usecase.NewSurvivorService(deps.survivor, deps.payments, cfg.SurvivorEntryFeeCents, logger)
	settlement := usecase.NewSettlementService(
		deps.pools,
		deps.picks,
		deps.games,
		deps.standings,
		deps.payments,
		deps.survivor,
		ledger,
		healer,
		survivorSvc,
		notifier,
		cfg.SettlementWorkers,
		logger,
	)

	return &Container{
		Settlement: settlement,
		Healer:     healer,
		db:         db,
	}, nil
}

// NewHTTPServer builds the API server around a freshly wired container. The
// caller owns both and should close the container after shutting the server
// down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *Container, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(container.Settlement, container.Healer, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = container.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, container, nil
}

type repositories struct {
	teams     team.Repository
	games     game.Repository
	picks     pick.Repository
	survivor  survivor.Repository
	standings standing.Repository
	payments  payment.Repository
	pools     pool.Repository
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func memoryRepositories(seed memory.Seed) repositories {
	return repositories{
		teams:     memory.NewTeamRepository(seed.Teams),
		games:     memory.NewGameRepository(seed.Games),
		picks:     memory.NewPickRepository(seed.Picks),
		survivor:  memory.NewSurvivorRepository(seed.Survivor),
		standings: memory.NewStandingRepository(seed.Weekly, seed.Overall, nil),
		payments:  memory.NewPaymentRepository(seed.Tables, seed.Ledger),
		pools:     memory.NewPoolRepository(seed.Members),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		teams:     postgres.NewTeamRepository(db),
		games:     postgres.NewGameRepository(db),
		picks:     postgres.NewPickRepository(db),
		survivor:  postgres.NewSurvivorRepository(db),
		standings: postgres.NewStandingRepository(db),
		payments:  postgres.NewPaymentRepository(db, postgres.NewTransactor(db)),
		pools:     postgres.NewPoolRepository(db),
	}
}
