// Package engine assembles the swipe engine from configuration. Both the API
// server and swipectl build on it so they share storage selection and policy
// parsing.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/config"
	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
	"github.com/ivankudzin/matchdeck/internal/infra/metrics"
	"github.com/ivankudzin/matchdeck/internal/repo/memory"
	pgrepo "github.com/ivankudzin/matchdeck/internal/repo/postgres"
	redrepo "github.com/ivankudzin/matchdeck/internal/repo/redis"
	candidatesvc "github.com/ivankudzin/matchdeck/internal/services/candidates"
	decksvc "github.com/ivankudzin/matchdeck/internal/services/deck"
	eventsvc "github.com/ivankudzin/matchdeck/internal/services/events"
	matchsvc "github.com/ivankudzin/matchdeck/internal/services/matches"
	profilesvc "github.com/ivankudzin/matchdeck/internal/services/profiles"
	ratesvc "github.com/ivankudzin/matchdeck/internal/services/rate"
	swipesvc "github.com/ivankudzin/matchdeck/internal/services/swipes"
)

const pingTimeout = 3 * time.Second

type ProfileStore interface {
	Get(ctx context.Context, userID string) (model.Profile, error)
	Upsert(ctx context.Context, profile model.Profile) error
	ListAllExcept(ctx context.Context, userID string) ([]model.Profile, error)
}

type SwipeLedger interface {
	Upsert(ctx context.Context, swiperID, targetID string, action enums.SwipeAction) (model.SwipeRecord, error)
	Query(ctx context.Context, filter model.SwipeFilter) ([]model.SwipeRecord, error)
}

type Engine struct {
	Driver     string
	Profiles   ProfileStore
	Ledger     SwipeLedger
	Candidates *candidatesvc.Service
	Editor     *profilesvc.Service
	Swipes     *swipesvc.Service
	Matches    *matchsvc.Service
	Events     *eventsvc.Emitter
	Metrics    *metrics.Metrics
	Limiter    *ratesvc.Limiter

	cfg      config.Config
	logger   *zap.Logger
	postgres *pgxpool.Pool
	redis    *goredis.Client
}

type Options struct {
	// WithRedis enables the event bus and swipe limiter when Redis answers.
	WithRedis bool
}

// ErrStorageUnavailable is returned by Open when the configured Postgres
// store cannot be reached or migrated.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Open selects storage and wires the services. The memory store is used only
// when storage.driver is memory; a configured Postgres that does not answer
// fails Open. Redis being unreachable only switches off events and rate
// limiting.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger, opts Options) (*Engine, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	matchedAt, err := matchsvc.ParseMatchedAtPolicy(cfg.Engine.Matches.MatchedAt)
	if err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, logger: log, Metrics: metrics.New()}
	if err := e.openStorage(ctx); err != nil {
		return nil, err
	}

	var publisher eventsvc.Publisher
	if opts.WithRedis {
		if client := e.openRedis(ctx); client != nil {
			publisher = redrepo.NewEventBus(client, "")
			e.Limiter = ratesvc.NewLimiter(redrepo.NewRateRepo(client), cfg.Rate.SwipesPerMinute, cfg.Rate.SwipesPer10Sec)
		}
	}
	e.Events = eventsvc.NewEmitter(publisher, log)

	e.Editor = profilesvc.NewService(profilesvc.Dependencies{
		Store:  e.Profiles,
		Logger: log,
	})

	e.Candidates = candidatesvc.NewService(candidatesvc.Dependencies{
		Profiles: e.Profiles,
		Swipes:   e.Ledger,
		Events:   e.Events,
		Logger:   log,
	}, candidatesvc.Config{ExcludeSwiped: cfg.Engine.Candidates.ExcludeSwiped})

	e.Swipes = swipesvc.NewService(swipesvc.Dependencies{
		Ledger:  e.Ledger,
		Metrics: e.Metrics,
		Events:  e.Events,
		Logger:  log,
	})

	e.Matches = matchsvc.NewService(matchsvc.Dependencies{
		Swipes:   e.Ledger,
		Profiles: e.Profiles,
		Metrics:  e.Metrics,
		Events:   e.Events,
		Logger:   log,
	}, matchsvc.Config{
		FanOut:    cfg.Engine.Matches.FanOut,
		MatchedAt: matchedAt,
	})

	return e, nil
}

// NewDeck builds a card controller for one user session.
func (e *Engine) NewDeck(userID string, viewportWidth float64) (*decksvc.Controller, error) {
	policy, err := decksvc.ParseFailurePolicy(e.cfg.Engine.Swipes.FailurePolicy)
	if err != nil {
		return nil, err
	}

	return decksvc.NewController(userID, decksvc.Dependencies{
		Selector: e.Candidates,
		Recorder: e.Swipes,
		Logger:   e.logger,
	}, decksvc.Config{
		ThresholdRatio: e.cfg.Engine.Deck.ThresholdRatio,
		ViewportWidth:  viewportWidth,
		FailurePolicy:  policy,
	})
}

func (e *Engine) Close() error {
	if e.postgres != nil {
		e.postgres.Close()
	}
	if e.redis != nil {
		return e.redis.Close()
	}
	return nil
}

func (e *Engine) openStorage(ctx context.Context) error {
	if strings.EqualFold(strings.TrimSpace(e.cfg.Storage.Driver), config.StoragePostgres) {
		pool, err := e.openPostgres(ctx)
		if err != nil {
			e.logger.Error("postgres init failed", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		e.Driver = config.StoragePostgres
		e.postgres = pool
		e.Profiles = pgrepo.NewProfileRepo(pool)
		e.Ledger = pgrepo.NewSwipeRepo(pool)
		return nil
	}

	e.Driver = config.StorageMemory
	e.Profiles = memory.NewProfileStore()
	e.Ledger = memory.NewSwipeLedger()
	return nil
}

func (e *Engine) openPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgrepo.NewPool(ctx, e.cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if e.cfg.Postgres.AutoMigrate {
		if err := pgrepo.EnsureSchema(pingCtx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return pool, nil
}

func (e *Engine) openRedis(ctx context.Context) *goredis.Client {
	client := redrepo.NewClient(e.cfg.Redis.Addr, e.cfg.Redis.Password, e.cfg.Redis.DB)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		e.logger.Warn("redis init failed, events and swipe limiter disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	e.redis = client
	return client
}
