package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/app/engine"
	"github.com/ivankudzin/matchdeck/internal/config"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	engine     *engine.Engine
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	eng, err := engine.Open(ctx, cfg, log, engine.Options{WithRedis: true})
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	log.Info("swipe engine ready", zap.String("storage", eng.Driver))

	r := chi.NewRouter()
	ApplyMiddlewares(r, log, eng.Metrics, cfg.HTTP.WriteTimeout)

	RegisterRoutes(r, Dependencies{
		JWT:        authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL),
		Profiles:   eng.Editor,
		Candidates: eng.Candidates,
		Swipes:     eng.Swipes,
		Matches:    eng.Matches,
		Limiter:    eng.Limiter,
		Metrics:    eng.Metrics,
		Logger:     log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		engine:     eng,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if err := a.engine.Close(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

// Engine exposes the wired services, mainly for tests seeding storage.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
