// Package cliapp implements swipectl, an operator console over the swipe
// engine. It talks to the configured store directly; with the memory driver
// state lives only as long as the process.
package cliapp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/app/engine"
	"github.com/ivankudzin/matchdeck/internal/config"
	"github.com/ivankudzin/matchdeck/internal/infra/logger"
)

type App struct {
	in     io.Reader
	out    io.Writer
	cfg    config.Config
	engine *engine.Engine
	logger *zap.Logger
}

// Option adjusts an App before commands run; tests use it to inject an
// engine and buffers.
type Option func(*App)

func WithEngine(e *engine.Engine) Option {
	return func(a *App) { a.engine = e }
}

// WithConfig supplies settings that would otherwise be loaded from --config.
func WithConfig(cfg config.Config) Option {
	return func(a *App) { a.cfg = cfg }
}

func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	var configPath, logLevel string

	cmd := &cobra.Command{
		Use:           "swipectl",
		Short:         "Operate the matchdeck swipe engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(cmd.Context(), configPath, logLevel)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return app.close()
		},
	}

	defaultPath := os.Getenv("APP_CONFIG")
	if defaultPath == "" {
		defaultPath = "configs/config.yaml"
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (defaults to log.level from config)")

	cmd.AddCommand(
		app.profileCmd(),
		app.candidatesCmd(),
		app.swipeCmd(),
		app.matchesCmd(),
		app.deckCmd(),
		app.tokenCmd(),
	)
	return cmd
}

func (a *App) open(ctx context.Context, configPath, logLevel string) error {
	if a.engine != nil {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	log, err := logger.New(logLevel, logger.WithService("swipectl"), logger.WithConsole())
	if err != nil {
		return err
	}
	a.logger = log

	eng, err := engine.Open(ctx, cfg, log, engine.Options{WithRedis: true})
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	a.engine = eng
	return nil
}

func (a *App) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
		if a.engine != nil {
			return a.engine.Close()
		}
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
