package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	service string
	console bool
}

type Option func(*options)

// WithService tags every entry with a service field.
func WithService(name string) Option {
	return func(o *options) { o.service = strings.TrimSpace(name) }
}

// WithConsole switches to the human-readable encoder used by swipectl.
func WithConsole() Option {
	return func(o *options) { o.console = true }
}

func New(level string, opts ...Option) (*zap.Logger, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	if o.console {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.DisableStacktrace = true
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	if o.service != "" {
		cfg.InitialFields = map[string]any{"service": o.service}
	}

	return cfg.Build()
}

// ParseLevel accepts zap level names in any case; blank means info.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zapcore.InfoLevel, nil
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
