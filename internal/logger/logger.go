// Package logger builds the zap loggers used by the stub server and the CLI.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	name    string
	outputs []string
}

// Option tunes NewLogger.
type Option func(*options)

// WithName names the logger; the name is printed on every entry.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithOutput replaces the default sink. The CLI writes to "stderr" so log
// lines never mix with table output on stdout.
func WithOutput(paths ...string) Option {
	return func(o *options) { o.outputs = paths }
}

// NewLogger creates a zap logger for env. prod emits JSON, local/dev/docker
// emit colored console lines. An empty level keeps the env default.
func NewLogger(env, level string, opts ...Option) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.outputs) > 0 {
		cfg.OutputPaths = o.outputs
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if o.name != "" {
		l = l.Named(o.name)
	}
	return l, nil
}
