// Package logging configures the application's logrus logger. The TUI owns
// stdout, so entries go to a file under the XDG state directory.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	envLogLevel = "TRIVIAZ_LOG_LEVEL"
	envLogFile  = "TRIVIAZ_LOG_FILE"

	// DefaultLevel is used when no level is configured.
	DefaultLevel = logrus.InfoLevel
)

// Config controls where and how much the logger writes.
type Config struct {
	Level logrus.Level
	// Path is the log file. Empty means DefaultPath().
	Path string
	// JSON selects the JSON formatter instead of text.
	JSON bool
}

// DefaultConfig returns the logger defaults.
func DefaultConfig() Config {
	return Config{Level: DefaultLevel}
}

// ConfigFromEnv overlays TRIVIAZ_LOG_LEVEL and TRIVIAZ_LOG_FILE on the defaults.
// An unparsable level keeps the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv(envLogLevel); v != "" {
		if lvl, err := logrus.ParseLevel(strings.TrimSpace(v)); err == nil {
			cfg.Level = lvl
		}
	}
	if v := os.Getenv(envLogFile); v != "" {
		cfg.Path = v
	}
	return cfg
}

// DefaultPath returns $XDG_STATE_HOME/triviaz/triviaz.log, falling back to
// ~/.local/state when XDG_STATE_HOME is unset.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "triviaz", "triviaz.log"), nil
}

// New builds a logger that writes to cfg.Path. The returned closer releases
// the file and must be called on shutdown.
func New(cfg Config) (*logrus.Logger, io.Closer, error) {
	path := cfg.Path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return NewWithWriter(cfg, f), f, nil
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(cfg.Level)
	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type ctxKey struct{}

// NewContext returns a child of ctx carrying log. A fresh session_id field is
// attached so every entry of one quiz run can be correlated.
func NewContext(ctx context.Context, log logrus.FieldLogger) context.Context {
	entry := log.WithField("session_id", uuid.NewString())
	return context.WithValue(ctx, ctxKey{}, entry)
}

// WithContext returns the logger stored in ctx, or the standard logger.
func WithContext(ctx context.Context) logrus.FieldLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
