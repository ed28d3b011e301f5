package runtime

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"splice.dev/splice/internal/config"
	"splice.dev/splice/internal/logging"
	"splice.dev/splice/internal/metrics"
	"splice.dev/splice/internal/timeline"
	"splice.dev/splice/internal/undo"
)

// Settings are the process-wide options set by the root command
type Settings struct {
	ConfigPath string
	Debug      bool
	Quiet      bool
	Writer     io.Writer
}

type settingsKey struct{}

// WithSettings attaches settings to ctx
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// SettingsFrom returns the settings attached to ctx, or the zero value
func SettingsFrom(ctx context.Context) Settings {
	if ctx == nil {
		return Settings{}
	}
	s, _ := ctx.Value(settingsKey{}).(Settings)
	return s
}

// Context provides access to the timeline and output for commands
type Context struct {
	Timeline *timeline.Timeline
	History  *undo.Stack
	Splog    *logging.Splog
	Config   config.Config
	Registry *prometheus.Registry
	Writer   io.Writer
}

// NewContext builds a timeline configured by cfg, logging through splog
func NewContext(cfg config.Config, splog *logging.Splog) *Context {
	history := undo.NewStack(cfg.Undo.MaxDepth)
	registry := prometheus.NewRegistry()
	tl := timeline.New(
		timeline.WithLogger(splog.Logger()),
		timeline.WithUndoStack(history),
		timeline.WithSnapTolerance(cfg.Snap.Tolerance),
		timeline.WithMetrics(metrics.NewRecorder(registry)),
	)
	return &Context{
		Timeline: tl,
		History:  history,
		Splog:    splog,
		Config:   cfg,
		Registry: registry,
	}
}

// GetContext loads configuration and builds a context from the settings
// attached to ctx
func GetContext(ctx context.Context) (*Context, error) {
	s := SettingsFrom(ctx)

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	splog, err := logging.New(logging.Options{
		Writer:  s.Writer,
		LogFile: cfg.Log.File,
		Debug:   s.Debug || cfg.Log.Debug,
	})
	if err != nil {
		return nil, err
	}
	splog.SetQuiet(s.Quiet)

	c := NewContext(cfg, splog)
	c.Writer = s.Writer
	return c, nil
}

// Close releases the log file, if any
func (c *Context) Close() error {
	return c.Splog.Close()
}
