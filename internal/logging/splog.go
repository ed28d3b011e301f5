// Package logging provides the console and rotating-file logger used by the
// splice command line and handed to the timeline as a *slog.Logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleHandler writes bare messages, without timestamps, levels or attributes
type consoleHandler struct {
	writer    io.Writer
	debugMode bool
	quiet     *bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if *h.quiet {
		return nil
	}
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// rotatingFile builds the lumberjack writer for logFilePath, honouring the
// SPLICE_LOG_MAX_SIZE, SPLICE_LOG_MAX_BACKUPS and SPLICE_LOG_MAX_AGE overrides
func rotatingFile(logFilePath string) *lumberjack.Logger {
	l := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1,
		MaxBackups: 2,
		MaxAge:     30,
		Compress:   false,
	}

	if v, err := strconv.Atoi(os.Getenv("SPLICE_LOG_MAX_SIZE")); err == nil && v > 0 {
		l.MaxSize = v
	}
	if v, err := strconv.Atoi(os.Getenv("SPLICE_LOG_MAX_BACKUPS")); err == nil && v >= 0 {
		l.MaxBackups = v
	}
	if v, err := strconv.Atoi(os.Getenv("SPLICE_LOG_MAX_AGE")); err == nil && v > 0 {
		l.MaxAge = v
	}
	return l
}

// fanout sends every record to each enabled handler
type fanout struct {
	handlers []slog.Handler
}

func (h *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanout) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanout{handlers: next}
}

func (h *fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanout{handlers: next}
}

// Options configures a Splog
type Options struct {
	// Writer receives console output; os.Stdout when nil
	Writer io.Writer
	// LogFile enables rotating file logging at this path when set
	LogFile string
	// Debug shows debug messages on the console. The SPLICE_DEBUG
	// environment variable also enables it.
	Debug bool
}

// Splog writes user-facing messages to the console and, optionally, every
// record with attributes and timestamps to a rotating log file
type Splog struct {
	logger    *slog.Logger
	writer    io.Writer
	logWriter io.WriteCloser
	quiet     bool
}

// NewSplog creates a console-only splog on stdout
func NewSplog() *Splog {
	s, _ := New(Options{})
	return s
}

// New creates a splog from opts
func New(opts Options) (*Splog, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	s := &Splog{writer: writer}

	handlers := []slog.Handler{&consoleHandler{
		writer:    writer,
		debugMode: opts.Debug || os.Getenv("SPLICE_DEBUG") != "",
		quiet:     &s.quiet,
	}}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := rotatingFile(opts.LogFile)
		s.logWriter = file
		handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
				}
				return a
			},
		}))
	}

	s.logger = slog.New(&fanout{handlers: handlers})
	return s, nil
}

// Logger returns the underlying structured logger
func (s *Splog) Logger() *slog.Logger {
	return s.logger
}

// SetQuiet suppresses console output
func (s *Splog) SetQuiet(quiet bool) {
	s.quiet = quiet
}

// Info writes an info message
func (s *Splog) Info(format string, args ...any) {
	s.logger.Info(sprintf(format, args...))
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...any) {
	s.logger.Warn("warning: " + sprintf(format, args...))
}

// Error writes an error message
func (s *Splog) Error(format string, args ...any) {
	s.logger.Error("error: " + sprintf(format, args...))
}

// Debug writes a debug message
func (s *Splog) Debug(format string, args ...any) {
	s.logger.Debug(sprintf(format, args...))
}

// Page writes content verbatim to the console
func (s *Splog) Page(content string) {
	if s.quiet {
		return
	}
	_, _ = fmt.Fprint(s.writer, content)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
