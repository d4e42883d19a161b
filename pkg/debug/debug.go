// Package debug provides conditional debug logging for pt.
//
// Debug logging is enabled by setting the PT_DEBUG environment variable:
//
//	PT_DEBUG=1 pt
//
// While the TUI owns the terminal, records go to a log file
// (PT_DEBUG_FILE, default $XDG_STATE_HOME/pt/debug.log). Outside the TUI they
// are also copied to stderr. When disabled (default), every function is a
// no-op.
//
// Usage:
//
//	debug.Log("loaded %d poems", n)
//	defer debug.LogEnterExit("loadDatasets")()
package debug

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	slogmulti "github.com/samber/slog-multi"
)

var (
	// enabled is true when PT_DEBUG env var is set
	enabled bool
	logger  *slog.Logger
	closers []io.Closer
)

func init() {
	if os.Getenv("PT_DEBUG") != "" {
		enabled = true
		logger = newLogger(os.Stderr)
	}
}

func newLogger(writers ...io.Writer) *slog.Logger {
	handlers := make([]slog.Handler, 0, len(writers))
	for _, w := range writers {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slogmulti.Fanout(handlers...)).With("app", "pt")
}

// Options selects where debug records go.
type Options struct {
	// File receives records in append mode. Empty means no file.
	File string
	// Stderr copies records to standard error. Leave off while the TUI runs.
	Stderr bool
	// Writers are extra destinations, mostly for tests.
	Writers []io.Writer
}

// DefaultFile returns PT_DEBUG_FILE, or debug.log under stateDir.
func DefaultFile(stateDir string) string {
	if f := os.Getenv("PT_DEBUG_FILE"); f != "" {
		return f
	}
	if stateDir == "" {
		return ""
	}
	return filepath.Join(stateDir, "debug.log")
}

// Setup reroutes debug output. It does nothing unless logging is enabled.
// The returned function closes any opened file.
func Setup(opts Options) (func() error, error) {
	if !enabled {
		return func() error { return nil }, nil
	}
	Close()

	writers := append([]io.Writer(nil), opts.Writers...)
	if opts.Stderr {
		writers = append(writers, os.Stderr)
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating debug log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening debug log: %w", err)
		}
		writers = append(writers, f)
		closers = append(closers, f)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}
	logger = newLogger(writers...)
	return Close, nil
}

// Close releases files opened by Setup.
func Close() error {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	closers = nil
	return errors.Join(errs...)
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = newLogger(os.Stderr)
	}
}

// Logger returns the underlying structured logger, or a discarding one when
// logging is disabled.
func Logger() *slog.Logger {
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Debug(fmt.Sprintf(format, args...))
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Debug("timing", "op", name, "took", d)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("myFunc")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Debug("enter", "op", name)
	start := time.Now()
	return func() {
		logger.Debug("exit", "op", name, "took", time.Since(start))
	}
}
