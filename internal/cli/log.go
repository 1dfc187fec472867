// Package cli implements the stackfold command-line interface.
//
// The CLI loads compound graphs from JSON, folds and unfolds their compound
// nodes, reconciles layouts and writes the result as JSON, DOT, SVG, PNG or
// PDF. It is built on cobra; logging uses charmbracelet/log and terminal
// output is styled with lipgloss.
//
// # Commands
//
// The main commands are:
//   - fold: Collapse, expand, hide or show elements and write the result
//   - check: Detect (and optionally resolve) overlapping nodes
//   - inspect: Summarize a graph and its compound nodes
//   - explore: Fold and unfold a graph interactively in the terminal
//   - config: Print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/stackfold/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx, os.Args[1:]); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps as "HH:MM:SS.ms", messages
// below level dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one CLI step and logs its completion with the elapsed
// duration as a structured field. It is meant for sequential use by a single
// goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals plus an "elapsed" field rounded to the
// millisecond, e.g. `Laid out nodes=42 mode=local elapsed=1.234s`.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default()
// when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
