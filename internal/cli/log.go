// Package cli implements the vgrid command-line interface.
//
// This package provides commands for building VQS and SZ vertical grids
// from horizontal meshes, reverse-engineering master grid tables from
// existing grids, and an interactive designer for tuning anchor tables.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - vqs: Build a VQS vertical grid (hsm, kmeans or auto master grids)
//   - sz: Build a classic sigma-z vertical grid
//   - extract: Recover the master grid table from an existing vgrid.in
//   - designer: Interactive master grid designer
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w, filtering at level.
// Timestamps are formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since the tracker was created,
// rounded to the nearest millisecond.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to
// log.Default() so commands always have a valid logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
