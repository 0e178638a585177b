// Package rlog wires up the process-wide structured logger. Verbosity and
// output format are the only two knobs: everything else goes through
// log/slog's default attribute handling.
package rlog

import (
	"log/slog"
	"os"
)

// New builds a slog.Logger writing to os.Stderr. By default it uses a
// human-readable text handler at Info level; verbose raises the level to
// Debug. Setting ROOMMERGE_LOG_FORMAT=json switches to JSON output
// regardless of verbose, for callers piping logs into a collector.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("ROOMMERGE_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// SolverFallback logs, once, that a partition fell back from the exact
// solver to the greedy packer. It is always a Warn: the dispatcher has
// already decided the run continues, but the operator should know the
// result for this partition is no longer provably optimal.
func SolverFallback(logger *slog.Logger, slotKey, campus string, reason error) {
	logger.Warn("partition fell back to greedy packer",
		slog.String("slot_key", slotKey),
		slog.String("campus", campus),
		slog.Any("reason", reason),
	)
}
