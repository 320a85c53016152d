// Package log provides the structured logging used by cmd/svgflatten.
// No pack repo wires a third-party logging library (CWBudde-Go-Clipper2
// uses bespoke fmt.Printf-based debug helpers, not a library), so this
// wraps the standard library's log/slog, the ecosystem's default answer
// absent a pack precedent.
package log

import (
	"io"
	"log/slog"
	"os"
)

// New builds a text-handler slog.Logger writing to w at the given
// level. Pass nil for w to use os.Stderr.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// StageEvent is one line of structured output for a single pipeline
// stage error: the element it concerns, the failure kind, and a
// human-readable message.
type StageEvent struct {
	Stage   string
	Entity  string
	Kind    string
	Message string
}

// LogStageErrors emits one warning-level record per event, carrying
// the stage, entity, kind and message as top-level attributes.
func LogStageErrors(l *slog.Logger, events []StageEvent) {
	for _, e := range events {
		l.Warn("stage error",
			slog.String("stage", e.Stage),
			slog.String("entity", e.Entity),
			slog.String("kind", e.Kind),
			slog.String("message", e.Message),
		)
	}
}
