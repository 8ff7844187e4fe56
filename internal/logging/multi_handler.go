package logging

import (
	"context"
	"log/slog"
)

// MultiHandler duplicates each record to a set of handlers, letting one
// logger feed stdout, the journal, and the ring buffer at once. Each
// target applies its own level filter.
type MultiHandler struct {
	targets []slog.Handler
}

// NewMultiHandler creates a handler fanning out to the given targets.
func NewMultiHandler(targets ...slog.Handler) *MultiHandler {
	return &MultiHandler{targets: targets}
}

// Enabled reports whether any target would accept the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range m.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every target that accepts its level.
// Records are cloned per target since handlers may retain them.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, t := range m.targets {
		if !t.Enabled(ctx, r.Level) {
			continue
		}
		_ = t.Handle(ctx, r.Clone())
	}
	return nil
}

// WithAttrs returns a fan-out over targets carrying the extra attrs.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.fork(func(t slog.Handler) slog.Handler { return t.WithAttrs(attrs) })
}

// WithGroup returns a fan-out over targets with the group opened.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.fork(func(t slog.Handler) slog.Handler { return t.WithGroup(name) })
}

func (m *MultiHandler) fork(derive func(slog.Handler) slog.Handler) *MultiHandler {
	targets := make([]slog.Handler, len(m.targets))
	for i, t := range m.targets {
		targets[i] = derive(t)
	}
	return &MultiHandler{targets: targets}
}
