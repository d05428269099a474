package logging

import (
	"context"
	"errors"
	"log/slog"
)

// thresholdHandler drops records below threshold before they reach the wrapped handler.
type thresholdHandler struct {
	threshold slog.Leveler
	next      slog.Handler
}

// ThresholdFilter wraps h so that only records at or above threshold pass.
func ThresholdFilter(h slog.Handler, threshold slog.Leveler) slog.Handler {
	return &thresholdHandler{threshold: threshold, next: h}
}

func (h *thresholdHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.threshold.Level() && h.next.Enabled(ctx, level)
}

func (h *thresholdHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.threshold.Level() {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *thresholdHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &thresholdHandler{threshold: h.threshold, next: h.next.WithAttrs(attrs)}
}

func (h *thresholdHandler) WithGroup(name string) slog.Handler {
	return &thresholdHandler{threshold: h.threshold, next: h.next.WithGroup(name)}
}

// fanoutHandler is the root: every record goes to each sink that accepts it.
type fanoutHandler struct {
	sinks []slog.Handler
}

func newFanout(sinks ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{sinks: sinks}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return &fanoutHandler{sinks: sinks}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return &fanoutHandler{sinks: sinks}
}
