package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// mirrorErrors controls whether error level records reach the secondary
// (terminal) handler. It defaults to true so errors are surfaced to the
// user unless explicitly paused, e.g. while a TUI owns the screen.
var mirrorErrors atomic.Bool

func init() {
	mirrorErrors.Store(true)
}

// EnableErrorMirroring resumes delivery of error level records to the
// secondary handler.
func EnableErrorMirroring() {
	mirrorErrors.Store(true)
}

// DisableErrorMirroring pauses delivery of error level records to the
// secondary handler. Interactive commands use this while the alternate
// screen is active, where stray stderr writes would tear the UI.
func DisableErrorMirroring() {
	mirrorErrors.Store(false)
}

// errorMirroringEnabled returns whether error records should reach the
// secondary handler.
func errorMirroringEnabled() bool {
	return mirrorErrors.Load()
}

// NewDualHandler splits records across two handlers: the primary
// receives everything below error level, while error records route to
// the secondary, subject to the mirroring toggle. Without a secondary,
// the primary receives every record.
func NewDualHandler(primary slog.Handler, secondary slog.Handler) slog.Handler {
	return &dualHandler{
		primary:   primary,
		secondary: secondary,
	}
}

type dualHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.routesToSecondary(level) {
		return errorMirroringEnabled() && h.secondary.Enabled(ctx, level)
	}
	return h.primary != nil && h.primary.Enabled(ctx, level)
}

func (h *dualHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.routesToSecondary(record.Level) {
		if !errorMirroringEnabled() {
			return nil
		}
		if h.secondary.Enabled(ctx, record.Level) {
			return h.secondary.Handle(ctx, record.Clone())
		}
		return nil
	}

	if h.primary != nil && h.primary.Enabled(ctx, record.Level) {
		return h.primary.Handle(ctx, record)
	}
	return nil
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var primary slog.Handler
	if h.primary != nil {
		primary = h.primary.WithAttrs(attrs)
	}

	var secondary slog.Handler
	if h.secondary != nil {
		secondary = h.secondary.WithAttrs(attrs)
	}

	return &dualHandler{
		primary:   primary,
		secondary: secondary,
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	var primary slog.Handler
	if h.primary != nil {
		primary = h.primary.WithGroup(name)
	}

	var secondary slog.Handler
	if h.secondary != nil {
		secondary = h.secondary.WithGroup(name)
	}

	return &dualHandler{
		primary:   primary,
		secondary: secondary,
	}
}

func (h *dualHandler) routesToSecondary(level slog.Level) bool {
	return h.secondary != nil && level >= slog.LevelError
}
