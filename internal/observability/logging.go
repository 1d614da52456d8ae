// Package observability attaches run scoped attributes (run id, account and
// stage) to log records through the context.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// LogContext holds the attributes added to every record logged with a
// context derived from the run.
type LogContext struct {
	RunID string
	User  string
	Stage string
}

type logContextKey struct{}

// GetContext returns the attributes stored in ctx.
func GetContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

func update(ctx context.Context, fn func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	fn(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

func WithRunID(ctx context.Context, runID string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.RunID = runID })
}

func WithUser(ctx context.Context, login string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.User = login })
}

func WithStage(ctx context.Context, stage string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Stage = stage })
}

// Attrs returns the non-empty attributes of ctx in run id, owner, stage order.
func Attrs(ctx context.Context) []slog.Attr {
	lc := GetContext(ctx)
	var attrs []slog.Attr
	if lc.RunID != "" {
		attrs = append(attrs, logfields.RunID(lc.RunID))
	}
	if lc.User != "" {
		attrs = append(attrs, logfields.Owner(lc.User))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	return attrs
}

// ContextHandler decorates records passed through the *Context logging
// functions with the attributes of their context.
type ContextHandler struct {
	slog.Handler
}

// NewHandler wraps next. Wrapping a ContextHandler returns it unchanged.
func NewHandler(next slog.Handler) *ContextHandler {
	if h, ok := next.(*ContextHandler); ok {
		return h
	}
	return &ContextHandler{Handler: next}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		r.AddAttrs(Attrs(ctx)...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
