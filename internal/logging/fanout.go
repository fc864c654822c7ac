package logging

import (
	"context"
	"errors"
	"log/slog"
)

// FanoutHandler duplicates every record to a set of handlers. A failing
// handler does not stop delivery to the others.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler builds a handler over the non-nil members of hs.
func NewFanoutHandler(hs ...slog.Handler) *FanoutHandler {
	valid := make([]slog.Handler, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			valid = append(valid, h)
		}
	}
	return &FanoutHandler{handlers: valid}
}

// Enabled reports whether any member handler accepts the level.
func (f *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every enabled handler, joining any
// errors.
func (f *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies attrs to every member handler.
func (f *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: hs}
}

// WithGroup applies the group to every member handler.
func (f *FanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &FanoutHandler{handlers: hs}
}
