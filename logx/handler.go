// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Handler is a [slog.Handler] that writes text records whose message is
// colored by level when the output supports it.
type Handler struct {
	inner slog.Handler
	out   *termenv.Output
	mu    *sync.Mutex
}

// NewHandler returns a new [Handler] writing to w at the given level.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	opts := &slog.HandlerOptions{Level: level}
	return &Handler{
		inner: slog.NewTextHandler(w, opts),
		out:   termenv.NewOutput(w),
		mu:    &sync.Mutex{},
	}
}

// SetDefaultLogger sets the default logger to a [Handler] on
// [os.Stderr] at [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, UserLevel)))
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if c := h.levelColor(r.Level); c != nil {
		r.Message = h.out.String(r.Message).Foreground(c).String()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs), out: h.out, mu: h.mu}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), out: h.out, mu: h.mu}
}

// levelColor returns the message color for the given level,
// or nil for plain output.
func (h *Handler) levelColor(level slog.Level) termenv.Color {
	if h.out.Profile == termenv.Ascii {
		return nil
	}
	switch {
	case level >= slog.LevelError:
		return h.out.Color("#ff5555")
	case level >= slog.LevelWarn:
		return h.out.Color("#ffb86c")
	case level >= slog.LevelInfo:
		return h.out.Color("#8be9fd")
	default:
		return nil
	}
}
