package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives a copy of every log entry, including fields bound with
// With. It is used to ship logs to an OpenTelemetry log exporter.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirrorHook atomic.Pointer[MirrorFunc]

// SetMirror installs fn as the process-wide log mirror. A nil fn disables it.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirrorHook.Store(nil)
		return
	}
	mirrorHook.Store(&fn)
}

func (l *Logger) mirror(ctx context.Context, level Level, msg string, args []any) {
	fn := mirrorHook.Load()
	if fn == nil || !l.zap.Core().Enabled(level) {
		return
	}
	if len(l.fields) == 0 {
		(*fn)(ctx, level, msg, args...)
		return
	}
	all := make([]any, 0, len(l.fields)+len(args))
	all = append(all, l.fields...)
	all = append(all, args...)
	(*fn)(ctx, level, msg, all...)
}
