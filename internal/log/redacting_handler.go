package log

import (
	"context"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// personalFields hold data entered by people using the form. Credential
// keys are kept in the same set so a stray DSN or token never reaches disk.
var personalFields = map[string]struct{}{
	"owner":    {},
	"password": {},
	"secret":   {},
	"token":    {},
	"api_key":  {},
	"dsn":      {},
}

type RedactingHandler struct {
	inner slog.Handler
	keys  map[string]struct{}
}

func NewRedactingHandler(inner slog.Handler, extraKeys ...string) *RedactingHandler {
	keys := make(map[string]struct{}, len(personalFields)+len(extraKeys))
	for k := range personalFields {
		keys[k] = struct{}{}
	}
	for _, k := range extraKeys {
		keys[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
	}
	return &RedactingHandler{inner: inner, keys: keys}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fallback := slog.NewRecord(record.Time, slog.LevelError, "log redaction failed", record.PC)
			fallback.AddAttrs(slog.String("panic", redacted))
			err = h.inner.Handle(ctx, fallback)
		}
	}()

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(h.redact(attr))
		return true
	})
	return h.inner.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, h.redact(attr))
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(out), keys: h.keys}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name), keys: h.keys}
}

func (h *RedactingHandler) redact(attr slog.Attr) slog.Attr {
	if _, ok := h.keys[strings.ToLower(attr.Key)]; ok {
		return slog.String(attr.Key, redacted)
	}

	value := attr.Value.Resolve()
	if value.Kind() != slog.KindGroup {
		return attr
	}
	group := value.Group()
	nested := make([]slog.Attr, 0, len(group))
	for _, a := range group {
		nested = append(nested, h.redact(a))
	}
	return slog.Attr{Key: attr.Key, Value: slog.GroupValue(nested...)}
}
