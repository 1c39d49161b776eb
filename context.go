package ionbridge

import (
	"context"
	"errors"
	"maps"

	"go.opentelemetry.io/otel/trace"
)

// contextKey is an unexported type for context keys defined in this package.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID adds a user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext extracts the user ID from context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextAttributes collects the event attributes carried by ctx: the
// trace and span IDs of a valid OpenTelemetry span, request ID and user ID.
// It returns nil when there are none.
func ContextAttributes(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}

	var attrs map[string]any
	set := func(k string, v any) {
		if attrs == nil {
			attrs = make(map[string]any, 4)
		}
		attrs[k] = v
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		set("trace_id", sc.TraceID().String())
		set("span_id", sc.SpanID().String())
	}
	if id := RequestIDFromContext(ctx); id != "" {
		set("request_id", id)
	}
	if id := UserIDFromContext(ctx); id != "" {
		set("user_id", id)
	}
	return attrs
}

// attributedError decorates an error with extra event attributes.
type attributedError struct {
	err   error
	attrs map[string]any
}

func (e *attributedError) Error() string { return e.err.Error() }
func (e *attributedError) Unwrap() error { return e.err }

// Attributes returns the attached attributes.
func (e *attributedError) Attributes() map[string]any { return e.attrs }

// WithAttributes attaches event attributes to err. The uncaught exception
// hook merges them into the event it sends. Returns nil for a nil err.
func WithAttributes(err error, attrs map[string]any) error {
	if err == nil {
		return nil
	}
	if len(attrs) == 0 {
		return err
	}
	return &attributedError{err: err, attrs: maps.Clone(attrs)}
}

// AttributesOf merges the attributes attached anywhere in err's chain.
// Attributes closer to the outermost error win.
func AttributesOf(err error) map[string]any {
	var out map[string]any
	for err != nil {
		var ae *attributedError
		if !errors.As(err, &ae) {
			break
		}
		for k, v := range ae.attrs {
			if out == nil {
				out = make(map[string]any, len(ae.attrs))
			}
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
		err = ae.err
	}
	return out
}
