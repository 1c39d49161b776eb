package ionbridge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestContextIDs(t *testing.T) {
	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-7")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := UserIDFromContext(ctx); got != "user-7" {
		t.Errorf("UserIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context request ID = %q", got)
	}
}

func TestContextAttributes(t *testing.T) {
	if got := ContextAttributes(context.Background()); got != nil {
		t.Errorf("ContextAttributes(empty) = %v, want nil", got)
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = WithRequestID(ctx, "req-1")

	got := ContextAttributes(ctx)
	want := map[string]any{
		"trace_id":   "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":    "00f067aa0ba902b7",
		"request_id": "req-1",
	}
	if len(got) != len(want) {
		t.Fatalf("ContextAttributes() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestWithAttributes(t *testing.T) {
	if WithAttributes(nil, map[string]any{"a": 1}) != nil {
		t.Error("WithAttributes(nil) must be nil")
	}

	base := errors.New("base")
	if got := WithAttributes(base, nil); got != base {
		t.Error("WithAttributes without attributes must return err unchanged")
	}

	attrs := map[string]any{"a": 1}
	err := WithAttributes(base, attrs)
	attrs["a"] = 2 // the error keeps its own copy

	if !errors.Is(err, base) {
		t.Error("errors.Is must see through the attributes")
	}
	if err.Error() != "base" {
		t.Errorf("Error() = %q", err.Error())
	}
	if got := AttributesOf(err); got["a"] != 1 {
		t.Errorf("AttributesOf() = %v", got)
	}
}

func TestAttributesOf_Chain(t *testing.T) {
	inner := WithAttributes(errors.New("io"), map[string]any{"path": "/inner", "op": "read"})
	wrapped := fmt.Errorf("handler: %w", inner)
	outer := WithAttributes(wrapped, map[string]any{"path": "/outer"})

	got := AttributesOf(outer)
	if got["path"] != "/outer" {
		t.Errorf("path = %v, want the outermost value", got["path"])
	}
	if got["op"] != "read" {
		t.Errorf("op = %v, want inner attributes kept", got["op"])
	}

	if AttributesOf(errors.New("plain")) != nil {
		t.Error("AttributesOf(plain) must be nil")
	}
}
