package bridgegrpc

import (
	"context"
	"testing"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/JupiterMetaLabs/ionbridge/bridgetest"
	"github.com/JupiterMetaLabs/ionbridge/fields"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/stats"
	"google.golang.org/grpc/status"
)

func TestServerHandler(t *testing.T) {
	handler := ServerHandler()
	if handler == nil {
		t.Fatal("expected non-nil server handler")
	}
}

func TestClientHandler(t *testing.T) {
	handler := ClientHandler()
	if handler == nil {
		t.Fatal("expected non-nil client handler")
	}
}

func TestServerHandler_WithFilter(t *testing.T) {
	handler := ServerHandler(WithFilter(func(info *stats.RPCTagInfo) bool {
		return info.FullMethodName != "/grpc.health.v1.Health/Check"
	}))
	if handler == nil {
		t.Fatal("expected non-nil server handler with filter")
	}
}

func TestClientHandler_WithFilter(t *testing.T) {
	handler := ClientHandler(WithFilter(func(info *stats.RPCTagInfo) bool {
		return true
	}))
	if handler == nil {
		t.Fatal("expected non-nil client handler with filter")
	}
}

func newReporter(t *testing.T) (*ionbridge.ErrorUtils, *bridgetest.Recorder) {
	t.Helper()
	rec := bridgetest.NewRecorder()
	eu := ionbridge.NewErrorUtils(nil)
	b := ionbridge.New(rec, ionbridge.WithEnvironment(&ionbridge.Environment{Errors: eu}))
	t.Cleanup(b.InstallUncaughtExceptionHook(nil))
	return eu, rec
}

func TestUnaryServerInterceptor(t *testing.T) {
	eu, events := newReporter(t)
	interceptor := UnaryServerInterceptor(eu)
	info := &grpc.UnaryServerInfo{FullMethod: "/orders.v1.Orders/Create"}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("expected pass-through, got %v, %v", resp, err)
	}

	ctx := ionbridge.WithRequestID(context.Background(), "req-9")
	_, err = interceptor(ctx, "req", info, func(ctx context.Context, req any) (any, error) {
		panic("nil order")
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("expected codes.Internal, got %v", err)
	}

	got := events.Events(ionbridge.EventUncaughtException)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	attrs := got[0].Attributes
	want := map[string]string{
		"error":              "panic: nil order",
		fields.KeyRPCService: "orders.v1.Orders",
		fields.KeyRPCMethod:  "Create",
		fields.KeyRPCKind:    "unary",
		"request_id":         "req-9",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("%s = %q, want %q", k, attrs[k], v)
		}
	}
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s fakeStream) Context() context.Context { return s.ctx }

func TestStreamServerInterceptor(t *testing.T) {
	eu, events := newReporter(t)
	interceptor := StreamServerInterceptor(eu)
	info := &grpc.StreamServerInfo{FullMethod: "/orders.v1.Orders/Watch", IsServerStream: true}
	ss := fakeStream{ctx: context.Background()}

	err := interceptor(nil, ss, info, func(srv any, stream grpc.ServerStream) error {
		panic("stream broke")
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("expected codes.Internal, got %v", err)
	}

	got := events.Events(ionbridge.EventUncaughtException)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Attributes[fields.KeyRPCKind] != "stream" {
		t.Errorf("rpc_kind = %q", got[0].Attributes[fields.KeyRPCKind])
	}
}

func TestUnaryServerInterceptor_NilErrorUtils(t *testing.T) {
	interceptor := UnaryServerInterceptor(nil)
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/a.B/C"},
		func(ctx context.Context, req any) (any, error) { panic("x") })
	if status.Code(err) != codes.Internal {
		t.Errorf("expected codes.Internal, got %v", err)
	}
}

func TestSplitMethod(t *testing.T) {
	tests := []struct {
		in, service, method string
	}{
		{"/pkg.Svc/Method", "pkg.Svc", "Method"},
		{"pkg.Svc/Method", "pkg.Svc", "Method"},
		{"Method", "unknown", "Method"},
		{"", "unknown", ""},
	}
	for _, tt := range tests {
		service, method := splitMethod(tt.in)
		if service != tt.service || method != tt.method {
			t.Errorf("splitMethod(%q) = %q, %q; want %q, %q", tt.in, service, method, tt.service, tt.method)
		}
	}
}
