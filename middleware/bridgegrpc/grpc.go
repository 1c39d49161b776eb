// Package bridgegrpc provides gRPC server and client instrumentation:
// OpenTelemetry stats handlers plus recovery interceptors that report
// panics to the bridge.
//
// Server instrumentation:
//
//	server := grpc.NewServer(
//	    grpc.StatsHandler(bridgegrpc.ServerHandler()),
//	    grpc.ChainUnaryInterceptor(bridgegrpc.UnaryServerInterceptor(env.Errors)),
//	    grpc.ChainStreamInterceptor(bridgegrpc.StreamServerInterceptor(env.Errors)),
//	)
//
// Client instrumentation using stats handler:
//
//	conn, err := grpc.NewClient(addr,
//	    grpc.WithStatsHandler(bridgegrpc.ClientHandler()),
//	)
package bridgegrpc

import (
	"context"
	"maps"
	"runtime/debug"
	"strings"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/JupiterMetaLabs/ionbridge/fields"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/stats"
	"google.golang.org/grpc/status"
)

// ServerHandler returns a stats.Handler for gRPC server instrumentation.
// Use with grpc.StatsHandler() option when creating a gRPC server.
func ServerHandler(opts ...Option) stats.Handler {
	return otelgrpc.NewServerHandler(otelOptions(opts)...)
}

// ClientHandler returns a stats.Handler for gRPC client instrumentation.
// Use with grpc.WithStatsHandler() option when dialing.
func ClientHandler(opts ...Option) stats.Handler {
	return otelgrpc.NewClientHandler(otelOptions(opts)...)
}

func otelOptions(opts []Option) []otelgrpc.Option {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}

	otelOpts := []otelgrpc.Option{}
	if o.filter != nil {
		otelOpts = append(otelOpts, otelgrpc.WithFilter(o.filter))
	}
	return otelOpts
}

// UnaryServerInterceptor recovers panics in unary handlers, reports them
// to eu as fatal *ionbridge.PanicError values and fails the call with
// codes.Internal.
func UnaryServerInterceptor(eu *ionbridge.ErrorUtils) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = report(ctx, eu, info.FullMethod, "unary", rec)
			}
		}()
		return handler(ctx, req)
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor.
func StreamServerInterceptor(eu *ionbridge.ErrorUtils) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = report(ss.Context(), eu, info.FullMethod, "stream", rec)
			}
		}()
		return handler(srv, ss)
	}
}

func report(ctx context.Context, eu *ionbridge.ErrorUtils, fullMethod, kind string, rec any) error {
	service, method := splitMethod(fullMethod)
	attrs := ionbridge.Attrs{
		fields.RPCService(service),
		fields.RPCMethod(method),
		fields.RPCKind(kind),
	}.Map()
	maps.Copy(attrs, ionbridge.ContextAttributes(ctx))

	if eu != nil {
		pe := ionbridge.NewPanicError(rec, debug.Stack())
		eu.ReportFatalError(ionbridge.WithAttributes(pe, attrs))
	}
	return status.Error(codes.Internal, "internal error")
}

// splitMethod splits "/pkg.Service/Method" into its service and method.
func splitMethod(fullMethod string) (string, string) {
	name := strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "unknown", name
}

// --- Options ---

type options struct {
	filter otelgrpc.Filter
}

func defaultOptions() *options {
	return &options{}
}

// Option configures gRPC instrumentation.
type Option interface {
	apply(*options)
}

type filterOption struct {
	filter otelgrpc.Filter
}

func (f filterOption) apply(o *options) { o.filter = f.filter }

// WithFilter sets a filter function to exclude calls from tracing.
// Return false to skip tracing for the given call.
//
// Example:
//
//	bridgegrpc.ServerHandler(bridgegrpc.WithFilter(func(info *stats.RPCTagInfo) bool {
//	    return info.FullMethodName != "/grpc.health.v1.Health/Check"
//	}))
func WithFilter(filter func(info *stats.RPCTagInfo) bool) Option {
	return filterOption{filter: otelgrpc.Filter(filter)}
}
