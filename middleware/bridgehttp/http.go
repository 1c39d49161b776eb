// Package bridgehttp provides HTTP server and client instrumentation:
// OpenTelemetry spans plus panic recovery that reports to the bridge.
//
// Server middleware recovers panics into the global error handler and
// creates spans for incoming requests:
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/api", handler)
//	instrumented := bridgehttp.Handler(mux, "my-service",
//	    bridgehttp.WithErrorUtils(env.Errors))
//	http.ListenAndServe(":8080", instrumented)
//
// Client instrumentation wraps an http.Client:
//
//	client := bridgehttp.Client()
//	resp, err := client.Get("https://api.example.com")
package bridgehttp

import (
	"maps"
	"net/http"
	"runtime/debug"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/JupiterMetaLabs/ionbridge/fields"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RequestIDHeader is the default header read into the request context.
const RequestIDHeader = "X-Request-ID"

// Handler wraps an http.Handler with OpenTelemetry instrumentation. With
// WithErrorUtils it also recovers panics, inside the request span so the
// reported error carries the trace ID.
func Handler(handler http.Handler, operation string, opts ...Option) http.Handler {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}

	if o.errors != nil {
		handler = recoverHandler(handler, o)
	}
	if o.requestIDHeader != "" {
		handler = requestIDHandler(handler, o.requestIDHeader)
	}

	otelOpts := []otelhttp.Option{}
	if o.filter != nil {
		otelOpts = append(otelOpts, otelhttp.WithFilter(o.filter))
	}

	return otelhttp.NewHandler(handler, operation, otelOpts...)
}

// Recover wraps handler so a panic is reported to eu as a fatal
// *ionbridge.PanicError and answered with 500. Request method, path and
// context attributes travel with the error. http.ErrAbortHandler is
// re-panicked so net/http can abort the response.
func Recover(handler http.Handler, eu *ionbridge.ErrorUtils) http.Handler {
	o := defaultOptions()
	o.errors = eu
	return recoverHandler(handler, o)
}

func recoverHandler(next http.Handler, o *options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			attrs := ionbridge.Attrs{
				fields.Method(r.Method),
				fields.Path(r.URL.Path),
				fields.RemoteAddr(r.RemoteAddr),
			}.Map()
			maps.Copy(attrs, ionbridge.ContextAttributes(r.Context()))
			err := ionbridge.NewPanicError(rec, debug.Stack())
			o.errors.ReportFatalError(ionbridge.WithAttributes(err, attrs))

			if !sw.wroteHeader {
				http.Error(sw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(sw, r)
	})
}

func requestIDHandler(next http.Handler, header string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(header); id != "" {
			r = r.WithContext(ionbridge.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter records whether the response header was sent.
type statusWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Client returns an HTTP client instrumented with OpenTelemetry.
// Each request creates a client span linked to the current trace context.
func Client(opts ...Option) *http.Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}

	otelOpts := []otelhttp.Option{}
	if o.filter != nil {
		otelOpts = append(otelOpts, otelhttp.WithFilter(o.filter))
	}
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport, otelOpts...)}
}

// Transport returns an http.RoundTripper instrumented with OpenTelemetry.
func Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base)
}

// --- Options ---

type options struct {
	filter          otelhttp.Filter
	errors          *ionbridge.ErrorUtils
	requestIDHeader string
}

func defaultOptions() *options {
	return &options{}
}

// Option configures HTTP instrumentation.
type Option interface {
	apply(*options)
}

type filterOption struct {
	filter otelhttp.Filter
}

func (f filterOption) apply(o *options) { o.filter = f.filter }

// WithFilter sets a filter function to exclude requests from tracing.
// Return true to include the request, false to skip.
//
// Example:
//
//	bridgehttp.Handler(mux, "api", bridgehttp.WithFilter(func(r *http.Request) bool {
//	    return r.URL.Path != "/health"
//	}))
func WithFilter(filter func(r *http.Request) bool) Option {
	return filterOption{filter: otelhttp.Filter(filter)}
}

type errorsOption struct {
	errors *ionbridge.ErrorUtils
}

func (e errorsOption) apply(o *options) { o.errors = e.errors }

// WithErrorUtils enables panic recovery reporting to eu.
func WithErrorUtils(eu *ionbridge.ErrorUtils) Option {
	return errorsOption{errors: eu}
}

type requestIDOption string

func (h requestIDOption) apply(o *options) { o.requestIDHeader = string(h) }

// WithRequestID copies the named request header into the request context,
// where it becomes the request_id attribute of reported errors. An empty
// header selects RequestIDHeader.
func WithRequestID(header string) Option {
	if header == "" {
		header = RequestIDHeader
	}
	return requestIDOption(header)
}
