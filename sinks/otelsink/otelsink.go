// Package otelsink implements a bridge sink over OpenTelemetry.
//
// Events and custom events become log records named after the event, with
// the global attributes and the event attributes as record attributes.
// Every event increments a counter keyed by event name. Events carrying an
// "error" attribute also produce an error span with an exception event, so
// crashes show up next to the traces of the same process.
package otelsink

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/JupiterMetaLabs/ionbridge/internal/config"
	internalotel "github.com/JupiterMetaLabs/ionbridge/internal/otel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope of every emitted signal.
const ScopeName = "github.com/JupiterMetaLabs/ionbridge"

// ErrDisabled is returned by Setup when OTEL export is not configured.
var ErrDisabled = errors.New("otel export disabled or no endpoint configured")

// Options selects the providers a Sink emits to. Nil providers fall back
// to the OpenTelemetry globals.
type Options struct {
	LoggerProvider log.LoggerProvider
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

// Sink emits events as OpenTelemetry signals. It is safe for concurrent use.
type Sink struct {
	logger log.Logger
	tracer trace.Tracer
	events metric.Int64Counter
	custom metric.Int64Counter

	providers *internalotel.Providers

	mu    sync.RWMutex
	attrs map[string]string
}

// New creates a sink on the given providers.
func New(opts Options) (*Sink, error) {
	lp := opts.LoggerProvider
	if lp == nil {
		lp = global.GetLoggerProvider()
	}
	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	meter := mp.Meter(ScopeName)
	events, err := meter.Int64Counter("ionbridge.events",
		metric.WithDescription("Events forwarded by the bridge"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}
	custom, err := meter.Int64Counter("ionbridge.custom_events",
		metric.WithDescription("Custom events recorded through the bridge"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &Sink{
		logger: lp.Logger(ScopeName),
		tracer: tp.Tracer(ScopeName),
		events: events,
		custom: custom,
		attrs:  make(map[string]string),
	}, nil
}

// Setup creates OTLP providers from cfg and a sink emitting to them.
// Shutdown releases the providers.
func Setup(cfg config.OTELConfig, serviceName, version string) (*Sink, error) {
	p, err := internalotel.Setup(cfg, serviceName, version)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrDisabled
	}

	opts := Options{LoggerProvider: p.Logger}
	if p.Meter != nil {
		opts.MeterProvider = p.Meter
	}
	if p.Tracer != nil {
		opts.TracerProvider = p.Tracer
	}
	s, err := New(opts)
	if err != nil {
		_ = p.Shutdown(context.Background())
		return nil, err
	}
	s.providers = p
	return s, nil
}

// LoggerProvider returns the provider created by Setup, or nil.
func (s *Sink) LoggerProvider() log.LoggerProvider {
	if s.providers == nil || s.providers.Logger == nil {
		return nil
	}
	return s.providers.Logger
}

// Shutdown flushes and stops the providers created by Setup.
func (s *Sink) Shutdown(ctx context.Context) error {
	return s.providers.Shutdown(ctx)
}

func (s *Sink) SetAttribute(name, value string) {
	s.mu.Lock()
	s.attrs[name] = value
	s.mu.Unlock()
}

func (s *Sink) RemoveAttribute(name string) {
	s.mu.Lock()
	delete(s.attrs, name)
	s.mu.Unlock()
}

// Attributes returns a copy of the global attributes.
func (s *Sink) Attributes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.attrs)
}

func (s *Sink) Send(eventName string, attributes map[string]string) {
	ctx := context.Background()
	sev := severity(eventName, attributes)

	s.emit(ctx, eventName, eventName, sev, attributes)
	s.events.Add(ctx, 1, metric.WithAttributes(attribute.String("event.name", eventName)))

	if msg, ok := attributes["error"]; ok {
		s.errorSpan(ctx, eventName, msg, attributes["stack"])
	}
}

func (s *Sink) RecordCustomEvent(eventType, eventName string, attributes map[string]string) {
	ctx := context.Background()

	attrs := make(map[string]string, len(attributes)+1)
	maps.Copy(attrs, attributes)
	attrs["event.type"] = eventType

	s.emit(ctx, eventName, eventName, log.SeverityInfo, attrs)
	s.custom.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", eventType),
		attribute.String("event.name", eventName),
	))
}

func (s *Sink) NativeLog(message string) {
	s.emit(context.Background(), "", message, log.SeverityInfo, nil)
}

// emit writes one log record. Event attributes override global ones.
func (s *Sink) emit(ctx context.Context, eventName, body string, sev log.Severity, attributes map[string]string) {
	params := log.EnabledParameters{Severity: sev, EventName: eventName}
	if !s.logger.Enabled(ctx, params) {
		return
	}

	var rec log.Record
	now := time.Now()
	rec.SetTimestamp(now)
	rec.SetObservedTimestamp(now)
	rec.SetSeverity(sev)
	rec.SetSeverityText(severityText(sev))
	if eventName != "" {
		rec.SetEventName(eventName)
	}
	rec.SetBody(log.StringValue(body))

	merged := s.Attributes()
	maps.Copy(merged, attributes)
	kvs := make([]log.KeyValue, 0, len(merged))
	for k, v := range merged {
		kvs = append(kvs, log.String(k, v))
	}
	rec.AddAttributes(kvs...)

	s.logger.Emit(ctx, rec)
}

func (s *Sink) errorSpan(ctx context.Context, name, msg, stack string) {
	_, span := s.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	attrs := []attribute.KeyValue{semconv.ExceptionMessage(msg)}
	if stack != "" {
		attrs = append(attrs, semconv.ExceptionStacktrace(stack))
	}
	span.AddEvent("exception", trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, msg)
}

func severity(eventName string, attributes map[string]string) log.Severity {
	switch eventName {
	case ionbridge.EventUncaughtException, ionbridge.EventUnhandledRejection:
		return log.SeverityError
	case ionbridge.EventConsole:
		switch ionbridge.ConsoleKind(attributes["consoleType"]) {
		case ionbridge.ConsoleError:
			return log.SeverityError
		case ionbridge.ConsoleWarn:
			return log.SeverityWarn
		}
	}
	return log.SeverityInfo
}

func severityText(sev log.Severity) string {
	switch sev {
	case log.SeverityError:
		return "ERROR"
	case log.SeverityWarn:
		return "WARN"
	}
	return "INFO"
}
