// Package zapsink implements a bridge sink writing events as structured
// zap entries.
//
// Console events are logged at the level of their console entry point,
// exception and rejection events at error level, everything else at info.
// Global attributes are attached to every entry under "global". Native
// log messages go to a child logger named "native".
package zapsink

import (
	"maps"
	"slices"
	"sync"

	"github.com/JupiterMetaLabs/ionbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink writes events to a zap logger. It is safe for concurrent use.
type Sink struct {
	logger *zap.Logger
	native *zap.Logger

	mu    sync.RWMutex
	attrs map[string]string
}

// New creates a sink on logger. A nil logger discards everything.
func New(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{
		logger: logger,
		native: logger.Named("native"),
		attrs:  make(map[string]string),
	}
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
	ce := s.logger.Check(eventLevel(eventName, attributes), "event")
	if ce == nil {
		return
	}
	ce.Write(
		zap.String("event", eventName),
		zap.Object("attributes", stringMap(attributes)),
		zap.Object("global", stringMap(s.Attributes())),
	)
}

func (s *Sink) RecordCustomEvent(eventType, eventName string, attributes map[string]string) {
	ce := s.logger.Check(zapcore.InfoLevel, "custom event")
	if ce == nil {
		return
	}
	ce.Write(
		zap.String("event_type", eventType),
		zap.String("event", eventName),
		zap.Object("attributes", stringMap(attributes)),
		zap.Object("global", stringMap(s.Attributes())),
	)
}

func (s *Sink) NativeLog(message string) {
	s.native.Info(message)
}

// Sync flushes the underlying logger.
func (s *Sink) Sync() error {
	return s.logger.Sync()
}

func eventLevel(name string, attributes map[string]string) zapcore.Level {
	switch name {
	case ionbridge.EventUncaughtException, ionbridge.EventUnhandledRejection:
		return zapcore.ErrorLevel
	case ionbridge.EventConsole:
		switch ionbridge.ConsoleKind(attributes["consoleType"]) {
		case ionbridge.ConsoleError:
			return zapcore.ErrorLevel
		case ionbridge.ConsoleWarn:
			return zapcore.WarnLevel
		}
	}
	return zapcore.InfoLevel
}

// stringMap encodes its entries in key order.
type stringMap map[string]string

func (m stringMap) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		enc.AddString(k, m[k])
	}
	return nil
}
