package ionbridge

import (
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Bridge forwards normalized events to a Sink. Hooks installed through a
// Bridge funnel everything through Send, SendConsole and NativeLog.
//
// A Bridge is safe for concurrent use.
type Bridge struct {
	sink   Sink
	env    *Environment
	logger *zap.Logger

	mu        sync.Mutex
	dev       bool
	installed map[string]bool
	layers    []installedLayer
}

type installedLayer struct {
	name      string
	uninstall func()
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for the bridge's own diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithEnvironment sets the facilities Init instruments.
func WithEnvironment(env *Environment) Option {
	return func(b *Bridge) {
		b.env = env
	}
}

// New creates a Bridge. A nil sink discards events. Without
// WithEnvironment the bridge instruments a StdEnvironment.
func New(sink Sink, opts ...Option) *Bridge {
	b := newBridge(sink, opts)
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

// newBridge applies opts and leaves the logger nil unless WithLogger set it.
func newBridge(sink Sink, opts []Option) *Bridge {
	if sink == nil {
		sink = NopSink{}
	}
	b := &Bridge{
		sink:      sink,
		installed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.env == nil {
		b.env = StdEnvironment()
	}
	return b
}

// Sink returns the sink events are forwarded to.
func (b *Bridge) Sink() Sink { return b.sink }

// Environment returns the instrumented facilities.
func (b *Bridge) Environment() *Environment { return b.env }

// Logger returns the bridge's diagnostic logger.
func (b *Bridge) Logger() *zap.Logger { return b.logger }

// SetGlobalAttributes issues one SetAttribute per key, key and value
// stringified. Keys are visited in sorted order.
func (b *Bridge) SetGlobalAttributes(attrs map[string]any) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.sink.SetAttribute(k, Stringify(attrs[k]))
	}
}

// RemoveAttribute removes a global attribute.
func (b *Bridge) RemoveAttribute(name any) {
	b.sink.RemoveAttribute(Stringify(name))
}

// Report forwards a named event. It is an alias for Send.
func (b *Bridge) Report(eventName string, attrs map[string]any) {
	b.Send(eventName, attrs)
}

// RecordCustomEvent forwards a custom event. attrs must be a keyed mapping
// (see StringifyMapping); anything else is replaced by an empty mapping.
func (b *Bridge) RecordCustomEvent(eventType, eventName, attrs any) {
	m, ok := StringifyMapping(attrs)
	if !ok {
		m = map[string]string{}
	}
	b.sink.RecordCustomEvent(Stringify(eventType), Stringify(eventName), m)
}

// Send forwards an event with every attribute value stringified.
func (b *Bridge) Send(name any, attrs map[string]any) {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = Stringify(v)
	}
	b.sink.Send(Stringify(name), out)
}

// SendConsole forwards console arguments as a console event. Error output
// is also written to the native log.
func (b *Bridge) SendConsole(kind ConsoleKind, args []any) {
	joined := StringifyArgs(args)
	b.sink.Send(EventConsole, map[string]string{
		"consoleType": string(kind),
		"args":        joined,
	})
	if kind == ConsoleError {
		b.NativeLog(ConsoleErrorPrefix + joined)
	}
}

// NativeLog writes a plain message to the sink's native log channel,
// bypassing the event path.
func (b *Bridge) NativeLog(message string) {
	b.sink.NativeLog(message)
}

// Installed reports whether Init installed the named hook.
func (b *Bridge) Installed(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.installed[name]
}

// Uninstall removes every layer this bridge installed, most recent first.
func (b *Bridge) Uninstall() {
	b.mu.Lock()
	layers := b.layers
	b.layers = nil
	clear(b.installed)
	b.mu.Unlock()

	for i := len(layers) - 1; i >= 0; i-- {
		layers[i].uninstall()
		b.logger.Debug("hook uninstalled", zap.String("hook", layers[i].name))
	}
}

func (b *Bridge) development() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev || b.env.Development
}

func (b *Bridge) track(name string, uninstall func()) func() {
	b.mu.Lock()
	b.layers = append(b.layers, installedLayer{name: name, uninstall: uninstall})
	b.mu.Unlock()
	return uninstall
}
