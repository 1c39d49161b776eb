package ionbridge

// Sink receives normalized events and attribute commands. Implementations
// own the attribute registry, delivery and retry. Calls are synchronous;
// the bridge neither recovers from nor retries a failing sink.
type Sink interface {
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	Send(eventName string, attributes map[string]string)
	RecordCustomEvent(eventType, eventName string, attributes map[string]string)
	NativeLog(message string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) SetAttribute(string, string) {}
func (NopSink) RemoveAttribute(string) {}
func (NopSink) Send(string, map[string]string) {}
func (NopSink) RecordCustomEvent(string, string, map[string]string) {}
func (NopSink) NativeLog(string) {}

// Event names produced by the installed hooks.
const (
	EventConsole            = "JSConsole"
	EventUncaughtException  = "JS:UncaughtException"
	EventUnhandledRejection = "JS:UnhandledRejectedPromise"
)

// Native log prefixes.
const (
	ConsoleErrorPrefix       = "[JSConsole:Error] "
	UnhandledRejectionPrefix = "[UnhandledRejectedPromise] "
)
