package ionbridge

import "sync"

var (
	globalMu sync.RWMutex
	global   *Bridge
)

// SetGlobal sets the process-wide Bridge used by the package-level
// functions. Passing nil clears it.
func SetGlobal(b *Bridge) {
	globalMu.Lock()
	global = b
	globalMu.Unlock()
}

// L returns the global Bridge.
func L() *Bridge {
	globalMu.RLock()
	g := global
	globalMu.RUnlock()
	if g == nil {
		panic("ionbridge: global not set, call SetGlobal first")
	}
	return g
}

var (
	discardOnce sync.Once
	discard     *Bridge
)

func getGlobal() *Bridge {
	globalMu.RLock()
	g := global
	globalMu.RUnlock()
	if g != nil {
		return g
	}
	discardOnce.Do(func() {
		discard = New(NopSink{}, WithEnvironment(&Environment{}))
	})
	return discard
}

// SetGlobalAttributes registers attributes on the global bridge.
func SetGlobalAttributes(attrs map[string]any) {
	getGlobal().SetGlobalAttributes(attrs)
}

// RemoveAttribute removes an attribute on the global bridge.
func RemoveAttribute(name any) {
	getGlobal().RemoveAttribute(name)
}

// Report sends an event through the global bridge.
func Report(eventName string, attrs map[string]any) {
	getGlobal().Report(eventName, attrs)
}

// RecordCustomEvent records a custom event through the global bridge.
func RecordCustomEvent(eventType, eventName, attrs any) {
	getGlobal().RecordCustomEvent(eventType, eventName, attrs)
}

// Send sends an event through the global bridge.
func Send(name any, attrs map[string]any) {
	getGlobal().Send(name, attrs)
}

// NativeLog writes to the native log of the global bridge.
func NativeLog(message string) {
	getGlobal().NativeLog(message)
}
