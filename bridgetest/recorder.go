// Package bridgetest provides a recording sink for tests.
package bridgetest

import (
	"maps"
	"sync"
)

// Sink method names recorded in Call.Method.
const (
	MethodSetAttribute      = "SetAttribute"
	MethodRemoveAttribute   = "RemoveAttribute"
	MethodSend              = "Send"
	MethodRecordCustomEvent = "RecordCustomEvent"
	MethodNativeLog         = "NativeLog"
)

// Call is one recorded sink call. Only the fields of its method are set.
type Call struct {
	Method string

	Name       string // attribute name, event name
	Value      string // attribute value
	EventType  string
	Attributes map[string]string
	Message    string
}

// Recorder is a sink that records every call in order and keeps an
// attribute registry. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	attrs map[string]string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{attrs: make(map[string]string)}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

func (r *Recorder) SetAttribute(name, value string) {
	r.mu.Lock()
	r.attrs[name] = value
	r.mu.Unlock()
	r.record(Call{Method: MethodSetAttribute, Name: name, Value: value})
}

func (r *Recorder) RemoveAttribute(name string) {
	r.mu.Lock()
	delete(r.attrs, name)
	r.mu.Unlock()
	r.record(Call{Method: MethodRemoveAttribute, Name: name})
}

func (r *Recorder) Send(eventName string, attributes map[string]string) {
	r.record(Call{Method: MethodSend, Name: eventName, Attributes: maps.Clone(attributes)})
}

func (r *Recorder) RecordCustomEvent(eventType, eventName string, attributes map[string]string) {
	r.record(Call{
		Method:     MethodRecordCustomEvent,
		EventType:  eventType,
		Name:       eventName,
		Attributes: maps.Clone(attributes),
	})
}

func (r *Recorder) NativeLog(message string) {
	r.record(Call{Method: MethodNativeLog, Message: message})
}

// Calls returns every recorded call in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Method returns the recorded calls of one method in order.
func (r *Recorder) Method(method string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Events returns the Send calls with the given event name.
func (r *Recorder) Events(name string) []Call {
	var out []Call
	for _, c := range r.Method(MethodSend) {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// NativeLogs returns the native log messages in order.
func (r *Recorder) NativeLogs() []string {
	var out []string
	for _, c := range r.Method(MethodNativeLog) {
		out = append(out, c.Message)
	}
	return out
}

// Attributes returns a copy of the attribute registry.
func (r *Recorder) Attributes() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.attrs)
}

// Reset forgets every call and attribute.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	clear(r.attrs)
	r.mu.Unlock()
}
