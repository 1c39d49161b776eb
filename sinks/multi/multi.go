// Package multi fans bridge sink calls out to several sinks.
package multi

import "github.com/JupiterMetaLabs/ionbridge"

// Sink forwards every call to each of its sinks in order.
type Sink []ionbridge.Sink

// New returns a sink over the non-nil sinks. With exactly one sink it
// returns that sink; with none it returns ionbridge.NopSink.
func New(sinks ...ionbridge.Sink) ionbridge.Sink {
	out := make(Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return ionbridge.NopSink{}
	case 1:
		return out[0]
	}
	return out
}

func (m Sink) SetAttribute(name, value string) {
	for _, s := range m {
		s.SetAttribute(name, value)
	}
}

func (m Sink) RemoveAttribute(name string) {
	for _, s := range m {
		s.RemoveAttribute(name)
	}
}

func (m Sink) Send(eventName string, attributes map[string]string) {
	for _, s := range m {
		s.Send(eventName, attributes)
	}
}

func (m Sink) RecordCustomEvent(eventType, eventName string, attributes map[string]string) {
	for _, s := range m {
		s.RecordCustomEvent(eventType, eventName, attributes)
	}
}

func (m Sink) NativeLog(message string) {
	for _, s := range m {
		s.NativeLog(message)
	}
}
