// Package ionbridge forwards a process's ambient diagnostic signal to a
// telemetry sink.
//
// It instruments three sources: console output, errors reaching the global
// error handler (including recovered panics), and failed background work
// nobody waited on. Every payload is normalized into an event with string
// attributes and handed to a Sink. Custom events and process-wide
// attributes can be sent explicitly.
//
// # Guarantees
//
//   - Transparency: instrumented hooks still call the behavior they wrap,
//     with the original arguments, after the event is forwarded.
//   - Totality: serialization never panics; unprintable values fall back
//     to a generic string.
//   - Reversibility: every hook layer can be removed, in any order.
//   - Concurrency: Bridge, Hook and the ambient facilities are safe for
//     concurrent use.
//
// # Architecture
//
//   - Environment: the Console, ErrorUtils and RejectionTracker a Bridge
//     instruments, passed explicitly instead of patched globals.
//   - Bridge: the event surface and the hook installers.
//   - Sink: the destination; see the sinks directory for zap,
//     OpenTelemetry and fan-out implementations.
//
// Delivery is synchronous and fire-and-forget. Batching, retry and
// persistence belong to the sink.
package ionbridge
