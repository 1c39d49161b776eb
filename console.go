package ionbridge

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ConsoleFunc is a console entry point.
type ConsoleFunc func(args ...any)

// ConsoleKind names a console entry point.
type ConsoleKind string

const (
	ConsoleLog   ConsoleKind = "log"
	ConsoleWarn  ConsoleKind = "warn"
	ConsoleError ConsoleKind = "error"
)

// ConsoleKinds lists every console entry point.
var ConsoleKinds = []ConsoleKind{ConsoleLog, ConsoleWarn, ConsoleError}

// Console is the process console: three entry points, each an
// instrumentable Hook. By default log prints to stdout and warn/error to
// stderr, operands separated by spaces, one line per call.
type Console struct {
	log  *Hook[ConsoleFunc]
	warn *Hook[ConsoleFunc]
	err  *Hook[ConsoleFunc]
}

// NewConsole creates a console printing to stdout and stderr.
// A nil writer discards that stream.
func NewConsole(stdout, stderr io.Writer) *Console {
	out, errOut := newLineWriter(stdout), newLineWriter(stderr)
	return &Console{
		log:  NewHook(ConsoleFunc(out.println)),
		warn: NewHook(ConsoleFunc(errOut.println)),
		err:  NewHook(ConsoleFunc(errOut.println)),
	}
}

// Log calls the log entry point.
func (c *Console) Log(args ...any) { c.call(c.log, args) }

// Warn calls the warn entry point.
func (c *Console) Warn(args ...any) { c.call(c.warn, args) }

// Error calls the error entry point.
func (c *Console) Error(args ...any) { c.call(c.err, args) }

func (c *Console) call(h *Hook[ConsoleFunc], args []any) {
	if fn := h.Load(); fn != nil {
		fn(args...)
	}
}

// Hook returns the hook behind an entry point, or nil for an unknown kind.
func (c *Console) Hook(kind ConsoleKind) *Hook[ConsoleFunc] {
	switch kind {
	case ConsoleLog:
		return c.log
	case ConsoleWarn:
		return c.warn
	case ConsoleError:
		return c.err
	}
	return nil
}

// Writer returns an io.Writer that sends every write through the given
// entry point as a single string argument, trailing newline removed. It
// lets the standard log package feed the console:
//
//	log.SetOutput(console.Writer(ionbridge.ConsoleLog))
func (c *Console) Writer(kind ConsoleKind) io.Writer {
	h := c.Hook(kind)
	if h == nil {
		return io.Discard
	}
	return consoleWriter{c: c, h: h}
}

type consoleWriter struct {
	c *Console
	h *Hook[ConsoleFunc]
}

func (w consoleWriter) Write(p []byte) (int, error) {
	w.c.call(w.h, []any{strings.TrimSuffix(string(p), "\n")})
	return len(p), nil
}

// lineWriter serializes whole lines onto one writer.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newLineWriter(w io.Writer) *lineWriter {
	if w == nil {
		w = io.Discard
	}
	return &lineWriter{w: w}
}

func (l *lineWriter) println(args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.w, args...)
}

var (
	stdConsoleOnce sync.Once
	stdConsole     *Console
)

// StdConsole returns the process console on os.Stdout and os.Stderr.
func StdConsole() *Console {
	stdConsoleOnce.Do(func() {
		stdConsole = NewConsole(os.Stdout, os.Stderr)
	})
	return stdConsole
}
