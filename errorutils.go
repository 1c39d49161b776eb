package ionbridge

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
)

// ErrorHandler is the global error handler. isFatal is true for errors
// that ended the unit of work they came from, e.g. a recovered panic.
type ErrorHandler func(err error, isFatal bool)

// ErrorUtils owns the global error handler slot. Errors reach the handler
// through ReportError, ReportFatalError, or panics recovered by Guard and Go.
type ErrorUtils struct {
	handler *Hook[ErrorHandler]
}

// NewErrorUtils creates the facility with h as global handler; h may be nil.
func NewErrorUtils(h ErrorHandler) *ErrorUtils {
	return &ErrorUtils{handler: NewHook(h)}
}

// PrintingErrorHandler returns a handler that writes the error and its
// stack trace to w.
func PrintingErrorHandler(w io.Writer) ErrorHandler {
	var mu sync.Mutex
	return func(err error, isFatal bool) {
		mu.Lock()
		defer mu.Unlock()
		prefix := "error"
		if isFatal {
			prefix = "fatal error"
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, Stringify(err))
		if stack := StackOf(err); stack != "" {
			_, _ = fmt.Fprintln(w, stack)
		}
	}
}

// SetGlobalHandler replaces the handler installed by the application.
// Instrumentation layers stay in place around the new handler.
func (e *ErrorUtils) SetGlobalHandler(h ErrorHandler) {
	e.handler.SetBase(h)
}

// GlobalHandler returns the effective handler including every layer.
func (e *ErrorUtils) GlobalHandler() ErrorHandler {
	return e.handler.Load()
}

// Hook returns the hook behind the global handler.
func (e *ErrorUtils) Hook() *Hook[ErrorHandler] {
	return e.handler
}

// ReportError passes a non-fatal error to the global handler.
func (e *ErrorUtils) ReportError(err error) {
	e.report(err, false)
}

// ReportFatalError passes a fatal error to the global handler.
// It does not terminate the process.
func (e *ErrorUtils) ReportFatalError(err error) {
	e.report(err, true)
}

func (e *ErrorUtils) report(err error, isFatal bool) {
	if err == nil {
		return
	}
	if h := e.handler.Load(); h != nil {
		h(err, isFatal)
	}
}

// Guard runs fn and reports a panic as a fatal *PanicError instead of
// letting it unwind further. It returns false if fn panicked.
func (e *ErrorUtils) Guard(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			e.ReportFatalError(NewPanicError(r, debug.Stack()))
		}
	}()
	fn()
	return true
}

// Go runs fn in a new goroutine under Guard.
func (e *ErrorUtils) Go(fn func()) {
	go e.Guard(fn)
}

// PanicError carries a recovered panic value and the stack at recovery.
type PanicError struct {
	Value any
	Stack string
}

// NewPanicError wraps a recovered value. An error value is kept as is and
// reachable through errors.Unwrap.
func NewPanicError(recovered any, stack []byte) *PanicError {
	return &PanicError{Value: recovered, Stack: string(stack)}
}

func (e *PanicError) Error() string {
	return "panic: " + Stringify(e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// StackTrace returns the stack captured at recovery.
func (e *PanicError) StackTrace() string {
	return e.Stack
}

// StackOf returns the stack trace carried by err or any error it wraps,
// found through a StackTrace() string method. It returns "" when none.
func StackOf(err error) string {
	var st interface{ StackTrace() string }
	if err != nil && errors.As(err, &st) {
		return st.StackTrace()
	}
	return ""
}
