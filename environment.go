package ionbridge

import (
	"io"
	"os"
	"time"
)

// Environment bundles the ambient facilities a Bridge instruments. It is
// an explicit context object: construct one at process start and hand it
// to every component that reports.
type Environment struct {
	Console    *Console
	Errors     *ErrorUtils
	Rejections *RejectionTracker

	// Development disables rejection tracking.
	Development bool
}

// NewEnvironment creates an environment whose console prints to stdout
// and stderr and whose error handler prints to stderr.
func NewEnvironment(stdout, stderr io.Writer, rejectionDelay time.Duration) *Environment {
	if stderr == nil {
		stderr = io.Discard
	}
	return &Environment{
		Console:    NewConsole(stdout, stderr),
		Errors:     NewErrorUtils(PrintingErrorHandler(stderr)),
		Rejections: NewRejectionTracker(rejectionDelay),
	}
}

// StdEnvironment creates an environment on the process console.
func StdEnvironment() *Environment {
	return &Environment{
		Console:    StdConsole(),
		Errors:     NewErrorUtils(PrintingErrorHandler(os.Stderr)),
		Rejections: NewRejectionTracker(DefaultRejectionDelay),
	}
}
