package ionbridge

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Warning represents a non-fatal initialization issue. Init returns
// warnings instead of failing when a hook cannot be installed.
type Warning struct {
	Component string // "environment", "console", "uncaught_exception", "rejections"
	Err       error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Component, w.Err)
}

var (
	// ErrNilSink is returned by Init without a sink.
	ErrNilSink = errors.New("ionbridge: nil sink")

	// ErrAlreadyInstalled marks a hook a bridge installed before.
	ErrAlreadyInstalled = errors.New("hook already installed")

	// ErrNoFacility marks a hook whose ambient facility is missing.
	ErrNoFacility = errors.New("facility not available")
)

// buildLogger creates the diagnostic logger of Init.
var buildLogger = NewLogger

// Init creates a Bridge over env and sink and installs the hooks cfg
// enables. A nil env selects StdEnvironment and is reported as a warning.
// cfg.Rejections.Delay applies only to that fallback environment. Unless
// WithLogger is passed, the diagnostic logger is built from cfg.Log.
//
// Example:
//
//	bridge, warnings, err := ionbridge.Init(cfg, env, sink)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range warnings {
//	    log.Printf("ionbridge warning: %v", w)
//	}
//	defer bridge.Uninstall()
func Init(cfg Config, env *Environment, sink Sink, opts ...Option) (*Bridge, []Warning, error) {
	if sink == nil {
		return nil, nil, ErrNilSink
	}

	var warnings []Warning
	if env == nil {
		warnings = append(warnings, Warning{
			Component: "environment",
			Err:       fmt.Errorf("%w: using the process environment", ErrNoFacility),
		})
		env = StdEnvironment()
		// A caller-built environment keeps its own delay.
		if cfg.Rejections.Delay > 0 {
			env.Rejections.SetDelay(cfg.Rejections.Delay)
		}
	}

	b := newBridge(sink, append([]Option{WithEnvironment(env)}, opts...))
	if b.logger == nil {
		b.logger = buildLogger(cfg, nil)
	}

	warnings = append(warnings, b.Init(cfg)...)
	return b, warnings, nil
}

// Init installs the hooks cfg enables and registers its global attributes.
// A hook this bridge already installed is skipped with a warning, so
// calling Init again never nests a second layer.
func (b *Bridge) Init(cfg Config) []Warning {
	b.mu.Lock()
	b.dev = b.dev || cfg.Development
	b.mu.Unlock()

	var warnings []Warning
	install := func(enabled bool, name string, available bool, fn func()) {
		if !enabled {
			return
		}
		if !b.claim(name) {
			b.logger.Warn("hook already installed, skipping", zap.String("hook", name))
			warnings = append(warnings, Warning{Component: name, Err: ErrAlreadyInstalled})
			return
		}
		if !available {
			b.release(name)
			warnings = append(warnings, Warning{Component: name, Err: ErrNoFacility})
			return
		}
		fn()
	}

	install(cfg.OverrideConsole, HookConsole, b.env.Console != nil, func() {
		b.InstallConsoleOverride(nil)
	})
	install(cfg.ReportUncaughtExceptions, HookUncaughtException, b.env.Errors != nil, func() {
		b.InstallUncaughtExceptionHook(nil)
	})
	// Development builds leave rejection tracking off without a warning.
	install(cfg.ReportRejectedPromises && !b.development(), HookRejections, b.env.Rejections != nil, func() {
		b.InstallRejectionTracking(nil)
	})

	if cfg.GlobalAttributes != nil {
		b.SetGlobalAttributes(cfg.GlobalAttributes)
	}

	b.logger.Info("bridge initialized",
		zap.Bool("console", b.Installed(HookConsole)),
		zap.Bool("uncaught_exceptions", b.Installed(HookUncaughtException)),
		zap.Bool("rejections", b.Installed(HookRejections)),
		zap.Int("warnings", len(warnings)),
	)
	return warnings
}

func (b *Bridge) claim(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.installed[name] {
		return false
	}
	b.installed[name] = true
	return true
}

func (b *Bridge) release(name string) {
	b.mu.Lock()
	delete(b.installed, name)
	b.mu.Unlock()
}
