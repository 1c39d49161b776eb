package ionbridge

import (
	"sync"

	"go.uber.org/zap"
)

// Hook names used by Init and Installed.
const (
	HookConsole           = "console"
	HookUncaughtException = "uncaught_exception"
	HookRejections        = "rejections"
)

func noop() {}

// InstallConsoleOverride layers log, warn and error of c. Each call is
// forwarded through SendConsole and then passed to the previous entry
// point with the original arguments. A nil c selects the environment's
// console.
func (b *Bridge) InstallConsoleOverride(c *Console) (uninstall func()) {
	if c == nil {
		c = b.env.Console
	}
	if c == nil {
		b.logger.Warn("console override skipped: no console")
		return noop
	}

	undo := make([]func(), 0, len(ConsoleKinds))
	for _, kind := range ConsoleKinds {
		undo = append(undo, c.Hook(kind).Wrap(func(next ConsoleFunc) ConsoleFunc {
			return func(args ...any) {
				b.SendConsole(kind, args)
				if next != nil {
					next(args...)
				}
			}
		}))
	}
	b.logger.Debug("hook installed", zap.String("hook", HookConsole))

	var once sync.Once
	return b.track(HookConsole, func() {
		once.Do(func() {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
		})
	})
}

// InstallUncaughtExceptionHook layers the global error handler of eu. The
// layer sends an uncaught exception event with the error and, when the
// error carries one, its stack; attributes attached with WithAttributes are
// merged in. Then the previous handler runs with the same arguments. A nil
// eu selects the environment's ErrorUtils.
func (b *Bridge) InstallUncaughtExceptionHook(eu *ErrorUtils) (uninstall func()) {
	if eu == nil {
		eu = b.env.Errors
	}
	if eu == nil {
		b.logger.Warn("uncaught exception hook skipped: no error utils")
		return noop
	}

	un := eu.Hook().Wrap(func(next ErrorHandler) ErrorHandler {
		return func(err error, isFatal bool) {
			attrs := AttributesOf(err)
			if attrs == nil {
				attrs = make(map[string]any, 2)
			}
			attrs["error"] = err
			if stack := StackOf(err); stack != "" {
				attrs["stack"] = stack
			}
			b.Send(EventUncaughtException, attrs)
			if next != nil {
				next(err, isFatal)
			}
		}
	})
	b.logger.Debug("hook installed", zap.String("hook", HookUncaughtException))
	return b.track(HookUncaughtException, un)
}

// InstallRejectionTracking reports rejections of rt that stay unhandled
// past its delay: an event with the error, then a native log line.
// Rejections handled late are not reported. Tracking stays off in
// development builds. A nil rt selects the environment's tracker.
func (b *Bridge) InstallRejectionTracking(rt *RejectionTracker) (uninstall func()) {
	if b.development() {
		b.logger.Debug("rejection tracking disabled in development")
		return noop
	}
	if rt == nil {
		rt = b.env.Rejections
	}
	if rt == nil {
		b.logger.Warn("rejection tracking skipped: no tracker")
		return noop
	}

	unUnhandled := rt.OnUnhandled().Wrap(func(next RejectionFunc) RejectionFunc {
		return func(id uint64, err error) {
			b.Send(EventUnhandledRejection, map[string]any{"error": err})
			b.NativeLog(UnhandledRejectionPrefix + Stringify(err))
			if next != nil {
				next(id, err)
			}
		}
	})
	unHandled := rt.OnHandled().Wrap(func(next RejectionFunc) RejectionFunc {
		return func(id uint64, err error) {
			b.logger.Debug("rejection handled late", zap.Uint64("id", id))
			if next != nil {
				next(id, err)
			}
		}
	})
	b.logger.Debug("hook installed", zap.String("hook", HookRejections),
		zap.Duration("delay", rt.Delay()))

	var once sync.Once
	return b.track(HookRejections, func() {
		once.Do(func() {
			unHandled()
			unUnhandled()
		})
	})
}
