package ionbridge

import (
	"github.com/JupiterMetaLabs/ionbridge/internal/core"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
)

// NewLogger builds the diagnostic logger described by cfg.Log. With a
// non-nil provider entries are also exported through OpenTelemetry.
// The logger writes to the process streams directly, never through an
// instrumented Console.
func NewLogger(cfg Config, provider log.LoggerProvider) *zap.Logger {
	return core.NewZapLogger(cfg, provider).Logger
}
