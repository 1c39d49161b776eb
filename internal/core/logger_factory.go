package core

import (
	"os"
	"strings"

	"github.com/JupiterMetaLabs/ionbridge/internal/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapFactoryResult holds the result of constructing the zap logger.
type ZapFactoryResult struct {
	Logger      *zap.Logger
	AtomicLevel zap.AtomicLevel
}

// NewZapLogger creates the bridge's diagnostic logger.
// Console and file cores follow cfg.Log. When otelProvider is non-nil the
// entries are also forwarded to it through the otelzap bridge.
func NewZapLogger(cfg config.Config, otelProvider log.LoggerProvider) *ZapFactoryResult {
	atomicLevel := zap.NewAtomicLevelAt(parseLevel(cfg.Log.Level))

	cores := make([]zapcore.Core, 0, 4)

	if cfg.Log.Console.Enabled {
		cores = append(cores, buildConsoleCores(cfg, atomicLevel)...)
	}

	if cfg.Log.File.Enabled && cfg.Log.File.Path != "" {
		if fileCore := buildFileCore(cfg, atomicLevel); fileCore != nil {
			cores = append(cores, fileCore)
		}
	}

	if otelProvider != nil {
		otelCore := otelzap.NewCore(
			cfg.ServiceName,
			otelzap.WithLoggerProvider(otelProvider),
		)
		// The OTEL resource already carries service name and version.
		cores = append(cores, NewFilteringCore(
			&levelEnforcer{Core: otelCore, level: atomicLevel},
			"service", "version",
		))
	}

	var core zapcore.Core
	switch len(cores) {
	case 0:
		core = zapcore.NewNopCore()
	case 1:
		core = cores[0]
	default:
		core = zapcore.NewTee(cores...)
	}

	opts := buildZapOptions(cfg)
	opts = append(opts, zap.WithFatalHook(noExitHook{}))

	return &ZapFactoryResult{
		Logger:      zap.New(core, opts...).Named("ionbridge"),
		AtomicLevel: atomicLevel,
	}
}

// noExitHook keeps Fatal entries from terminating the process.
type noExitHook struct{}

func (noExitHook) OnWrite(*zapcore.CheckedEntry, []zapcore.Field) {}

func buildZapOptions(cfg config.Config) []zap.Option {
	var opts []zap.Option

	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	if cfg.ServiceName != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.ServiceName)))
	}
	if cfg.Version != "" {
		opts = append(opts, zap.Fields(zap.String("version", cfg.Version)))
	}

	return opts
}

func buildConsoleCores(cfg config.Config, level zapcore.LevelEnabler) []zapcore.Core {
	encoder := buildConsoleEncoder(cfg)

	if cfg.Log.Console.ErrorsToStderr {
		stdoutLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return level.Enabled(lvl) && lvl < zapcore.WarnLevel
		})
		stderrLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return level.Enabled(lvl) && lvl >= zapcore.WarnLevel
		})

		return []zapcore.Core{
			zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), stdoutLevel),
			zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), stderrLevel),
		}
	}

	return []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
}

func buildConsoleEncoder(cfg config.Config) zapcore.Encoder {
	switch cfg.Log.Console.Format {
	case "systemd":
		return buildSystemdEncoder()
	case "pretty":
		return buildPrettyEncoder(cfg)
	case "json":
		return buildJSONEncoder()
	default:
		if cfg.Development {
			return buildPrettyEncoder(cfg)
		}
		return buildJSONEncoder()
	}
}

// syslogPriority maps zap levels to syslog priority prefixes (RFC 5424).
func syslogPriority(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return "<7>"
	case zapcore.InfoLevel:
		return "<6>"
	case zapcore.WarnLevel:
		return "<4>"
	case zapcore.ErrorLevel:
		return "<3>"
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return "<2>"
	default:
		return "<6>"
	}
}

// buildSystemdEncoder emits "<N>LEVEL message key=value" lines; journald
// strips the priority prefix and supplies its own timestamp.
func buildSystemdEncoder() zapcore.Encoder {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.EncodeTime = nil
	encoderCfg.CallerKey = ""
	encoderCfg.EncodeCaller = nil
	encoderCfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(syslogPriority(l) + l.CapitalString())
	}
	return zapcore.NewConsoleEncoder(encoderCfg)
}

func buildPrettyEncoder(cfg config.Config) zapcore.Encoder {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if cfg.Log.Console.Color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(encoderCfg)
}

func buildJSONEncoder() zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.MessageKey = "msg"
	encoderCfg.LevelKey = "level"
	encoderCfg.CallerKey = "caller"
	return zapcore.NewJSONEncoder(encoderCfg)
}

func buildFileCore(cfg config.Config, level zapcore.LevelEnabler) zapcore.Core {
	writer := config.NewFileWriter(cfg.Log.File)
	if writer == nil {
		return nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(writer), level)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
