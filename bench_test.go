package ionbridge_test

import (
	"errors"
	"io"
	"testing"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/JupiterMetaLabs/ionbridge/sinks/zapsink"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func discardLogger() *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(io.Discard), zapcore.DebugLevel))
}

func BenchmarkStringify(b *testing.B) {
	b.Run("String", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_ = ionbridge.Stringify("value")
		}
	})

	b.Run("Int", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_ = ionbridge.Stringify(12345)
		}
	})

	b.Run("Error", func(b *testing.B) {
		err := errors.New("boom")
		b.ReportAllocs()
		for b.Loop() {
			_ = ionbridge.Stringify(err)
		}
	})

	b.Run("Map", func(b *testing.B) {
		m := map[string]any{"user_id": 12345, "status": "ok", "latency": 10.5}
		b.ReportAllocs()
		for b.Loop() {
			_ = ionbridge.Stringify(m)
		}
	})
}

func BenchmarkConsoleOverride(b *testing.B) {
	// Console output is discarded so only the forwarding path is measured.
	env := ionbridge.NewEnvironment(io.Discard, io.Discard, 0)
	bridge := ionbridge.New(zapsink.New(discardLogger()), ionbridge.WithEnvironment(env))
	defer bridge.InstallConsoleOverride(nil)()

	b.Run("Log", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			env.Console.Log("transaction processed", 12345, true)
		}
	})

	b.Run("Error", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			env.Console.Error("transaction failed", errors.New("timeout"))
		}
	})
}

func BenchmarkSend(b *testing.B) {
	bridge := ionbridge.New(ionbridge.NopSink{}, ionbridge.WithEnvironment(&ionbridge.Environment{}))
	attrs := map[string]any{"user_id": 12345, "status": "ok", "latency": 10.5}

	b.ReportAllocs()
	for b.Loop() {
		bridge.Send("checkout", attrs)
	}
}
