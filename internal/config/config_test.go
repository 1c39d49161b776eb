package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.OverrideConsole || cfg.ReportUncaughtExceptions || cfg.ReportRejectedPromises {
		t.Error("expected every hook disabled by default")
	}
	if cfg.Rejections.Delay != 2*time.Second {
		t.Errorf("Rejections.Delay = %v, want 2s", cfg.Rejections.Delay)
	}
	if cfg.Sink.Kind != SinkLog {
		t.Errorf("Sink.Kind = %q, want %q", cfg.Sink.Kind, SinkLog)
	}
	if cfg.Sink.OTEL.Protocol != "grpc" {
		t.Errorf("OTEL protocol = %q, want grpc", cfg.Sink.OTEL.Protocol)
	}
}

func TestDevelopment(t *testing.T) {
	cfg := Development()
	if !cfg.Development {
		t.Error("expected development mode enabled")
	}
	if cfg.Log.Console.Format != "pretty" {
		t.Errorf("console format = %q, want pretty", cfg.Log.Console.Format)
	}
}

func TestBuilders(t *testing.T) {
	cfg := Default().
		WithService("checkout").
		WithAllHooks().
		WithGlobalAttributes(map[string]any{"region": "eu"}).
		WithGlobalAttributes(map[string]any{"tier": 2}).
		WithOTEL("localhost:4317").
		WithLogFile("/var/log/bridge.log")

	if cfg.ServiceName != "checkout" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if !cfg.OverrideConsole || !cfg.ReportUncaughtExceptions || !cfg.ReportRejectedPromises {
		t.Error("expected all hooks enabled")
	}
	if len(cfg.GlobalAttributes) != 2 || cfg.GlobalAttributes["region"] != "eu" || cfg.GlobalAttributes["tier"] != 2 {
		t.Errorf("GlobalAttributes = %v", cfg.GlobalAttributes)
	}
	if cfg.Sink.Kind != SinkBoth || !cfg.Sink.OTEL.Enabled {
		t.Errorf("sink = %+v", cfg.Sink)
	}
	if !cfg.Log.File.Enabled || cfg.Log.File.Path != "/var/log/bridge.log" {
		t.Errorf("file = %+v", cfg.Log.File)
	}
}

func TestBuilders_DoNotMutateReceiver(t *testing.T) {
	base := Default().WithGlobalAttributes(map[string]any{"a": 1})
	_ = base.WithGlobalAttributes(map[string]any{"b": 2})
	if _, ok := base.GlobalAttributes["b"]; ok {
		t.Error("WithGlobalAttributes mutated the receiver's map")
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "unknown" {
		t.Errorf("ServiceName = %q, want unknown", cfg.ServiceName)
	}
	if cfg.Sink.Kind != SinkLog {
		t.Errorf("Sink.Kind = %q", cfg.Sink.Kind)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bridge.yaml", `
service_name: mobile-api
override_console: true
report_uncaught_exceptions: true
global_attributes:
  region: eu-west-1
  build: 42
rejections:
  delay: 250ms
sink:
  kind: otel
  otel:
    endpoint: https://otel.example.com
    metrics: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "mobile-api" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if !cfg.OverrideConsole || !cfg.ReportUncaughtExceptions || cfg.ReportRejectedPromises {
		t.Errorf("hooks = %v %v %v", cfg.OverrideConsole, cfg.ReportUncaughtExceptions, cfg.ReportRejectedPromises)
	}
	if cfg.GlobalAttributes["region"] != "eu-west-1" {
		t.Errorf("region = %v", cfg.GlobalAttributes["region"])
	}
	if cfg.Rejections.Delay != 250*time.Millisecond {
		t.Errorf("Delay = %v", cfg.Rejections.Delay)
	}
	if cfg.Sink.Kind != SinkOTEL || cfg.Sink.OTEL.Endpoint != "https://otel.example.com" || !cfg.Sink.OTEL.Metrics {
		t.Errorf("sink = %+v", cfg.Sink)
	}
	// Untouched keys keep their defaults.
	if cfg.Sink.OTEL.Protocol != "grpc" {
		t.Errorf("Protocol = %q, want grpc", cfg.Sink.OTEL.Protocol)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bridge.yaml", "service_name: from-file\n")
	t.Setenv("IONBRIDGE_SERVICE_NAME", "from-env")
	t.Setenv("IONBRIDGE_SINK_KIND", "none")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "from-env" {
		t.Errorf("ServiceName = %q, want from-env", cfg.ServiceName)
	}
	if cfg.Sink.Kind != SinkNone {
		t.Errorf("Sink.Kind = %q, want none", cfg.Sink.Kind)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestNewFileWriter(t *testing.T) {
	if w := NewFileWriter(FileConfig{}); w != nil {
		t.Error("expected nil writer for empty path")
	}
	if w := NewFileWriter(FileConfig{Path: filepath.Join(t.TempDir(), "x.log")}); w == nil {
		t.Error("expected writer for non-empty path")
	}
}
