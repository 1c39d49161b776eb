// Package config holds the configuration types shared by the bridge, its
// diagnostic logger and the sink factories.
package config

import "time"

// Config holds the complete bridge configuration.
type Config struct {
	// ServiceName identifies this process in diagnostic logs and OTEL resources.
	// Default: "unknown"
	ServiceName string `yaml:"service_name" json:"service_name" mapstructure:"service_name"`

	// Version is the application version.
	Version string `yaml:"version" json:"version" mapstructure:"version"`

	// Development marks a development build. Rejection tracking is inactive
	// in development builds and the diagnostic logger switches to pretty output.
	Development bool `yaml:"development" json:"development" mapstructure:"development"`

	// OverrideConsole forwards every console log/warn/error call as an event.
	OverrideConsole bool `yaml:"override_console" json:"override_console" mapstructure:"override_console"`

	// ReportUncaughtExceptions forwards errors reaching the global error handler.
	ReportUncaughtExceptions bool `yaml:"report_uncaught_exceptions" json:"report_uncaught_exceptions" mapstructure:"report_uncaught_exceptions"`

	// ReportRejectedPromises forwards failed background work nobody waited on.
	ReportRejectedPromises bool `yaml:"report_rejected_promises" json:"report_rejected_promises" mapstructure:"report_rejected_promises"`

	// GlobalAttributes are registered with the sink at init.
	GlobalAttributes map[string]any `yaml:"global_attributes" json:"global_attributes" mapstructure:"global_attributes"`

	// Rejections configures unhandled rejection detection.
	Rejections RejectionConfig `yaml:"rejections" json:"rejections" mapstructure:"rejections"`

	// Log configures the bridge's own diagnostic logger.
	Log LogConfig `yaml:"log" json:"log" mapstructure:"log"`

	// Sink selects and configures the event destination.
	Sink SinkConfig `yaml:"sink" json:"sink" mapstructure:"sink"`
}

// RejectionConfig configures the rejection tracker.
type RejectionConfig struct {
	// Delay is how long a rejection may stay unhandled before it is reported.
	// Default: 2s
	Delay time.Duration `yaml:"delay" json:"delay" mapstructure:"delay"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	// Level sets the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level" json:"level" mapstructure:"level"`

	Console ConsoleConfig `yaml:"console" json:"console" mapstructure:"console"`
	File    FileConfig    `yaml:"file" json:"file" mapstructure:"file"`
}

// ConsoleConfig configures stdout/stderr output of the diagnostic logger.
type ConsoleConfig struct {
	// Default: true
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`

	// Format: "json", "pretty" or "systemd".
	// Default: "json" (production), "pretty" (development)
	Format string `yaml:"format" json:"format" mapstructure:"format"`

	// Color enables ANSI colors in pretty format.
	Color bool `yaml:"color" json:"color" mapstructure:"color"`

	// ErrorsToStderr sends warn and above to stderr, the rest to stdout.
	ErrorsToStderr bool `yaml:"errors_to_stderr" json:"errors_to_stderr" mapstructure:"errors_to_stderr"`
}

// FileConfig configures rotated file output.
type FileConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" json:"path" mapstructure:"path"`

	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb" mapstructure:"max_size_mb"`

	// Default: 7
	MaxAgeDays int `yaml:"max_age_days" json:"max_age_days" mapstructure:"max_age_days"`

	// Default: 5
	MaxBackups int  `yaml:"max_backups" json:"max_backups" mapstructure:"max_backups"`
	Compress   bool `yaml:"compress" json:"compress" mapstructure:"compress"`
}

// Sink kinds understood by the sink factory.
const (
	SinkLog  = "log"
	SinkOTEL = "otel"
	SinkBoth = "both"
	SinkNone = "none"
)

// SinkConfig selects the event destination.
type SinkConfig struct {
	// Kind: "log" (structured zap entries), "otel", "both" or "none".
	// Default: "log"
	Kind string `yaml:"kind" json:"kind" mapstructure:"kind"`

	OTEL OTELConfig `yaml:"otel" json:"otel" mapstructure:"otel"`
}

// OTELConfig configures OpenTelemetry export of events.
type OTELConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`

	// Protocol: "grpc" or "http".
	// Default: "grpc"
	Protocol string `yaml:"protocol" json:"protocol" mapstructure:"protocol"`

	// Endpoint of the collector. A scheme (http:// or https://) overrides Insecure.
	Endpoint string `yaml:"endpoint" json:"endpoint" mapstructure:"endpoint"`

	Insecure bool `yaml:"insecure" json:"insecure" mapstructure:"insecure"`

	// Username and Password add a basic auth header when both are set.
	Username string `yaml:"username" json:"username" mapstructure:"username"`
	Password string `yaml:"password" json:"-" mapstructure:"password"`

	Headers map[string]string `yaml:"headers" json:"headers" mapstructure:"headers"`

	// Default: 10s
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// Default: 512
	BatchSize int `yaml:"batch_size" json:"batch_size" mapstructure:"batch_size"`

	// Default: 5s
	ExportInterval time.Duration `yaml:"export_interval" json:"export_interval" mapstructure:"export_interval"`

	// Attributes are additional resource attributes.
	Attributes map[string]string `yaml:"attributes" json:"attributes" mapstructure:"attributes"`

	// Traces exports error events as spans.
	Traces bool `yaml:"traces" json:"traces" mapstructure:"traces"`

	// Sampler: "always", "never" or "ratio:0.25".
	Sampler string `yaml:"sampler" json:"sampler" mapstructure:"sampler"`

	// Metrics exports per-event counters.
	Metrics bool `yaml:"metrics" json:"metrics" mapstructure:"metrics"`

	// MetricsInterval is the periodic reader interval.
	// Default: 15s
	MetricsInterval time.Duration `yaml:"metrics_interval" json:"metrics_interval" mapstructure:"metrics_interval"`
}

// Default returns a Config with production defaults and every hook disabled.
func Default() Config {
	return Config{
		ServiceName: "unknown",
		Rejections: RejectionConfig{
			Delay: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			Console: ConsoleConfig{
				Enabled:        true,
				Format:         "json",
				Color:          true,
				ErrorsToStderr: true,
			},
			File: FileConfig{
				MaxSizeMB:  100,
				MaxAgeDays: 7,
				MaxBackups: 5,
				Compress:   true,
			},
		},
		Sink: SinkConfig{
			Kind: SinkLog,
			OTEL: OTELConfig{
				Protocol:        "grpc",
				Timeout:         10 * time.Second,
				BatchSize:       512,
				ExportInterval:  5 * time.Second,
				Sampler:         "always",
				MetricsInterval: 15 * time.Second,
			},
		},
	}
}

// Development returns a Config for development builds.
func Development() Config {
	cfg := Default()
	cfg.Development = true
	cfg.Log.Level = "debug"
	cfg.Log.Console.Format = "pretty"
	return cfg
}

// WithService returns a copy of the config with the given service name.
func (c Config) WithService(name string) Config {
	c.ServiceName = name
	return c
}

// WithAllHooks returns a copy of the config with console, exception and
// rejection reporting enabled.
func (c Config) WithAllHooks() Config {
	c.OverrideConsole = true
	c.ReportUncaughtExceptions = true
	c.ReportRejectedPromises = true
	return c
}

// WithGlobalAttributes returns a copy of the config with attrs merged into
// the global attributes.
func (c Config) WithGlobalAttributes(attrs map[string]any) Config {
	merged := make(map[string]any, len(c.GlobalAttributes)+len(attrs))
	for k, v := range c.GlobalAttributes {
		merged[k] = v
	}
	for k, v := range attrs {
		merged[k] = v
	}
	c.GlobalAttributes = merged
	return c
}

// WithOTEL returns a copy of the config exporting events to endpoint.
func (c Config) WithOTEL(endpoint string) Config {
	c.Sink.OTEL.Enabled = true
	c.Sink.OTEL.Endpoint = endpoint
	if c.Sink.Kind == SinkLog || c.Sink.Kind == "" {
		c.Sink.Kind = SinkBoth
	}
	return c
}

// WithLogFile returns a copy of the config with diagnostic file logging enabled.
func (c Config) WithLogFile(path string) Config {
	c.Log.File.Enabled = true
	c.Log.File.Path = path
	return c
}
