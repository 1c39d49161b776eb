package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. IONBRIDGE_SINK_KIND.
const EnvPrefix = "IONBRIDGE"

// Load reads the configuration from a YAML file and IONBRIDGE_* environment
// variables. With an empty path it looks for ionbridge.yaml in the working
// directory and falls back to defaults when no such file exists. An explicit
// path that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ionbridge")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key known to viper so env overrides apply
	// even when the file omits them.
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("service_name", cfg.ServiceName)
	v.SetDefault("version", cfg.Version)
	v.SetDefault("development", cfg.Development)
	v.SetDefault("override_console", cfg.OverrideConsole)
	v.SetDefault("report_uncaught_exceptions", cfg.ReportUncaughtExceptions)
	v.SetDefault("report_rejected_promises", cfg.ReportRejectedPromises)
	v.SetDefault("rejections.delay", cfg.Rejections.Delay)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.console.enabled", cfg.Log.Console.Enabled)
	v.SetDefault("log.console.format", cfg.Log.Console.Format)
	v.SetDefault("log.console.color", cfg.Log.Console.Color)
	v.SetDefault("log.console.errors_to_stderr", cfg.Log.Console.ErrorsToStderr)
	v.SetDefault("log.file.enabled", cfg.Log.File.Enabled)
	v.SetDefault("log.file.path", cfg.Log.File.Path)
	v.SetDefault("log.file.max_size_mb", cfg.Log.File.MaxSizeMB)
	v.SetDefault("log.file.max_age_days", cfg.Log.File.MaxAgeDays)
	v.SetDefault("log.file.max_backups", cfg.Log.File.MaxBackups)
	v.SetDefault("log.file.compress", cfg.Log.File.Compress)

	otel := cfg.Sink.OTEL
	v.SetDefault("sink.kind", cfg.Sink.Kind)
	v.SetDefault("sink.otel.enabled", otel.Enabled)
	v.SetDefault("sink.otel.protocol", otel.Protocol)
	v.SetDefault("sink.otel.endpoint", otel.Endpoint)
	v.SetDefault("sink.otel.insecure", otel.Insecure)
	v.SetDefault("sink.otel.username", otel.Username)
	v.SetDefault("sink.otel.password", otel.Password)
	v.SetDefault("sink.otel.timeout", otel.Timeout)
	v.SetDefault("sink.otel.batch_size", otel.BatchSize)
	v.SetDefault("sink.otel.export_interval", otel.ExportInterval)
	v.SetDefault("sink.otel.traces", otel.Traces)
	v.SetDefault("sink.otel.sampler", otel.Sampler)
	v.SetDefault("sink.otel.metrics", otel.Metrics)
	v.SetDefault("sink.otel.metrics_interval", otel.MetricsInterval)
}
