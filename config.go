package ionbridge

import "github.com/JupiterMetaLabs/ionbridge/internal/config"

// Config holds the complete bridge configuration.
type Config = config.Config

type (
	RejectionConfig = config.RejectionConfig
	LogConfig       = config.LogConfig
	ConsoleConfig   = config.ConsoleConfig
	FileConfig      = config.FileConfig
	SinkConfig      = config.SinkConfig
	OTELConfig      = config.OTELConfig
)

// Sink kinds.
const (
	SinkLog  = config.SinkLog
	SinkOTEL = config.SinkOTEL
	SinkBoth = config.SinkBoth
	SinkNone = config.SinkNone
)

// Default returns a Config with production defaults and every hook disabled.
func Default() Config {
	return config.Default()
}

// Development returns a Config for development builds.
func Development() Config {
	return config.Development()
}

// LoadConfig reads a YAML file and IONBRIDGE_* environment overrides.
// See config.Load.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}
