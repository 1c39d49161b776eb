// Package cli implements the ionbridge command line.
package cli

import (
	"fmt"
	"os"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "ionbridge",
	Short: "Forward console output, crashes and custom events to a telemetry sink",
	Long: "ionbridge sends events and attributes through the configured sink\n" +
		"(zap log, OpenTelemetry, or both) and can supervise a child process,\n" +
		"forwarding its output and failures.\n\n" +
		"Configuration is read from ionbridge.yaml (or --config) and\n" +
		"IONBRIDGE_* environment variables.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to config YAML (default ./ionbridge.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (ionbridge.Config, error) {
	cfg, err := ionbridge.LoadConfig(cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
