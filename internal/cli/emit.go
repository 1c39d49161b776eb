package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/spf13/cobra"
)

var (
	emitCustomType string
	emitNative     bool
)

func init() {
	rootCmd.AddCommand(emitCmd)
	emitCmd.Flags().StringVarP(&emitCustomType, "type", "t", "", "Record a custom event of this event type instead of a plain event")
	emitCmd.Flags().BoolVar(&emitNative, "native", false, "Write the arguments as one native log message")
}

var emitCmd = &cobra.Command{
	Use:   "emit <name> [key=value...]",
	Short: "Send one event through the configured sink",
	Long: "Sends an event named <name> with the given attributes.\n\n" +
		"With --type the event is recorded as a custom event of that type.\n" +
		"With --native the arguments are joined and written to the native log.",
	Args: cobra.MinimumNArgs(1),
	RunE: runEmit,
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openSession(cfg, newEnvironment(cmd, cfg))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close(context.Background()) }()

	if emitNative {
		s.bridge.NativeLog(strings.Join(args, " "))
		return nil
	}

	attrs, err := parseAttrs(args[1:])
	if err != nil {
		return err
	}
	if emitCustomType != "" {
		s.bridge.RecordCustomEvent(emitCustomType, args[0], attrs)
		return nil
	}
	s.bridge.Send(args[0], attrs)
	return nil
}

// parseAttrs parses key=value arguments. A later key wins.
func parseAttrs(args []string) (map[string]any, error) {
	attrs := make(map[string]any, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid attribute %q: want key=value", arg)
		}
		attrs[k] = v
	}
	return attrs, nil
}

func newEnvironment(cmd *cobra.Command, cfg ionbridge.Config) *ionbridge.Environment {
	env := ionbridge.NewEnvironment(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Rejections.Delay)
	env.Development = cfg.Development
	return env
}
