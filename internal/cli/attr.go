package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(attrCmd)
	attrCmd.AddCommand(attrSetCmd, attrRemoveCmd)
}

var attrCmd = &cobra.Command{
	Use:   "attr",
	Short: "Register or remove global attributes",
}

var attrSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Register global attributes with the sink",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parseAttrs(args)
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *session) {
			s.bridge.SetGlobalAttributes(attrs)
		})
	},
}

var attrRemoveCmd = &cobra.Command{
	Use:   "remove <key>...",
	Short: "Remove global attributes from the sink",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) {
			for _, k := range args {
				s.bridge.RemoveAttribute(k)
			}
		})
	},
}

func withSession(cmd *cobra.Command, fn func(*session)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cfg, newEnvironment(cmd, cfg))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close(context.Background()) }()
	fn(s)
	return nil
}
