package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/attachctl/internal/attach"
)

var propertiesCmd = &cobra.Command{
	Use:   "properties <pid>",
	Short: "Print the target's system properties",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, args[0], func(ctx context.Context, s *attach.Session) error {
			stream, err := s.Properties(ctx)
			if err != nil {
				return err
			}
			return drainTo(cmd.OutOrStdout(), stream)
		})
	},
}

var threaddumpCmd = &cobra.Command{
	Use:   "threaddump <pid> [option ...]",
	Short: "Print a thread dump of the target",
	Long: `Print a thread dump of the target, equivalent to sending it a
SIGQUIT with the output redirected to this terminal. Up to three option
flags (for example -l) are forwarded verbatim.`,
	Args: cobra.RangeArgs(1, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, args[0], func(ctx context.Context, s *attach.Session) error {
			stream, err := s.ThreadDump(ctx, args[1:]...)
			if err != nil {
				return err
			}
			return drainTo(cmd.OutOrStdout(), stream)
		})
	},
}

var datadumpCmd = &cobra.Command{
	Use:   "datadump <pid>",
	Short: "Ask the target to print its heap and thread summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, args[0], func(ctx context.Context, s *attach.Session) error {
			stream, err := s.DataDump(ctx)
			if err != nil {
				return err
			}
			return drainTo(cmd.OutOrStdout(), stream)
		})
	},
}

var jcmdCmd = &cobra.Command{
	Use:   "jcmd <pid> <command ...>",
	Short: "Forward one diagnostic command line to the target",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		commandLine := strings.Join(args[1:], " ")
		return withSession(cmd, args[0], func(ctx context.Context, s *attach.Session) error {
			stream, err := s.JCmd(ctx, commandLine)
			if err != nil {
				return err
			}
			return drainTo(cmd.OutOrStdout(), stream)
		})
	},
}

func init() {
	rootCmd.AddCommand(propertiesCmd, threaddumpCmd, datadumpCmd, jcmdCmd)
}
