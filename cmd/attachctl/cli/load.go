package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/attachctl/internal/attach"
)

var loadNative bool

var loadCmd = &cobra.Command{
	Use:   "load <pid> <agent> [options]",
	Short: "Load an agent into the target",
	Long: `Load an instrumentation agent jar into the target, or with
--native a native agent library. The agent path is resolved to an absolute
path on this side before being sent.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := filepath.Abs(args[1])
		if err != nil {
			return fmt.Errorf("resolve agent path: %w", err)
		}
		options := ""
		if len(args) == 3 {
			options = args[2]
		}
		return withSession(cmd, args[0], func(ctx context.Context, s *attach.Session) error {
			if loadNative {
				return s.LoadAgentLibrary(ctx, agent, true, options)
			}
			if err := s.LoadAgent(ctx, agent, options); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s into pid %s\n", filepath.Base(agent), strings.TrimSpace(args[0]))
			return nil
		})
	},
}

func init() {
	loadCmd.Flags().BoolVar(&loadNative, "native", false, "treat the agent as a native library instead of a jar")
	rootCmd.AddCommand(loadCmd)
}
