package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danmuck/attachctl/internal/discovery"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attachable JVM processes on this host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := discovery.FindTargets(cmd.Context())
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no JVM processes found")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PID\tUSER\tNAME\tCMDLINE")
		for _, t := range targets {
			cmdline := t.Cmdline
			if len(cmdline) > 96 {
				cmdline = cmdline[:93] + "..."
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.PID, t.User, t.Name, cmdline)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
