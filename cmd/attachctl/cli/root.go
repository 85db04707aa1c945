// Package cli implements the attachctl command-line interface.
//
// Ownership boundary:
// - command tree and flag surface
// - config file overlay onto attach defaults
// - session lifecycle around one command invocation
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/attachctl/internal/attach"
	"github.com/danmuck/attachctl/internal/logging"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "attachctl",
	Short: "Attach to a running JVM and issue diagnostic commands",
	Long: `attachctl locates a running JVM by pid, performs the attach
handshake against it, and issues diagnostic commands over the resulting
control channel. No prior setup is needed in the target process.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.ConfigureRuntime()
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

// Execute runs the root command with interrupt-driven cancellation so a
// stuck handshake can be abandoned with Ctrl+C.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func parsePID(raw string) (int, error) {
	pid, err := strconv.Atoi(raw)
	if err != nil || pid < 1 {
		return 0, fmt.Errorf("invalid target pid %q", raw)
	}
	return pid, nil
}

// withSession attaches to pid for the duration of fn and always detaches.
func withSession(cmd *cobra.Command, pidArg string, fn func(ctx context.Context, s *attach.Session) error) error {
	pid, err := parsePID(pidArg)
	if err != nil {
		return err
	}
	cfg, err := loadAttachConfig(configPath)
	if err != nil {
		return err
	}
	cfg.Logger = log.Logger

	ctx := cmd.Context()
	s, err := attach.Attach(ctx, pid, cfg)
	if err != nil {
		return err
	}
	defer s.Detach()
	log.Debug().Int("pid", pid).Str("socket", s.SocketPath()).Msg("session open")
	return fn(ctx, s)
}

// drainTo copies one command's reply body to w and closes the stream.
func drainTo(w io.Writer, stream *attach.ResponseStream) error {
	defer stream.Close()
	_, err := io.Copy(w, stream)
	return err
}
