package attach

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/attachctl/internal/proc"
)

// Config defines handshake and transport tunables for one attach attempt.
type Config struct {
	// Timeout is the total budget for the rendezvous handshake.
	Timeout time.Duration
	// DelayStep grows the poll delay by this much on each iteration.
	DelayStep time.Duration
	// TempDir is the well-known shared location for rendezvous artifacts.
	// It must be identical across every cooperating process on the host;
	// it is overridable for tests, not per-call tuning.
	TempDir string
	// ProcFS addresses the procfs mount used for namespace, cwd and root
	// lookups.
	ProcFS proc.FS
	// Platform supplies signal delivery, socket dialing and file metadata.
	Platform Platform
	// Logger receives handshake diagnostics. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the system-contract defaults. The timeout and step
// mirror what cooperating targets expect from the handshake.
func DefaultConfig() Config {
	return Config{
		Timeout:   10 * time.Second,
		DelayStep: 100 * time.Millisecond,
		TempDir:   "/tmp",
		ProcFS:    proc.Default(),
		Platform:  DefaultPlatform(),
		Logger:    zerolog.Nop(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.DelayStep <= 0 {
		c.DelayStep = d.DelayStep
	}
	if c.TempDir == "" {
		c.TempDir = d.TempDir
	}
	if c.ProcFS.Root == "" {
		c.ProcFS = d.ProcFS
	}
	if c.Platform == nil {
		c.Platform = d.Platform
	}
	return c
}
