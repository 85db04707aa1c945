package attach

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	socketPrefix  = ".java_pid"
	triggerPrefix = ".attach_pid"
)

// locator discovers or establishes the rendezvous socket for one attach
// attempt. State is fresh per attempt and discarded afterwards.
type locator struct {
	pid   int
	nsPID int
	cfg   Config
	log   zerolog.Logger
}

// locate returns the rendezvous socket path, running the trigger-file
// handshake when the socket does not already exist. A pre-existing socket
// short-circuits: no trigger file is created and no signal delivered.
func (l *locator) locate(ctx context.Context) (string, error) {
	root, err := l.sharedRoot()
	if err != nil {
		return "", err
	}
	socketPath := filepath.Join(root, socketPrefix+strconv.Itoa(l.nsPID))
	if fileExists(socketPath) {
		l.log.Debug().Str("socket", socketPath).Msg("rendezvous already established")
		return socketPath, nil
	}
	if err := l.handshake(ctx, root, socketPath); err != nil {
		return "", err
	}
	return socketPath, nil
}

// sharedRoot resolves the directory both sides agree to rendezvous under.
// For a cross-namespace attach the target may sit in another mount
// namespace, so its temp directory is addressed through the procfs root
// link; that link must be readable by the caller.
func (l *locator) sharedRoot() (string, error) {
	if l.pid == l.nsPID {
		return l.cfg.TempDir, nil
	}
	rootDir := l.cfg.ProcFS.RootPath(l.pid)
	if !l.cfg.ProcFS.RootReadable(l.pid) {
		return "", fmt.Errorf("%w: %s (pid %d)", ErrRootUnreadable, rootDir, l.pid)
	}
	return filepath.Join(rootDir, l.cfg.TempDir), nil
}

// handshake creates the trigger marker, signals the target and polls for the
// socket with an increasing delay. The marker is removed on every exit path.
func (l *locator) handshake(ctx context.Context, root, socketPath string) error {
	trigger, err := l.createTrigger(root)
	if err != nil {
		return err
	}
	defer func() {
		// Best effort; never masks the primary failure.
		if rmErr := os.Remove(trigger); rmErr != nil && !os.IsNotExist(rmErr) {
			l.log.Debug().Err(rmErr).Str("trigger", trigger).Msg("trigger cleanup failed")
		}
	}()

	if err := l.cfg.Platform.SignalAttach(l.pid); err != nil {
		return fmt.Errorf("%w: pid %d: %v", ErrInvalidTarget, l.pid, err)
	}

	var (
		delay      time.Duration
		elapsed    time.Duration
		resignaled bool
	)
	for {
		// Grow the step each iteration to stay responsive early without
		// busy-polling late.
		delay += l.cfg.DelayStep
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
		elapsed += delay

		if fileExists(socketPath) {
			l.log.Debug().Str("socket", socketPath).Dur("elapsed", elapsed).Msg("rendezvous socket appeared")
			return nil
		}
		if elapsed > l.cfg.Timeout/2 && !resignaled {
			// One more chance in case the first signal was missed.
			resignaled = true
			if err := l.cfg.Platform.SignalAttach(l.pid); err != nil {
				l.log.Debug().Err(err).Msg("re-signal failed")
			}
		}
		if elapsed > l.cfg.Timeout {
			return fmt.Errorf("%w: %s: pid %d did not respond within %v",
				ErrRendezvousTimeout, socketPath, l.pid, elapsed)
		}
	}
}

// createTrigger writes the marker file the target's signal handler checks
// for, preferring the target's working directory and falling back to the
// shared root. The live path is deliberately not canonicalized before
// creation: resolving it can fail when attaching across mount namespaces.
// The returned path is canonicalized when possible so the marker can still
// be deleted after the target exits and its procfs links disappear.
func (l *locator) createTrigger(root string) (string, error) {
	name := triggerPrefix + strconv.Itoa(l.nsPID)
	path := filepath.Join(l.cfg.ProcFS.CwdPath(l.pid), name)
	if err := touch(path); err != nil {
		fallback := filepath.Join(root, name)
		if err := touch(fallback); err != nil {
			return "", fmt.Errorf("attach: create trigger file: %w", err)
		}
		path = fallback
	}
	if canonical, err := filepath.EvalSymlinks(path); err == nil {
		path = canonical
	}
	return path, nil
}

func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// sleepCtx blocks for d, honoring the caller's cancellation check on every
// polling iteration.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
