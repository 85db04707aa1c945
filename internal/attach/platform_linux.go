//go:build linux

package attach

import (
	"context"
	"fmt"
	"io/fs"
	"net"

	"golang.org/x/sys/unix"
)

// unixPlatform is the real syscall binding.
type unixPlatform struct{}

func DefaultPlatform() Platform {
	return unixPlatform{}
}

// SignalAttach delivers SIGQUIT, the conventional request for the target to
// bring up its attach listener.
func (unixPlatform) SignalAttach(pid int) error {
	if err := unix.Kill(pid, unix.SIGQUIT); err != nil {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}

func (unixPlatform) Dial(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

func (unixPlatform) Stat(path string) (FileStat, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileStat{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return FileStat{
		UID:  st.Uid,
		Mode: fs.FileMode(st.Mode) & fs.ModePerm,
	}, nil
}

func (unixPlatform) EUID() int {
	return unix.Geteuid()
}
