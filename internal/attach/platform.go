package attach

import (
	"context"
	"io/fs"
	"net"
)

// Platform abstracts the OS facilities the handshake and control channel
// depend on, so the protocol logic can be exercised against a fake.
type Platform interface {
	// SignalAttach asks pid to start its attach listener.
	SignalAttach(pid int) error
	// Dial opens a byte-stream connection to the control socket at path.
	Dial(ctx context.Context, path string) (net.Conn, error)
	// Stat returns ownership and permission bits for path.
	Stat(path string) (FileStat, error)
	// EUID returns the caller's effective user id.
	EUID() int
}

// FileStat is the subset of file metadata the socket validation needs.
type FileStat struct {
	UID  uint32
	Mode fs.FileMode
}
