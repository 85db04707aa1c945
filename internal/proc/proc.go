package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FS addresses one procfs mount. The zero value is not usable; call Default
// for the system mount. Tests point Root at a fabricated directory tree.
type FS struct {
	Root string
}

func Default() FS {
	return FS{Root: "/proc"}
}

func (fs FS) pidDir(pid int) string {
	return filepath.Join(fs.Root, strconv.Itoa(pid))
}

// StatusPath returns the status pseudo-file for pid.
func (fs FS) StatusPath(pid int) string {
	return filepath.Join(fs.pidDir(pid), "status")
}

// CwdPath returns the cwd symlink for pid. The path is handed to the kernel
// unresolved so that traversal happens in the target's mount namespace.
func (fs FS) CwdPath(pid int) string {
	return filepath.Join(fs.pidDir(pid), "cwd")
}

// RootPath returns the root-filesystem link for pid, the target's view of /
// regardless of mount namespaces.
func (fs FS) RootPath(pid int) string {
	return filepath.Join(fs.pidDir(pid), "root")
}

// RootReadable reports whether the target's root directory can be opened by
// the caller.
func (fs FS) RootReadable(pid int) bool {
	f, err := os.Open(fs.RootPath(pid))
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// NamespacePID resolves pid to its innermost pid-namespace id by scanning the
// NSpid field of the status file. The last whitespace-separated token on that
// line is the id the process perceives for itself, e.g. inside a container.
//
// A missing status file returns pid unchanged so that a bad pid fails later
// with a clearer diagnostic. A missing NSpid field (kernels before 4.1) also
// falls back to pid. A malformed status file or non-numeric token is an
// error; there is no retry.
func (fs FS) NamespacePID(pid int) (int, error) {
	path := fs.StatusPath(pid)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pid, nil
		}
		return 0, fmt.Errorf("proc: read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(raw), "\n") {
		name, rest, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) != "NSpid" {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return 0, fmt.Errorf("proc: empty NSpid field in %s", path)
		}
		nsPID, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return 0, fmt.Errorf("proc: malformed NSpid field in %s: %w", path, err)
		}
		return nsPID, nil
	}

	return pid, nil
}
