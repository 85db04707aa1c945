package attach

import "fmt"

// groupOtherRW are the permission bits that would let another user open or
// replace the socket.
const groupOtherRW = 0o066

// validateSocket authenticates a discovered socket before any connection is
// attempted: the file must belong to the effective user and carry no
// group/other read or write bits. A socket planted at the predictable path
// by another user fails here instead of being connected to.
func validateSocket(p Platform, path string) error {
	st, err := p.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	euid := p.EUID()
	if int(st.UID) != euid {
		return fmt.Errorf("%w: %s owned by uid %d, effective uid is %d",
			ErrPermissionDenied, path, st.UID, euid)
	}
	if st.Mode&groupOtherRW != 0 {
		return fmt.Errorf("%w: %s is accessible by group/other (mode %#o)",
			ErrPermissionDenied, path, st.Mode)
	}
	return nil
}
