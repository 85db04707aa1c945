package attach

import "errors"

var (
	ErrInvalidTarget       = errors.New("attach: invalid target process id")
	ErrNamespaceResolution = errors.New("attach: unable to resolve pid namespace")
	ErrRootUnreadable      = errors.New("attach: target root directory not readable")
	ErrRendezvousTimeout   = errors.New("attach: target did not open control socket")
	ErrPermissionDenied    = errors.New("attach: control socket failed ownership check")
	ErrConnectFailed       = errors.New("attach: unable to connect to control socket")
	ErrProtocolMismatch    = errors.New("attach: protocol mismatch with target")
	ErrCommandFailed       = errors.New("attach: command failed in target process")
	ErrAgentLoadFailed     = errors.New("attach: failed to load agent library")
	ErrDetached            = errors.New("attach: detached from target")
	ErrMalformedArgs       = errors.New("attach: malformed command arguments")
)
