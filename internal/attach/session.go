package attach

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// State tracks the session lifecycle. Transitions are monotonic: a session
// never leaves Detached.
type State int

const (
	StateUnattached State = iota
	StateAttaching
	StateAttached
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateAttaching:
		return "attaching"
	case StateAttached:
		return "attached"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// loadCommand gets its own failure classification on the wire.
const loadCommand = "load"

// Session is one attached control channel to a target process. No file
// descriptor persists between commands: every Execute opens its own
// connection to the rendezvous socket, so concurrent commands share no
// connection state. The only cross-call shared state is the lifecycle flag,
// guarded by mu.
type Session struct {
	pid        int
	socketPath string
	cfg        Config
	log        zerolog.Logger

	mu    sync.Mutex
	state State
}

// Attach resolves pid to its innermost namespace, finds or establishes the
// rendezvous socket, validates its ownership, and probes reachability with a
// throwaway connection so a dead endpoint fails here rather than at the
// first command. On any failure the session is discarded; a retry starts
// from scratch with fresh state.
func Attach(ctx context.Context, pid int, cfg Config) (*Session, error) {
	if pid < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, pid)
	}
	cfg = cfg.withDefaults()

	s := &Session{
		pid:   pid,
		cfg:   cfg,
		log:   cfg.Logger.With().Int("pid", pid).Logger(),
		state: StateAttaching,
	}

	nsPID, err := cfg.ProcFS.NamespacePID(pid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNamespaceResolution, err)
	}
	if nsPID != pid {
		s.log.Debug().Int("nspid", nsPID).Msg("cross-namespace attach")
	}

	loc := &locator{pid: pid, nsPID: nsPID, cfg: cfg, log: s.log}
	socketPath, err := loc.locate(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateSocket(cfg.Platform, socketPath); err != nil {
		return nil, err
	}

	conn, err := cfg.Platform.Dial(ctx, socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectFailed, socketPath, err)
	}
	conn.Close()

	s.socketPath = socketPath
	s.mu.Lock()
	s.state = StateAttached
	s.mu.Unlock()
	s.log.Debug().Str("socket", socketPath).Msg("attached")
	return s, nil
}

// Execute runs one command against the target over a fresh connection. At
// most three arguments are accepted and none may contain a NUL byte. On
// status 0 the returned stream carries the command output and must be closed
// by the caller; nonzero statuses are classified and returned as errors.
func (s *Session) Execute(ctx context.Context, command string, args ...string) (*ResponseStream, error) {
	if err := validateCommand(command, args); err != nil {
		return nil, err
	}

	s.mu.Lock()
	attached := s.state == StateAttached
	s.mu.Unlock()
	if !attached {
		return nil, ErrDetached
	}

	conn, err := s.cfg.Platform.Dial(ctx, s.socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectFailed, s.socketPath, err)
	}

	if err := writeRequest(conn, command, args); err != nil {
		conn.Close()
		return nil, err
	}

	stream := newResponseStream(conn)
	status, err := readCompletionStatus(stream)
	if err != nil {
		stream.Close()
		return nil, err
	}
	if status == 0 {
		return stream, nil
	}

	raw, readErr := io.ReadAll(stream)
	stream.Close()
	if readErr != nil {
		s.log.Debug().Err(readErr).Msg("partial error message from target")
	}
	message := strings.TrimSpace(string(raw))

	switch {
	case status == statusBadVersion:
		return nil, fmt.Errorf("%w: status %d", ErrProtocolMismatch, status)
	case command == loadCommand:
		if message != "" {
			return nil, fmt.Errorf("%w: %s", ErrAgentLoadFailed, message)
		}
		return nil, ErrAgentLoadFailed
	default:
		if message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrCommandFailed, status, message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrCommandFailed, status)
	}
}

// Detach marks the session detached. This is purely local bookkeeping: the
// target keeps its listener and no message is sent. Repeated calls are
// no-ops.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDetached {
		s.state = StateDetached
		s.log.Debug().Msg("detached")
	}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PID returns the raw (caller-perspective) target pid.
func (s *Session) PID() int {
	return s.pid
}

// SocketPath returns the validated rendezvous socket path.
func (s *Session) SocketPath() string {
	return s.socketPath
}
