package attach

import (
	"bufio"
	"context"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/attachctl/internal/proc"
)

// fakePlatform records signal and dial activity. Dial defaults to a real
// unix-socket connect so tests can run an in-process listener; Stat defaults
// to an owner-only file belonging to the effective user.
type fakePlatform struct {
	mu        sync.Mutex
	signals   []int
	dials     int
	signalErr error
	onSignal  func(count int)
	dialFn    func(ctx context.Context, path string) (net.Conn, error)
	statFn    func(path string) (FileStat, error)
	euid      int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{euid: os.Geteuid()}
}

func (f *fakePlatform) SignalAttach(pid int) error {
	f.mu.Lock()
	f.signals = append(f.signals, pid)
	count := len(f.signals)
	cb := f.onSignal
	err := f.signalErr
	f.mu.Unlock()
	if cb != nil {
		cb(count)
	}
	return err
}

func (f *fakePlatform) Dial(ctx context.Context, path string) (net.Conn, error) {
	f.mu.Lock()
	f.dials++
	fn := f.dialFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, path)
	}
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

func (f *fakePlatform) Stat(path string) (FileStat, error) {
	f.mu.Lock()
	fn := f.statFn
	f.mu.Unlock()
	if fn != nil {
		return fn(path)
	}
	return FileStat{UID: uint32(f.euid), Mode: 0o600}, nil
}

func (f *fakePlatform) EUID() int {
	return f.euid
}

func (f *fakePlatform) signalCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signals)
}

func (f *fakePlatform) dialCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

func testConfig(t *testing.T, p Platform) Config {
	t.Helper()
	return Config{
		Timeout:   500 * time.Millisecond,
		DelayStep: 5 * time.Millisecond,
		TempDir:   t.TempDir(),
		ProcFS:    proc.FS{Root: t.TempDir()},
		Platform:  p,
		Logger:    zerolog.Nop(),
	}
}

// fakeTarget is an in-process stand-in for the target's attach listener.
// respond maps one decoded request (5 fields) to raw response bytes.
type fakeTarget struct {
	ln      net.Listener
	respond func(fields []string) []byte

	mu       sync.Mutex
	accepted int
	requests [][]string
}

func startFakeTarget(t *testing.T, socketPath string, respond func(fields []string) []byte) *fakeTarget {
	t.Helper()
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen %s: %v", socketPath, err)
	}
	ft := &fakeTarget{ln: ln, respond: respond}
	go ft.loop()
	t.Cleanup(func() { ln.Close() })
	return ft
}

func (ft *fakeTarget) loop() {
	for {
		conn, err := ft.ln.Accept()
		if err != nil {
			return
		}
		ft.mu.Lock()
		ft.accepted++
		ft.mu.Unlock()
		go ft.serve(conn)
	}
}

func (ft *fakeTarget) serve(conn net.Conn) {
	defer conn.Close()
	fields, err := readRequestFields(conn)
	if err != nil {
		// Reachability probes connect and close without writing.
		return
	}
	ft.mu.Lock()
	ft.requests = append(ft.requests, fields)
	respond := ft.respond
	ft.mu.Unlock()
	if respond != nil {
		conn.Write(respond(fields))
	}
}

func readRequestFields(conn net.Conn) ([]string, error) {
	r := bufio.NewReader(conn)
	fields := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		raw, err := r.ReadString(0)
		if err != nil {
			return nil, err
		}
		fields = append(fields, strings.TrimSuffix(raw, "\x00"))
	}
	return fields, nil
}

// waitFor polls cond until it holds or the deadline passes. Accept counts
// lag behind successful dials, so assertions on them go through here.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func (ft *fakeTarget) acceptCount() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.accepted
}

func (ft *fakeTarget) request(i int) []string {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if i >= len(ft.requests) {
		return nil
	}
	return ft.requests[i]
}
