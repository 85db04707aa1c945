package attach

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/danmuck/attachctl/internal/testutil/testlog"
)

func TestStreamReadsUntilPeerClose(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	stream := newResponseStream(client)
	defer stream.Close()

	go func() {
		server.Write([]byte("abc"))
		server.Close()
	}()

	body, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != "abc" {
		t.Fatalf("body got=%q", body)
	}
}

func TestStreamCloseIdempotent(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	defer server.Close()
	stream := newResponseStream(client)

	if err := stream.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	buf := make([]byte, 8)
	n, err := stream.Read(buf)
	if n != 0 || err != io.EOF {
		t.Fatalf("read after close: n=%d err=%v", n, err)
	}
}

func TestStreamCloseDuringBlockedRead(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	defer server.Close()
	stream := newResponseStream(client)

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		buf := make([]byte, 8)
		n, err := stream.Read(buf)
		done <- result{n, err}
	}()

	// Let the read block on the empty pipe before closing under it.
	time.Sleep(20 * time.Millisecond)
	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case res := <-done:
		if res.err != io.EOF {
			t.Fatalf("read unblocked with n=%d err=%v, want EOF", res.n, res.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("read did not unblock after close")
	}
}
