package attach

import (
	"io"
	"net"
	"sync"
)

// ResponseStream is the lazy byte sequence carrying one command's reply
// body. It owns the underlying connection: Read blocks until data arrives or
// the peer closes its side, and Close releases the connection exactly once.
// Close is safe to call while a Read is blocked; the read then observes end
// of stream rather than an undefined state.
type ResponseStream struct {
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

var _ io.ReadCloser = (*ResponseStream)(nil)

func newResponseStream(conn net.Conn) *ResponseStream {
	return &ResponseStream{conn: conn}
}

func (s *ResponseStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, io.EOF
	}

	n, err := s.conn.Read(p)
	if err != nil && err != io.EOF {
		// A close racing the read surfaces as a connection error; report
		// end of stream instead once Close has run.
		s.mu.Lock()
		closed = s.closed
		s.mu.Unlock()
		if closed {
			return n, io.EOF
		}
	}
	return n, err
}

func (s *ResponseStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
