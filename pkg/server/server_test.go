package server

import (
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NicolasHaas/linechat/pkg/store"
)

// recordConn is a net.Conn that records everything written to it.
type recordConn struct {
	mu     sync.Mutex
	data   strings.Builder
	closed bool
}

func (c *recordConn) Read(_ []byte) (int, error) { return 0, io.EOF }

func (c *recordConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Write(p)
	return len(p), nil
}

func (c *recordConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordConn) LocalAddr() net.Addr                { return &net.IPAddr{} }
func (c *recordConn) RemoteAddr() net.Addr               { return &net.IPAddr{} }
func (c *recordConn) SetDeadline(_ time.Time) error      { return nil }
func (c *recordConn) SetReadDeadline(_ time.Time) error  { return nil }
func (c *recordConn) SetWriteDeadline(_ time.Time) error { return nil }

func (c *recordConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// lines returns the complete lines written so far.
func (c *recordConn) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	text := strings.TrimRight(c.data.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// reset discards recorded output.
func (c *recordConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Reset()
}

func (c *recordConn) contains(substr string) bool {
	for _, l := range c.lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func (c *recordConn) count(substr string) int {
	n := 0
	for _, l := range c.lines() {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TypingIdle = 50 * time.Millisecond
	return New(cfg, Dependencies{Store: store.NewMemory()})
}

// openConn simulates an accepted connection without a reader goroutine.
func openConn(s *Server) (*Session, *recordConn) {
	conn := &recordConn{}
	sess := newSession(conn)
	s.handleOpen(sess)
	return sess, conn
}

// registerUser drives the login machine through the registration flow.
func registerUser(t *testing.T, s *Server, sess *Session, conn *recordConn, name, password string) {
	t.Helper()
	s.handleLine(sess, "no")
	s.handleLine(sess, name)
	s.handleLine(sess, password)
	if sess.stage != stageReady {
		t.Fatalf("registration of %q did not reach authenticated state: %v", name, conn.lines())
	}
	conn.reset()
}

// connectUser registers a fresh connection under name and clears its output.
func connectUser(t *testing.T, s *Server, name string) (*Session, *recordConn) {
	t.Helper()
	sess, conn := openConn(s)
	registerUser(t, s, sess, conn, name, "pw-"+name)
	return sess, conn
}
