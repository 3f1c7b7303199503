package server

import (
	"fmt"
	"net"
	"time"
)

// loginStage tracks where a connection is in the login state machine.
type loginStage int

const (
	stageAccountChoice    loginStage = iota // waiting for yes/no
	stageLoginUsername                      // waiting for existing username
	stageLoginPassword                      // waiting for password
	stageRegisterUsername                   // waiting for new username
	stageRegisterPassword                   // waiting for new password
	stageReady                              // authenticated; lines dispatch as commands
)

// Session holds one connection's login state and chat attributes. It is
// created on accept and destroyed on disconnect; /logout resets it to
// the start of the login machine without dropping the connection.
//
// All fields are owned by the server event loop.
type Session struct {
	conn net.Conn

	stage       loginStage
	pendingName string // username captured mid-login, discarded on failure
	name        string // display name once authenticated
	room        string
	paused      bool

	registered bool // currently in the registry
	closed     bool // teardown has run

	// Typing-indicator debounce: at most one outstanding timer.
	typingActive bool
	typingTimer  *time.Timer
}

func newSession(conn net.Conn) *Session {
	return &Session{
		conn:  conn,
		stage: stageAccountChoice,
		room:  DefaultRoom,
	}
}

// send writes one line to the client. Writes are fire-and-forget: a
// failed or slow consumer is detected by its reader, not here.
func (sess *Session) send(line string) {
	_, _ = fmt.Fprintf(sess.conn, "%s\n", line)
}

// sendf formats and sends one line.
func (sess *Session) sendf(format string, args ...any) {
	sess.send(fmt.Sprintf(format, args...))
}

// sendRaw writes bytes without a trailing newline, for control sequences.
func (sess *Session) sendRaw(data string) {
	_, _ = sess.conn.Write([]byte(data))
}
