package server

// The core runs as a single event loop: connection readers and typing
// timers post events into the server inbox, and exactly one handler runs
// to completion at a time. Registry, history rings, and session state are
// only touched from that loop, so they need no locks.

type event interface{ isEvent() }

// connOpened is posted when a new connection is accepted.
type connOpened struct{ sess *Session }

// lineReceived is posted for each inbound line from a connection.
type lineReceived struct {
	sess *Session
	text string
}

// connClosed is posted exactly once when a connection's reader stops,
// whether from a clean disconnect, a transport error, or a forced close.
type connClosed struct{ sess *Session }

// typingExpired is posted by a session's typing timer when its debounce
// window elapses.
type typingExpired struct{ sess *Session }

func (connOpened) isEvent()    {}
func (lineReceived) isEvent()  {}
func (connClosed) isEvent()    {}
func (typingExpired) isEvent() {}
