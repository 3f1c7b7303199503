package server

import "time"

// noteTyping implements the typing-indicator debounce. The first line of
// an idle-free burst broadcasts a notice to the session's current room
// and arms a one-shot timer; further lines restart the timer without a
// new notice. The notice resumes only after the window elapses with no
// input.
func (s *Server) noteTyping(sess *Session) {
	if sess.typingActive {
		sess.typingTimer.Reset(s.cfg.TypingIdle)
		return
	}
	sess.typingActive = true
	s.router.Send(sess.name+" is typing...", sess, sess.room)
	sess.typingTimer = time.AfterFunc(s.cfg.TypingIdle, func() {
		s.post(typingExpired{sess})
	})
}

// handleTypingExpired clears the outstanding-timer flag so the next line
// emits a fresh notice.
func (s *Server) handleTypingExpired(sess *Session) {
	if sess.closed {
		return
	}
	sess.typingActive = false
}

// cancelTyping stops any pending typing timer with no notice emitted.
// Called at disconnect and logout.
func (s *Server) cancelTyping(sess *Session) {
	if sess.typingTimer != nil {
		sess.typingTimer.Stop()
	}
	sess.typingActive = false
}
