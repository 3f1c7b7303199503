package server

import "testing"

func TestTypingBurstEmitsSingleNotice(t *testing.T) {
	s := newTestServer(t)
	alice, _ := connectUser(t, s, "alice")
	_, bobConn := connectUser(t, s, "bob")
	bobConn.reset()

	for i := 0; i < 5; i++ {
		s.handleLine(alice, "rapid fire")
	}

	if got := bobConn.count("alice is typing..."); got != 1 {
		t.Fatalf("burst should emit one notice, got %d: %v", got, bobConn.lines())
	}
}

func TestTypingNoticeResumesAfterIdleWindow(t *testing.T) {
	s := newTestServer(t)
	alice, _ := connectUser(t, s, "alice")
	_, bobConn := connectUser(t, s, "bob")
	bobConn.reset()

	s.handleLine(alice, "one")
	alice.typingTimer.Stop()
	s.handleTypingExpired(alice) // timer firing in the loop
	s.handleLine(alice, "two")

	if got := bobConn.count("alice is typing..."); got != 2 {
		t.Fatalf("expected a fresh notice after the idle window, got %d: %v", got, bobConn.lines())
	}
}

func TestTypingNoticeIsRoomScopedAndExcludesSender(t *testing.T) {
	s := newTestServer(t)
	alice, aliceConn := connectUser(t, s, "alice")
	_, bobConn := connectUser(t, s, "bob")
	carol, carolConn := connectUser(t, s, "carol")
	s.handleLine(carol, "/room rust")
	aliceConn.reset()
	bobConn.reset()
	carolConn.reset()

	s.handleLine(alice, "hi room")

	if !bobConn.contains("alice is typing...") {
		t.Fatalf("same-room peer missed notice: %v", bobConn.lines())
	}
	if aliceConn.contains("alice is typing...") {
		t.Fatalf("sender must not see own notice: %v", aliceConn.lines())
	}
	if carolConn.contains("alice is typing...") {
		t.Fatalf("other-room session must not see notice: %v", carolConn.lines())
	}
}

func TestTypingCancelledSilentlyAtDisconnect(t *testing.T) {
	s := newTestServer(t)
	alice, _ := connectUser(t, s, "alice")
	_, bobConn := connectUser(t, s, "bob")

	s.handleLine(alice, "hello")
	bobConn.reset()

	s.teardown(alice)
	s.handleTypingExpired(alice) // late timer fire after close is a no-op

	if bobConn.contains("is typing") {
		t.Fatalf("teardown must not emit typing output: %v", bobConn.lines())
	}
	if alice.typingActive {
		t.Fatalf("typing state must be cleared at teardown")
	}
}

func TestTypingCancelledAtLogout(t *testing.T) {
	s := newTestServer(t)
	alice, _ := connectUser(t, s, "alice")
	_, bobConn := connectUser(t, s, "bob")

	s.handleLine(alice, "hello")
	s.handleLine(alice, "/logout")
	bobConn.reset()

	s.handleTypingExpired(alice)
	if alice.typingActive {
		t.Fatalf("typing state must be cleared at logout")
	}
	if bobConn.contains("is typing") {
		t.Fatalf("logout must not emit typing output: %v", bobConn.lines())
	}
}
