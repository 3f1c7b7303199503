package server

import "testing"

func TestRouterSkipsExcludedAndPaused(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	sender := &Session{name: "alice", room: "general", conn: &recordConn{}}
	peer := &Session{name: "bob", room: "general", conn: &recordConn{}}
	idle := &Session{name: "carol", room: "general", paused: true, conn: &recordConn{}}
	for _, sess := range []*Session{sender, peer, idle} {
		reg.Register(sess)
	}

	rt.Send("alice: hi", sender, "")

	if sender.conn.(*recordConn).contains("alice: hi") {
		t.Fatalf("excluded sender must not receive")
	}
	if !peer.conn.(*recordConn).contains("alice: hi") {
		t.Fatalf("peer should receive")
	}
	if idle.conn.(*recordConn).contains("alice: hi") {
		t.Fatalf("paused session must not receive")
	}
}

func TestRouterRoomScoping(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	a := &Session{name: "alice", room: "go", conn: &recordConn{}}
	b := &Session{name: "bob", room: "go", conn: &recordConn{}}
	c := &Session{name: "carol", room: "rust", conn: &recordConn{}}
	for _, sess := range []*Session{a, b, c} {
		reg.Register(sess)
	}

	rt.Send("scoped", a, "go")
	if !b.conn.(*recordConn).contains("scoped") {
		t.Fatalf("same-room peer should receive")
	}
	if c.conn.(*recordConn).contains("scoped") {
		t.Fatalf("other-room session must not receive")
	}

	// Empty room reaches every room.
	rt.Send("global", nil, "")
	if !c.conn.(*recordConn).contains("global") {
		t.Fatalf("global send should reach all rooms")
	}
}

func TestRouterDeliversInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	var order []string
	mk := func(name string) *Session {
		sess := &Session{name: name, room: "general", conn: &orderConn{name: name, order: &order}}
		reg.Register(sess)
		return sess
	}
	mk("a")
	mk("b")
	mk("c")

	rt.Send("x", nil, "")
	want := []string{"a", "b", "c"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("delivery order = %v, want %v", order, want)
		}
	}
}

// orderConn records the order in which sessions received a write.
type orderConn struct {
	recordConn
	name  string
	order *[]string
}

func (c *orderConn) Write(p []byte) (int, error) {
	*c.order = append(*c.order, c.name)
	return c.recordConn.Write(p)
}
