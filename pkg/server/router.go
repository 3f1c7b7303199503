package server

// Router fans a line out to registered sessions. Delivery order is the
// registry's registration order; there is no cross-sender ordering
// guarantee beyond the event loop processing one handler at a time.
type Router struct {
	reg *Registry
}

// NewRouter creates a router over a registry.
func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg}
}

// Send delivers a line to every registered session except exclude,
// skipping paused sessions. An empty room sends to all rooms; otherwise
// only sessions whose room matches receive the line. Writes are
// fire-and-forget.
func (rt *Router) Send(line string, exclude *Session, room string) {
	for _, sess := range rt.reg.Snapshot() {
		if sess == exclude {
			continue
		}
		if sess.paused {
			continue
		}
		if room != "" && sess.room != room {
			continue
		}
		sess.send(line)
	}
}
