package server

// Registry is the shared directory of authenticated, connected sessions.
// A session is present iff it is authenticated and its connection is
// live. The registry preserves registration order, which fixes both the
// /list output and broadcast delivery order.
//
// The registry is owned by the server event loop and is not safe for
// concurrent use.
type Registry struct {
	order  []*Session
	byName map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Session),
	}
}

// Register adds a session under its display name.
func (r *Registry) Register(sess *Session) {
	r.order = append(r.order, sess)
	r.byName[sess.name] = sess
}

// Unregister removes a session. Idempotent: removing a session that is
// not registered returns false and changes nothing, so a disconnect can
// never produce a second departure broadcast.
func (r *Registry) Unregister(sess *Session) bool {
	for i, s := range r.order {
		if s == sess {
			r.order = append(r.order[:i], r.order[i+1:]...)
			if r.byName[sess.name] == sess {
				delete(r.byName, sess.name)
			}
			return true
		}
	}
	return false
}

// Lookup finds a session by display name.
func (r *Registry) Lookup(name string) (*Session, bool) {
	sess, ok := r.byName[name]
	return sess, ok
}

// Snapshot returns the registered sessions in registration order.
func (r *Registry) Snapshot() []*Session {
	out := make([]*Session, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	return len(r.order)
}
