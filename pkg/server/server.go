// Package server implements the linechat server core: the connection
// session state machine, the session registry and broadcast router,
// per-user message history, moderation, and typing-indicator debouncing.
package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/NicolasHaas/linechat/pkg/eventlog"
	"github.com/NicolasHaas/linechat/pkg/store"
)

// maxLineBytes bounds a single inbound line.
const maxLineBytes = 64 * 1024

// Dependencies holds external collaborators for the server.
// Server assumes ownership of Store and Events and closes them on shutdown.
type Dependencies struct {
	Store  store.DataStore
	Events *eventlog.Log // may be nil (event log disabled)
}

// Server is the linechat server.
type Server struct {
	cfg      Config
	store    store.DataStore
	events   *eventlog.Log
	registry *Registry
	router   *Router
	history  *HistoryBook
	metrics  *Metrics

	inbox chan event
	ln    net.Listener

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Server instance.
func New(cfg Config, deps Dependencies) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	registry := NewRegistry()
	return &Server{
		cfg:      cfg,
		store:    deps.Store,
		events:   deps.Events,
		registry: registry,
		router:   NewRouter(registry),
		history:  NewHistoryBook(cfg.HistorySize),
		metrics:  NewMetrics(),
		inbox:    make(chan event, 256),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Metrics returns the server metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start opens the listener and starts the accept and event loops.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.ln = ln
	slog.Info("chat server listening", "addr", s.cfg.Addr)

	go s.loop()
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				slog.Error("accept error", "err", err)
				continue
			}
		}
		sess := newSession(conn)
		s.post(connOpened{sess})
		go s.readLoop(sess)
	}
}

// readLoop reads lines from one connection and posts them to the event
// loop. It posts connClosed exactly once, on EOF, transport error, or a
// forced close from a kick/ban.
func (s *Server) readLoop(sess *Session) {
	sc := bufio.NewScanner(sess.conn)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for sc.Scan() {
		s.post(lineReceived{sess: sess, text: sc.Text()})
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		slog.Debug("connection read error", "remote", sess.conn.RemoteAddr(), "err", err)
	}
	s.post(connClosed{sess})
}

// post delivers an event to the loop, giving up at shutdown.
func (s *Server) post(ev event) {
	select {
	case s.inbox <- ev:
	case <-s.ctx.Done():
	}
}

// loop is the single-threaded core: exactly one handler runs to
// completion before the next event is taken.
func (s *Server) loop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev := <-s.inbox:
			s.handleEvent(ev)
		}
	}
}

func (s *Server) handleEvent(ev event) {
	switch ev := ev.(type) {
	case connOpened:
		s.handleOpen(ev.sess)
	case lineReceived:
		s.handleLine(ev.sess, ev.text)
	case connClosed:
		s.teardown(ev.sess)
	case typingExpired:
		s.handleTypingExpired(ev.sess)
	}
}

func (s *Server) handleOpen(sess *Session) {
	s.metrics.TotalConnections.Add(1)
	s.metrics.ActiveConnections.Add(1)
	slog.Info("client connected", "remote", sess.conn.RemoteAddr())

	sess.send("Welcome to linechat!")
	sess.send(promptChoice)
}

func (s *Server) handleLine(sess *Session, line string) {
	if sess.closed {
		return // line raced with teardown
	}
	line = sanitizeText(strings.TrimSpace(line))
	if sess.stage == stageReady {
		s.dispatchCommand(sess, line)
		return
	}
	s.advanceLogin(sess, line)
}

// logout unregisters a session and resets it to the start of the login
// machine; the connection stays open and may log in again.
func (s *Server) logout(sess *Session) {
	s.deauth(sess)
	sess.stage = stageAccountChoice
	sess.name = ""
	sess.pendingName = ""
	sess.room = DefaultRoom
	sess.paused = false
	sess.send("Logged out.")
	sess.send(promptChoice)
}

// deauth removes an authenticated session from the registry and
// broadcasts its departure. Idempotent: the registry removes a session
// at most once, so the departure broadcast fires at most once.
func (s *Server) deauth(sess *Session) {
	s.cancelTyping(sess)
	if !s.registry.Unregister(sess) {
		return
	}
	sess.registered = false
	s.router.Send(sess.name+" has left the chat", sess, "")
	s.events.Append("leave " + sess.name)
	slog.Info("client left", "user", sess.name)
}

// teardown finalizes a closed connection. Safe to reach multiple ways
// (clean disconnect, transport error, kick); it runs once.
func (s *Server) teardown(sess *Session) {
	if sess.closed {
		return
	}
	sess.closed = true

	if sess.registered {
		s.deauth(sess)
	} else {
		s.cancelTyping(sess)
	}

	_ = sess.conn.Close()
	s.metrics.ActiveConnections.Add(-1)
	s.metrics.TotalDisconnects.Add(1)
	slog.Info("client disconnected", "remote", sess.conn.RemoteAddr())
}

func onlineCount(n int) string {
	if n == 1 {
		return "1 user online"
	}
	return fmt.Sprintf("%d users online", n)
}
