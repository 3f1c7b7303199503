package server

import (
	"log/slog"
	"strings"

	"github.com/NicolasHaas/linechat/pkg/model"
)

const promptChoice = "Do you have an account? (yes/no)"

// advanceLogin feeds one inbound line to a session's login state machine.
func (s *Server) advanceLogin(sess *Session, line string) {
	switch sess.stage {
	case stageAccountChoice:
		switch strings.ToLower(line) {
		case "yes":
			sess.stage = stageLoginUsername
			sess.send("Username:")
		case "no":
			sess.stage = stageRegisterUsername
			sess.send("Choose a username:")
		default:
			// No state change; re-prompt.
			sess.send(noticeFor(model.ErrInvalidChoice, ""))
			sess.send(promptChoice)
		}

	case stageLoginUsername:
		sess.pendingName = line
		sess.stage = stageLoginPassword
		sess.send("Password:")

	case stageLoginPassword:
		s.finishLogin(sess, line)

	case stageRegisterUsername:
		if err := model.ValidateUsername(line); err != nil {
			sess.sendf("Invalid username: %v", err)
			sess.send("Choose a username:")
			return
		}
		existing, err := s.store.GetUserByUsername(line)
		if err != nil {
			s.failLoginStage(sess, err)
			return
		}
		if existing != nil {
			sess.send(noticeFor(model.ErrUsernameTaken, line))
			sess.send("Choose a username:")
			return
		}
		sess.pendingName = line
		sess.stage = stageRegisterPassword
		sess.send("Choose a password:")

	case stageRegisterPassword:
		name := sess.pendingName
		if _, err := s.store.CreateUser(name, line); err != nil {
			s.failLoginStage(sess, err)
			return
		}
		slog.Info("user registered", "user", name)
		s.authenticate(sess, name, false)
	}
}

// finishLogin handles the captured password for an existing-account
// login. The ban check runs before the password comparison and forces a
// disconnect with no retry.
func (s *Server) finishLogin(sess *Session, password string) {
	name := sess.pendingName
	sess.pendingName = ""

	banned, err := s.store.IsBanned(name)
	if err != nil {
		s.failLoginStage(sess, err)
		return
	}
	if banned {
		s.metrics.FailedAuths.Add(1)
		slog.Info("banned login rejected", "user", name)
		sess.send(noticeFor(model.ErrBanned, ""))
		_ = sess.conn.Close()
		return
	}

	user, err := s.store.GetUserByUsername(name)
	if err != nil {
		s.failLoginStage(sess, err)
		return
	}
	// Credentials are opaque strings compared verbatim.
	if user == nil || user.Password != password {
		s.metrics.FailedAuths.Add(1)
		sess.stage = stageAccountChoice
		sess.send(noticeFor(model.ErrInvalidCredentials, ""))
		sess.send(promptChoice)
		return
	}

	// One live session per name: a second login for a connected name is
	// refused rather than shadowing the first.
	if _, online := s.registry.Lookup(name); online {
		s.metrics.FailedAuths.Add(1)
		sess.stage = stageAccountChoice
		sess.sendf("User '%s' is already online.", name)
		sess.send(promptChoice)
		return
	}

	s.authenticate(sess, name, true)
}

// authenticate moves a session to the authenticated state, registers it,
// and announces the arrival.
func (s *Server) authenticate(sess *Session, name string, returning bool) {
	sess.name = name
	sess.pendingName = ""
	sess.stage = stageReady
	sess.room = DefaultRoom
	sess.paused = false

	s.registry.Register(sess)
	sess.registered = true
	s.metrics.SuccessfulAuths.Add(1)

	if returning {
		sess.sendf("Welcome back, %s!", name)
	} else {
		sess.sendf("Welcome, %s!", name)
	}
	s.router.Send(name+" has joined the chat", sess, "")
	s.router.Send(onlineCount(s.registry.Len()), nil, "")

	s.events.Append("join " + name)
	slog.Info("client authenticated", "user", name, "remote", sess.conn.RemoteAddr())
}

// failLoginStage reports a store failure to the client and restarts the
// login machine. The error is never fatal for the connection.
func (s *Server) failLoginStage(sess *Session, err error) {
	slog.Error("login store error", "err", err)
	sess.pendingName = ""
	sess.stage = stageAccountChoice
	sess.send(noticeFor(err, ""))
	sess.send(promptChoice)
}
