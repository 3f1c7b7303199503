package server

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/NicolasHaas/linechat/pkg/model"
)

var helpText = []string{
	"Commands:",
	"  /pause             stop receiving messages",
	"  /resume            resume receiving messages",
	"  /msg <user> <text> send a private message",
	"  /list              list online users",
	"  /room <name>       switch rooms",
	"  /whoami            show your name, room, and pause state",
	"  /clear             clear your terminal",
	"  /history           show your last messages",
	"  /edit <id> <text>  edit one of your messages",
	"  /kick <user>       (admin) disconnect a user",
	"  /ban <user>        (admin) ban a user",
	"  /unban <user>      (admin) lift a ban",
	"  /logout            log out without disconnecting",
	"  /help              this listing",
	"Anything else is sent to your current room.",
}

// dispatchCommand handles one inbound line from an authenticated session.
// Every non-empty line triggers the typing-indicator side effect before
// dispatch on its first token; a line that matches no command is chat text.
func (s *Server) dispatchCommand(sess *Session, line string) {
	if line == "" {
		return
	}
	s.noteTyping(sess)

	cmd, rest := splitCommand(line)
	switch cmd {
	case "/pause":
		sess.paused = true
		sess.send("Notifications paused.")

	case "/resume":
		sess.paused = false
		sess.send("Notifications resumed.")

	case "/logout":
		s.logout(sess)

	case "/msg":
		s.handlePrivateMessage(sess, rest)

	case "/list":
		sess.send("Online users:")
		for _, other := range s.registry.Snapshot() {
			sess.sendf("  %s (%s)", other.name, other.room)
		}

	case "/room":
		if rest == "" {
			sess.send("Usage: /room <name>")
			return
		}
		sess.room = rest
		sess.sendf("You are now in room '%s'.", rest)
		s.router.Send(sess.name+" joined the room", sess, rest)

	case "/whoami":
		sess.sendf("You are %s in room '%s' (paused: %t)", sess.name, sess.room, sess.paused)

	case "/clear":
		sess.sendRaw("\x1b[2J\x1b[H")

	case "/history":
		entries := s.history.Entries(sess.name)
		if len(entries) == 0 {
			sess.send("No messages yet.")
			return
		}
		for _, e := range entries {
			sess.sendf("%d: %s", e.ID, e.Text)
		}

	case "/edit":
		s.handleEdit(sess, rest)

	case "/kick":
		s.handleKick(sess, rest)

	case "/ban":
		s.handleBan(sess, rest)

	case "/unban":
		s.handleUnban(sess, rest)

	case "/help":
		for _, l := range helpText {
			sess.send(l)
		}

	default:
		s.handleChat(sess, line)
	}
}

// handleChat records chat text in the sender's history ring and fans it
// out to the sender's room.
func (s *Server) handleChat(sess *Session, line string) {
	if err := model.ValidateMessage(line); err != nil {
		sess.send("Message too long.")
		return
	}

	s.history.Append(sess.name, line)
	formatted := sess.name + ": " + line
	s.router.Send(formatted, sess, sess.room)
	sess.send(formatted) // self-echo
	s.events.Append(formatted)
	s.metrics.ChatMessagesSent.Add(1)
	slog.Debug("chat message", "user", sess.name, "room", sess.room)
}

func (s *Server) handlePrivateMessage(sess *Session, rest string) {
	target, text, ok := strings.Cut(rest, " ")
	text = strings.TrimSpace(text)
	if !ok || target == "" || text == "" {
		sess.send("Usage: /msg <user> <text>")
		return
	}

	recipient, online := s.registry.Lookup(target)
	if !online {
		sess.send(noticeFor(model.ErrUserNotFound, target))
		return
	}

	formatted := "(private) " + sess.name + ": " + text
	recipient.send(formatted)
	sess.send(formatted) // sender echo
	s.metrics.PrivateMessagesSent.Add(1)
}

func (s *Server) handleEdit(sess *Session, rest string) {
	idStr, text, ok := strings.Cut(rest, " ")
	text = strings.TrimSpace(text)
	if !ok || text == "" {
		sess.send("Usage: /edit <id> <text>")
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		sess.send("Usage: /edit <id> <text>")
		return
	}

	if !s.history.Edit(sess.name, id, text) {
		sess.send(noticeFor(model.ErrMessageNotFound, idStr))
		return
	}
	sess.sendf("Message %d updated.", id)
	s.router.Send(sess.name+" edited message "+idStr, sess, sess.room)
}

func (s *Server) handleKick(sess *Session, rest string) {
	if !s.requireAdmin(sess) {
		return
	}
	if rest == "" {
		sess.send("Usage: /kick <user>")
		return
	}

	target, online := s.registry.Lookup(rest)
	if !online {
		sess.send(noticeFor(model.ErrUserNotFound, rest))
		return
	}

	target.send("You have been kicked from the server.")
	s.router.Send(rest+" was kicked from the server", target, "")
	_ = target.conn.Close() // reader posts connClosed; teardown runs in the loop
	s.metrics.KickCount.Add(1)
	s.events.Append("kick " + rest)
	slog.Info("user kicked", "target", rest, "by", sess.name)
}

func (s *Server) handleBan(sess *Session, rest string) {
	if !s.requireAdmin(sess) {
		return
	}
	if rest == "" {
		sess.send("Usage: /ban <user>")
		return
	}

	if err := s.store.AddBan(rest); err != nil {
		slog.Error("persist ban failed", "user", rest, "err", err)
		sess.send(noticeFor(err, ""))
		return
	}

	s.router.Send(rest+" has been banned", nil, "")
	if target, online := s.registry.Lookup(rest); online {
		target.send("You have been banned from this server.")
		_ = target.conn.Close()
	}
	s.metrics.BanCount.Add(1)
	s.events.Append("ban " + rest)
	slog.Info("user banned", "target", rest, "by", sess.name)
}

func (s *Server) handleUnban(sess *Session, rest string) {
	if !s.requireAdmin(sess) {
		return
	}
	if rest == "" {
		sess.send("Usage: /unban <user>")
		return
	}

	removed, err := s.store.RemoveBan(rest)
	if err != nil {
		slog.Error("remove ban failed", "user", rest, "err", err)
		sess.send(noticeFor(err, ""))
		return
	}
	if !removed {
		sess.send(noticeFor(model.ErrNameNotBanned, rest))
		return
	}
	sess.sendf("User '%s' unbanned.", rest)
	s.events.Append("unban " + rest)
	slog.Info("user unbanned", "target", rest, "by", sess.name)
}

// requireAdmin gates moderation commands on the one reserved
// administrator display name.
func (s *Server) requireAdmin(sess *Session) bool {
	if sess.name != s.cfg.AdminName {
		sess.send(noticeFor(model.ErrNotAuthorized, ""))
		return false
	}
	return true
}

// splitCommand splits a line into its first token and the trimmed remainder.
func splitCommand(line string) (cmd, rest string) {
	cmd, rest, _ = strings.Cut(line, " ")
	return cmd, strings.TrimSpace(rest)
}

// sanitizeText strips control characters (except newline) from
// user-supplied text to prevent terminal escape injection and null-byte
// attacks. Newlines cannot occur in a scanned line but are collapsed to
// spaces anyway.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
