package server

import (
	"errors"
	"fmt"

	"github.com/NicolasHaas/linechat/pkg/model"
)

// noticeFor maps a taxonomy error to the text notice sent to the
// originating session. subject names the user or message the error is
// about, where the notice carries one.
func noticeFor(err error, subject string) string {
	switch {
	case errors.Is(err, model.ErrInvalidChoice):
		return "Please answer yes or no."
	case errors.Is(err, model.ErrUsernameTaken):
		return fmt.Sprintf("Username '%s' is already taken.", subject)
	case errors.Is(err, model.ErrInvalidCredentials):
		return "Invalid credentials. Try again."
	case errors.Is(err, model.ErrBanned):
		return "You are banned from this server."
	case errors.Is(err, model.ErrUserNotFound):
		return fmt.Sprintf("User '%s' not found.", subject)
	case errors.Is(err, model.ErrMessageNotFound):
		return fmt.Sprintf("Message %s not found.", subject)
	case errors.Is(err, model.ErrNotAuthorized):
		return "You are not authorized to do that."
	case errors.Is(err, model.ErrNameNotBanned):
		return fmt.Sprintf("User '%s' is not banned.", subject)
	}
	return "Server error. Try again."
}
