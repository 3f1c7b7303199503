package model

import "errors"

// Session-recoverable error taxonomy. All of these are reported to the
// originating session as a text notice; only ErrBanned terminates the
// connection.
var (
	ErrInvalidChoice      = errors.New("expected yes or no")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBanned             = errors.New("user is banned")
	ErrUserNotFound       = errors.New("user not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNameNotBanned      = errors.New("name is not banned")
)
