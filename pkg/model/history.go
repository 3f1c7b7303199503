package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxMessageLength = 2000

var ErrMessageEmpty = errors.New("message body cannot be empty")
var ErrMessageTooLong = errors.New("message body too long")

// HistoryEntry is one message in a user's history ring. IDs are assigned
// from a process-wide strictly increasing sequence and never reused.
type HistoryEntry struct {
	ID   uint64 `json:"id"`
	Text string `json:"text"`
}

// ValidateMessage checks chat text before it is recorded and broadcast.
func ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrMessageEmpty
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
