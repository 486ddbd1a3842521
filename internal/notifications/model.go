package notifications

import (
	"errors"
	"time"
)

// Type is the severity shown next to a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeInfo, TypeWarning, TypeError:
		return true
	default:
		return false
	}
}

// Notification is one entry of a user's log. Read only moves false to true.
type Notification struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	Date    time.Time `json:"date"`
	Type    Type      `json:"type"`
	// Seq orders entries that share a Date; larger is newer.
	Seq int64 `json:"seq"`
}

// ErrNotFound is returned when a notification id is unknown for the user.
var ErrNotFound = errors.New("notification not found")
