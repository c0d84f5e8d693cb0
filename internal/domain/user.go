// Package domain contains entities without transport or locking:
// participants, rooms and vote tallies.
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultUsername = "Anon"
	MaxUsernameLen  = 64
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

type UserID string

type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewUser returns a participant with a fresh id and the default display name.
func NewUser() *User {
	return &User{ID: UserID(uuid.NewString()), Username: DefaultUsername}
}

// SetUsername trims and validates the name before storing it.
// It reports whether the stored name actually changed.
func (u *User) SetUsername(username string) (bool, error) {
	username = strings.TrimSpace(username)
	if len(username) == 0 {
		return false, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return false, ErrUsernameTooLong
	}
	if username == u.Username {
		return false, nil
	}
	u.Username = username
	return true, nil
}
