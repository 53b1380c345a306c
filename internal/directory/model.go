package directory

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrUserNotFound indicates the referenced user id or username is unknown.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates the user id is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUsernameTaken indicates another user holds the requested username.
	ErrUsernameTaken = errors.New("username already taken")
)

// User represents a registered account on the giving platform. Balance is held
// in minor currency units (cents). Role and KeyType are profile data carried
// for the presentation layer and never interpreted here.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role,omitempty"`
	KeyType      string    `json:"key_type,omitempty"`
	Balance      int64     `json:"balance"`
	PasscodeHash []byte    `json:"passcode_hash,omitempty"`
	TokenVersion int       `json:"token_version"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanonicalUsername normalizes a username for uniqueness checks. Comparison is
// case-insensitive.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
