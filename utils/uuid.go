package utils

import (
	"github.com/google/uuid"
)

// NewSessionID returns a random identifier for a browser session cookie
func NewSessionID() string {
	return uuid.NewString()
}

// IsSessionID reports whether id looks like a value minted by NewSessionID
func IsSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
