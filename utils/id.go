package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier (UUID v4 string)
func GenerateID() string {
	return uuid.NewString()
}

// IsID reports whether s looks like an identifier made by GenerateID
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
