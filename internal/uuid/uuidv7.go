// Package uuid generates the string identifiers used by the in-memory backend
// and the audit log.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. UUIDv7 is time-ordered, which keeps
// audit rows roughly insertion ordered, and collision resistant within a process.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fall back to a random v4 if the clock sequence cannot be read.
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
