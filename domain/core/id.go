package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SessionID ID
	RunID     ID
)

func (id SessionID) String() string { return ID(id).String() }
func (id RunID) String() string     { return ID(id).String() }

// NewSessionID returns a fresh session identifier.
func NewSessionID() SessionID { return SessionID(NewID()) }

// NewRunID returns a fresh clustering run identifier.
func NewRunID() RunID { return RunID(NewID()) }

// ParseSessionID validates that s is a UUID and returns it as a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid session ID %q: %w", s, err)
	}
	return SessionID(parsed.String()), nil
}
