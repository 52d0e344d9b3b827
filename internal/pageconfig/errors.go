package pageconfig

import (
	"fmt"
	"strings"
)

// ValidationError reports why a document fails the current schema. Render
// paths recover from it with a minimal config; write paths surface it as a
// bad request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid page config: " + strings.Join(e.Problems, "; ")
}

// MigrationError means no known transform path brings a stored document to
// the current schema. Render paths recover with a minimal config; such
// documents must never be written.
type MigrationError struct {
	Version int
	Reason  string
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("no migration path from schema version %d: %s", e.Version, e.Reason)
}
