package task

import (
	"regexp"

	"github.com/google/uuid"
)

// idShape matches the hyphenated 8-4-4-4-12 hex form of a task identifier.
var idShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// NewID returns a fresh task identifier.
func NewID() string {
	return uuid.New().String()
}

// LooksLikeID reports whether s has the shape of a task identifier.
// Dependency references with this shape are resolved as identifiers;
// everything else is looked up as a task name.
func LooksLikeID(s string) bool {
	return idShape.MatchString(s)
}
