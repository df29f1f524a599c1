// Package reconcile merges batches of incoming task specs into the live
// task list under a selected update policy, resolving dependency
// references expressed as either identifiers or names.
package reconcile

import (
	docketerrors "github.com/randalmurphal/docket/internal/errors"
)

// Mode selects how a batch is merged into the existing task list.
type Mode string

const (
	// ModeAppend keeps every existing task and creates all incoming
	// specs as brand-new tasks.
	ModeAppend Mode = "append"
	// ModeOverwrite keeps only COMPLETED existing tasks and creates all
	// incoming specs as brand-new tasks.
	ModeOverwrite Mode = "overwrite"
	// ModeSelective updates existing non-COMPLETED tasks matched by
	// name in place and creates the rest as new tasks.
	ModeSelective Mode = "selective"
	// ModeClearAllTasks keeps nothing; the caller archives completed
	// tasks before merging into the emptied list.
	ModeClearAllTasks Mode = "clearAllTasks"
)

// ValidModes returns all valid mode values.
func ValidModes() []Mode {
	return []Mode{ModeAppend, ModeOverwrite, ModeSelective, ModeClearAllTasks}
}

// IsValidMode returns true if the mode is a valid mode value.
func IsValidMode(m Mode) bool {
	switch m {
	case ModeAppend, ModeOverwrite, ModeSelective, ModeClearAllTasks:
		return true
	default:
		return false
	}
}

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !IsValidMode(m) {
		return "", docketerrors.ErrInvalidMode(s)
	}
	return m, nil
}
