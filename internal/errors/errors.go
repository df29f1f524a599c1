// Package errors provides structured error types for docket.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for docket.
const (
	// Task errors
	CodeTaskNotFound      Code = "TASK_NOT_FOUND"
	CodeTaskCompleted     Code = "TASK_COMPLETED"
	CodeTaskReferenced    Code = "TASK_REFERENCED"
	CodeTaskBlocked       Code = "TASK_BLOCKED"
	CodeTaskNotInProgress Code = "TASK_NOT_IN_PROGRESS"

	// Batch errors
	CodeDuplicateTaskName Code = "DUPLICATE_TASK_NAME"
	CodeInvalidMode       Code = "INVALID_MODE"
	CodeSummaryRequired   Code = "SUMMARY_REQUIRED"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
)

// Category groups error codes for exit status mapping.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNotFound
	CategoryBadRequest
	CategoryConflict
	CategoryInternal
)

// codeCategories maps error codes to their categories.
var codeCategories = map[Code]Category{
	CodeTaskNotFound:      CategoryNotFound,
	CodeTaskCompleted:     CategoryBadRequest,
	CodeTaskReferenced:    CategoryConflict,
	CodeTaskBlocked:       CategoryConflict,
	CodeTaskNotInProgress: CategoryBadRequest,
	CodeDuplicateTaskName: CategoryBadRequest,
	CodeInvalidMode:       CategoryBadRequest,
	CodeSummaryRequired:   CategoryBadRequest,
	CodeConfigInvalid:     CategoryBadRequest,
}

// ExitCode returns the process exit code for a category.
func (c Category) ExitCode() int {
	switch c {
	case CategoryNotFound:
		return 4
	case CategoryConflict:
		return 3
	case CategoryBadRequest:
		return 2
	default:
		return 1
	}
}

// DocketError is the structured error type for docket.
type DocketError struct {
	Code       Code     `json:"code"`
	What       string   `json:"what"`
	Why        string   `json:"why,omitempty"`
	Fix        string   `json:"fix,omitempty"`
	DocsURL    string   `json:"docs_url,omitempty"`
	Dependents []string `json:"dependents,omitempty"`
	Cause      error    `json:"-"`
}

// Error implements the error interface.
func (e *DocketError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *DocketError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *DocketError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	if e.DocsURL != "" {
		b.WriteString("\n\nDocs: ")
		b.WriteString(e.DocsURL)
	}
	return b.String()
}

// Category returns the error category for exit status mapping.
func (e *DocketError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// ExitCode returns the appropriate process exit code for this error.
func (e *DocketError) ExitCode() int {
	return e.Category().ExitCode()
}

// MarshalJSON implements json.Marshaler.
func (e *DocketError) MarshalJSON() ([]byte, error) {
	type alias DocketError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is a DocketError with the same code.
func (e *DocketError) Is(target error) bool {
	t, ok := target.(*DocketError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *DocketError) WithCause(err error) *DocketError {
	return &DocketError{
		Code:       e.Code,
		What:       e.What,
		Why:        e.Why,
		Fix:        e.Fix,
		DocsURL:    e.DocsURL,
		Dependents: e.Dependents,
		Cause:      err,
	}
}

// --- Error constructors ---

// ErrTaskNotFound returns an error when a task doesn't exist.
func ErrTaskNotFound(id string) *DocketError {
	return &DocketError{
		Code:    CodeTaskNotFound,
		What:    fmt.Sprintf("task %s not found", id),
		Why:     "No task with this identifier exists in the current list",
		Fix:     "Run 'docket list' to see available tasks, or create one with 'docket new'",
		DocsURL: "https://github.com/randalmurphal/docket#tasks",
	}
}

// ErrTaskCompleted returns an error when a completed task would be modified.
func ErrTaskCompleted(id string) *DocketError {
	return &DocketError{
		Code:    CodeTaskCompleted,
		What:    fmt.Sprintf("task %s is completed", id),
		Why:     "Completed tasks are immutable except for their summary and related files",
		Fix:     "Create a new task for follow-up work instead of editing this one",
		DocsURL: "https://github.com/randalmurphal/docket#task-lifecycle",
	}
}

// ErrTaskReferenced returns an error when deleting a task other tasks depend on.
func ErrTaskReferenced(id string, dependents []string) *DocketError {
	return &DocketError{
		Code:       CodeTaskReferenced,
		What:       fmt.Sprintf("task %s is depended on by %d other task(s)", id, len(dependents)),
		Why:        fmt.Sprintf("Deleting it would leave dangling dependencies in: %s", strings.Join(dependents, ", ")),
		Fix:        "Delete or update the dependent tasks first",
		DocsURL:    "https://github.com/randalmurphal/docket#dependencies",
		Dependents: dependents,
	}
}

// ErrTaskBlocked returns an error when executing a task with unmet dependencies.
func ErrTaskBlocked(id string, unmet []string) *DocketError {
	return &DocketError{
		Code:    CodeTaskBlocked,
		What:    fmt.Sprintf("task %s is blocked", id),
		Why:     fmt.Sprintf("Waiting on %d incomplete dependency task(s): %s", len(unmet), strings.Join(unmet, ", ")),
		Fix:     "Complete the blocking tasks first, then run 'docket execute' again",
		DocsURL: "https://github.com/randalmurphal/docket#dependencies",
	}
}

// ErrTaskNotInProgress returns an error when completing a task that isn't running.
func ErrTaskNotInProgress(id, current string) *DocketError {
	return &DocketError{
		Code:    CodeTaskNotInProgress,
		What:    fmt.Sprintf("task %s is in state '%s', expected 'IN_PROGRESS'", id, current),
		Why:     "Only a task that has been started can be completed",
		Fix:     fmt.Sprintf("Run 'docket execute %s' first", id),
		DocsURL: "https://github.com/randalmurphal/docket#task-lifecycle",
	}
}

// ErrDuplicateTaskName returns an error for a name used twice in one batch.
func ErrDuplicateTaskName(name string) *DocketError {
	return &DocketError{
		Code:    CodeDuplicateTaskName,
		What:    fmt.Sprintf("duplicate task name '%s' in batch", name),
		Why:     "Task names identify tasks during reconciliation, so a batch cannot use one name twice",
		Fix:     "Rename one of the conflicting tasks and resubmit the batch",
		DocsURL: "https://github.com/randalmurphal/docket#reconciliation",
	}
}

// ErrInvalidMode returns an error for an unknown reconciliation mode.
func ErrInvalidMode(mode string) *DocketError {
	return &DocketError{
		Code:    CodeInvalidMode,
		What:    fmt.Sprintf("unknown mode '%s'", mode),
		Why:     "Mode must be one of: append, overwrite, selective, clearAllTasks",
		Fix:     "Pass a supported value to --mode",
		DocsURL: "https://github.com/randalmurphal/docket#modes",
	}
}

// ErrSummaryRequired returns an error when completing a task without a summary.
func ErrSummaryRequired(id string) *DocketError {
	return &DocketError{
		Code:    CodeSummaryRequired,
		What:    fmt.Sprintf("task %s cannot be completed without a summary", id),
		Why:     "The summary records what was accomplished and is searchable after archiving",
		Fix:     "Pass a completion summary with --summary",
		DocsURL: "https://github.com/randalmurphal/docket#task-lifecycle",
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *DocketError {
	return &DocketError{
		Code:    CodeConfigInvalid,
		What:    fmt.Sprintf("invalid configuration: %s", field),
		Why:     reason,
		Fix:     "Check .docket/config.yaml and fix the invalid field",
		DocsURL: "https://github.com/randalmurphal/docket#configuration",
	}
}

// AsDocketError attempts to convert an error to a DocketError.
// Returns nil if the error is not a DocketError.
func AsDocketError(err error) *DocketError {
	var dErr *DocketError
	if As(err, &dErr) {
		return dErr
	}
	return nil
}

// As is a convenience wrapper for errors.As.
func As(err error, target any) bool {
	return asError(err, target)
}

// asError implements errors.As behavior.
func asError(err error, target any) bool {
	if err == nil {
		return false
	}
	if dErr, ok := err.(*DocketError); ok {
		if t, ok := target.(**DocketError); ok {
			*t = dErr
			return true
		}
	}
	// Check unwrapped error
	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		return asError(unwrapper.Unwrap(), target)
	}
	return false
}

// Wrap wraps a generic error into a DocketError with unknown code.
func Wrap(err error, what string) *DocketError {
	return &DocketError{
		Code:  Code("UNKNOWN"),
		What:  what,
		Cause: err,
	}
}
