// Package task defines the task record, its lifecycle rules, and the
// dependency checks built on top of it.
package task

import (
	"time"
)

// Status represents the current state of a task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusBlocked    Status = "BLOCKED"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusBlocked}
}

// IsValidStatus returns true if the status is a valid status value.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	default:
		return false
	}
}

// RelatedFileType classifies how a file relates to a task.
type RelatedFileType string

const (
	// FileToModify marks a file the task will change.
	FileToModify RelatedFileType = "TO_MODIFY"
	// FileReference marks a file consulted but left untouched.
	FileReference RelatedFileType = "REFERENCE"
	// FileCreate marks a file the task will create.
	FileCreate RelatedFileType = "CREATE"
	// FileDependency marks a file the task's output depends on.
	FileDependency RelatedFileType = "DEPENDENCY"
	// FileOther marks any other relationship.
	FileOther RelatedFileType = "OTHER"
)

// ValidRelatedFileTypes returns all valid related-file type values.
func ValidRelatedFileTypes() []RelatedFileType {
	return []RelatedFileType{FileToModify, FileReference, FileCreate, FileDependency, FileOther}
}

// IsValidRelatedFileType returns true if the type is a valid related-file type value.
func IsValidRelatedFileType(ft RelatedFileType) bool {
	switch ft {
	case FileToModify, FileReference, FileCreate, FileDependency, FileOther:
		return true
	default:
		return false
	}
}

// RelatedFile points a task at a file it touches or consults.
type RelatedFile struct {
	// Path is the file path, relative to the project root or absolute.
	Path string `json:"path"`

	// Type classifies the relationship.
	Type RelatedFileType `json:"type"`

	// Description explains why the file matters to the task.
	Description string `json:"description,omitempty"`

	// LineStart and LineEnd bound the relevant region (1-based, optional).
	LineStart int `json:"lineStart,omitempty"`
	LineEnd   int `json:"lineEnd,omitempty"`
}

// Task represents a unit of work in the list.
type Task struct {
	// ID is the unique identifier, assigned once and never changed,
	// even when every other field is replaced during reconciliation.
	ID string `json:"id"`

	// Name is a short label. Unique within a reconciliation batch;
	// the store itself does not enforce uniqueness.
	Name string `json:"name"`

	// Description is the full task description.
	Description string `json:"description"`

	// Notes holds supplemental remarks.
	Notes string `json:"notes,omitempty"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// Dependencies lists prerequisite task identifiers in order.
	// Duplicates are preserved as given.
	Dependencies []string `json:"dependencies"`

	// ImplementationGuide describes how the work should be carried out.
	ImplementationGuide string `json:"implementationGuide,omitempty"`

	// VerificationCriteria describes how completion will be judged.
	VerificationCriteria string `json:"verificationCriteria,omitempty"`

	// AnalysisResult carries the shared analysis text applied to every
	// task created or updated in the same batch.
	AnalysisResult string `json:"analysisResult,omitempty"`

	// Summary records what was accomplished. Along with RelatedFiles it
	// is the only field still writable after completion.
	Summary string `json:"summary,omitempty"`

	// RelatedFiles lists files the task touches or consults.
	RelatedFiles []RelatedFile `json:"relatedFiles,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the task was last updated.
	UpdatedAt time.Time `json:"updatedAt"`

	// CompletedAt is when the task reached COMPLETED. Set exactly once,
	// never cleared.
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// New creates a task with a fresh identifier in the PENDING state.
func New(name, description string) *Task {
	now := time.Now()
	return &Task{
		ID:           NewID(),
		Name:         name,
		Description:  description,
		Status:       StatusPending,
		Dependencies: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsCompleted returns true if the task has reached its terminal state.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Touch stamps the task as just modified.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now()
}
