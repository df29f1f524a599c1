// Package repo is the facade every consumer mutates tasks through. Each
// operation is one read-modify-write pass over the store: load the full
// document, operate in memory, save the full document back. No task
// state is cached between calls.
package repo

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	docketerrors "github.com/randalmurphal/docket/internal/errors"
	"github.com/randalmurphal/docket/internal/reconcile"
	"github.com/randalmurphal/docket/internal/store"
	"github.com/randalmurphal/docket/internal/task"
)

// Repository coordinates task operations over a single store.
type Repository struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a repository over the given store.
func New(st *store.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: st, logger: logger}
}

// List returns the live tasks, optionally filtered by status. An empty
// filter returns everything.
func (r *Repository) List(filter task.Status) ([]task.Task, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return tasks, nil
	}
	out := []task.Task{}
	for _, t := range tasks {
		if t.Status == filter {
			out = append(out, t)
		}
	}
	return out, nil
}

// Get returns one live task by identifier.
func (r *Repository) Get(id string) (task.Task, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return task.Task{}, err
	}
	t, _, err := findTask(tasks, id)
	return t, err
}

// Executable reports whether the task could start now, and when it
// cannot, which dependency identifiers block it.
func (r *Repository) Executable(id string) (bool, []string, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return false, nil, err
	}
	t, _, err := findTask(tasks, id)
	if err != nil {
		return false, nil, err
	}
	ok, unmet := task.CanExecute(&t, tasks)
	return ok, unmet, nil
}

// Create adds one PENDING task. Dependency references may be names of
// existing tasks or their identifiers; unresolvable references are
// dropped rather than failing the creation.
func (r *Repository) Create(sp task.Spec) (task.Task, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return task.Task{}, err
	}

	t := task.New(sp.Name, sp.Description)
	t.Notes = sp.Notes
	t.ImplementationGuide = sp.ImplementationGuide
	t.VerificationCriteria = sp.VerificationCriteria
	t.RelatedFiles = sp.RelatedFiles
	if len(sp.Dependencies) > 0 {
		t.Dependencies = reconcile.ResolveReferences(sp.Dependencies, tasks)
	}

	tasks = append(tasks, *t)
	if err := r.store.Save(tasks); err != nil {
		return task.Task{}, err
	}
	r.logger.Debug("task created", "id", t.ID, "name", t.Name)
	return *t, nil
}

// Patch carries the optional field changes for Update. Nil fields leave
// the current value alone; a non-nil empty Dependencies slice clears the
// dependency list.
type Patch struct {
	Name                 *string
	Description          *string
	Notes                *string
	ImplementationGuide  *string
	VerificationCriteria *string
	Summary              *string
	Dependencies         []string
	RelatedFiles         []task.RelatedFile
}

// touchesContent reports whether the patch changes anything outside the
// summary/relatedFiles set a COMPLETED task still accepts.
func (p Patch) touchesContent() bool {
	return p.Name != nil || p.Description != nil || p.Notes != nil ||
		p.ImplementationGuide != nil || p.VerificationCriteria != nil ||
		p.Dependencies != nil
}

// Update applies a patch to a live task. A COMPLETED task accepts only
// summary and related-file changes; any other change is rejected and
// the task stays untouched. Dependency references resolve by name or
// identifier against the live set, unresolvables dropped.
func (r *Repository) Update(id string, p Patch) (task.Task, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return task.Task{}, err
	}
	t, i, err := findTask(tasks, id)
	if err != nil {
		return task.Task{}, err
	}
	if t.IsCompleted() && p.touchesContent() {
		return task.Task{}, docketerrors.ErrTaskCompleted(id)
	}

	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.ImplementationGuide != nil {
		t.ImplementationGuide = *p.ImplementationGuide
	}
	if p.VerificationCriteria != nil {
		t.VerificationCriteria = *p.VerificationCriteria
	}
	if p.Summary != nil {
		t.Summary = *p.Summary
	}
	if p.RelatedFiles != nil {
		t.RelatedFiles = p.RelatedFiles
	}
	if p.Dependencies != nil {
		t.Dependencies = reconcile.ResolveReferences(p.Dependencies, tasks)
	}
	t.Touch()

	tasks[i] = t
	if err := r.store.Save(tasks); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// MarkInProgress moves a task into IN_PROGRESS. A COMPLETED task is
// refused outright; a task with unmet dependencies is refused with the
// blocking identifiers listed.
func (r *Repository) MarkInProgress(id string) (task.Task, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return task.Task{}, err
	}
	t, i, err := findTask(tasks, id)
	if err != nil {
		return task.Task{}, err
	}
	if t.IsCompleted() {
		return task.Task{}, docketerrors.ErrTaskCompleted(id)
	}
	if ok, unmet := task.CanExecute(&t, tasks); !ok {
		return task.Task{}, docketerrors.ErrTaskBlocked(id, unmet)
	}

	t.Status = task.StatusInProgress
	t.Touch()
	tasks[i] = t
	if err := r.store.Save(tasks); err != nil {
		return task.Task{}, err
	}
	r.logger.Debug("task started", "id", t.ID, "name", t.Name)
	return t, nil
}

// Complete finishes an IN_PROGRESS task with the given summary. The
// completion timestamp is set here and only here, exactly once per task
// because COMPLETED tasks never transition back.
func (r *Repository) Complete(id, summary string) (task.Task, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return task.Task{}, err
	}
	t, i, err := findTask(tasks, id)
	if err != nil {
		return task.Task{}, err
	}
	if t.Status != task.StatusInProgress {
		return task.Task{}, docketerrors.ErrTaskNotInProgress(id, string(t.Status))
	}
	if strings.TrimSpace(summary) == "" {
		return task.Task{}, docketerrors.ErrSummaryRequired(id)
	}

	now := time.Now()
	t.Status = task.StatusCompleted
	t.Summary = summary
	t.CompletedAt = &now
	t.UpdatedAt = now
	tasks[i] = t
	if err := r.store.Save(tasks); err != nil {
		return task.Task{}, err
	}
	r.logger.Info("task completed", "id", t.ID, "name", t.Name)
	return t, nil
}

// Verify scores a task against its verification criteria. A score at or
// above the threshold completes the task with the summary; a lower
// score leaves it IN_PROGRESS so work can continue. The returned bool
// reports whether the task was completed.
func (r *Repository) Verify(id string, score, threshold int, summary string) (task.Task, bool, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return task.Task{}, false, err
	}
	t, _, err := findTask(tasks, id)
	if err != nil {
		return task.Task{}, false, err
	}
	if t.Status != task.StatusInProgress {
		return task.Task{}, false, docketerrors.ErrTaskNotInProgress(id, string(t.Status))
	}
	if score < threshold {
		r.logger.Debug("verification below threshold", "id", id, "score", score, "threshold", threshold)
		return t, false, nil
	}

	done, err := r.Complete(id, summary)
	if err != nil {
		return task.Task{}, false, err
	}
	return done, true, nil
}

// Delete removes a live task. COMPLETED tasks are immutable history and
// cannot be deleted; a task other tasks depend on reports its dependents
// instead of being removed.
func (r *Repository) Delete(id string) error {
	tasks, err := r.store.Load()
	if err != nil {
		return err
	}
	t, i, err := findTask(tasks, id)
	if err != nil {
		return err
	}
	if t.IsCompleted() {
		return docketerrors.ErrTaskCompleted(id)
	}
	if dependents := task.Dependents(id, tasks); len(dependents) > 0 {
		return docketerrors.ErrTaskReferenced(id, dependents)
	}

	tasks = append(tasks[:i], tasks[i+1:]...)
	if err := r.store.Save(tasks); err != nil {
		return err
	}
	r.logger.Debug("task deleted", "id", id, "name", t.Name)
	return nil
}

// ClearAll archives the COMPLETED tasks into a new snapshot and wipes
// the live store, returning the archive filename. Non-COMPLETED tasks
// are discarded, not archived. Clearing an empty store is a no-op and
// writes nothing.
func (r *Repository) ClearAll() (string, error) {
	tasks, err := r.store.Load()
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return "", nil
	}

	completed := []task.Task{}
	for _, t := range tasks {
		if t.IsCompleted() {
			completed = append(completed, t)
		}
	}
	backup, err := r.store.WriteArchive(completed)
	if err != nil {
		return "", fmt.Errorf("archive completed tasks: %w", err)
	}
	if err := r.store.Save([]task.Task{}); err != nil {
		return "", err
	}
	r.logger.Info("cleared all tasks",
		"archived", len(completed),
		"discarded", len(tasks)-len(completed),
		"backup", backup)
	return backup, nil
}

// SplitResult reports one reconciliation pass.
type SplitResult struct {
	// Changed lists the created or updated tasks in batch input order.
	Changed []task.Task
	// All is the full live set after the pass.
	All []task.Task
	// Backup is the archive filename when the mode cleared the store
	// first, empty otherwise.
	Backup string
}

// Split reconciles a batch of task specs against the live set under the
// given mode and persists the outcome. Duplicate names within the batch
// are rejected before any work happens. In clearAllTasks mode the
// completed tasks are archived and the store wiped before the batch is
// inserted.
func (r *Repository) Split(specs []task.Spec, mode reconcile.Mode, analysis string) (SplitResult, error) {
	if !reconcile.IsValidMode(mode) {
		return SplitResult{}, docketerrors.ErrInvalidMode(string(mode))
	}
	if err := reconcile.ValidateBatch(specs); err != nil {
		return SplitResult{}, err
	}

	var backup string
	if mode == reconcile.ModeClearAllTasks {
		b, err := r.ClearAll()
		if err != nil {
			return SplitResult{}, err
		}
		backup = b
	}

	existing, err := r.store.Load()
	if err != nil {
		return SplitResult{}, err
	}
	res, err := reconcile.Merge(existing, specs, mode, analysis)
	if err != nil {
		return SplitResult{}, err
	}
	if err := r.store.Save(res.Persisted); err != nil {
		return SplitResult{}, err
	}

	r.logger.Info("batch reconciled",
		"mode", string(mode),
		"changed", len(res.Changed),
		"total", len(res.Persisted))
	return SplitResult{Changed: res.Changed, All: res.Persisted, Backup: backup}, nil
}

// findTask locates a task by identifier in the loaded list.
func findTask(tasks []task.Task, id string) (task.Task, int, error) {
	for i, t := range tasks {
		if t.ID == id {
			return t, i, nil
		}
	}
	return task.Task{}, -1, docketerrors.ErrTaskNotFound(id)
}
