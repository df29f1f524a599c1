package reconcile

import (
	"time"

	docketerrors "github.com/randalmurphal/docket/internal/errors"
	"github.com/randalmurphal/docket/internal/task"
)

// Result holds the outcome of one reconciliation pass.
type Result struct {
	// Changed lists the tasks created or updated by the batch, in batch
	// input order.
	Changed []task.Task

	// Persisted is the full task list to save: kept tasks first, then
	// the changed ones.
	Persisted []task.Task
}

// ValidateBatch rejects a batch that uses the same name twice. Names
// identify tasks during reconciliation, so the check runs before any
// merge work begins.
func ValidateBatch(specs []task.Spec) error {
	seen := make(map[string]bool, len(specs))
	for _, sp := range specs {
		if seen[sp.Name] {
			return docketerrors.ErrDuplicateTaskName(sp.Name)
		}
		seen[sp.Name] = true
	}
	return nil
}

// Merge applies a batch of specs to the existing task list under the
// given mode. analysis, when non-empty, is stamped on every created or
// updated task.
//
// The merge runs in two phases. Phase one materializes every spec
// (deciding create-vs-update and assigning identifiers) and registers
// each name as it goes, so a spec may depend on a sibling that appears
// later in the batch. Phase two resolves dependency references:
// identifier-shaped entries are kept only when they match a surviving
// task, names are looked up in the batch map, and anything unresolvable
// is dropped without error.
func Merge(existing []task.Task, specs []task.Spec, mode Mode, analysis string) (Result, error) {
	if !IsValidMode(mode) {
		return Result{}, docketerrors.ErrInvalidMode(string(mode))
	}

	kept := keptTasks(existing, specs, mode)

	nameToID := make(map[string]string, len(kept)+len(specs))
	for _, t := range kept {
		nameToID[t.Name] = t.ID
	}
	if mode == ModeSelective {
		// Map every existing name so a spec can still reference a task
		// that is about to be updated in place.
		for _, t := range existing {
			nameToID[t.Name] = t.ID
		}
	}

	// Phase one: materialize specs in input order.
	now := time.Now()
	changed := make([]task.Task, 0, len(specs))
	for _, sp := range specs {
		if mode == ModeSelective {
			if orig, ok := findUpdatable(existing, sp.Name); ok {
				changed = append(changed, updateFromSpec(orig, sp, analysis, now))
				nameToID[sp.Name] = orig.ID
				continue
			}
		}
		created := newFromSpec(sp, analysis, now)
		nameToID[sp.Name] = created.ID
		changed = append(changed, created)
	}

	// Phase two: resolve dependency references against the final set.
	surviving := make(map[string]bool, len(kept)+len(changed))
	for _, t := range kept {
		surviving[t.ID] = true
	}
	for _, t := range changed {
		surviving[t.ID] = true
	}
	for i := range changed {
		if specs[i].Dependencies == nil {
			// No dependency list in the spec: an updated task keeps its
			// previous dependencies, a created one stays empty.
			continue
		}
		changed[i].Dependencies = resolveDependencies(specs[i].Dependencies, nameToID, surviving)
	}

	persisted := make([]task.Task, 0, len(kept)+len(changed))
	persisted = append(persisted, kept...)
	persisted = append(persisted, changed...)

	return Result{Changed: changed, Persisted: persisted}, nil
}

// keptTasks filters the existing list down to the tasks the mode keeps.
func keptTasks(existing []task.Task, specs []task.Spec, mode Mode) []task.Task {
	switch mode {
	case ModeAppend:
		return append([]task.Task(nil), existing...)
	case ModeOverwrite:
		kept := []task.Task{}
		for _, t := range existing {
			if t.Status == task.StatusCompleted {
				kept = append(kept, t)
			}
		}
		return kept
	case ModeSelective:
		incoming := make(map[string]bool, len(specs))
		for _, sp := range specs {
			incoming[sp.Name] = true
		}
		// A COMPLETED task is kept even when an incoming spec reuses its
		// name; the spec then creates a second task under that name.
		kept := []task.Task{}
		for _, t := range existing {
			if !incoming[t.Name] || t.Status == task.StatusCompleted {
				kept = append(kept, t)
			}
		}
		return kept
	default: // ModeClearAllTasks
		return []task.Task{}
	}
}

// findUpdatable returns the first existing non-COMPLETED task with the
// given name.
func findUpdatable(existing []task.Task, name string) (task.Task, bool) {
	for _, t := range existing {
		if t.Name == name && t.Status != task.StatusCompleted {
			return t, true
		}
	}
	return task.Task{}, false
}

// newFromSpec materializes a brand-new PENDING task from a spec. Its
// dependencies start empty and are filled in by the resolution phase.
func newFromSpec(sp task.Spec, analysis string, now time.Time) task.Task {
	return task.Task{
		ID:                   task.NewID(),
		Name:                 sp.Name,
		Description:          sp.Description,
		Notes:                sp.Notes,
		Status:               task.StatusPending,
		Dependencies:         []string{},
		ImplementationGuide:  sp.ImplementationGuide,
		VerificationCriteria: sp.VerificationCriteria,
		AnalysisResult:       analysis,
		RelatedFiles:         sp.RelatedFiles,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// updateFromSpec replaces an existing task's content with the spec's
// while preserving its identity: identifier, createdAt, status, summary
// and completion timestamp all survive.
func updateFromSpec(orig task.Task, sp task.Spec, analysis string, now time.Time) task.Task {
	updated := orig
	updated.Name = sp.Name
	updated.Description = sp.Description
	updated.Notes = sp.Notes
	updated.ImplementationGuide = sp.ImplementationGuide
	updated.VerificationCriteria = sp.VerificationCriteria
	updated.AnalysisResult = analysis
	updated.RelatedFiles = sp.RelatedFiles
	updated.UpdatedAt = now
	return updated
}

// ResolveReferences resolves name-or-identifier dependency references
// against a live task list, with the same classification rules a batch
// merge uses. Single-task create and update paths share it so a
// dependency reference means the same thing everywhere.
func ResolveReferences(refs []string, against []task.Task) []string {
	nameToID := make(map[string]string, len(against))
	ids := make(map[string]bool, len(against))
	for _, t := range against {
		nameToID[t.Name] = t.ID
		ids[t.ID] = true
	}
	return resolveDependencies(refs, nameToID, ids)
}

// resolveDependencies maps raw dependency references onto surviving task
// identifiers, preserving order and dropping anything unresolvable.
func resolveDependencies(raw []string, nameToID map[string]string, surviving map[string]bool) []string {
	resolved := []string{}
	for _, ref := range raw {
		if task.LooksLikeID(ref) {
			if surviving[ref] {
				resolved = append(resolved, ref)
			}
			continue
		}
		if id, ok := nameToID[ref]; ok {
			resolved = append(resolved, id)
		}
	}
	return resolved
}
