package task

// CanExecute reports whether t's prerequisites are satisfied against the
// live task list. A COMPLETED task is never executable. Every dependency
// that is missing from the list or not yet COMPLETED appears in the
// returned blocker list, one entry per occurrence.
func CanExecute(t *Task, all []Task) (bool, []string) {
	if t.Status == StatusCompleted {
		return false, nil
	}
	if len(t.Dependencies) == 0 {
		return true, nil
	}

	statusByID := make(map[string]Status, len(all))
	for _, other := range all {
		statusByID[other.ID] = other.Status
	}

	var blockedBy []string
	for _, dep := range t.Dependencies {
		status, ok := statusByID[dep]
		if !ok || status != StatusCompleted {
			blockedBy = append(blockedBy, dep)
		}
	}
	return len(blockedBy) == 0, blockedBy
}

// Dependents returns the identifiers of every task in the list that names
// id in its dependencies. Used as the delete guard: a task with dependents
// cannot be removed.
func Dependents(id string, all []Task) []string {
	var dependents []string
	for _, t := range all {
		if t.ID == id {
			continue
		}
		for _, dep := range t.Dependencies {
			if dep == id {
				dependents = append(dependents, t.ID)
				break
			}
		}
	}
	return dependents
}
