package cli

import (
	"strings"
	"testing"

	docketerrors "github.com/randalmurphal/docket/internal/errors"
)

func TestDeleteCommand_RemovesTask(t *testing.T) {
	dir := withDocketDir(t)
	tk := pendingTask("Disposable")
	keeper := pendingTask("Keeper")
	seedTasks(t, dir, tk, keeper)

	cmd := newDeleteCmd()
	cmd.SetArgs([]string{tk.ID})

	output := captureStdout(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("execute command: %v", err)
		}
	})

	if !strings.Contains(output, "Deleted task") {
		t.Errorf("output missing deletion notice:\n%s", output)
	}

	tasks, err := testStore(dir).Load()
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != keeper.ID {
		t.Errorf("store = %+v, want only the keeper", tasks)
	}
}

func TestDeleteCommand_CompletedRefused(t *testing.T) {
	dir := withDocketDir(t)
	tk := completedTask("The record")
	seedTasks(t, dir, tk)

	cmd := newDeleteCmd()
	cmd.SetArgs([]string{tk.ID})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	err := cmd.Execute()
	derr := docketerrors.AsDocketError(err)
	if derr == nil || derr.Code != docketerrors.CodeTaskCompleted {
		t.Errorf("error = %v, want TASK_COMPLETED", err)
	}
}

func TestDeleteCommand_ReferencedRefused(t *testing.T) {
	dir := withDocketDir(t)
	dep := pendingTask("Load-bearing")
	user := pendingTask("Leans on it")
	user.Dependencies = []string{dep.ID}
	seedTasks(t, dir, dep, user)

	cmd := newDeleteCmd()
	cmd.SetArgs([]string{dep.ID})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	err := cmd.Execute()
	derr := docketerrors.AsDocketError(err)
	if derr == nil || derr.Code != docketerrors.CodeTaskReferenced {
		t.Errorf("error = %v, want TASK_REFERENCED", err)
	}

	tasks, loadErr := testStore(dir).Load()
	if loadErr != nil {
		t.Fatalf("load store: %v", loadErr)
	}
	if len(tasks) != 2 {
		t.Errorf("store has %d tasks, want both untouched", len(tasks))
	}
}
