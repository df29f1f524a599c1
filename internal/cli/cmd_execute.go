// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	docketerrors "github.com/randalmurphal/docket/internal/errors"
	"github.com/randalmurphal/docket/internal/prompt"
	"github.com/randalmurphal/docket/internal/repo"
)

// newExecuteCmd creates the execute command
func newExecuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute <task-id>",
		Short: "Start a task and print its execution brief",
		Long: `Mark a task IN_PROGRESS and print the execution brief for the agent
working on it.

A task only starts when every dependency is COMPLETED. When it is
blocked the task is left untouched and the blocked brief is printed
instead, naming the unfinished prerequisites.

Example:
  docket execute 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rp := openRepo(cfg)
			ps := prompt.NewService(cfg.DataDir)

			t, err := rp.MarkInProgress(id)
			if err != nil {
				if derr := docketerrors.AsDocketError(err); derr != nil && derr.Code == docketerrors.CodeTaskBlocked {
					return printBlocked(rp, ps, id)
				}
				return err
			}

			all, err := rp.List("")
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(map[string]any{
					"task":    t,
					"blocked": false,
				}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			rendered, err := ps.Render("execute", prompt.TaskVars(t, all))
			if err != nil {
				return fmt.Errorf("render execute: %w", err)
			}
			fmt.Println(rendered)
			return nil
		},
	}
}

// printBlocked prints the blocked brief for a task whose dependencies are
// not all COMPLETED. The command still exits zero: the brief is the
// answer, not a failure.
func printBlocked(rp *repo.Repository, ps *prompt.Service, id string) error {
	t, err := rp.Get(id)
	if err != nil {
		return err
	}
	_, unmet, err := rp.Executable(id)
	if err != nil {
		return err
	}
	all, err := rp.List("")
	if err != nil {
		return err
	}

	if jsonOut {
		out, _ := json.MarshalIndent(map[string]any{
			"task":    t,
			"blocked": true,
			"unmet":   unmet,
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	vars := prompt.TaskVars(t, all)
	vars["{{BLOCKED_BY}}"] = prompt.FormatIDs(unmet, all)
	rendered, err := ps.Render("blocked", vars)
	if err != nil {
		return fmt.Errorf("render blocked: %w", err)
	}
	fmt.Println(rendered)
	return nil
}
