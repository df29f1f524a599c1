// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docket/internal/prompt"
	"github.com/randalmurphal/docket/internal/task"
)

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show full task details",
		Long: `Show the full detail block for one task.

The output is the rendered detail template, so a project override in
.docket/prompts/detail.md changes what this command prints.

Example:
  docket show 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff
  docket show 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rp := openRepo(cfg)
			t, err := rp.Get(id)
			if err != nil {
				return err
			}

			all, err := rp.List("")
			if err != nil {
				return err
			}

			if jsonOut {
				executable, unmet, err := rp.Executable(id)
				if err != nil {
					return err
				}
				out, _ := json.MarshalIndent(map[string]any{
					"task":       t,
					"complexity": task.AssessComplexity(&t),
					"executable": executable,
					"blockedBy":  unmet,
				}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			rendered, err := prompt.NewService(cfg.DataDir).Render("detail", prompt.TaskVars(t, all))
			if err != nil {
				return fmt.Errorf("render detail: %w", err)
			}
			fmt.Println(rendered)
			return nil
		},
	}
}
