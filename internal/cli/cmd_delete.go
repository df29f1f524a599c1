// Package cli implements the docket command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Long: `Delete a task from the store.

COMPLETED tasks cannot be deleted; they are the record of finished work.
A task that others depend on cannot be deleted either - remove the
dependency edges first.

Example:
  docket delete 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff`,
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

			if err := rp.Delete(id); err != nil {
				return err
			}

			if !quiet {
				fmt.Printf("Deleted task %s (%s)\n", t.ID, t.Name)
			}
			return nil
		},
	}
}
