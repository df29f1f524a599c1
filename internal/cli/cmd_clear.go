// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newClearCmd creates the clear command
func newClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Archive completed tasks and wipe the store",
		Long: `Wipe the live store. COMPLETED tasks are written to an archive
snapshot first; PENDING and IN_PROGRESS tasks are discarded outright.

Archived tasks remain reachable through docket search. This cannot be
undone for unfinished tasks, so --force is required.

Example:
  docket clear --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Println(styled(styles.Warning, "clear discards every PENDING and IN_PROGRESS task"))
				fmt.Println("Completed tasks are archived first. Re-run with --force to proceed.")
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			backup, err := openRepo(cfg).ClearAll()
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(map[string]any{
					"cleared": true,
					"backup":  backup,
				}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			if backup == "" {
				fmt.Println("Store already empty, nothing to clear")
				return nil
			}

			fmt.Printf("Store cleared, archive written: %s\n", backup)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm the wipe")

	return cmd
}
