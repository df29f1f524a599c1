// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docket/internal/task"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List all tasks in the store.

Example:
  docket list
  docket list --status PENDING
  docket list --status COMPLETED --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && !task.IsValidStatus(task.Status(status)) {
				return fmt.Errorf("invalid status %q (valid: PENDING, IN_PROGRESS, COMPLETED)", status)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tasks, err := openRepo(cfg).List(task.Status(status))
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(map[string]any{
					"tasks": tasks,
					"count": len(tasks),
				}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks found. Create some with: docket split plan.json --mode clearAllTasks")
				return nil
			}

			// Print tasks in table format
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tNAME\tDEPS\tUPDATED")
			fmt.Fprintln(w, "──\t──────\t────\t────\t───────")

			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\t%s\n",
					shortID(t.ID), statusIcon(t.Status), t.Status,
					truncate(t.Name, 40), len(t.Dependencies),
					t.UpdatedAt.Format("2006-01-02 15:04"))
			}

			w.Flush()

			if !quiet {
				fmt.Println(styled(styles.Subtle, fmt.Sprintf("\n%d task(s)", len(tasks))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (PENDING, IN_PROGRESS, COMPLETED)")

	return cmd
}
