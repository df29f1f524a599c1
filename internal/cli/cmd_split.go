// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docket/internal/reconcile"
	"github.com/randalmurphal/docket/internal/task"
)

// newSplitCmd creates the split command
func newSplitCmd() *cobra.Command {
	var mode string
	var analysis string

	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Reconcile a batch of task specs against the store",
		Long: `Reconcile a batch of task specs against the live store.

The batch is read from the given file, or from stdin when the file is
omitted or given as "-". It may be a bare JSON array of specs or a
{"tasks": [...]} envelope. Dependencies may name sibling specs that
appear later in the same batch.

The mode decides what happens to tasks already in the store:
  append         keep everything, add the batch
  overwrite      drop unfinished tasks, keep completed ones, add the batch
  selective      update unfinished tasks matched by name, add the rest
  clearAllTasks  archive completed tasks, wipe the store, add the batch

Completed tasks are never modified in any mode.

Examples:
  docket split plan.json --mode clearAllTasks
  docket split --mode append < more-tasks.json
  docket split plan.json --mode selective --analysis "$(cat analysis.md)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readBatch(cmd, args)
			if err != nil {
				return err
			}

			specs, err := task.DecodeSpecs(data)
			if err != nil {
				return fmt.Errorf("parse batch: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			res, err := openRepo(cfg).Split(specs, reconcile.Mode(mode), analysis)
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(map[string]any{
					"changed": res.Changed,
					"all":     res.All,
					"backup":  res.Backup,
				}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			if res.Backup != "" && !quiet {
				fmt.Printf("Archived completed tasks to %s\n", res.Backup)
			}

			fmt.Printf("Reconciled %d task(s) (mode: %s), %d in store\n", len(res.Changed), mode, len(res.All))

			if len(res.Changed) > 0 && !quiet {
				fmt.Println()
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTATUS\tNAME\tDEPS")
				fmt.Fprintln(w, "──\t──────\t────\t────")
				for _, t := range res.Changed {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.ID, statusIcon(t.Status), truncate(t.Name, 40), len(t.Dependencies))
				}
				w.Flush()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "reconciliation mode (append, overwrite, selective, clearAllTasks)")
	cmd.Flags().StringVarP(&analysis, "analysis", "a", "", "analysis text stamped on every created or updated task")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

// readBatch reads the spec batch from the file argument or stdin.
func readBatch(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return data, nil
}
