// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docket/internal/repo"
)

// newUpdateCmd creates the update command
func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update task fields",
		Long: `Update fields on an existing task. Only flags that are given change
anything; everything else is left as is.

COMPLETED tasks accept only --summary and --file. Dependency references
may use identifiers or exact names; --clear-deps removes all of them.

Example:
  docket update <id> --name "Better name"
  docket update <id> --dep <other-id> --dep "Some task name"
  docket update <id> --clear-deps
  docket update <id> --summary "Shipped in v1.2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var p repo.Patch
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				p.Name = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				p.Description = &v
			}
			if cmd.Flags().Changed("notes") {
				v, _ := cmd.Flags().GetString("notes")
				p.Notes = &v
			}
			if cmd.Flags().Changed("guide") {
				v, _ := cmd.Flags().GetString("guide")
				p.ImplementationGuide = &v
			}
			if cmd.Flags().Changed("criteria") {
				v, _ := cmd.Flags().GetString("criteria")
				p.VerificationCriteria = &v
			}
			if cmd.Flags().Changed("summary") {
				v, _ := cmd.Flags().GetString("summary")
				p.Summary = &v
			}
			if cmd.Flags().Changed("dep") {
				v, _ := cmd.Flags().GetStringSlice("dep")
				p.Dependencies = v
			}
			if clearDeps, _ := cmd.Flags().GetBool("clear-deps"); clearDeps {
				p.Dependencies = []string{}
			}
			if cmd.Flags().Changed("file") {
				v, _ := cmd.Flags().GetStringSlice("file")
				files, err := parseRelatedFiles(v)
				if err != nil {
					return err
				}
				p.RelatedFiles = files
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			t, err := openRepo(cfg).Update(id, p)
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(map[string]any{"task": t}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("Updated task %s (%s)\n", t.ID, t.Name)
			return nil
		},
	}

	cmd.Flags().String("name", "", "new task name")
	cmd.Flags().StringP("description", "d", "", "new description")
	cmd.Flags().String("notes", "", "new notes")
	cmd.Flags().String("guide", "", "new implementation guide")
	cmd.Flags().String("criteria", "", "new verification criteria")
	cmd.Flags().String("summary", "", "new summary (allowed on COMPLETED tasks)")
	cmd.Flags().StringSlice("dep", nil, "replacement dependency list (identifier or exact name)")
	cmd.Flags().Bool("clear-deps", false, "remove all dependencies")
	cmd.Flags().StringSlice("file", nil, "replacement related files as TYPE:PATH")

	return cmd
}
