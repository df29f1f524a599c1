// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docket/internal/task"
)

// newNewCmd creates the new task command
func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a single task",
		Long: `Create a single task outside a reconciliation batch.

The task starts PENDING. Dependencies may reference existing tasks by
identifier or by exact name; references that match nothing are dropped.

Use --file to link files the task touches, as TYPE:PATH pairs. Valid
types: TO_MODIFY, REFERENCE, CREATE, DEPENDENCY, OTHER.

Example:
  docket new "Add login endpoint" -d "POST /login with session cookie"
  docket new "Wire rate limiter" -d "..." --dep "Add login endpoint"
  docket new "Refactor store" -d "..." --file TO_MODIFY:internal/store/store.go`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			description, _ := cmd.Flags().GetString("description")
			notes, _ := cmd.Flags().GetString("notes")
			guide, _ := cmd.Flags().GetString("guide")
			criteria, _ := cmd.Flags().GetString("criteria")
			deps, _ := cmd.Flags().GetStringSlice("dep")
			fileFlags, _ := cmd.Flags().GetStringSlice("file")

			files, err := parseRelatedFiles(fileFlags)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			t, err := openRepo(cfg).Create(task.Spec{
				Name:                 name,
				Description:          description,
				Notes:                notes,
				ImplementationGuide:  guide,
				VerificationCriteria: criteria,
				Dependencies:         deps,
				RelatedFiles:         files,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(map[string]any{"task": t}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			fmt.Println(styled(styles.Success, fmt.Sprintf("Task created: %s", t.ID)))
			fmt.Printf("   Name:   %s\n", t.Name)
			fmt.Printf("   Status: %s\n", t.Status)
			if len(t.Dependencies) > 0 {
				fmt.Printf("   Deps:   %s\n", strings.Join(t.Dependencies, ", "))
			}
			if len(t.RelatedFiles) > 0 {
				fmt.Printf("   Files:  %d\n", len(t.RelatedFiles))
			}

			if !quiet {
				fmt.Println("\nNext steps:")
				fmt.Printf("  docket execute %s    - Start the task\n", t.ID)
				fmt.Printf("  docket show %s       - View task details\n", t.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "full task description")
	cmd.Flags().String("notes", "", "supplemental notes")
	cmd.Flags().String("guide", "", "implementation guide")
	cmd.Flags().String("criteria", "", "verification criteria")
	cmd.Flags().StringSlice("dep", nil, "prerequisite task (identifier or exact name)")
	cmd.Flags().StringSlice("file", nil, "related file as TYPE:PATH")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// parseRelatedFiles parses TYPE:PATH flag values into related files.
func parseRelatedFiles(flags []string) ([]task.RelatedFile, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	files := make([]task.RelatedFile, 0, len(flags))
	for _, f := range flags {
		parts := strings.SplitN(f, ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("invalid --file value %q (want TYPE:PATH)", f)
		}
		ft := task.RelatedFileType(parts[0])
		if !task.IsValidRelatedFileType(ft) {
			return nil, fmt.Errorf("invalid related file type %q (valid: TO_MODIFY, REFERENCE, CREATE, DEPENDENCY, OTHER)", parts[0])
		}
		files = append(files, task.RelatedFile{Path: parts[1], Type: ft})
	}
	return files, nil
}
