// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docket/internal/prompt"
	"github.com/randalmurphal/docket/internal/repo"
)

// newVerifyCmd creates the verify command
func newVerifyCmd() *cobra.Command {
	var score int
	var summary string

	cmd := &cobra.Command{
		Use:   "verify <task-id>",
		Short: "Verify a task against its criteria",
		Long: `Verify an IN_PROGRESS task.

Without --score, prints the verification brief: the task's criteria and
the scoring scale, for the agent judging the work.

With --score, records the verdict. A score at or above the configured
threshold completes the task; --summary is then required and is stored
on the task. A lower score leaves the task IN_PROGRESS.

Example:
  docket verify 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff
  docket verify 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff --score 92 --summary "Endpoint added with tests"
  docket verify 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff --score 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rp := openRepo(cfg)

			if !cmd.Flags().Changed("score") {
				return printVerifyBrief(cfg.DataDir, cfg.VerifyThreshold, rp, id)
			}

			if score < 0 || score > 100 {
				return fmt.Errorf("score must be between 0 and 100, got %d", score)
			}

			t, completed, err := rp.Verify(id, score, cfg.VerifyThreshold, summary)
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(map[string]any{
					"task":      t,
					"score":     score,
					"threshold": cfg.VerifyThreshold,
					"completed": completed,
				}, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			if completed {
				fmt.Println(styled(styles.Success, fmt.Sprintf("Task completed: %s (score %d)", t.Name, score)))
				if !quiet {
					fmt.Printf("   Summary: %s\n", truncate(t.Summary, 70))
				}
				return nil
			}

			fmt.Printf("Score %d is below the threshold of %d - task stays IN_PROGRESS\n", score, cfg.VerifyThreshold)
			if !quiet {
				fmt.Println("Address the gaps and verify again.")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "verification score (0-100)")
	cmd.Flags().StringVar(&summary, "summary", "", "what was accomplished (required when completing)")

	return cmd
}

// printVerifyBrief renders the verification brief for an agent that has
// not scored the work yet.
func printVerifyBrief(docketDir string, threshold int, rp *repo.Repository, id string) error {
	t, err := rp.Get(id)
	if err != nil {
		return err
	}
	all, err := rp.List("")
	if err != nil {
		return err
	}

	if jsonOut {
		out, _ := json.MarshalIndent(map[string]any{
			"task":      t,
			"threshold": threshold,
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	vars := prompt.TaskVars(t, all)
	vars["{{THRESHOLD}}"] = strconv.Itoa(threshold)
	rendered, err := prompt.NewService(docketDir).Render("verify", vars)
	if err != nil {
		return fmt.Errorf("render verify: %w", err)
	}
	fmt.Println(rendered)
	return nil
}
