// Package cli implements the docket command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docket/internal/search"
)

// newSearchCmd creates the search command over live and archived tasks.
func newSearchCmd() *cobra.Command {
	var isID bool
	var page int
	var pageSize int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search live and archived tasks",
		Long: `Search tasks by keyword, across the live store and the archive
snapshots written by clear and clearAllTasks.

Every whitespace-separated keyword must appear in a task (in its name,
description, notes, implementation guide or summary) for it to match.
With --id the query is taken as an exact task identifier instead. An
empty query lists everything.

Archive scanning uses an external grep when available; configure it via
the search section of .docket/config.yaml.

Examples:
  docket search "login bug"
  docket search --id 7b9e1f22-4c3d-4e5f-9a10-aabbccddeeff
  docket search database --page 2 --page-size 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if pageSize == 0 {
				pageSize = cfg.PageSize
			}

			svc := search.New(openStore(cfg), search.WithFinder(
				search.FinderFor(string(cfg.Search.Command), cfg.Search.MaxOutputBytes)))

			result, err := svc.Query(cmd.Context(), query, isID, page, pageSize)
			if err != nil {
				return err
			}

			if jsonOut {
				out, _ := json.MarshalIndent(result, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			if len(result.Tasks) == 0 {
				if query == "" {
					fmt.Println("No tasks found")
				} else {
					fmt.Printf("No matches found for: %s\n", query)
				}
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tNAME\tUPDATED")
			fmt.Fprintln(w, "──\t──────\t────\t───────")
			for _, t := range result.Tasks {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n",
					shortID(t.ID), statusIcon(t.Status), t.Status,
					truncate(t.Name, 40), t.UpdatedAt.Format("2006-01-02 15:04"))
			}
			w.Flush()

			if !quiet {
				p := result.Pagination
				footer := fmt.Sprintf("\nPage %d of %d (%d result(s))", p.CurrentPage, p.TotalPages, p.TotalResults)
				if p.HasMore {
					footer += fmt.Sprintf(" - next: --page %d", p.CurrentPage+1)
				}
				fmt.Println(styled(styles.Subtle, footer))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&isID, "id", false, "treat the query as an exact task identifier")
	cmd.Flags().IntVar(&page, "page", 1, "result page to show")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page (default from config)")

	return cmd
}
