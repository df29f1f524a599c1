// Package cli implements the docket command-line interface.
package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/randalmurphal/docket/internal/config"
	"github.com/randalmurphal/docket/internal/repo"
	"github.com/randalmurphal/docket/internal/store"
	"github.com/randalmurphal/docket/internal/task"
)

// Helper functions

func statusIcon(status task.Status) string {
	switch status {
	case task.StatusPending:
		return "📝"
	case task.StatusInProgress:
		return "⏳"
	case task.StatusCompleted:
		return "✅"
	case task.StatusBlocked:
		return "🚫"
	default:
		return "❓"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// shortID returns the first identifier segment, enough to eyeball a task
// in a table. Full identifiers still come from --json or docket show.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Styles contains the visual styling for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Subtle  lipgloss.Style
}

// DefaultStyles returns the default output styling.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

var styles = DefaultStyles()

// styled renders s with the given style when stdout is a terminal and
// returns it unchanged when output is piped or redirected.
func styled(st lipgloss.Style, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return st.Render(s)
}

// loadConfig loads the effective configuration, applying the --config,
// --data-dir and DOCKET_* environment overrides.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.DocketDir, config.ConfigFileName)
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("data_dir"); v != "" {
		cfg.DataDir = v
	}
	if v := viper.GetInt("page_size"); v > 0 {
		cfg.PageSize = v
	}
	if v := viper.GetInt("verify_threshold"); v > 0 {
		cfg.VerifyThreshold = v
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// openStore opens the task store at the configured data directory.
func openStore(cfg *config.Config) *store.Store {
	return store.New(cfg.DataDir)
}

// openRepo opens the task repository with a logger tuned to the
// --verbose/--quiet flags.
func openRepo(cfg *config.Config) *repo.Repository {
	return repo.New(openStore(cfg), cliLogger())
}

// cliLogger returns the slog logger used by the command layer. Repository
// activity goes to stderr so stdout stays parseable.
func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
