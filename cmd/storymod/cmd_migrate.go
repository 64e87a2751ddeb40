package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"storymod/internal/config"
	"storymod/internal/runner"
)

var (
	dryRun bool
	jobs   int
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// migrateCmd rewrites story files under the given paths
var migrateCmd = &cobra.Command{
	Use:   "migrate [paths...]",
	Short: "Rewrite storiesOf chains to CSF in place",
	Long: `Discovers story files under the given paths (current directory by
default) and rewrites each legacy chain to the CSF module form. Files that
cannot be rewritten safely are skipped with a warning.

Examples:
  storymod migrate src/
  storymod migrate --dry-run src/stories
  storymod migrate --jobs 4 src/a.stories.js src/b.stories.js`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print diffs instead of writing files")
	migrateCmd.Flags().IntVar(&jobs, "jobs", 0, "max concurrent file transforms (default: one per CPU)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	r := runner.New(cfg, logger)
	r.DryRun = dryRun

	report, err := r.Run(cmd.Context(), roots)
	if err != nil {
		return err
	}
	printReport(cmd, report, dryRun)

	if report.Failed > 0 {
		return errors.New("some files failed to transform")
	}
	return nil
}

func printReport(cmd *cobra.Command, report *runner.Report, dryRun bool) {
	out := cmd.OutOrStdout()

	if dryRun {
		for _, res := range report.Files {
			if res.Preview != "" {
				fmt.Fprint(out, res.Preview)
			}
		}
	}
	for _, d := range report.Diagnostics {
		fmt.Fprintln(out, warnStyle.Render("warn: ")+d.Message)
	}
	for _, res := range report.Files {
		if res.Err != nil {
			fmt.Fprintln(out, errorStyle.Render("fail: ")+res.Err.Error())
		}
	}

	verb := "rewrote"
	if dryRun {
		verb = "would rewrite"
	}
	fmt.Fprintf(out, "%s %s %d of %d files",
		successStyle.Render("done:"), verb, report.Changed, report.Scanned)
	if report.Skipped > 0 {
		fmt.Fprintf(out, ", %s", warnStyle.Render(fmt.Sprintf("%d skipped", report.Skipped)))
	}
	if report.Failed > 0 {
		fmt.Fprintf(out, ", %s", errorStyle.Render(fmt.Sprintf("%d failed", report.Failed)))
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf(" (run %s)", report.RunID)))
}
