package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"storymod/internal/config"
	"storymod/internal/runner"
)

// watchCmd keeps rewriting story files as they change
var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch paths and rewrite changed story files",
	Long: `Watches the given paths (current directory by default) and applies
the migration to candidate files as they are created or modified. Useful while
incrementally converting a large codebase. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print diffs instead of writing files")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(baseCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(cfg, logger)
	r.DryRun = dryRun

	err = r.Watch(ctx, roots)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
