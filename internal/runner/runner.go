// Package runner drives the codemod across many files: discovery, parallel
// transformation, write-back and report aggregation. Files are independent,
// so a failure in one never stops the rest of the batch.
package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storymod/internal/codemod"
	"storymod/internal/config"
	"storymod/internal/diff"
)

// Runner applies the transform over a file set.
type Runner struct {
	cfg *config.Config
	log *zap.Logger

	// DryRun computes previews instead of writing files back.
	DryRun bool
}

// New creates a runner for the given configuration.
func New(cfg *config.Config, log *zap.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path        string
	Changed     bool
	Preview     string
	Diagnostics []codemod.Diagnostic
	Err         error
}

// Report aggregates a whole run.
type Report struct {
	RunID       string
	Scanned     int
	Changed     int
	Skipped     int
	Failed      int
	Files       []FileResult
	Diagnostics []codemod.Diagnostic
}

// Run discovers candidate files under the given roots and transforms them.
// Per-file errors are recorded in the report, not returned; the returned
// error covers discovery and cancellation only.
func (r *Runner) Run(ctx context.Context, roots []string) (*Report, error) {
	paths, err := r.discover(roots)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.New().String(), Scanned: len(paths)}
	r.log.Info("starting run",
		zap.String("run_id", report.RunID),
		zap.Int("files", len(paths)),
		zap.Bool("dry_run", r.DryRun))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())

	for _, path := range paths {
		path := path
		g.Go(func() error {
			res := r.processFile(gctx, path)
			mu.Lock()
			report.Files = append(report.Files, res)
			mu.Unlock()
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Path < report.Files[j].Path })
	for _, res := range report.Files {
		switch {
		case res.Err != nil:
			report.Failed++
		case res.Changed:
			report.Changed++
		case len(res.Diagnostics) > 0:
			report.Skipped++
		}
		report.Diagnostics = append(report.Diagnostics, res.Diagnostics...)
	}
	return report, nil
}

// processFile transforms a single file and writes it back unless DryRun is
// set. Called per discovered file by Run and per change event by Watch.
func (r *Runner) processFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	source, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	out, err := codemod.Transform(ctx, codemod.File{Path: path, Source: source}, r.options())
	res.Diagnostics = out.Diagnostics
	if err != nil {
		r.log.Warn("transform failed", zap.String("path", path), zap.Error(err))
		res.Err = err
		return res
	}
	for _, d := range out.Diagnostics {
		r.log.Warn(d.Message, zap.String("kind", string(d.Kind)))
	}
	if !out.Changed {
		return res
	}
	res.Changed = true

	if r.DryRun {
		res.Preview = diff.Unified(path, diff.Compute(string(source), string(out.Output)))
		return res
	}

	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, out.Output, mode); err != nil {
		res.Err = fmt.Errorf("write %s: %w", path, err)
		return res
	}
	r.log.Info("rewrote file", zap.String("path", path))
	return res
}

// discover walks the given roots collecting files that match the configured
// extensions and include patterns, skipping excluded directories. Roots that
// are plain files are taken as-is when they match.
func (r *Runner) discover(roots []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})

	add := func(path string) {
		if _, dup := seen[path]; !dup {
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if r.candidate(root) {
				add(root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if r.excluded(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if r.candidate(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Runner) candidate(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	matched := false
	for _, e := range r.cfg.Extensions {
		if ext == e {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if len(r.cfg.Include) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range r.cfg.Include {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func (r *Runner) excluded(dirName string) bool {
	for _, name := range r.cfg.Exclude {
		if dirName == name {
			return true
		}
	}
	return false
}

// jobs resolves the concurrency cap: zero means one worker per CPU, matching
// the config default.
func (r *Runner) jobs() int {
	if r.cfg.Jobs > 0 {
		return r.cfg.Jobs
	}
	return runtime.NumCPU()
}

func (r *Runner) options() codemod.Options {
	return codemod.Options{
		LegacyName: r.cfg.LegacyName,
		Print: codemod.PrintOptions{
			Quote:         r.cfg.Printer.Quote,
			TrailingComma: r.cfg.Printer.TrailingComma,
			Indent:        r.cfg.Printer.Indent,
		},
	}
}
