// Package codemod rewrites legacy imperative story registration chains
// (storiesOf('Title', module).add('name', fn)...) into the declarative module
// form: a default export carrying shared metadata and one named export per
// story. The transform is pure and per-file; ambiguous inputs are skipped
// with a diagnostic instead of being mutated.
package codemod

import (
	"context"
	"fmt"

	"storymod/internal/jsparse"
)

// File is the transform input descriptor. Reading and writing the file is the
// caller's responsibility.
type File struct {
	Path   string
	Source []byte
}

// Result is the transform outcome. Output always holds valid source: the
// rewritten text when Changed is true, the original bytes otherwise.
type Result struct {
	Output      []byte
	Changed     bool
	Diagnostics []Diagnostic
}

// Transform rewrites a single file. It holds no state across invocations and
// performs no I/O, so callers may run it over many files concurrently. A file
// that cannot be parsed fails with an error wrapping jsparse.ErrParse; guard
// vetoes return the source unchanged with a diagnostic.
func Transform(ctx context.Context, file File, opts Options) (Result, error) {
	opts = opts.withDefaults()

	parser := jsparse.NewParser()
	defer parser.Close()

	tree, err := parser.Parse(ctx, file.Path, file.Source)
	if err != nil {
		return Result{Output: file.Source}, err
	}
	defer tree.Close()

	frags, surface := locate(tree, opts.LegacyName)

	// Guards. Vetoes are warnings, not errors: the file is returned unchanged
	// and batch processing of other files continues.
	if len(frags) > 0 && surface.hasDefault {
		return Result{
			Output:      file.Source,
			Diagnostics: []Diagnostic{defaultExportConflict(file.Path)},
		}, nil
	}
	if len(frags) > 1 {
		return Result{
			Output:      file.Source,
			Diagnostics: []Diagnostic{multipleChains(file.Path)},
		}, nil
	}
	if len(frags) == 0 {
		return Result{Output: file.Source}, nil
	}

	frag := frags[0]
	if frag.bindingInUse(tree) {
		return Result{
			Output:      file.Source,
			Diagnostics: []Diagnostic{bindingReferenced(file.Path, tree.Text(frag.binding))},
		}, nil
	}
	registry := newIdentifierRegistry(tree)

	meta := extractModule(tree, frag)
	meta.excludeStories = surface.named

	stories := make([]storyEntry, 0, len(frag.adds))
	for _, add := range frag.adds {
		stories = append(stories, extractStory(tree, add, registry))
	}

	asm := &assembler{print: opts.Print}
	edits := []edit{statementEdit(frag.statement, asm.block(meta, stories))}
	if imp := pruneImport(tree, opts.LegacyName); imp != nil {
		edits = append(edits, *imp)
	}
	out := applyEdits(file.Source, edits)

	// Round-trip check: the replacement is synthesized text, so prove it
	// still parses before handing it back.
	check, err := parser.Parse(ctx, file.Path, out)
	if err != nil {
		return Result{Output: file.Source}, fmt.Errorf("rewrite of %s produced invalid source: %w", file.Path, err)
	}
	check.Close()

	return Result{Output: out, Changed: true}, nil
}
