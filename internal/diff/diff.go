// Package diff renders dry-run previews of codemod rewrites as unified diffs,
// built on the sergi/go-diff engine with a line-level reduction.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineKind classifies one preview line.
type LineKind int

const (
	Context LineKind = iota
	Added
	Removed
)

// Line is a single line of a hunk.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a contiguous group of changes with surrounding context.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// contextLines is how much unchanged context surrounds each hunk.
const contextLines = 3

// Compute diffs two versions of a file into hunks. Identical inputs yield nil.
func Compute(oldText, newText string) []Hunk {
	if oldText == newText {
		return nil
	}
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	// Line-level reduction avoids newline boundary artifacts when mapping
	// back to per-line operations.
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	return group(operations(diffs))
}

type op struct {
	kind    LineKind
	oldLine int
	newLine int
	text    string
}

func operations(diffs []diffmatchpatch.Diff) []op {
	var ops []op
	oldLine, newLine := 0, 0
	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		for _, line := range lines {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, op{kind: Context, oldLine: oldLine, newLine: newLine, text: line})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, op{kind: Removed, oldLine: oldLine, newLine: -1, text: line})
				oldLine++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, op{kind: Added, oldLine: -1, newLine: newLine, text: line})
				newLine++
			}
		}
	}
	return ops
}

// group folds operations into hunks, keeping contextLines of context on both
// sides of each change run and splitting where changes are far apart.
func group(ops []op) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(ops) {
		if ops[i].kind == Context {
			i++
			continue
		}

		start := i - contextLines
		if start < 0 {
			start = 0
		}

		// Extend through subsequent changes separated by small context runs.
		end := i
		last := i
		for end < len(ops) {
			if ops[end].kind != Context {
				last = end
			} else if end-last > 2*contextLines {
				break
			}
			end++
		}
		stop := last + contextLines + 1
		if stop > len(ops) {
			stop = len(ops)
		}

		h := Hunk{OldStart: ops[start].oldLine + 1, NewStart: ops[start].newLine + 1}
		if ops[start].oldLine < 0 {
			h.OldStart = 0
		}
		if ops[start].newLine < 0 {
			h.NewStart = 0
		}
		for _, o := range ops[start:stop] {
			h.Lines = append(h.Lines, Line{Kind: o.kind, Text: o.text})
			if o.kind != Added {
				h.OldCount++
			}
			if o.kind != Removed {
				h.NewCount++
			}
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}

// Unified renders hunks in unified diff format for terminal display.
func Unified(path string, hunks []Hunk) string {
	if len(hunks) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, line := range h.Lines {
			switch line.Kind {
			case Added:
				b.WriteString("+")
			case Removed:
				b.WriteString("-")
			default:
				b.WriteString(" ")
			}
			b.WriteString(line.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
