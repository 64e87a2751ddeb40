package diff

import (
	"strings"
	"testing"
)

func TestCompute_SimpleChange(t *testing.T) {
	oldText := "line1\nline2\nline3\n"
	newText := "line1\nchanged\nline3\n"

	hunks := Compute(oldText, newText)
	if len(hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(hunks))
	}

	var removed, added bool
	for _, line := range hunks[0].Lines {
		if line.Kind == Removed && line.Text == "line2" {
			removed = true
		}
		if line.Kind == Added && line.Text == "changed" {
			added = true
		}
	}
	if !removed {
		t.Error("expected removed line 'line2'")
	}
	if !added {
		t.Error("expected added line 'changed'")
	}
}

func TestCompute_Identical(t *testing.T) {
	if hunks := Compute("same\n", "same\n"); hunks != nil {
		t.Errorf("expected nil hunks for identical inputs, got %d", len(hunks))
	}
}

func TestCompute_DistantChangesSplitHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 0; i < 30; i++ {
		oldLines = append(oldLines, "ctx")
		newLines = append(newLines, "ctx")
	}
	oldLines[0] = "first-old"
	newLines[0] = "first-new"
	oldLines[29] = "last-old"
	newLines[29] = "last-new"

	hunks := Compute(strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")
	if len(hunks) != 2 {
		t.Fatalf("expected 2 hunks for distant changes, got %d", len(hunks))
	}
}

func TestUnified(t *testing.T) {
	hunks := Compute("a\nb\n", "a\nc\n")
	out := Unified("src/button.stories.js", hunks)

	for _, want := range []string{
		"--- a/src/button.stories.js",
		"+++ b/src/button.stories.js",
		"@@ ",
		"-b",
		"+c",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("unified output missing %q:\n%s", want, out)
		}
	}
}

func TestUnified_Empty(t *testing.T) {
	if out := Unified("x.js", nil); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
