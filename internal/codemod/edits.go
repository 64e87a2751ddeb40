package codemod

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"storymod/internal/jsparse"
)

// edit replaces source bytes [start, end) with text. Edits never overlap: one
// covers the chain statement, one the legacy import.
type edit struct {
	start, end uint32
	text       string
}

// applyEdits splices edits into the source, highest offset first so earlier
// ranges stay valid.
func applyEdits(src []byte, edits []edit) []byte {
	sorted := make([]edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start > sorted[j].start })

	out := src
	for _, e := range sorted {
		patched := make([]byte, 0, len(out)-int(e.end-e.start)+len(e.text))
		patched = append(patched, out[:e.start]...)
		patched = append(patched, e.text...)
		patched = append(patched, out[e.end:]...)
		out = patched
	}
	return out
}

// statementEdit excises a statement as a single AST-ranged replacement. The
// whole declaration, initializer included, goes at once; no textual cleanup
// pass is needed afterwards.
func statementEdit(stmt *sitter.Node, replacement string) edit {
	return edit{start: stmt.StartByte(), end: stmt.EndByte(), text: replacement}
}

// pruneImport removes the legacy registration function from the module's
// imports: the whole import statement when it is the only thing imported,
// otherwise just its specifier. Returns nil when no such import exists.
func pruneImport(tree *jsparse.Tree, legacyName string) *edit {
	root := tree.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "import_statement" {
			continue
		}
		if e := pruneImportStatement(tree, stmt, legacyName); e != nil {
			return e
		}
	}
	return nil
}

func pruneImportStatement(tree *jsparse.Tree, stmt *sitter.Node, legacyName string) *edit {
	var clause *sitter.Node
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		if child := stmt.NamedChild(i); child.Type() == "import_clause" {
			clause = child
			break
		}
	}
	if clause == nil {
		return nil
	}

	var defaultImport, namespace string
	var remaining []string
	found := false

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			defaultImport = tree.Text(child)
		case "namespace_import":
			namespace = tree.Text(child)
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				local := spec.ChildByFieldName("alias")
				if local == nil {
					local = spec.ChildByFieldName("name")
				}
				if local != nil && tree.Text(local) == legacyName {
					found = true
					continue
				}
				remaining = append(remaining, tree.Text(spec))
			}
		}
	}
	if !found {
		return nil
	}

	if defaultImport == "" && namespace == "" && len(remaining) == 0 {
		end := stmt.EndByte()
		if int(end) < len(tree.Source) && tree.Source[end] == '\n' {
			end++
		}
		return &edit{start: stmt.StartByte(), end: end, text: ""}
	}

	parts := make([]string, 0, 3)
	if defaultImport != "" {
		parts = append(parts, defaultImport)
	}
	if namespace != "" {
		parts = append(parts, namespace)
	}
	if len(remaining) > 0 {
		parts = append(parts, "{ "+strings.Join(remaining, ", ")+" }")
	}
	source := tree.Text(stmt.ChildByFieldName("source"))
	rebuilt := "import " + strings.Join(parts, ", ") + " from " + source + ";"
	return &edit{start: stmt.StartByte(), end: stmt.EndByte(), text: rebuilt}
}
