package codemod

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"storymod/internal/jsparse"
)

// identifierRegistry tracks every identifier bound anywhere in the file plus
// the identifiers synthesized so far, so new export names never collide.
type identifierRegistry struct {
	names map[string]struct{}
}

func newIdentifierRegistry(tree *jsparse.Tree) *identifierRegistry {
	reg := &identifierRegistry{names: make(map[string]struct{})}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "variable_declarator":
			if name := n.ChildByFieldName("name"); name != nil {
				reg.addAll(patternIdents(tree, name))
			}
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if name := n.ChildByFieldName("name"); name != nil {
				reg.add(tree.Text(name))
			}
		case "import_specifier":
			local := n.ChildByFieldName("alias")
			if local == nil {
				local = n.ChildByFieldName("name")
			}
			if local != nil {
				reg.add(tree.Text(local))
			}
		case "import_clause", "namespace_import":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if child := n.NamedChild(i); child.Type() == "identifier" {
					reg.add(tree.Text(child))
				}
			}
		case "formal_parameters":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				reg.addAll(patternIdents(tree, n.NamedChild(i)))
			}
		case "arrow_function", "catch_clause":
			if param := n.ChildByFieldName("parameter"); param != nil {
				reg.addAll(patternIdents(tree, param))
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.Root())
	return reg
}

func (r *identifierRegistry) add(name string) {
	r.names[name] = struct{}{}
}

func (r *identifierRegistry) addAll(names []string) {
	for _, name := range names {
		r.add(name)
	}
}

// reserve disambiguates a candidate by prefixing underscores until it is
// unique, then registers and returns it.
func (r *identifierRegistry) reserve(candidate string) string {
	for {
		if _, taken := r.names[candidate]; !taken {
			r.add(candidate)
			return candidate
		}
		candidate = "_" + candidate
	}
}

// patternIdents collects the bound identifiers of a binding pattern, covering
// plain names and destructured object/array patterns.
func patternIdents(tree *jsparse.Tree, n *sitter.Node) []string {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{tree.Text(n)}
	case "pair_pattern":
		if value := n.ChildByFieldName("value"); value != nil {
			return patternIdents(tree, value)
		}
	case "assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			return patternIdents(tree, left)
		}
	case "object_pattern", "array_pattern", "rest_pattern":
		var idents []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			idents = append(idents, patternIdents(tree, n.NamedChild(i))...)
		}
		return idents
	}
	return nil
}

// sanitizeName converts an arbitrary story display name into a syntactically
// valid PascalCase identifier candidate. "toggle on/off" becomes "ToggleOnOff",
// "1 default" becomes "_1Default".
func sanitizeName(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return "Story"
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// storyNameFromIdentifier is the inverse mapping: "ToggleOnOff" reads back as
// "Toggle On Off". When it recovers the display name exactly, the name does
// not need to be stored alongside the export.
func storyNameFromIdentifier(ident string) string {
	return strings.Join(splitWords(ident), " ")
}

// splitWords breaks a string into alphanumeric words, splitting on separator
// characters, lower-to-upper case transitions, letter/digit boundaries and
// the tail of acronym runs ("XMLHttp" -> "XML", "Http").
func splitWords(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(r),
			unicode.IsLetter(prev) != unicode.IsLetter(r):
			flush(i)
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

func capitalize(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
