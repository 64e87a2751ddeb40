package codemod

import (
	sitter "github.com/smacker/go-tree-sitter"

	"storymod/internal/jsparse"
)

// chainFragment is one top-level statement whose value is a call chain rooted
// at the legacy registration call. Sites are kept in source order.
type chainFragment struct {
	// statement is the node excised when the replacement block is spliced in:
	// either an expression_statement or a whole variable declaration.
	statement *sitter.Node
	root      *sitter.Node
	// binding is the declarator's name node when the chain is the initializer
	// of a variable declaration, nil for a bare expression statement.
	binding    *sitter.Node
	title      string
	adds       []*sitter.Node
	decorators []*sitter.Node
	parameters []*sitter.Node
}

// exportSurface is the module's pre-existing export shape.
type exportSurface struct {
	hasDefault bool
	named      []string
}

// locate scans the top level of a parsed module for chain fragments and the
// existing export surface. Read-only; no node is modified.
func locate(tree *jsparse.Tree, legacyName string) ([]*chainFragment, exportSurface) {
	var frags []*chainFragment
	var surface exportSurface

	root := tree.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Type() {
		case "export_statement":
			collectExports(tree, stmt, &surface)
		case "expression_statement":
			expr := stmt.NamedChild(0)
			if expr != nil && expr.Type() == "call_expression" {
				if frag := decomposeChain(tree, stmt, expr, legacyName); frag != nil {
					frags = append(frags, frag)
				}
			}
		case "lexical_declaration", "variable_declaration":
			// Only the single-declarator shape `const x = storiesOf(...)...`
			// is supported; multi-declarator statements cannot be excised as
			// a unit without touching unrelated bindings.
			if stmt.NamedChildCount() != 1 {
				continue
			}
			decl := stmt.NamedChild(0)
			if decl.Type() != "variable_declarator" {
				continue
			}
			name := decl.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				continue
			}
			value := decl.ChildByFieldName("value")
			if value != nil && value.Type() == "call_expression" {
				if frag := decomposeChain(tree, stmt, value, legacyName); frag != nil {
					frag.binding = name
					frags = append(frags, frag)
				}
			}
		}
	}
	return frags, surface
}

// decomposeChain validates that expr is a complete chain of recognized links
// over a legacy root call. A chain containing any unrecognized link is not a
// fragment at all; the statement is left untouched. Recursion into the
// receiver before recording each site yields sites in source order directly.
func decomposeChain(tree *jsparse.Tree, stmt, expr *sitter.Node, legacyName string) *chainFragment {
	frag := &chainFragment{statement: stmt}

	var descend func(call *sitter.Node) bool
	descend = func(call *sitter.Node) bool {
		fn := call.ChildByFieldName("function")
		if fn == nil {
			return false
		}
		switch fn.Type() {
		case "identifier":
			if tree.Text(fn) != legacyName {
				return false
			}
			args := callArgs(call)
			if len(args) == 0 || args[0].Type() != "string" {
				return false
			}
			frag.root = call
			frag.title = stringInner(tree, args[0])
			return true
		case "member_expression":
			receiver := fn.ChildByFieldName("object")
			if receiver == nil || receiver.Type() != "call_expression" {
				return false
			}
			if !descend(receiver) {
				return false
			}
			prop := fn.ChildByFieldName("property")
			if prop == nil {
				return false
			}
			args := callArgs(call)
			switch tree.Text(prop) {
			case "add":
				if len(args) < 2 || len(args) > 3 || args[0].Type() != "string" {
					return false
				}
				if len(args) == 3 && args[2].Type() != "object" {
					return false
				}
				frag.adds = append(frag.adds, call)
			case "addDecorator":
				if len(args) != 1 {
					return false
				}
				frag.decorators = append(frag.decorators, call)
			case "addParameters":
				if len(args) != 1 || args[0].Type() != "object" {
					return false
				}
				frag.parameters = append(frag.parameters, call)
			default:
				return false
			}
			return true
		default:
			return false
		}
	}

	if !descend(expr) {
		return nil
	}
	return frag
}

// bindingInUse reports whether the identifier the chain is bound to is
// referenced anywhere outside its own declaration site. Such a chain cannot
// be excised without orphaning the remaining references.
func (f *chainFragment) bindingInUse(tree *jsparse.Tree) bool {
	if f.binding == nil {
		return false
	}
	name := tree.Text(f.binding)

	found := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found {
			return
		}
		switch n.Type() {
		case "identifier", "shorthand_property_identifier":
			if tree.Text(n) == name && n.StartByte() != f.binding.StartByte() {
				found = true
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.Root())
	return found
}

// collectExports records an export statement's contribution to the surface.
func collectExports(tree *jsparse.Tree, stmt *sitter.Node, surface *exportSurface) {
	for i := 0; i < int(stmt.ChildCount()); i++ {
		if stmt.Child(i).Type() == "default" {
			surface.hasDefault = true
			return
		}
	}

	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			for i := 0; i < int(decl.NamedChildCount()); i++ {
				d := decl.NamedChild(i)
				if d.Type() != "variable_declarator" {
					continue
				}
				if name := d.ChildByFieldName("name"); name != nil {
					surface.named = append(surface.named, patternIdents(tree, name)...)
				}
			}
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if name := decl.ChildByFieldName("name"); name != nil {
				surface.named = append(surface.named, tree.Text(name))
			}
		}
		return
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		clause := stmt.NamedChild(i)
		if clause.Type() != "export_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			spec := clause.NamedChild(j)
			if spec.Type() != "export_specifier" {
				continue
			}
			exported := spec.ChildByFieldName("alias")
			if exported == nil {
				exported = spec.ChildByFieldName("name")
			}
			if exported != nil {
				surface.named = append(surface.named, tree.Text(exported))
			}
		}
	}
}

// callArgs returns the named argument nodes of a call, comments excluded.
func callArgs(call *sitter.Node) []*sitter.Node {
	arguments := call.ChildByFieldName("arguments")
	if arguments == nil {
		return nil
	}
	var args []*sitter.Node
	for i := 0; i < int(arguments.NamedChildCount()); i++ {
		arg := arguments.NamedChild(i)
		if arg.Type() == "comment" {
			continue
		}
		args = append(args, arg)
	}
	return args
}

// stringInner returns the contents of a string literal without its quotes,
// escape sequences left as written.
func stringInner(tree *jsparse.Tree, n *sitter.Node) string {
	text := tree.Text(n)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
