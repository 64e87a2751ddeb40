package codemod

import (
	sitter "github.com/smacker/go-tree-sitter"

	"storymod/internal/jsparse"
)

// objectProp is one property of an object literal, carried as a raw source
// slice. Spread elements and methods have no usable key and never merge.
type objectProp struct {
	key       string
	text      string
	mergeable bool
}

// moduleMetadata is the file-level accumulation attached to the default export.
type moduleMetadata struct {
	title          string
	decorators     []string
	parameters     []objectProp
	excludeStories []string
}

// storyEntry is one named export derived from an .add site.
type storyEntry struct {
	name       string
	export     string
	render     string
	params     []objectProp
	decorators string
	storeName  bool
}

// extractModule pulls shared metadata out of a fragment's .addDecorator and
// .addParameters sites. Sites arrive in source order from the locator, so a
// plain forward append preserves the original call order.
func extractModule(tree *jsparse.Tree, frag *chainFragment) moduleMetadata {
	meta := moduleMetadata{title: frag.title}

	for _, call := range frag.decorators {
		args := callArgs(call)
		meta.decorators = append(meta.decorators, tree.Text(args[0]))
	}
	for _, call := range frag.parameters {
		args := callArgs(call)
		meta.parameters = mergeProps(meta.parameters, objectProps(tree, args[0]))
	}
	return meta
}

// extractStory derives a story entry from one .add site and reserves its
// export identifier. A third-argument object is split: its `decorators`
// property becomes the story's own decorator list, whatever remains becomes
// the story's parameters, and empty remainders are dropped entirely.
func extractStory(tree *jsparse.Tree, add *sitter.Node, reg *identifierRegistry) storyEntry {
	args := callArgs(add)
	entry := storyEntry{
		name:   stringInner(tree, args[0]),
		render: tree.Text(args[1]),
	}
	entry.export = reg.reserve(sanitizeName(entry.name))
	entry.storeName = storyNameFromIdentifier(entry.export) != entry.name

	if len(args) == 3 {
		obj := args[2]
		for i := 0; i < int(obj.NamedChildCount()); i++ {
			child := obj.NamedChild(i)
			switch child.Type() {
			case "pair":
				if propKey(tree, child.ChildByFieldName("key")) == "decorators" {
					entry.decorators = tree.Text(child.ChildByFieldName("value"))
					continue
				}
				entry.params = append(entry.params, objectProp{
					key:       propKey(tree, child.ChildByFieldName("key")),
					text:      tree.Text(child),
					mergeable: true,
				})
			case "shorthand_property_identifier":
				if tree.Text(child) == "decorators" {
					entry.decorators = tree.Text(child)
					continue
				}
				entry.params = append(entry.params, objectProp{
					key:       tree.Text(child),
					text:      tree.Text(child),
					mergeable: true,
				})
			case "spread_element", "method_definition":
				entry.params = append(entry.params, objectProp{text: tree.Text(child)})
			}
		}
	}
	return entry
}

// objectProps lists the properties of an object literal in source order.
func objectProps(tree *jsparse.Tree, obj *sitter.Node) []objectProp {
	var props []objectProp
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		child := obj.NamedChild(i)
		switch child.Type() {
		case "pair":
			props = append(props, objectProp{
				key:       propKey(tree, child.ChildByFieldName("key")),
				text:      tree.Text(child),
				mergeable: true,
			})
		case "shorthand_property_identifier":
			props = append(props, objectProp{
				key:       tree.Text(child),
				text:      tree.Text(child),
				mergeable: true,
			})
		case "spread_element", "method_definition":
			props = append(props, objectProp{text: tree.Text(child)})
		}
	}
	return props
}

// propKey normalizes a property key for duplicate detection: string keys
// compare by their contents, so `a: 1` and `'a': 2` collide.
func propKey(tree *jsparse.Tree, key *sitter.Node) string {
	if key == nil {
		return ""
	}
	if key.Type() == "string" {
		return stringInner(tree, key)
	}
	return tree.Text(key)
}

// mergeProps appends later properties after earlier ones. A duplicate key
// drops the earlier entry and keeps the later one: last write wins, matching
// what evaluating the original sequential calls would have produced.
func mergeProps(acc, next []objectProp) []objectProp {
	for _, prop := range next {
		if prop.mergeable {
			for i, existing := range acc {
				if existing.mergeable && existing.key == prop.key {
					acc = append(acc[:i], acc[i+1:]...)
					break
				}
			}
		}
		acc = append(acc, prop)
	}
	return acc
}
