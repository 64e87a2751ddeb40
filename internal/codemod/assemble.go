package codemod

import (
	"strings"
)

// assembler emits the replacement declarations for one chain fragment.
type assembler struct {
	print PrintOptions
}

// block renders the full replacement: the default export object first, then
// one named export per story in original .add order, each followed by its
// metadata attachment when the story carries any.
func (a *assembler) block(meta moduleMetadata, stories []storyEntry) string {
	parts := []string{a.defaultExport(meta)}
	for _, story := range stories {
		parts = append(parts, a.storyExport(story))
		if attachment := a.storyAttachment(story); attachment != "" {
			parts = append(parts, attachment)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (a *assembler) defaultExport(meta moduleMetadata) string {
	entries := []string{"title: " + a.quote(meta.title)}
	if len(meta.decorators) > 0 {
		entries = append(entries, "decorators: "+a.array(meta.decorators))
	}
	if len(meta.parameters) > 0 {
		entries = append(entries, "parameters: "+a.object(meta.parameters, 1))
	}
	if len(meta.excludeStories) > 0 {
		quoted := make([]string, len(meta.excludeStories))
		for i, name := range meta.excludeStories {
			quoted[i] = a.quote(name)
		}
		entries = append(entries, "excludeStories: "+a.array(quoted))
	}
	return "export default " + a.literal(entries, 0) + ";"
}

func (a *assembler) storyExport(story storyEntry) string {
	return "export const " + story.export + " = " + story.render + ";"
}

// storyAttachment renders `<Id>.story = {...};` holding the story's display
// name (only when the identifier does not read back as the name), parameters
// and decorators. Returns "" when the story carries none of them.
func (a *assembler) storyAttachment(story storyEntry) string {
	var entries []string
	if story.storeName {
		entries = append(entries, "name: "+a.quote(story.name))
	}
	if len(story.params) > 0 {
		entries = append(entries, "parameters: "+a.object(story.params, 1))
	}
	if story.decorators != "" {
		entries = append(entries, "decorators: "+story.decorators)
	}
	if len(entries) == 0 {
		return ""
	}
	return story.export + ".story = " + a.literal(entries, 0) + ";"
}

// object renders properties as a multiline object literal at the given
// indentation level, one property per line. Property texts are raw source
// slices and are never reformatted.
func (a *assembler) object(props []objectProp, level int) string {
	entries := make([]string, len(props))
	for i, prop := range props {
		entries[i] = prop.text
	}
	return a.literal(entries, level)
}

// literal renders a multiline `{ ... }` body with the configured indentation
// and trailing-comma policy.
func (a *assembler) literal(entries []string, level int) string {
	indent := strings.Repeat(" ", a.print.Indent*(level+1))
	closing := strings.Repeat(" ", a.print.Indent*level)

	var b strings.Builder
	b.WriteString("{\n")
	for i, entry := range entries {
		b.WriteString(indent)
		b.WriteString(entry)
		if i < len(entries)-1 || a.print.TrailingComma {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(closing)
	b.WriteString("}")
	return b.String()
}

// array renders a single-line array expression.
func (a *assembler) array(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

// quote wraps synthesized text in the configured quote style, escaping any
// bare occurrence of that quote inside the text.
func (a *assembler) quote(s string) string {
	q := a.print.quoteRune()
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		if s[i] == q && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte(q)
	return b.String()
}
