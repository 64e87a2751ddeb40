package codemod

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymod/internal/jsparse"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"default":          "Default",
		"with punctuation": "WithPunctuation",
		"toggle on/off":    "ToggleOnOff",
		"1 default":        "_1Default",
		"XMLHttp story":    "XmlHttpStory",
		"--- ---":          "Story",
		"camelCase name":   "CamelCaseName",
	}
	for input, want := range cases {
		assert.Equal(t, want, sanitizeName(input), "sanitizeName(%q)", input)
	}
}

func TestStoryNameFromIdentifier(t *testing.T) {
	t.Run("recovers start-cased names", func(t *testing.T) {
		assert.Equal(t, "Toggle On Off", storyNameFromIdentifier("ToggleOnOff"))
		assert.Equal(t, "Default", storyNameFromIdentifier("Default"))
	})

	t.Run("round trip detects redundant display names", func(t *testing.T) {
		name := "Primary Button"
		ident := sanitizeName(name)
		assert.Equal(t, name, storyNameFromIdentifier(ident),
			"display name should be recoverable, so storing it is redundant")
	})

	t.Run("lowercase names do not round trip", func(t *testing.T) {
		ident := sanitizeName("default")
		assert.NotEqual(t, "default", storyNameFromIdentifier(ident))
	})
}

func TestIdentifierRegistry(t *testing.T) {
	parser := jsparse.NewParser()
	defer parser.Close()

	source := `import ns, { helper as local } from './m';
const { a, b: renamed, ...rest } = obj;
function outer(first, { second } = {}) {
  const inner = (third) => third;
  return inner;
}
class Widget {}
`
	tree, err := parser.Parse(context.Background(), "m.js", []byte(source))
	require.NoError(t, err)
	defer tree.Close()

	reg := newIdentifierRegistry(tree)
	for _, name := range []string{
		"ns", "local", "a", "renamed", "rest",
		"outer", "first", "second", "inner", "third", "Widget",
	} {
		_, ok := reg.names[name]
		assert.True(t, ok, "expected %q to be registered", name)
	}
	_, ok := reg.names["b"]
	assert.False(t, ok, "pattern keys are not bindings")
}

func TestReserve(t *testing.T) {
	reg := &identifierRegistry{names: map[string]struct{}{"Default": {}}}

	assert.Equal(t, "_Default", reg.reserve("Default"))
	assert.Equal(t, "__Default", reg.reserve("Default"), "repeated prefixing until unique")
	assert.Equal(t, "Primary", reg.reserve("Primary"))
}
