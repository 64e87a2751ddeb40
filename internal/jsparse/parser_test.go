package jsparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	cases := map[string]Language{
		"a.js":          LangJavaScript,
		"a.jsx":         LangJavaScript,
		"a.mjs":         LangJavaScript,
		"a.stories.js":  LangJavaScript,
		"a.ts":          LangTypeScript,
		"a.mts":         LangTypeScript,
		"a.tsx":         LangTSX,
		"a.stories.TSX": LangTSX,
		"no_extension":  LangJavaScript,
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectLanguage(path), "DetectLanguage(%q)", path)
	}
}

func TestParse(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	t.Run("valid javascript", func(t *testing.T) {
		tree, err := parser.Parse(context.Background(), "a.js", []byte("const x = 1;\n"))
		require.NoError(t, err)
		defer tree.Close()
		assert.Equal(t, "program", tree.Root().Type())
	})

	t.Run("jsx parses with the javascript grammar", func(t *testing.T) {
		tree, err := parser.Parse(context.Background(), "a.jsx", []byte("const x = <Button title=\"hi\" />;\n"))
		require.NoError(t, err)
		tree.Close()
	})

	t.Run("typescript annotations need the typescript grammar", func(t *testing.T) {
		src := []byte("const x: number = 1;\n")
		tree, err := parser.Parse(context.Background(), "a.ts", src)
		require.NoError(t, err)
		tree.Close()
	})

	t.Run("syntax errors are rejected", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), "a.js", []byte("const = ;"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestText(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	source := []byte("const answer = 42;\n")
	tree, err := parser.Parse(context.Background(), "a.js", source)
	require.NoError(t, err)
	defer tree.Close()

	stmt := tree.Root().NamedChild(0)
	assert.Equal(t, "const answer = 42;", tree.Text(stmt))
}
