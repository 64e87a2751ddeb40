package codemod

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymod/internal/jsparse"
)

func transformSource(t *testing.T, source string) Result {
	t.Helper()
	res, err := Transform(context.Background(), File{
		Path:   "button.stories.js",
		Source: []byte(source),
	}, DefaultOptions())
	require.NoError(t, err)
	return res
}

func TestTransform_SimpleChain(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('Button', module).add('default', () => X);
`)

	require.True(t, res.Changed)
	assert.Empty(t, res.Diagnostics)

	want := `
export default {
  title: 'Button',
};

export const Default = () => X;

Default.story = {
  name: 'default',
};
`
	assert.Equal(t, want, string(res.Output))
}

func TestTransform_MetadataMerge(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('T', module)
  .addDecorator(d1)
  .addParameters({ a: 1 })
  .add('s1', () => X, { decorators: [d2], b: 2 });
`)

	require.True(t, res.Changed)

	want := `
export default {
  title: 'T',
  decorators: [d1],
  parameters: {
    a: 1,
  },
};

export const S1 = () => X;

S1.story = {
  name: 's1',
  parameters: {
    b: 2,
  },
  decorators: [d2],
};
`
	assert.Equal(t, want, string(res.Output))
}

func TestTransform_DefaultExportConflict(t *testing.T) {
	source := `import { storiesOf } from '@storybook/react';

export default { title: 'Existing' };

storiesOf('Button', module).add('default', () => X);
`
	res := transformSource(t, source)

	assert.False(t, res.Changed)
	assert.Equal(t, source, string(res.Output), "source must be returned unchanged")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagDefaultExportConflict, res.Diagnostics[0].Kind)
	assert.Equal(t,
		"ambiguous default export + chain found, skipping: button.stories.js",
		res.Diagnostics[0].Message)
}

func TestTransform_MultipleChains(t *testing.T) {
	source := `import { storiesOf } from '@storybook/react';

storiesOf('A', module).add('one', () => X);
storiesOf('B', module).add('two', () => Y);
`
	res := transformSource(t, source)

	assert.False(t, res.Changed)
	assert.Equal(t, source, string(res.Output))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagMultipleChains, res.Diagnostics[0].Kind)
	assert.Equal(t,
		"multiple chains found, manual fix required: button.stories.js",
		res.Diagnostics[0].Message)
}

func TestTransform_NameCollision(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('T', module)
  .add('foo bar', () => X)
  .add('Foo Bar', () => Y);
`)

	require.True(t, res.Changed)
	out := string(res.Output)
	assert.Contains(t, out, "export const FooBar = () => X;")
	assert.Contains(t, out, "export const _FooBar = () => Y;")
}

func TestTransform_OrderPreserved(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('T', module)
  .add('alpha one', () => A)
  .add('beta two', () => B)
  .add('gamma three', () => C);
`)

	require.True(t, res.Changed)
	out := string(res.Output)
	alpha := indexOf(t, out, "export const AlphaOne")
	beta := indexOf(t, out, "export const BetaTwo")
	gamma := indexOf(t, out, "export const GammaThree")
	assert.Less(t, alpha, beta)
	assert.Less(t, beta, gamma)
}

func TestTransform_DecoratorOrderPreserved(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('T', module)
  .addDecorator(d1)
  .addDecorator(d2)
  .add('s', () => X);
`)

	require.True(t, res.Changed)
	assert.Contains(t, string(res.Output), "decorators: [d1, d2],")
}

func TestTransform_ParameterMergeLastWriteWins(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('T', module)
  .addParameters({ a: 1, b: 2 })
  .addParameters({ a: 3 })
  .add('s', () => X);
`)

	require.True(t, res.Changed)
	out := string(res.Output)
	assert.NotContains(t, out, "a: 1")
	assert.Contains(t, out, "b: 2")
	assert.Contains(t, out, "a: 3")
	assert.Less(t, indexOf(t, out, "b: 2"), indexOf(t, out, "a: 3"),
		"later call's properties are appended after earlier ones")
}

func TestTransform_ExcludeStories(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

export const helper = () => 1;
export const { a, b } = pair;

storiesOf('T', module).add('story one', () => X);
`)

	require.True(t, res.Changed)
	assert.Contains(t, string(res.Output), "excludeStories: ['helper', 'a', 'b'],")
}

func TestTransform_CollisionWithExistingBinding(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

const StoryOne = () => X;

storiesOf('T', module).add('story one', StoryOne);
`)

	require.True(t, res.Changed)
	assert.Contains(t, string(res.Output), "export const _StoryOne = StoryOne;")
}

func TestTransform_ImportPruning(t *testing.T) {
	t.Run("sole specifier removes whole statement", func(t *testing.T) {
		res := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('T', module).add('s one', () => X);
`)
		require.True(t, res.Changed)
		assert.NotContains(t, string(res.Output), "import")
	})

	t.Run("shared import keeps other specifiers", func(t *testing.T) {
		res := transformSource(t, `import React, { storiesOf, configure } from '@storybook/react';

storiesOf('T', module).add('s one', () => X);
`)
		require.True(t, res.Changed)
		out := string(res.Output)
		assert.Contains(t, out, "import React, { configure } from '@storybook/react';")
		assert.NotContains(t, out, "storiesOf")
	})
}

func TestTransform_VariableDeclaratorChain(t *testing.T) {
	res := transformSource(t, `import { storiesOf } from '@storybook/react';

const stories = storiesOf('T', module).add('s one', () => X);
`)

	require.True(t, res.Changed)
	out := string(res.Output)
	assert.NotContains(t, out, "const stories", "declaration statement is excised whole")
	assert.Contains(t, out, "export const SOne = () => X;")
}

func TestTransform_BoundChainReferencedElsewhere(t *testing.T) {
	// Excising the declaration would orphan the later `stories.add` call, so
	// the file must come back untouched with a warning.
	source := `import { storiesOf } from '@storybook/react';

const stories = storiesOf('Button', module).add('one', () => X);

stories.add('two', () => Y);
`
	res := transformSource(t, source)

	assert.False(t, res.Changed)
	assert.Equal(t, source, string(res.Output))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagBindingReferenced, res.Diagnostics[0].Kind)
	assert.Equal(t,
		`chain binding "stories" is used elsewhere, manual fix required: button.stories.js`,
		res.Diagnostics[0].Message)
}

func TestTransform_Idempotent(t *testing.T) {
	first := transformSource(t, `import { storiesOf } from '@storybook/react';

storiesOf('Button', module)
  .addDecorator(d1)
  .add('default', () => X)
  .add('primary', () => Y);
`)
	require.True(t, first.Changed)

	second := transformSource(t, string(first.Output))
	assert.False(t, second.Changed)
	assert.Empty(t, second.Diagnostics)
	assert.Empty(t, cmp.Diff(string(first.Output), string(second.Output)))
}

func TestTransform_RoundTripValidity(t *testing.T) {
	sources := []string{
		"import { storiesOf } from '@storybook/react';\n\nstoriesOf('A', module).add('x y', () => X);\n",
		"import { storiesOf } from '@storybook/react';\n\nstoriesOf('A/B', module)\n  .addParameters({ a: { b: 1 } })\n  .add(\"it's complex\", () => X, { decorators: [d], extra: true });\n",
	}
	parser := jsparse.NewParser()
	defer parser.Close()

	for i, source := range sources {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			res := transformSource(t, source)
			require.True(t, res.Changed)
			tree, err := parser.Parse(context.Background(), "out.stories.js", res.Output)
			require.NoError(t, err, "emitted source must parse")
			tree.Close()
		})
	}
}

func TestTransform_NoChainLeavesFileAlone(t *testing.T) {
	source := `const x = somethingElse('title', module).add('name', fn);

chart.add('series', data);
`
	res := transformSource(t, source)

	assert.False(t, res.Changed)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, source, string(res.Output))
}

func TestTransform_ShapeMismatchTolerated(t *testing.T) {
	// .add with a computed first argument is not a recognized site, so the
	// whole chain is left untouched rather than half-rewritten.
	source := `import { storiesOf } from '@storybook/react';

storiesOf('T', module).add(name, () => X);
`
	res := transformSource(t, source)

	assert.False(t, res.Changed)
	assert.Equal(t, source, string(res.Output))
}

func TestTransform_ParseFailure(t *testing.T) {
	_, err := Transform(context.Background(), File{
		Path:   "broken.stories.js",
		Source: []byte("const = ;"),
	}, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, jsparse.ErrParse)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected output to contain %q", needle)
	return idx
}
