package codemod

import (
	"context"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// Kitchen-sink migration pinned as a snapshot: module decorators and
// parameters, per-story metadata, pre-existing exports, a shared import and
// a name that needs disambiguation all in one file.
func TestTransform_Snapshot(t *testing.T) {
	source := `import React, { storiesOf, configure } from '@storybook/react';
import { withKnobs } from '@storybook/addon-knobs';

export const decorators = [];
export const Basic = () => null;

storiesOf('Widgets/Toolbar', module)
  .addDecorator(withKnobs)
  .addParameters({ layout: 'centered', a11y: { disable: true } })
  .addParameters({ layout: 'fullscreen' })
  .add('basic', () => <Toolbar />)
  .add('with items', () => <Toolbar items={items} />, {
    decorators: [withFrame],
    viewport: 'tablet',
  })
  .add('1 empty', () => <Toolbar items={[]} />);
`
	res, err := Transform(context.Background(), File{
		Path:   "toolbar.stories.jsx",
		Source: []byte(source),
	}, DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Changed)

	snaps.MatchSnapshot(t, string(res.Output))
}
