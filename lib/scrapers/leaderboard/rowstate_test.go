package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowState(t *testing.T) {
	state := newRowState()
	require.False(t, state.isExpanded())
	require.Equal(t, "Collapsed", state.String())

	require.NoError(t, state.expand(3))
	require.True(t, state.isExpanded())
	require.Equal(t, "Expanded(3)", state.String())

	require.ErrorIs(t, state.expand(4), ErrRowStillExpanded)
	require.Error(t, state.collapse(4))
	require.Equal(t, "Expanded(3)", state.String())

	require.NoError(t, state.collapse(3))
	require.False(t, state.isExpanded())
	require.Error(t, state.collapse(3))
}
