package streamxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionTableAddChildAndOpen(t *testing.T) {
	table := newTransitionTable()

	idx, err := table.addChild(rootStateIndex, "tool", nil, []string{"name"}, 64)
	require.NoError(t, err)
	require.Equal(t, "/tool", table.pathOf(idx))
	require.Equal(t, 1, table.depthOf(idx))

	next, ok := table.tryOpen(rootStateIndex, "tool")
	require.True(t, ok)
	require.Equal(t, idx, next)
}

func TestTransitionTableRejectsEmptyName(t *testing.T) {
	table := newTransitionTable()
	_, err := table.addChild(rootStateIndex, "", nil, nil, 64)
	require.ErrorIs(t, err, ErrEmptyTagName)

	_, err = table.addChild(rootStateIndex, "tool", []string{""}, nil, 64)
	require.ErrorIs(t, err, ErrEmptyTagName)
}

func TestTransitionTableEnforcesMaxDepth(t *testing.T) {
	table := newTransitionTable()
	idx, err := table.addChild(rootStateIndex, "a", nil, nil, 1)
	require.NoError(t, err)

	_, err = table.addChild(idx, "b", nil, nil, 1)
	require.ErrorIs(t, err, ErrMaxDepthExceeded)
}

func TestTransitionTableAliasOpensAndClosesLikeCanonicalName(t *testing.T) {
	table := newTransitionTable()
	idx, err := table.addChild(rootStateIndex, "tool", []string{"t", "invoke"}, nil, 64)
	require.NoError(t, err)

	for _, name := range []string{"tool", "t", "invoke"} {
		next, ok := table.tryOpen(rootStateIndex, name)
		require.True(t, ok, "alias %q should open the same node", name)
		require.Equal(t, idx, next)
	}

	for _, name := range []string{"tool", "t", "invoke"} {
		prev, ok := table.tryClose(idx, name)
		require.True(t, ok, "alias %q should close the same node", name)
		require.Equal(t, rootStateIndex, prev)
	}
}

func TestTransitionTableCloseRejectsMismatchedName(t *testing.T) {
	table := newTransitionTable()
	idx, err := table.addChild(rootStateIndex, "tool", nil, nil, 64)
	require.NoError(t, err)

	_, ok := table.tryClose(idx, "other")
	require.False(t, ok)
}

func TestTransitionTableCloseAtRootAlwaysFails(t *testing.T) {
	table := newTransitionTable()
	_, ok := table.tryClose(rootStateIndex, "tool")
	require.False(t, ok)
}

func TestTransitionTableAllowedAttributesEmptyWhenNoneDeclared(t *testing.T) {
	table := newTransitionTable()
	idx, err := table.addChild(rootStateIndex, "tool", nil, nil, 64)
	require.NoError(t, err)

	require.Nil(t, table.allowedAttributes(table.pathOf(idx)))
}

func TestTransitionTableAllowedAttributesWhitelist(t *testing.T) {
	table := newTransitionTable()
	idx, err := table.addChild(rootStateIndex, "tool", nil, []string{"name", "id"}, 64)
	require.NoError(t, err)

	allowed := table.allowedAttributes(table.pathOf(idx))
	_, hasName := allowed["name"]
	_, hasID := allowed["id"]
	_, hasBogus := allowed["bogus"]
	require.True(t, hasName)
	require.True(t, hasID)
	require.False(t, hasBogus)
}

func TestTransitionTableNestedPaths(t *testing.T) {
	table := newTransitionTable()
	toolIdx, err := table.addChild(rootStateIndex, "tool", nil, nil, 64)
	require.NoError(t, err)

	nameIdx, err := table.addChild(toolIdx, "name", nil, nil, 64)
	require.NoError(t, err)

	require.Equal(t, "/tool/name", table.pathOf(nameIdx))
	require.Equal(t, 2, table.depthOf(nameIdx))

	next, ok := table.tryOpen(toolIdx, "name")
	require.True(t, ok)
	require.Equal(t, nameIdx, next)
}
