package statetree

import (
	"testing"

	"github.com/gocrdt/automerge-frontend/path"
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTripsThroughList(t *testing.T) {
	tree := NewStateTree()
	ln := NewListNode(protocol.NewObjectID(protocol.NewOpID(1, "A")))
	for i, s := range []string{"x", "y", "z"} {
		opID := protocol.NewOpID(uint64(2+i), "A")
		require.NoError(t, ln.InsertCommitted(i, protocol.NewElementID(opID), NewMultiValue(opID, StateTreeValue{
			Kind: STVPrimitive, Prim: protocol.StrValue(s),
		})))
	}
	tree.Root.Set("list", NewMultiValue(protocol.NewOpID(1, "A"), StateTreeValue{Kind: STVList, ListNode: ln}))

	cursor, err := ln.GetCursor(1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), cursor.Index)

	resolved, err := CursorToPath(tree, cursor)
	require.NoError(t, err)
	require.True(t, resolved.Equal(path.Root().Key("list").Index(1)))
}

func TestCursor_SurvivesIndexShift(t *testing.T) {
	tree := NewStateTree()
	ln := NewListNode(protocol.NewObjectID(protocol.NewOpID(1, "A")))
	for i, s := range []string{"x", "y", "z"} {
		opID := protocol.NewOpID(uint64(2+i), "A")
		require.NoError(t, ln.InsertCommitted(i, protocol.NewElementID(opID), NewMultiValue(opID, StateTreeValue{
			Kind: STVPrimitive, Prim: protocol.StrValue(s),
		})))
	}
	tree.Root.Set("list", NewMultiValue(protocol.NewOpID(1, "A"), StateTreeValue{Kind: STVList, ListNode: ln}))

	cursor, err := ln.GetCursor(2) // points at "z"
	require.NoError(t, err)

	require.NoError(t, ln.RemoveCommitted(0, 1)) // "z" is now at index 1

	resolved, err := CursorToPath(tree, cursor)
	require.NoError(t, err)
	require.True(t, resolved.Equal(path.Root().Key("list").Index(1)))
}

func TestCursor_UnknownElementFails(t *testing.T) {
	tree := NewStateTree()
	_, err := CursorToPath(tree, protocol.CursorValue{
		Object:  protocol.NewObjectID(protocol.NewOpID(99, "Z")),
		Element: protocol.NewElementID(protocol.NewOpID(100, "Z")),
	})
	require.Error(t, err)
}
