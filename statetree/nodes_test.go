package statetree

import (
	"testing"

	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/value"
	"github.com/stretchr/testify/require"
)

func TestMapNode_SetGetDelete(t *testing.T) {
	m := NewMapNode(protocol.RootID, protocol.MapPlain)
	opID := protocol.NewOpID(1, "A")
	mv := NewMultiValue(opID, StateTreeValue{Kind: STVPrimitive, Prim: protocol.IntValue(1)})
	m.Set("a", mv)

	got, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, int64(1), got.DefaultValue().Prim.Int)

	require.Equal(t, []protocol.OpID{opID}, m.PredForKey("a"))

	m.Delete("a")
	_, ok = m.Get("a")
	require.False(t, ok)
	require.Nil(t, m.PredForKey("a"))
}

func TestMapNode_ValueMaterializesTableVsMap(t *testing.T) {
	m := NewMapNode(protocol.RootID, protocol.MapTable)
	m.Set("row1", NewMultiValue(protocol.NewOpID(1, "A"), StateTreeValue{
		Kind: STVPrimitive, Prim: protocol.StrValue("x"),
	}))
	v := m.Value()
	require.Equal(t, value.KindTable, v.Kind)
	require.Equal(t, "x", v.Map["row1"].Prim.Str)
}

func TestMapNode_ApplyPropsDiffDropsEmptiedKey(t *testing.T) {
	m := NewMapNode(protocol.RootID, protocol.MapPlain)
	opID := protocol.NewOpID(1, "A")
	m.Set("a", NewMultiValue(opID, StateTreeValue{Kind: STVPrimitive, Prim: protocol.IntValue(1)}))

	err := m.ApplyPropsDiff(map[string]map[protocol.OpID]protocol.Diff{
		"a": {},
	})
	require.NoError(t, err)
	_, ok := m.Get("a")
	require.False(t, ok)
}

func TestMapNode_ApplyPropsDiffConstructsNewKey(t *testing.T) {
	m := NewMapNode(protocol.RootID, protocol.MapPlain)
	opID := protocol.NewOpID(3, "A")
	err := m.ApplyPropsDiff(map[string]map[protocol.OpID]protocol.Diff{
		"b": {opID: protocol.ValueDiff(protocol.StrValue("hi"))},
	})
	require.NoError(t, err)
	mv, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, "hi", mv.DefaultValue().Prim.Str)
}

func TestListNode_InsertRemoveSetCommitted(t *testing.T) {
	ln := NewListNode(protocol.NewObjectID(protocol.NewOpID(1, "A")))
	e1 := protocol.NewElementID(protocol.NewOpID(2, "A"))
	e2 := protocol.NewElementID(protocol.NewOpID(3, "A"))

	require.NoError(t, ln.InsertCommitted(0, e1, NewMultiValue(protocol.NewOpID(2, "A"), StateTreeValue{
		Kind: STVPrimitive, Prim: protocol.StrValue("a"),
	})))
	require.NoError(t, ln.InsertCommitted(1, e2, NewMultiValue(protocol.NewOpID(3, "A"), StateTreeValue{
		Kind: STVPrimitive, Prim: protocol.StrValue("b"),
	})))
	require.Equal(t, 2, ln.Len())

	_, mv, err := ln.ElemAt(1)
	require.NoError(t, err)
	require.Equal(t, "b", mv.DefaultValue().Prim.Str)

	require.NoError(t, ln.SetCommitted(1, NewMultiValue(protocol.NewOpID(4, "A"), StateTreeValue{
		Kind: STVPrimitive, Prim: protocol.StrValue("c"),
	})))
	_, mv, err = ln.ElemAt(1)
	require.NoError(t, err)
	require.Equal(t, "c", mv.DefaultValue().Prim.Str)

	require.NoError(t, ln.RemoveCommitted(0, 1))
	require.Equal(t, 1, ln.Len())
	_, mv, err = ln.ElemAt(0)
	require.NoError(t, err)
	require.Equal(t, "c", mv.DefaultValue().Prim.Str)
}

func TestTextNode_ValueAndString(t *testing.T) {
	tn := NewTextNode(protocol.NewObjectID(protocol.NewOpID(1, "A")))
	for i, g := range []string{"h", "i"} {
		opID := protocol.NewOpID(uint64(2+i), "A")
		require.NoError(t, tn.InsertCommitted(i, protocol.NewElementID(opID), NewMultiGrapheme(opID, g)))
	}
	require.Equal(t, "hi", tn.String())
	v := tn.Value()
	require.Equal(t, value.KindText, v.Kind)
	require.Equal(t, []string{"h", "i"}, v.Text)
}
