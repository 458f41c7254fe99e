package value

import (
	"testing"

	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/stretchr/testify/require"
)

func TestValue_IsComposite(t *testing.T) {
	require.True(t, NewMap(nil).IsComposite())
	require.True(t, NewTable(nil).IsComposite())
	require.True(t, NewList(nil).IsComposite())
	require.True(t, NewText(nil).IsComposite())
	require.False(t, NewCounter(0).IsComposite())
	require.False(t, NewPrimitive(protocol.IntValue(1)).IsComposite())
}

func TestValue_ObjType(t *testing.T) {
	require.Equal(t, protocol.ObjMap, NewMap(nil).ObjType())
	require.Equal(t, protocol.ObjTable, NewTable(nil).ObjType())
	require.Equal(t, protocol.ObjList, NewList(nil).ObjType())
	require.Equal(t, protocol.ObjText, NewText(nil).ObjType())
}

func TestValue_ObjTypePanicsOnCounterAndPrimitive(t *testing.T) {
	require.Panics(t, func() { NewCounter(1).ObjType() })
	require.Panics(t, func() { NewPrimitive(protocol.IntValue(1)).ObjType() })
}

func TestValue_NestedMap(t *testing.T) {
	v := NewMap(map[string]Value{
		"a": NewPrimitive(protocol.IntValue(1)),
		"b": NewList([]Value{NewPrimitive(protocol.StrValue("x"))}),
	})
	require.Equal(t, KindMap, v.Kind)
	require.Equal(t, int64(1), v.Map["a"].Prim.Int)
	require.Equal(t, "x", v.Map["b"].List[0].Prim.Str)
}
