package patch

import (
	"testing"

	"github.com/gocrdt/automerge-frontend/mutation"
	"github.com/gocrdt/automerge-frontend/path"
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/statetree"
	"github.com/gocrdt/automerge-frontend/value"
	"github.com/stretchr/testify/require"
)

// opsToRootDiff is a small test-only helper that turns a flat run of Set
// ops against the root into the DiffMap shape a real backend would send
// back, so round-trip tests don't need a full backend stub.
func opsToRootDiff(ops []protocol.Op) protocol.Diff {
	props := map[string]map[protocol.OpID]protocol.Diff{}
	counter := uint64(0)
	for _, op := range ops {
		counter++
		opID := protocol.NewOpID(counter, "A")
		k, _ := op.Key.MapKey()
		if _, ok := props[k]; !ok {
			props[k] = map[protocol.OpID]protocol.Diff{}
		}
		props[k][opID] = protocol.ValueDiff(op.Action.Value)
	}
	return protocol.MapDiff(protocol.RootID, false, protocol.MapPlain, props)
}

func TestApply_RoundTripOfLocalChange(t *testing.T) {
	sourceTree := statetree.NewStateTree()
	tr := mutation.NewTracker(sourceTree, "A", 0)
	require.NoError(t, tr.Apply(mutation.LocalChange{Ops: []mutation.LocalOperation{
		mutation.SetOperation(path.Root(), value.NewMap(map[string]value.Value{
			"a": value.NewPrimitive(protocol.IntValue(1)),
			"b": value.NewPrimitive(protocol.StrValue("hi")),
		})),
	}}))

	destTree := statetree.NewStateTree()
	_, err := Apply(destTree, Patch{
		MaxOp: tr.MaxOp(),
		Diffs: map[protocol.ObjectID]protocol.Diff{
			protocol.RootID: opsToRootDiff(tr.Ops()),
		},
	})
	require.NoError(t, err)

	require.Equal(t, sourceTree.Value(), destTree.Value())
}

func TestApply_MultiElementInsertThenUpdatePicksLamportGreatestDefault(t *testing.T) {
	tree := statetree.NewStateTree()
	elemID := protocol.NewOpID(5, "A")
	listDiff := protocol.SeqDiff(protocol.NewObjectID(protocol.NewOpID(4, "A")), true, protocol.SeqList, []protocol.DiffEdit{
		protocol.MultiElementInsertEdit(0, elemID, []protocol.ScalarValue{
			protocol.StrValue("x"), protocol.StrValue("y"),
		}),
	})
	_, err := Apply(tree, Patch{
		Diffs: map[protocol.ObjectID]protocol.Diff{
			protocol.RootID: protocol.MapDiff(protocol.RootID, false, protocol.MapPlain, map[string]map[protocol.OpID]protocol.Diff{
				"list": {protocol.NewOpID(4, "A"): listDiff},
			}),
		},
	})
	require.NoError(t, err)

	// Apply the follow-up Update in a second patch against the same list.
	listTarget, ok := statetree.Resolve(tree, path.Root().Key("list"))
	require.True(t, ok)
	updateOpID := protocol.NewOpID(7, "B")
	require.NoError(t, listTarget.ListNode.ApplyDiff([]protocol.DiffEdit{
		protocol.UpdateEdit(1, updateOpID, protocol.ValueDiff(protocol.StrValue("Y"))),
	}))

	_, mv, err := listTarget.ListNode.ElemAt(1)
	require.NoError(t, err)
	require.Equal(t, updateOpID, mv.DefaultOpID())
	require.Equal(t, protocol.StrValue("Y"), mv.DefaultValue().Prim)
	require.Equal(t, 2, listTarget.ListNode.Len())
}

// TestApply_MultiElementInsertThenUpdateInOneSamePatch is spec.md
// scenario 5 exactly as literally described: both the MultiElementInsert
// and the Update that targets one of its freshly-inserted elements
// arrive in the *same* patch, not two successive ones.
func TestApply_MultiElementInsertThenUpdateInOneSamePatch(t *testing.T) {
	tree := statetree.NewStateTree()
	elemID := protocol.NewOpID(5, "A")
	updateOpID := protocol.NewOpID(7, "B")
	listDiff := protocol.SeqDiff(protocol.NewObjectID(protocol.NewOpID(4, "A")), true, protocol.SeqList, []protocol.DiffEdit{
		protocol.MultiElementInsertEdit(0, elemID, []protocol.ScalarValue{
			protocol.StrValue("x"), protocol.StrValue("y"),
		}),
		protocol.UpdateEdit(1, updateOpID, protocol.ValueDiff(protocol.StrValue("Y"))),
	})
	_, err := Apply(tree, Patch{
		Diffs: map[protocol.ObjectID]protocol.Diff{
			protocol.RootID: protocol.MapDiff(protocol.RootID, false, protocol.MapPlain, map[string]map[protocol.OpID]protocol.Diff{
				"list": {protocol.NewOpID(4, "A"): listDiff},
			}),
		},
	})
	require.NoError(t, err)

	listTarget, ok := statetree.Resolve(tree, path.Root().Key("list"))
	require.True(t, ok)
	require.Equal(t, 2, listTarget.ListNode.Len())

	_, mv0, err := listTarget.ListNode.ElemAt(0)
	require.NoError(t, err)
	require.Equal(t, protocol.StrValue("x"), mv0.DefaultValue().Prim)

	_, mv1, err := listTarget.ListNode.ElemAt(1)
	require.NoError(t, err)
	require.Equal(t, updateOpID, mv1.DefaultOpID())
	require.Equal(t, protocol.StrValue("Y"), mv1.DefaultValue().Prim)
}
