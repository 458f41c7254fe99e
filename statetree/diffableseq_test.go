package statetree

import (
	"testing"

	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/stretchr/testify/require"
)

func TestDiffableSequence_MultiElementInsert(t *testing.T) {
	seq := NewDiffableSequence(constructListElement)
	elemID := protocol.NewOpID(5, "A")
	edits := []protocol.DiffEdit{
		protocol.MultiElementInsertEdit(0, elemID, []protocol.ScalarValue{
			protocol.StrValue("x"), protocol.StrValue("y"),
		}),
	}
	require.NoError(t, seq.ApplyDiff(edits))
	require.Equal(t, 2, seq.Len())

	_, mv0, err := seq.ElemAt(0)
	require.NoError(t, err)
	require.Equal(t, protocol.StrValue("x"), mv0.DefaultValue().Prim)

	_, mv1, err := seq.ElemAt(1)
	require.NoError(t, err)
	require.Equal(t, protocol.StrValue("y"), mv1.DefaultValue().Prim)
}

func TestDiffableSequence_UpdateChoosesLamportGreatestDefault(t *testing.T) {
	seq := NewDiffableSequence(constructListElement)
	elemID := protocol.NewOpID(5, "A")
	require.NoError(t, seq.ApplyDiff([]protocol.DiffEdit{
		protocol.MultiElementInsertEdit(0, elemID, []protocol.ScalarValue{
			protocol.StrValue("x"), protocol.StrValue("y"),
		}),
	}))

	// A second patch updates index 1 with a higher op-id from actor B.
	updateOpID := protocol.NewOpID(7, "B")
	require.NoError(t, seq.ApplyDiff([]protocol.DiffEdit{
		protocol.UpdateEdit(1, updateOpID, protocol.ValueDiff(protocol.StrValue("Y"))),
	}))

	_, mv, err := seq.ElemAt(1)
	require.NoError(t, err)
	require.Equal(t, updateOpID, mv.DefaultOpID())
	require.Equal(t, protocol.StrValue("Y"), mv.DefaultValue().Prim)

	// The op-id from the original insert still survives as a concurrent value.
	values := mv.RealiseValues()
	require.Contains(t, values, elemID.IncrementBy(1))
}

// TestDiffableSequence_UpdateOnSameElementInsertedInSamePatch is spec.md
// scenario 5 taken literally: the MultiElementInsert and the following
// Update both land in one patch, so the Update targets an element still
// in phaseNew rather than phaseOriginal. The final default at index 1
// must still be the Lamport-greatest op-id's value ("Y" from 7@B), same
// as when the two edits arrive in separate patches.
func TestDiffableSequence_UpdateOnSameElementInsertedInSamePatch(t *testing.T) {
	seq := NewDiffableSequence(constructListElement)
	elemID := protocol.NewOpID(5, "A")
	updateOpID := protocol.NewOpID(7, "B")

	require.NoError(t, seq.ApplyDiff([]protocol.DiffEdit{
		protocol.MultiElementInsertEdit(0, elemID, []protocol.ScalarValue{
			protocol.StrValue("x"), protocol.StrValue("y"),
		}),
		protocol.UpdateEdit(1, updateOpID, protocol.ValueDiff(protocol.StrValue("Y"))),
	}))

	require.Equal(t, 2, seq.Len())
	_, mv, err := seq.ElemAt(1)
	require.NoError(t, err)
	require.Equal(t, updateOpID, mv.DefaultOpID())
	require.Equal(t, protocol.StrValue("Y"), mv.DefaultValue().Prim)

	values := mv.RealiseValues()
	require.Contains(t, values, elemID.IncrementBy(1))
}

func TestDiffableSequence_RemoveOutOfBoundsFails(t *testing.T) {
	seq := NewDiffableSequence(constructListElement)
	err := seq.ApplyDiff([]protocol.DiffEdit{protocol.RemoveEdit(0, 1)})
	require.Error(t, err)
}

func TestDiffableSequence_GetPanicsDuringConstruction(t *testing.T) {
	elem := newElement(NewMultiValue(protocol.NewOpID(1, "a"), StateTreeValue{Kind: STVPrimitive, Prim: protocol.StrValue("x")}))
	require.Panics(t, func() { elem.get() })
}

func TestDiffableSequence_EveryElementIsOriginalAfterApplyDiff(t *testing.T) {
	seq := NewDiffableSequence(constructListElement)
	elemID := protocol.NewOpID(1, "A")
	require.NoError(t, seq.ApplyDiff([]protocol.DiffEdit{
		protocol.SingleElementInsertEdit(0, elemID, elemID, protocol.ValueDiff(protocol.StrValue("a"))),
	}))
	for _, e := range seq.entries {
		require.Equal(t, phaseOriginal, e.elem.phase)
	}
}
