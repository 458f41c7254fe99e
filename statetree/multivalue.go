// Package statetree implements the materialized, CRDT-aware document tree:
// the composites (Map, Table, List, Text, Counter, Primitive) that make up
// a document, the MultiValue/MultiGrapheme registers that let several
// concurrent writers coexist at one slot, and the DiffableSequence that
// gives List and Text their patch-driven two-phase-commit update
// discipline.
//
// Everything here is plain Go data manipulated by value or through
// pointers to composite nodes; none of it talks to callers directly. Path
// resolution (resolved_path.go) and the patch/mutation packages are the
// two call sites that walk this tree.
package statetree

import (
	"fmt"

	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/value"
)

// StateTreeValueKind tags the variant held by a StateTreeValue.
type StateTreeValueKind int

const (
	STVPrimitive StateTreeValueKind = iota
	STVCounter
	STVMap
	STVList
	STVText
)

// StateTreeValue is a single concurrent assignment inside a MultiValue:
// either a plain scalar, a Counter's current tally, or a pointer to one of
// the three composite node kinds. Composite and scalar are mutually
// exclusive; callers switch on Kind.
type StateTreeValue struct {
	Kind     StateTreeValueKind
	Prim     protocol.ScalarValue
	MapNode  *MapNode
	ListNode *ListNode
	TextNode *TextNode
}

// ObjectID returns the composite's object id and true, or the zero value
// and false for a scalar/counter leaf.
func (v StateTreeValue) ObjectID() (protocol.ObjectID, bool) {
	switch v.Kind {
	case STVMap:
		return v.MapNode.id, true
	case STVList:
		return v.ListNode.id, true
	case STVText:
		return v.TextNode.id, true
	default:
		return protocol.ObjectID{}, false
	}
}

// Value renders this state tree value as the caller-facing value.Value
// tree, recursively materializing composites to their current default
// contents.
func (v StateTreeValue) Value() value.Value {
	switch v.Kind {
	case STVPrimitive:
		return value.NewPrimitive(v.Prim)
	case STVCounter:
		return value.NewCounter(v.Prim.Int)
	case STVMap:
		return v.MapNode.Value()
	case STVList:
		return v.ListNode.Value()
	case STVText:
		return v.TextNode.Value()
	default:
		panic("statetree: StateTreeValue with invalid kind")
	}
}

// applyDiff folds a follow-up Diff targeting the same op-id that produced
// v. Composite kinds delegate to the node's own reconciliation; scalar and
// counter kinds are simply replaced, since there is nothing finer-grained
// to merge for a single op-id's leaf value.
func (v StateTreeValue) applyDiff(diff protocol.Diff) (StateTreeValue, error) {
	switch v.Kind {
	case STVMap:
		if diff.Kind != protocol.DiffMap {
			return constructStateTreeValue(diff)
		}
		if err := v.MapNode.ApplyPropsDiff(diff.Props); err != nil {
			return StateTreeValue{}, err
		}
		return v, nil
	case STVList:
		if diff.Kind != protocol.DiffSeq {
			return constructStateTreeValue(diff)
		}
		if err := v.ListNode.ApplyDiff(diff.Edits); err != nil {
			return StateTreeValue{}, err
		}
		return v, nil
	case STVText:
		if diff.Kind != protocol.DiffSeq {
			return constructStateTreeValue(diff)
		}
		if err := v.TextNode.ApplyDiff(diff.Edits); err != nil {
			return StateTreeValue{}, err
		}
		return v, nil
	default:
		return constructStateTreeValue(diff)
	}
}

// constructStateTreeValue builds a brand new StateTreeValue from a Diff,
// recursively constructing nested composites for a freshly-created object.
func constructStateTreeValue(diff protocol.Diff) (StateTreeValue, error) {
	switch diff.Kind {
	case protocol.DiffValue:
		if diff.Value.Kind == protocol.KindCounter {
			return StateTreeValue{Kind: STVCounter, Prim: diff.Value}, nil
		}
		return StateTreeValue{Kind: STVPrimitive, Prim: diff.Value}, nil
	case protocol.DiffMap:
		mn := NewMapNode(diff.ObjectID, diff.MapKind)
		if err := mn.ApplyPropsDiff(diff.Props); err != nil {
			return StateTreeValue{}, err
		}
		return StateTreeValue{Kind: STVMap, MapNode: mn}, nil
	case protocol.DiffSeq:
		if diff.SeqKind == protocol.SeqText {
			tn := NewTextNode(diff.ObjectID)
			if err := tn.ApplyDiff(diff.Edits); err != nil {
				return StateTreeValue{}, err
			}
			return StateTreeValue{Kind: STVText, TextNode: tn}, nil
		}
		ln := NewListNode(diff.ObjectID)
		if err := ln.ApplyDiff(diff.Edits); err != nil {
			return StateTreeValue{}, err
		}
		return StateTreeValue{Kind: STVList, ListNode: ln}, nil
	default:
		return StateTreeValue{}, fmt.Errorf("statetree: diff has unrecognized kind %d", diff.Kind)
	}
}

// MultiValue is a register's set of concurrently-surviving assignments,
// keyed by the op-id that wrote each. It is never empty once constructed;
// the default is always the Lamport-greatest key.
type MultiValue struct {
	values map[protocol.OpID]StateTreeValue
}

// NewMultiValue builds a single-assignment MultiValue.
func NewMultiValue(opID protocol.OpID, v StateTreeValue) MultiValue {
	return MultiValue{values: map[protocol.OpID]StateTreeValue{opID: v}}
}

func (m MultiValue) opIDSlice() []protocol.OpID {
	ids := make([]protocol.OpID, 0, len(m.values))
	for id := range m.values {
		ids = append(ids, id)
	}
	return ids
}

// DefaultOpID returns the Lamport-greatest op-id among this register's
// surviving assignments.
func (m MultiValue) DefaultOpID() protocol.OpID {
	return protocol.MaxOpID(m.opIDSlice())
}

// DefaultValue returns the assignment tied to DefaultOpID.
func (m MultiValue) DefaultValue() StateTreeValue {
	return m.values[m.DefaultOpID()]
}

// RealiseValues returns every surviving assignment, keyed by op-id,
// surfacing concurrent writes to the caller instead of hiding them behind
// the default.
func (m MultiValue) RealiseValues() map[protocol.OpID]StateTreeValue {
	out := make(map[protocol.OpID]StateTreeValue, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// OpIDs returns the op-ids this register currently carries, used to build
// a pred list for an operation about to overwrite it.
func (m MultiValue) OpIDs() []protocol.OpID { return m.opIDSlice() }

// OnlyForOpID returns the projection of this register containing just the
// named op-id, or false if it is not present.
func (m MultiValue) OnlyForOpID(id protocol.OpID) (MultiValue, bool) {
	v, ok := m.values[id]
	if !ok {
		return MultiValue{}, false
	}
	return MultiValue{values: map[protocol.OpID]StateTreeValue{id: v}}, true
}

// AddValuesFrom merges other's assignments into a copy of m, keeping the
// MultiValue invariant intact. Assignments in other take precedence on
// overlapping op-ids, since that happens only when the same op-id's value
// is being refined by a follow-up diff in the same patch.
func (m MultiValue) AddValuesFrom(other MultiValue) MultiValue {
	merged := make(map[protocol.OpID]StateTreeValue, len(m.values)+len(other.values))
	for k, v := range m.values {
		merged[k] = v
	}
	for k, v := range other.values {
		merged[k] = v
	}
	return MultiValue{values: merged}
}

// ApplyDiff folds a Diff targeting opID into a copy of m: if opID already
// has a composite assignment and diff continues that same composite, it
// is reconciled in place; otherwise a fresh assignment is constructed and
// replaces whatever opID held before.
func (m MultiValue) ApplyDiff(opID protocol.OpID, diff protocol.Diff) (MultiValue, error) {
	existing, hasExisting := m.values[opID]
	var stv StateTreeValue
	var err error
	if hasExisting && diff.Kind != protocol.DiffValue && !diff.NewObject {
		stv, err = existing.applyDiff(diff)
	} else {
		stv, err = constructStateTreeValue(diff)
	}
	if err != nil {
		return MultiValue{}, err
	}
	next := make(map[protocol.OpID]StateTreeValue, len(m.values)+1)
	for k, v := range m.values {
		next[k] = v
	}
	next[opID] = stv
	return MultiValue{values: next}, nil
}
