// Package mutation implements locally-initiated changes to a document: it
// resolves a caller's Path against a state tree, emits the well-formed
// CRDT ops that realize the requested change, and mirrors the effect in
// the materialized tree in the same pass.
//
// A Tracker is scoped to one change session. Sessions do not nest and do
// not roll back: a LocalOperation either succeeds, updating both the tree
// and the ops accumulator, or fails before touching either.
package mutation

import (
	"github.com/gocrdt/automerge-frontend/errs"
	"github.com/gocrdt/automerge-frontend/path"
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/statetree"
	"github.com/gocrdt/automerge-frontend/value"
)

// OperationKind tags the variant held by a LocalOperation.
type OperationKind int

const (
	OpLocalSet OperationKind = iota
	OpLocalDelete
	OpLocalIncrement
	OpLocalInsert
	OpLocalInsertMany
)

// LocalOperation is one requested change, named the way the five
// caller-facing verbs are named: Set, Delete, Increment, Insert, and the
// batch form InsertMany.
type LocalOperation struct {
	Kind   OperationKind
	Path   path.Path
	Value  value.Value   // OpLocalSet
	By     int64         // OpLocalIncrement
	Values []value.Value // OpLocalInsertMany; OpLocalInsert uses Values[0]
}

func SetOperation(p path.Path, v value.Value) LocalOperation {
	return LocalOperation{Kind: OpLocalSet, Path: p, Value: v}
}

func DeleteOperation(p path.Path) LocalOperation {
	return LocalOperation{Kind: OpLocalDelete, Path: p}
}

func IncrementOperation(p path.Path, by int64) LocalOperation {
	return LocalOperation{Kind: OpLocalIncrement, Path: p, By: by}
}

func InsertOperation(p path.Path, v value.Value) LocalOperation {
	return LocalOperation{Kind: OpLocalInsert, Path: p, Values: []value.Value{v}}
}

func InsertManyOperation(p path.Path, vs []value.Value) LocalOperation {
	return LocalOperation{Kind: OpLocalInsertMany, Path: p, Values: vs}
}

// LocalChange is the session's complete request: zero or more operations
// applied in order against the same tree, actor and op counter.
type LocalChange struct {
	Ops []LocalOperation
}

// Tracker implements one change session: a mutable borrow on the state
// tree, the actor producing ops, a running max_op, and the ops emitted so
// far.
type Tracker struct {
	tree  *statetree.StateTree
	actor protocol.ActorID
	maxOp uint64
	ops   []protocol.Op
}

// NewTracker begins a session against tree, starting op allocation after
// maxOp.
func NewTracker(tree *statetree.StateTree, actor protocol.ActorID, maxOp uint64) *Tracker {
	return &Tracker{tree: tree, actor: actor, maxOp: maxOp}
}

// MaxOp returns the session's current op counter.
func (t *Tracker) MaxOp() uint64 { return t.maxOp }

// Ops returns the ops emitted so far, in emission order. Each
// Insert/InsertMany call already condensed its own run of chained
// primitive inserts into a MultiSet before appending here (see
// mutation/insert.go), so this is the wire-ready op stream, not a raw
// one needing a further condensation pass.
func (t *Tracker) Ops() []protocol.Op {
	out := make([]protocol.Op, len(t.ops))
	copy(out, t.ops)
	return out
}

func (t *Tracker) nextOpID() protocol.OpID {
	t.maxOp++
	return protocol.NewOpID(t.maxOp, t.actor)
}

// Apply runs change's operations in order, stopping at the first failure.
// A failing operation leaves the tree and the ops accumulator exactly as
// they were before it ran; operations that already succeeded earlier in
// the same change are not rolled back.
func (t *Tracker) Apply(change LocalChange) error {
	for _, op := range change.Ops {
		if err := t.applyOne(op); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) applyOne(op LocalOperation) error {
	switch op.Kind {
	case OpLocalSet:
		return t.applySet(op.Path, op.Value)
	case OpLocalDelete:
		return t.applyDelete(op.Path)
	case OpLocalIncrement:
		return t.applyIncrement(op.Path, op.By)
	case OpLocalInsert:
		return t.applyInsertMany(op.Path, op.Values[:1])
	case OpLocalInsertMany:
		return t.applyInsertMany(op.Path, op.Values)
	default:
		panic("mutation: LocalOperation with invalid kind")
	}
}

func (t *Tracker) applySet(p path.Path, v value.Value) error {
	if p.IsRoot() {
		if v.Kind != value.KindMap {
			return errs.CannotSetNonMapObjectAsRootError{}
		}
		opsLen := len(t.ops)
		prior := make(map[string]statetree.MultiValue)
		var touched []string
		for _, k := range sortedKeys(v.Map) {
			if mv, ok := t.tree.Root.Get(k); ok {
				prior[k] = mv
			}
			if err := t.applySet(path.Root().Key(k), v.Map[k]); err != nil {
				for _, done := range touched {
					if mv, ok := prior[done]; ok {
						t.tree.Root.Set(done, mv)
					} else {
						t.tree.Root.Delete(done)
					}
				}
				t.ops = t.ops[:opsLen]
				return err
			}
			touched = append(touched, k)
		}
		return nil
	}

	if target, ok := statetree.Resolve(t.tree, p); ok && target.Kind == statetree.TargetCounter {
		return errs.CannotOverwriteCounterError{Path: p}
	}

	parent, last, ok := statetree.ResolveParent(t.tree, p)
	if !ok {
		return errs.NoSuchPathError{Path: p}
	}

	switch last.Kind {
	case path.ElementKey:
		switch parent.Kind {
		case statetree.TargetRoot, statetree.TargetMap, statetree.TargetTable:
			pred := parent.MapNode.PredForKey(last.Key)
			mv, ops, err := t.buildValue(parent.MapNode.ObjectID(), protocol.MapKeyOf(last.Key), false, pred, v)
			if err != nil {
				return err
			}
			parent.MapNode.Set(last.Key, mv)
			t.ops = append(t.ops, ops...)
			return nil

		default:
			// Modifying a key in something which is not a map-like object:
			// the path does not exist.
			return errs.NoSuchPathError{Path: p}
		}

	case path.ElementIndex:
		switch parent.Kind {
		case statetree.TargetList:
			elemID, _, err := parent.ListNode.ElemAt(last.Index)
			if err != nil {
				return errs.MissingIndexError{Path: p, Index: last.Index}
			}
			pred, _ := parent.ListNode.PredForIndex(last.Index)
			mv, ops, err := t.buildValue(parent.ListNode.ObjectID(), protocol.ElementKeyOf(elemID), false, pred, v)
			if err != nil {
				return err
			}
			if err := parent.ListNode.SetCommitted(last.Index, mv); err != nil {
				return err
			}
			t.ops = append(t.ops, ops...)
			return nil

		case statetree.TargetText:
			if v.Kind != value.KindPrimitive || v.Prim.Kind != protocol.KindStr || !value.IsSingleGrapheme(v.Prim.Str) {
				return errs.InsertNonTextInTextObjectError{Path: p, Value: v.Prim.Str}
			}
			elemID, _, err := parent.TextNode.ElemAt(last.Index)
			if err != nil {
				return errs.MissingIndexError{Path: p, Index: last.Index}
			}
			pred, _ := parent.TextNode.PredForIndex(last.Index)
			opID := t.nextOpID()
			t.ops = append(t.ops, protocol.Op{
				Action: protocol.SetOp(protocol.StrValue(v.Prim.Str)),
				Obj:    parent.TextNode.ObjectID(),
				Key:    protocol.ElementKeyOf(elemID),
				Pred:   pred,
			})
			return parent.TextNode.SetCommitted(last.Index, statetree.NewMultiGrapheme(opID, v.Prim.Str))

		default:
			return errs.InsertWithNonSequencePathError{Path: p}
		}

	default:
		return errs.NoSuchPathError{Path: p}
	}
}

func (t *Tracker) applyDelete(p path.Path) error {
	if p.IsRoot() {
		return errs.CannotDeleteRootObjectError{}
	}
	parent, last, ok := statetree.ResolveParent(t.tree, p)
	if !ok {
		return errs.NoSuchPathError{Path: p}
	}
	switch parent.Kind {
	case statetree.TargetRoot, statetree.TargetMap, statetree.TargetTable:
		if last.Kind != path.ElementKey {
			return errs.NoSuchPathError{Path: p}
		}
		pred := parent.MapNode.PredForKey(last.Key)
		t.ops = append(t.ops, protocol.Op{
			Action: protocol.DelOp(1),
			Obj:    parent.MapNode.ObjectID(),
			Key:    protocol.MapKeyOf(last.Key),
			Pred:   pred,
		})
		parent.MapNode.Delete(last.Key)
		return nil

	case statetree.TargetList:
		if last.Kind != path.ElementIndex {
			return errs.NoSuchPathError{Path: p}
		}
		elemID, _, err := parent.ListNode.ElemAt(last.Index)
		if err != nil {
			return errs.MissingIndexError{Path: p, Index: last.Index}
		}
		pred, _ := parent.ListNode.PredForIndex(last.Index)
		t.ops = append(t.ops, protocol.Op{
			Action: protocol.DelOp(1),
			Obj:    parent.ListNode.ObjectID(),
			Key:    protocol.ElementKeyOf(elemID),
			Pred:   pred,
		})
		return parent.ListNode.RemoveCommitted(last.Index, 1)

	case statetree.TargetText:
		if last.Kind != path.ElementIndex {
			return errs.NoSuchPathError{Path: p}
		}
		elemID, _, err := parent.TextNode.ElemAt(last.Index)
		if err != nil {
			return errs.MissingIndexError{Path: p, Index: last.Index}
		}
		pred, _ := parent.TextNode.PredForIndex(last.Index)
		t.ops = append(t.ops, protocol.Op{
			Action: protocol.DelOp(1),
			Obj:    parent.TextNode.ObjectID(),
			Key:    protocol.ElementKeyOf(elemID),
			Pred:   pred,
		})
		return parent.TextNode.RemoveCommitted(last.Index, 1)

	default:
		return errs.NoSuchPathError{Path: p}
	}
}

func (t *Tracker) applyIncrement(p path.Path, by int64) error {
	target, ok := statetree.Resolve(t.tree, p)
	if !ok {
		return errs.NoSuchPathError{Path: p}
	}
	if target.Kind != statetree.TargetCounter {
		return errs.IncrementForNonCounterObjectError{Path: p}
	}
	parent, last, ok := statetree.ResolveParent(t.tree, p)
	if !ok {
		return errs.NoSuchPathError{Path: p}
	}

	switch parent.Kind {
	case statetree.TargetRoot, statetree.TargetMap, statetree.TargetTable:
		mv, _ := parent.MapNode.Get(last.Key)
		newCount := mv.DefaultValue().Prim.Int + by
		opID := t.nextOpID()
		t.ops = append(t.ops, protocol.Op{
			Action: protocol.IncOp(by),
			Obj:    parent.MapNode.ObjectID(),
			Key:    protocol.MapKeyOf(last.Key),
			Pred:   []protocol.OpID{mv.DefaultOpID()},
		})
		parent.MapNode.Set(last.Key, statetree.NewMultiValue(opID, statetree.StateTreeValue{
			Kind: statetree.STVCounter,
			Prim: protocol.CounterValue(newCount),
		}))
		return nil

	case statetree.TargetList:
		elemID, mv, err := parent.ListNode.ElemAt(last.Index)
		if err != nil {
			return errs.MissingIndexError{Path: p, Index: last.Index}
		}
		newCount := mv.DefaultValue().Prim.Int + by
		opID := t.nextOpID()
		t.ops = append(t.ops, protocol.Op{
			Action: protocol.IncOp(by),
			Obj:    parent.ListNode.ObjectID(),
			Key:    protocol.ElementKeyOf(elemID),
			Pred:   []protocol.OpID{mv.DefaultOpID()},
		})
		return parent.ListNode.SetCommitted(last.Index, statetree.NewMultiValue(opID, statetree.StateTreeValue{
			Kind: statetree.STVCounter,
			Prim: protocol.CounterValue(newCount),
		}))

	default:
		return errs.IncrementForNonCounterObjectError{Path: p}
	}
}
