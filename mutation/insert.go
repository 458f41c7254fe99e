package mutation

import (
	"github.com/gocrdt/automerge-frontend/errs"
	"github.com/gocrdt/automerge-frontend/path"
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/statetree"
	"github.com/gocrdt/automerge-frontend/value"
)

// applyInsertMany implements both Insert and InsertMany: the last path
// element must be an index, the parent must resolve to a List or Text,
// and the anchor element is Head when inserting at 0 or the element
// currently at index-1 otherwise.
func (t *Tracker) applyInsertMany(p path.Path, vs []value.Value) error {
	last, ok := p.Name()
	if !ok {
		return errs.NoSuchPathError{Path: p}
	}
	if last.Kind != path.ElementIndex {
		return errs.InsertWithNonSequencePathError{Path: p}
	}
	parentPath, _ := p.Parent()
	parent, ok := statetree.Resolve(t.tree, parentPath)
	if !ok {
		return errs.InsertForNonSequenceObjectError{Path: p}
	}

	switch parent.Kind {
	case statetree.TargetList:
		return t.insertIntoList(parent.ListNode, last.Index, vs, p)
	case statetree.TargetText:
		return t.insertIntoText(parent.TextNode, last.Index, vs, p)
	default:
		return errs.NoSuchPathError{Path: p}
	}
}

func anchorFor(length, index int) (int, error) {
	if index == 0 {
		return -1, nil // -1 signals Head to callers below
	}
	if index-1 >= length {
		return 0, errs.MissingIndexError{Index: index}
	}
	return index - 1, nil
}

func (t *Tracker) insertIntoList(ln *statetree.ListNode, index int, vs []value.Value, p path.Path) error {
	anchorIdx, err := anchorFor(ln.Len(), index)
	if err != nil {
		return err
	}
	anchor := protocol.HeadID
	if anchorIdx >= 0 {
		anchor, _, err = ln.ElemAt(anchorIdx)
		if err != nil {
			return errs.MissingIndexError{Path: p, Index: index}
		}
	}

	obj := ln.ObjectID()
	var emitted []protocol.Op
	built := make([]statetree.MultiValue, 0, len(vs))
	for _, v := range vs {
		mv, ops, err := t.buildValue(obj, protocol.ElementKeyOf(anchor), true, nil, v)
		if err != nil {
			return err
		}
		built = append(built, mv)
		emitted = append(emitted, ops...)
		anchor = protocol.NewElementID(mv.DefaultOpID())
	}
	for i, mv := range built {
		if err := ln.InsertCommitted(index+i, protocol.NewElementID(mv.DefaultOpID()), mv); err != nil {
			return err
		}
	}
	t.ops = append(t.ops, statetree.CondenseInsertOps(emitted)...)
	return nil
}

func (t *Tracker) insertIntoText(tn *statetree.TextNode, index int, vs []value.Value, p path.Path) error {
	anchorIdx, err := anchorFor(tn.Len(), index)
	if err != nil {
		return err
	}
	anchor := protocol.HeadID
	if anchorIdx >= 0 {
		anchor, _, err = tn.ElemAt(anchorIdx)
		if err != nil {
			return errs.MissingIndexError{Path: p, Index: index}
		}
	}

	graphemes := make([]string, len(vs))
	for i, v := range vs {
		if v.Kind != value.KindPrimitive || v.Prim.Kind != protocol.KindStr || !value.IsSingleGrapheme(v.Prim.Str) {
			return errs.InsertNonTextInTextObjectError{Path: p, Value: v.Prim.Str}
		}
		graphemes[i] = v.Prim.Str
	}

	obj := tn.ObjectID()
	var emitted []protocol.Op
	for i, g := range graphemes {
		opID := t.nextOpID()
		emitted = append(emitted, protocol.Op{
			Action: protocol.SetOp(protocol.StrValue(g)),
			Obj:    obj,
			Key:    protocol.ElementKeyOf(anchor),
			Insert: true,
		})
		newElemID := protocol.NewElementID(opID)
		if err := tn.InsertCommitted(index+i, newElemID, statetree.NewMultiGrapheme(opID, g)); err != nil {
			return err
		}
		anchor = newElemID
	}
	t.ops = append(t.ops, statetree.CondenseInsertOps(emitted)...)
	return nil
}
