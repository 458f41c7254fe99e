package mutation

import (
	"sort"

	"github.com/gocrdt/automerge-frontend/errs"
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/statetree"
	"github.com/gocrdt/automerge-frontend/value"
)

// SetOrInsertPayload carries the three things every recursive
// value-to-ops conversion needs: the op-id a freshly allocated operation
// should start from, the actor allocating it, and the caller-supplied
// value being realized. buildValue and its helpers do not take it: they
// read the actor from the Tracker and allocate op-ids through
// t.nextOpID.
type SetOrInsertPayload struct {
	StartOp uint64
	Actor   protocol.ActorID
	Value   value.Value
}

func sortedKeys(m map[string]value.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildValue realizes v as the new content of (obj, key), recursively
// creating child ops and child state tree nodes for composite values. It
// allocates its own op-ids (and, transitively, every nested composite's)
// by calling t.nextOpID, so t.maxOp reflects every op produced by the time
// buildValue returns.
func (t *Tracker) buildValue(obj protocol.ObjectID, key protocol.Key, insert bool, pred []protocol.OpID, v value.Value) (statetree.MultiValue, []protocol.Op, error) {
	switch v.Kind {
	case value.KindCounter:
		opID := t.nextOpID()
		sv := protocol.CounterValue(v.Count)
		op := protocol.Op{Action: protocol.SetOp(sv), Obj: obj, Key: key, Insert: insert, Pred: pred}
		stv := statetree.StateTreeValue{Kind: statetree.STVCounter, Prim: sv}
		return statetree.NewMultiValue(opID, stv), []protocol.Op{op}, nil

	case value.KindPrimitive:
		opID := t.nextOpID()
		op := protocol.Op{Action: protocol.SetOp(v.Prim), Obj: obj, Key: key, Insert: insert, Pred: pred}
		stv := statetree.StateTreeValue{Kind: statetree.STVPrimitive, Prim: v.Prim}
		return statetree.NewMultiValue(opID, stv), []protocol.Op{op}, nil

	case value.KindMap, value.KindTable:
		return t.buildMapValue(obj, key, insert, pred, v)

	case value.KindList:
		return t.buildListValue(obj, key, insert, pred, v)

	case value.KindText:
		return t.buildTextValue(obj, key, insert, pred, v)

	default:
		panic("mutation: value.Value with invalid kind")
	}
}

func (t *Tracker) buildMapValue(obj protocol.ObjectID, key protocol.Key, insert bool, pred []protocol.OpID, v value.Value) (statetree.MultiValue, []protocol.Op, error) {
	opID := t.nextOpID()
	objType, mapKind := protocol.ObjMap, protocol.MapPlain
	if v.Kind == value.KindTable {
		objType, mapKind = protocol.ObjTable, protocol.MapTable
	}
	ops := []protocol.Op{{Action: protocol.MakeOp(objType), Obj: obj, Key: key, Insert: insert, Pred: pred}}

	childObj := protocol.NewObjectID(opID)
	mn := statetree.NewMapNode(childObj, mapKind)
	for _, k := range sortedKeys(v.Map) {
		childMV, childOps, err := t.buildValue(childObj, protocol.MapKeyOf(k), false, nil, v.Map[k])
		if err != nil {
			return statetree.MultiValue{}, nil, err
		}
		mn.Set(k, childMV)
		ops = append(ops, childOps...)
	}
	stv := statetree.StateTreeValue{Kind: statetree.STVMap, MapNode: mn}
	return statetree.NewMultiValue(opID, stv), ops, nil
}

func (t *Tracker) buildListValue(obj protocol.ObjectID, key protocol.Key, insert bool, pred []protocol.OpID, v value.Value) (statetree.MultiValue, []protocol.Op, error) {
	opID := t.nextOpID()
	ops := []protocol.Op{{Action: protocol.MakeOp(protocol.ObjList), Obj: obj, Key: key, Insert: insert, Pred: pred}}

	childObj := protocol.NewObjectID(opID)
	ln := statetree.NewListNode(childObj)
	anchor := protocol.HeadID
	for i, elemVal := range v.List {
		elemMV, elemOps, err := t.buildValue(childObj, protocol.ElementKeyOf(anchor), true, nil, elemVal)
		if err != nil {
			return statetree.MultiValue{}, nil, err
		}
		newElemID := protocol.NewElementID(elemMV.DefaultOpID())
		if err := ln.InsertCommitted(i, newElemID, elemMV); err != nil {
			return statetree.MultiValue{}, nil, err
		}
		ops = append(ops, elemOps...)
		anchor = newElemID
	}
	stv := statetree.StateTreeValue{Kind: statetree.STVList, ListNode: ln}
	return statetree.NewMultiValue(opID, stv), ops, nil
}

func (t *Tracker) buildTextValue(obj protocol.ObjectID, key protocol.Key, insert bool, pred []protocol.OpID, v value.Value) (statetree.MultiValue, []protocol.Op, error) {
	opID := t.nextOpID()
	ops := []protocol.Op{{Action: protocol.MakeOp(protocol.ObjText), Obj: obj, Key: key, Insert: insert, Pred: pred}}

	childObj := protocol.NewObjectID(opID)
	tn := statetree.NewTextNode(childObj)
	anchor := protocol.HeadID
	for i, g := range v.Text {
		if !value.IsSingleGrapheme(g) {
			return statetree.MultiValue{}, nil, errs.InsertNonTextInTextObjectError{Value: g}
		}
		gOpID := t.nextOpID()
		ops = append(ops, protocol.Op{
			Action: protocol.SetOp(protocol.StrValue(g)),
			Obj:    childObj,
			Key:    protocol.ElementKeyOf(anchor),
			Insert: true,
		})
		newElemID := protocol.NewElementID(gOpID)
		if err := tn.InsertCommitted(i, newElemID, statetree.NewMultiGrapheme(gOpID, g)); err != nil {
			return statetree.MultiValue{}, nil, err
		}
		anchor = newElemID
	}
	stv := statetree.StateTreeValue{Kind: statetree.STVText, TextNode: tn}
	return statetree.NewMultiValue(opID, stv), ops, nil
}
