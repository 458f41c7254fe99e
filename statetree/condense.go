package statetree

import "github.com/gocrdt/automerge-frontend/protocol"

// condensableScalar reports whether an Op's action is a single-value Set
// of a scalar kind eligible for condensation: anything except Counter,
// Timestamp and Cursor, which carry identity or accumulation semantics
// that a MultiSet run would silently collapse.
func condensableScalar(op protocol.Op) (protocol.ScalarValue, bool) {
	if op.Action.Kind != protocol.OpSet {
		return protocol.ScalarValue{}, false
	}
	v := op.Action.Value
	switch v.Kind {
	case protocol.KindCounter, protocol.KindTimestamp, protocol.KindCursor:
		return protocol.ScalarValue{}, false
	default:
		return v, true
	}
}

// CondenseInsertOps is called once per Insert/InsertMany call, over
// exactly the ops that one call produced, and is all-or-nothing: per
// spec.md's condensation law, a single ineligible op (a composite Make,
// or a Counter/Timestamp/Cursor scalar) voids condensation for the whole
// run, it does not just split the run around it. Eligibility and the
// resulting op's shape mirror the reference implementation's
// `condense_insert_ops`/`prim_from_op_action`: the condensed op keeps
// the first op's key/obj/insert and concatenates every op's pred list in
// order.
func CondenseInsertOps(ops []protocol.Op) []protocol.Op {
	if len(ops) < 2 {
		out := make([]protocol.Op, len(ops))
		copy(out, ops)
		return out
	}

	scalars := make([]protocol.ScalarValue, 0, len(ops))
	preds := make([]protocol.OpID, 0, len(ops))
	for _, op := range ops {
		v, ok := condensableScalar(op)
		if !ok || !op.Insert || op.Obj != ops[0].Obj {
			out := make([]protocol.Op, len(ops))
			copy(out, ops)
			return out
		}
		scalars = append(scalars, v)
		preds = append(preds, op.Pred...)
	}

	return []protocol.Op{{
		Action: protocol.MultiSetOp(scalars),
		Obj:    ops[0].Obj,
		Key:    ops[0].Key,
		Insert: true,
		Pred:   preds,
	}}
}
