// Package patch applies a backend-produced Patch to a state tree: the
// authoritative diff that lands after the backend merges local and remote
// changes, bringing the materialized view back in sync with the shared
// history.
package patch

import (
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/statetree"
)

// Patch is the inbound message the frontend consumes: per §6.1, actor/
// seq/clock/deps are bookkeeping the enclosing document shell owns; the
// core only touches MaxOp and Diffs.
type Patch struct {
	Actor protocol.ActorID
	Seq   uint64
	MaxOp uint64
	Clock map[protocol.ActorID]uint64
	Deps  []string
	Diffs map[protocol.ObjectID]protocol.Diff
}

// Apply reconciles tree against p's diffs, returning the max_op the
// document should advance to. Only the entry keyed by protocol.RootID is
// read; nested objects are reached through it, and entries under any
// other object id are ignored. A patch that fails partway leaves the tree
// in an unspecified state; per the concurrency model, callers must discard
// the document and reload from a fresh snapshot rather than retry.
func Apply(tree *statetree.StateTree, p Patch) (uint64, error) {
	rootDiff, hasRoot := p.Diffs[protocol.RootID]
	if hasRoot {
		if rootDiff.Kind != protocol.DiffMap {
			return 0, &InvalidPatchError{ObjectID: protocol.RootID}
		}
		if err := tree.ApplyRootPropsDiff(rootDiff.Props); err != nil {
			return 0, err
		}
	}
	return p.MaxOp, nil
}

// InvalidPatchError is returned by Apply when the patch's root diff is not
// a map diff. Other failures come back from the state tree as they are:
// an out-of-range sequence index as errs.InvalidIndexError, a malformed
// diff as a plain error.
type InvalidPatchError struct {
	ObjectID protocol.ObjectID
	Index    uint32
}

func (e *InvalidPatchError) Error() string {
	return "invalid patch for object " + e.ObjectID.String()
}
