package statetree

import (
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/value"
)

// StateTree is the document root: a single Map node (the root object) plus
// the bookkeeping path resolution and patch application need. There is no
// separate object index; a diff reaches every touched composite by
// recursing through the same nested structure the document itself has,
// which is also how path resolution finds things.
type StateTree struct {
	Root *MapNode
}

// NewStateTree builds the empty document, a root map with no properties.
func NewStateTree() *StateTree {
	return &StateTree{Root: NewMapNode(protocol.RootID, protocol.MapPlain)}
}

// Value materializes the whole document as a caller-facing value.Value.
func (t *StateTree) Value() value.Value { return t.Root.Value() }

// ApplyRootPropsDiff applies a patch's diffs for the root object; the
// backend always sends the root's entry as a DiffMap keyed by
// protocol.RootID, but frontends apply it directly against the root node
// rather than looking it up, since the root is always already resolved.
func (t *StateTree) ApplyRootPropsDiff(props map[string]map[protocol.OpID]protocol.Diff) error {
	return t.Root.ApplyPropsDiff(props)
}
