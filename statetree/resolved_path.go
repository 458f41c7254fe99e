package statetree

import (
	"github.com/google/uuid"

	"github.com/gocrdt/automerge-frontend/path"
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/value"
)

// TargetKind tags the variant held by a Target.
type TargetKind int

const (
	TargetRoot TargetKind = iota
	TargetMap
	TargetTable
	TargetList
	TargetText
	TargetCharacter
	TargetCounter
	TargetPrimitive
)

// Target is a resolved path's classification: what kind of thing lives at
// that location right now, plus enough live state to read or mutate it.
// Composite variants hold a pointer straight into the tree, so the same
// Target serves as both automerge-frontend's read-only ResolvedPath and
// its mutable ResolvedPathMut: there is nothing to duplicate once node
// access is already pointer-shaped.
type Target struct {
	Kind TargetKind

	MapNode  *MapNode
	ListNode *ListNode
	TextNode *TextNode

	// TargetCharacter
	Grapheme  MultiGrapheme
	CharIndex int

	// TargetCounter, TargetPrimitive
	Prim protocol.ScalarValue
}

// DefaultValue materializes this target's current default contents.
func (t Target) DefaultValue() value.Value {
	switch t.Kind {
	case TargetRoot, TargetMap, TargetTable:
		return t.MapNode.Value()
	case TargetList:
		return t.ListNode.Value()
	case TargetText:
		return t.TextNode.Value()
	case TargetCharacter:
		return value.NewText([]string{t.Grapheme.DefaultValue()})
	case TargetCounter:
		return value.NewCounter(t.Prim.Int)
	default:
		return value.NewPrimitive(t.Prim)
	}
}

// Values returns concurrently-surviving values at this target, keyed by
// op-id, for callers that want to see conflicts instead of the default.
// Root synthesizes a placeholder since the document root is never itself
// the product of one op. Only Root and Character targets report values:
// a Target does not keep the MultiValue it was resolved from, so every
// other kind returns an empty map.
func (t Target) Values() map[protocol.OpID]value.Value {
	switch t.Kind {
	case TargetRoot:
		// The root is never itself the product of one op; synthesize a
		// placeholder op-id so callers keyed on op-id still get one
		// entry. The placeholder's actor is a fresh random id: it never
		// needs to compare equal to anything a real session produces,
		// it only needs to be present as a map key.
		placeholder := protocol.NewOpID(0, protocol.ActorID(uuid.NewString()))
		return map[protocol.OpID]value.Value{placeholder: t.MapNode.Value()}
	case TargetCharacter:
		out := make(map[protocol.OpID]value.Value, 1)
		for id, g := range t.Grapheme.RealiseValues() {
			out[id] = value.NewText([]string{g})
		}
		return out
	default:
		return map[protocol.OpID]value.Value{}
	}
}

// ObjectID returns the target's object id, or false for non-object
// targets (Character, Counter, Primitive).
func (t Target) ObjectID() (protocol.ObjectID, bool) {
	switch t.Kind {
	case TargetRoot:
		return protocol.RootID, true
	case TargetMap, TargetTable:
		return t.MapNode.ObjectID(), true
	case TargetList:
		return t.ListNode.ObjectID(), true
	case TargetText:
		return t.TextNode.ObjectID(), true
	default:
		return protocol.ObjectID{}, false
	}
}

func targetFromStateTreeValue(v StateTreeValue) Target {
	switch v.Kind {
	case STVPrimitive:
		return Target{Kind: TargetPrimitive, Prim: v.Prim}
	case STVCounter:
		return Target{Kind: TargetCounter, Prim: v.Prim}
	case STVMap:
		if v.MapNode.Kind() == protocol.MapTable {
			return Target{Kind: TargetTable, MapNode: v.MapNode}
		}
		return Target{Kind: TargetMap, MapNode: v.MapNode}
	case STVList:
		return Target{Kind: TargetList, ListNode: v.ListNode}
	case STVText:
		return Target{Kind: TargetText, TextNode: v.TextNode}
	default:
		panic("statetree: StateTreeValue with invalid kind")
	}
}

// Resolve walks p from tree's root and classifies whatever it points to,
// per the resolution contract: the empty path is Root; each further step
// must match the container kind found so far (Key on Map/Table/Root,
// Index on List/Text), and the resulting classification comes from the
// default value of the MultiValue/MultiGrapheme found at that step.
func Resolve(tree *StateTree, p path.Path) (Target, bool) {
	if p.IsRoot() {
		return Target{Kind: TargetRoot, MapNode: tree.Root}, true
	}
	parentPath, ok := p.Parent()
	if !ok {
		return Target{}, false
	}
	parent, ok := Resolve(tree, parentPath)
	if !ok {
		return Target{}, false
	}
	last, ok := p.Name()
	if !ok {
		return Target{}, false
	}
	return resolveStep(parent, last)
}

func resolveStep(parent Target, elem path.Element) (Target, bool) {
	switch parent.Kind {
	case TargetRoot, TargetMap, TargetTable:
		if elem.Kind != path.ElementKey {
			return Target{}, false
		}
		mv, ok := parent.MapNode.Get(elem.Key)
		if !ok {
			return Target{}, false
		}
		return targetFromStateTreeValue(mv.DefaultValue()), true
	case TargetList:
		if elem.Kind != path.ElementIndex || elem.Index < 0 || elem.Index >= parent.ListNode.Len() {
			return Target{}, false
		}
		_, mv, err := parent.ListNode.ElemAt(elem.Index)
		if err != nil {
			return Target{}, false
		}
		return targetFromStateTreeValue(mv.DefaultValue()), true
	case TargetText:
		if elem.Kind != path.ElementIndex || elem.Index < 0 || elem.Index >= parent.TextNode.Len() {
			return Target{}, false
		}
		_, g, err := parent.TextNode.ElemAt(elem.Index)
		if err != nil {
			return Target{}, false
		}
		return Target{Kind: TargetCharacter, Grapheme: g, CharIndex: elem.Index}, true
	default:
		return Target{}, false
	}
}

// ResolveParent resolves p's parent path, returning the parent Target and
// p's last element. Mutation dispatch in the mutation tracker always
// works this way: resolve the parent container, then act on it using the
// last path element as the key/index.
func ResolveParent(tree *StateTree, p path.Path) (Target, path.Element, bool) {
	parentPath, ok := p.Parent()
	if !ok {
		return Target{}, path.Element{}, false
	}
	last, ok := p.Name()
	if !ok {
		return Target{}, path.Element{}, false
	}
	parent, ok := Resolve(tree, parentPath)
	if !ok {
		return Target{}, path.Element{}, false
	}
	return parent, last, true
}
