package statetree

import (
	"github.com/gocrdt/automerge-frontend/errs"
	"github.com/gocrdt/automerge-frontend/path"
	"github.com/gocrdt/automerge-frontend/protocol"
)

// GetCursor captures a stable reference to the element currently at index
// i: a later CursorToPath call re-finds it by element id even if
// concurrent edits have since shifted its index.
func (l *ListNode) GetCursor(i int) (protocol.CursorValue, error) {
	elemID, _, err := l.ElemAt(i)
	if err != nil {
		return protocol.CursorValue{}, err
	}
	return protocol.CursorValue{Object: l.id, Index: uint32(i), Element: elemID}, nil
}

// GetCursor is TextNode's analogue of ListNode.GetCursor.
func (t *TextNode) GetCursor(i int) (protocol.CursorValue, error) {
	elemID, _, err := t.ElemAt(i)
	if err != nil {
		return protocol.CursorValue{}, err
	}
	return protocol.CursorValue{Object: t.id, Index: uint32(i), Element: elemID}, nil
}

// CursorToPath resolves a previously captured Cursor back to a live Path
// by walking the tree and matching the cursor's object id and element id,
// not its recorded index, which may be stale.
func CursorToPath(tree *StateTree, c protocol.CursorValue) (path.Path, error) {
	if p, ok := findElementPath(path.Root(), tree.Root, c); ok {
		return p, nil
	}
	return path.Path{}, errs.NoSuchPathError{}
}

func findElementPath(base path.Path, m *MapNode, c protocol.CursorValue) (path.Path, bool) {
	for _, k := range m.Keys() {
		mv, _ := m.Get(k)
		if p, ok := findInValue(base.Key(k), mv.DefaultValue(), c); ok {
			return p, true
		}
	}
	return path.Path{}, false
}

func findInValue(p path.Path, stv StateTreeValue, c protocol.CursorValue) (path.Path, bool) {
	switch stv.Kind {
	case STVMap:
		return findElementPath(p, stv.MapNode, c)
	case STVList:
		if stv.ListNode.id == c.Object {
			for i := 0; i < stv.ListNode.Len(); i++ {
				if elemID, _, err := stv.ListNode.ElemAt(i); err == nil && elemID == c.Element {
					return p.Index(i), true
				}
			}
		}
		for i := 0; i < stv.ListNode.Len(); i++ {
			_, mv, err := stv.ListNode.ElemAt(i)
			if err != nil {
				continue
			}
			if found, ok := findInValue(p.Index(i), mv.DefaultValue(), c); ok {
				return found, true
			}
		}
	case STVText:
		if stv.TextNode.id == c.Object {
			for i := 0; i < stv.TextNode.Len(); i++ {
				if elemID, _, err := stv.TextNode.ElemAt(i); err == nil && elemID == c.Element {
					return p.Index(i), true
				}
			}
		}
	}
	return path.Path{}, false
}
