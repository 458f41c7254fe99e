package statetree

import (
	"sort"

	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/value"
)

// MapNode backs both Map and Table composites; Kind distinguishes them
// purely for classification by path resolution; internally they behave
// identically, since a table's "synthesized unique keys" are just
// ordinary string keys chosen by the caller before the key ever reaches
// the state tree.
type MapNode struct {
	id    protocol.ObjectID
	kind  protocol.MapType
	props map[string]MultiValue
}

func NewMapNode(id protocol.ObjectID, kind protocol.MapType) *MapNode {
	return &MapNode{id: id, kind: kind, props: map[string]MultiValue{}}
}

func (m *MapNode) ObjectID() protocol.ObjectID { return m.id }
func (m *MapNode) Kind() protocol.MapType      { return m.kind }

// Get returns the MultiValue stored at key, or false if absent.
func (m *MapNode) Get(key string) (MultiValue, bool) {
	mv, ok := m.props[key]
	return mv, ok
}

// Set stores mv at key, overwriting whatever was there.
func (m *MapNode) Set(key string, mv MultiValue) { m.props[key] = mv }

// Delete removes key.
func (m *MapNode) Delete(key string) { delete(m.props, key) }

// Keys returns the map's keys in sorted order, for deterministic
// iteration.
func (m *MapNode) Keys() []string {
	keys := make([]string, 0, len(m.props))
	for k := range m.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PredForKey returns the op-ids the given key currently carries.
func (m *MapNode) PredForKey(key string) []protocol.OpID {
	mv, ok := m.props[key]
	if !ok {
		return nil
	}
	return mv.OpIDs()
}

// Value materializes the map's current default contents.
func (m *MapNode) Value() value.Value {
	out := make(map[string]value.Value, len(m.props))
	for k, mv := range m.props {
		out[k] = mv.DefaultValue().Value()
	}
	if m.kind == protocol.MapTable {
		return value.NewTable(out)
	}
	return value.NewMap(out)
}

// ApplyPropsDiff reconciles this map's keys against a patch's per-key
// op-id -> Diff reconciliation map: each key's entire surviving set of
// assignments is replaced by what the patch specifies, constructing or
// updating each op-id's value and dropping the key entirely when the
// patch leaves it with no surviving assignments.
func (m *MapNode) ApplyPropsDiff(props map[string]map[protocol.OpID]protocol.Diff) error {
	for key, byOp := range props {
		if len(byOp) == 0 {
			delete(m.props, key)
			continue
		}
		existing := m.props[key]
		next := make(map[protocol.OpID]StateTreeValue, len(byOp))
		for opID, d := range byOp {
			prior, hasPrior := existing.values[opID]
			var stv StateTreeValue
			var err error
			if hasPrior && d.Kind != protocol.DiffValue && !d.NewObject {
				stv, err = prior.applyDiff(d)
			} else {
				stv, err = constructStateTreeValue(d)
			}
			if err != nil {
				return err
			}
			next[opID] = stv
		}
		m.props[key] = MultiValue{values: next}
	}
	return nil
}

// ListNode backs a List composite: an ordered DiffableSequence of
// MultiValue, each element able to hold any Value kind including nested
// composites.
type ListNode struct {
	id  protocol.ObjectID
	seq *DiffableSequence[MultiValue]
}

func NewListNode(id protocol.ObjectID) *ListNode {
	return &ListNode{id: id, seq: NewDiffableSequence(constructListElement)}
}

func constructListElement(opID protocol.OpID, diff protocol.Diff) (MultiValue, error) {
	stv, err := constructStateTreeValue(diff)
	if err != nil {
		return MultiValue{}, err
	}
	return NewMultiValue(opID, stv), nil
}

func (l *ListNode) ObjectID() protocol.ObjectID { return l.id }
func (l *ListNode) Len() int                    { return l.seq.Len() }

func (l *ListNode) ElemAt(i int) (protocol.ElementID, MultiValue, error) { return l.seq.ElemAt(i) }

func (l *ListNode) PredForIndex(i int) ([]protocol.OpID, error) { return l.seq.PredForIndex(i) }

func (l *ListNode) InsertCommitted(index int, elemID protocol.ElementID, mv MultiValue) error {
	return l.seq.InsertCommitted(index, elemID, mv)
}

func (l *ListNode) RemoveCommitted(index, count int) error {
	return l.seq.RemoveCommitted(index, count)
}

func (l *ListNode) SetCommitted(index int, mv MultiValue) error {
	return l.seq.SetCommitted(index, mv)
}

func (l *ListNode) ApplyDiff(edits []protocol.DiffEdit) error { return l.seq.ApplyDiff(edits) }

func (l *ListNode) Value() value.Value {
	out := make([]value.Value, l.seq.Len())
	for i := range out {
		_, mv, _ := l.seq.ElemAt(i)
		out[i] = mv.DefaultValue().Value()
	}
	return value.NewList(out)
}

// TextNode backs a Text composite: an ordered DiffableSequence of
// MultiGrapheme, each element constrained to exactly one grapheme
// cluster.
type TextNode struct {
	id  protocol.ObjectID
	seq *DiffableSequence[MultiGrapheme]
}

func NewTextNode(id protocol.ObjectID) *TextNode {
	return &TextNode{id: id, seq: NewDiffableSequence(constructTextElement)}
}

func constructTextElement(opID protocol.OpID, diff protocol.Diff) (MultiGrapheme, error) {
	s, err := graphemeFromDiff(diff)
	if err != nil {
		return MultiGrapheme{}, err
	}
	return NewMultiGrapheme(opID, s), nil
}

func (t *TextNode) ObjectID() protocol.ObjectID { return t.id }
func (t *TextNode) Len() int                    { return t.seq.Len() }

func (t *TextNode) ElemAt(i int) (protocol.ElementID, MultiGrapheme, error) { return t.seq.ElemAt(i) }

func (t *TextNode) PredForIndex(i int) ([]protocol.OpID, error) { return t.seq.PredForIndex(i) }

func (t *TextNode) InsertCommitted(index int, elemID protocol.ElementID, g MultiGrapheme) error {
	return t.seq.InsertCommitted(index, elemID, g)
}

func (t *TextNode) RemoveCommitted(index, count int) error {
	return t.seq.RemoveCommitted(index, count)
}

func (t *TextNode) SetCommitted(index int, g MultiGrapheme) error {
	return t.seq.SetCommitted(index, g)
}

func (t *TextNode) ApplyDiff(edits []protocol.DiffEdit) error { return t.seq.ApplyDiff(edits) }

func (t *TextNode) Value() value.Value {
	out := make([]string, t.seq.Len())
	for i := range out {
		_, g, _ := t.seq.ElemAt(i)
		out[i] = g.DefaultValue()
	}
	return value.NewText(out)
}

// String renders the text object's current default content as a plain Go
// string, concatenating grapheme clusters in order.
func (t *TextNode) String() string {
	s := ""
	for i := 0; i < t.seq.Len(); i++ {
		_, g, _ := t.seq.ElemAt(i)
		s += g.DefaultValue()
	}
	return s
}
