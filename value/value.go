// Package value defines the document-shaped tree that callers read out of
// and write into the frontend: the materialized view a MultiValue or a
// state tree composite collapses down to once concurrent writes are
// resolved to their defaults.
//
// It is deliberately a plain recursive tree with no CRDT metadata at all;
// that metadata lives one layer down, in the state tree. This is the same
// split automerge-frontend draws between its public Value and its
// internal StateTreeValue.
package value

import "github.com/gocrdt/automerge-frontend/protocol"

// Kind tags the variant held by a Value.
type Kind int

const (
	KindMap Kind = iota
	KindTable
	KindList
	KindText
	KindCounter
	KindPrimitive
)

// Value is the materialized, CRDT-metadata-free view of a document or a
// piece of one. Map and Table hold nested Values keyed by string; List
// holds nested Values in order; Text holds one grapheme cluster per
// element; Counter holds the current tally; Primitive holds a scalar.
type Value struct {
	Kind Kind

	Map   map[string]Value // KindMap, KindTable
	List  []Value          // KindList
	Text  []string         // KindText: one grapheme cluster per entry
	Count int64            // KindCounter
	Prim  protocol.ScalarValue
}

func NewMap(props map[string]Value) Value   { return Value{Kind: KindMap, Map: props} }
func NewTable(rows map[string]Value) Value  { return Value{Kind: KindTable, Map: rows} }
func NewList(elems []Value) Value           { return Value{Kind: KindList, List: elems} }
func NewText(graphemes []string) Value      { return Value{Kind: KindText, Text: graphemes} }
func NewCounter(count int64) Value          { return Value{Kind: KindCounter, Count: count} }
func NewPrimitive(p protocol.ScalarValue) Value {
	return Value{Kind: KindPrimitive, Prim: p}
}

// IsComposite reports whether this value is a Map, Table, List or Text,
// as opposed to a Counter or a Primitive leaf.
func (v Value) IsComposite() bool {
	switch v.Kind {
	case KindMap, KindTable, KindList, KindText:
		return true
	default:
		return false
	}
}

// ObjType reports the protocol.ObjType this value would be created as,
// panicking for Counter and Primitive which are not objects.
func (v Value) ObjType() protocol.ObjType {
	switch v.Kind {
	case KindMap:
		return protocol.ObjMap
	case KindTable:
		return protocol.ObjTable
	case KindList:
		return protocol.ObjList
	case KindText:
		return protocol.ObjText
	default:
		panic("value: ObjType called on a non-object Value")
	}
}
