package protocol

import "fmt"

// ScalarKind tags the variant held by a ScalarValue.
type ScalarKind int

const (
	KindStr ScalarKind = iota
	KindInt
	KindUint
	KindF32
	KindF64
	KindBoolean
	KindNull
	KindCounter
	KindTimestamp
	KindCursor
	KindBytes
)

// CursorValue is the payload of a ScalarValue of kind KindCursor: a
// reference to a position inside a sequence, stable across concurrent
// edits elsewhere in the document.
type CursorValue struct {
	Object  ObjectID
	Index   uint32
	Element ElementID
}

// ScalarValue is the wire-level primitive carried by Set/MultiSet ops and
// by Diff leaves: exactly the variants automerge-protocol's ScalarValue
// enum carries, independent of the richer Value/Primitive tree the
// frontend exposes to callers.
type ScalarValue struct {
	Kind   ScalarKind
	Str    string
	Int    int64
	Uint   uint64
	F32    float32
	F64    float64
	Bool   bool
	Cursor CursorValue
	Bytes  []byte
}

func StrValue(s string) ScalarValue       { return ScalarValue{Kind: KindStr, Str: s} }
func IntValue(i int64) ScalarValue        { return ScalarValue{Kind: KindInt, Int: i} }
func UintValue(u uint64) ScalarValue      { return ScalarValue{Kind: KindUint, Uint: u} }
func F32Value(f float32) ScalarValue      { return ScalarValue{Kind: KindF32, F32: f} }
func F64Value(f float64) ScalarValue      { return ScalarValue{Kind: KindF64, F64: f} }
func BoolValue(b bool) ScalarValue        { return ScalarValue{Kind: KindBoolean, Bool: b} }
func NullValue() ScalarValue              { return ScalarValue{Kind: KindNull} }
func CounterValue(i int64) ScalarValue    { return ScalarValue{Kind: KindCounter, Int: i} }
func TimestampValue(i int64) ScalarValue  { return ScalarValue{Kind: KindTimestamp, Int: i} }
func BytesValue(b []byte) ScalarValue     { return ScalarValue{Kind: KindBytes, Bytes: b} }
func CursorValueOf(c CursorValue) ScalarValue {
	return ScalarValue{Kind: KindCursor, Cursor: c}
}

func (s ScalarValue) String() string {
	switch s.Kind {
	case KindStr:
		return fmt.Sprintf("Str(%q)", s.Str)
	case KindInt:
		return fmt.Sprintf("Int(%d)", s.Int)
	case KindUint:
		return fmt.Sprintf("Uint(%d)", s.Uint)
	case KindF32:
		return fmt.Sprintf("F32(%v)", s.F32)
	case KindF64:
		return fmt.Sprintf("F64(%v)", s.F64)
	case KindBoolean:
		return fmt.Sprintf("Boolean(%v)", s.Bool)
	case KindNull:
		return "Null"
	case KindCounter:
		return fmt.Sprintf("Counter(%d)", s.Int)
	case KindTimestamp:
		return fmt.Sprintf("Timestamp(%d)", s.Int)
	case KindCursor:
		return fmt.Sprintf("Cursor(%v)", s.Cursor)
	case KindBytes:
		return fmt.Sprintf("Bytes(% x)", s.Bytes)
	default:
		return "<invalid scalar>"
	}
}

// ObjType names the kind of composite an object/Make op creates.
type ObjType int

const (
	ObjMap ObjType = iota
	ObjTable
	ObjList
	ObjText
)

func (t ObjType) String() string {
	switch t {
	case ObjMap:
		return "map"
	case ObjTable:
		return "table"
	case ObjList:
		return "list"
	case ObjText:
		return "text"
	default:
		return "<invalid objtype>"
	}
}

// IsSequence reports whether this object type is ordered (List or Text).
func (t ObjType) IsSequence() bool { return t == ObjList || t == ObjText }

// IsMapLike reports whether this object type is keyed by string (Map or
// Table).
func (t ObjType) IsMapLike() bool { return t == ObjMap || t == ObjTable }

// OpKind tags the variant held by an OpType.
type OpKind int

const (
	OpSet OpKind = iota
	OpMultiSet
	OpDel
	OpInc
	OpMake
)

// OpType is the action half of an outgoing Op: a scalar assignment, a run
// of scalar assignments emitted from a single condensed insert, a
// deletion of one-or-more elements, a counter increment, or the creation
// of a new composite object.
type OpType struct {
	Kind      OpKind
	Value     ScalarValue   // OpSet
	Values    []ScalarValue // OpMultiSet
	DelCount  uint32        // OpDel, always >= 1
	IncBy     int64         // OpInc
	MakeKind  ObjType       // OpMake
}

func SetOp(v ScalarValue) OpType        { return OpType{Kind: OpSet, Value: v} }
func MultiSetOp(vs []ScalarValue) OpType { return OpType{Kind: OpMultiSet, Values: vs} }
func DelOp(count uint32) OpType {
	if count == 0 {
		panic("protocol: Del op count must be non-zero")
	}
	return OpType{Kind: OpDel, DelCount: count}
}
func IncOp(by int64) OpType           { return OpType{Kind: OpInc, IncBy: by} }
func MakeOp(kind ObjType) OpType      { return OpType{Kind: OpMake, MakeKind: kind} }

// Op is a single outgoing CRDT operation produced by the mutation
// tracker and forwarded to the backend inside a ChangeRequest.
type Op struct {
	Action OpType
	Obj    ObjectID
	Key    Key
	Insert bool
	Pred   []OpID
}
