// Package protocol defines the wire-level vocabulary shared between the
// frontend's state tree and the backend it talks to: actor and operation
// identifiers, object and element identifiers, keys, scalar values, and
// the Op/Diff/DiffEdit shapes that cross the boundary in each direction.
//
// Nothing in this package touches the materialized document; it only
// names the pieces other packages assemble into one.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ActorID is an opaque, totally ordered byte string naming a replica.
// Allocation, persistence and comparison all happen lexicographically on
// the underlying bytes.
type ActorID string

// String returns the actor id's canonical textual form.
func (a ActorID) String() string { return string(a) }

// Less reports whether a sorts before other, used to break ties between
// operations that share a counter.
func (a ActorID) Less(other ActorID) bool { return a < other }

// OpID is a Lamport timestamp: a monotonic counter paired with the actor
// that produced it. OpIDs are compared first by Counter, then by Actor,
// which gives a total order over all operations in a document regardless
// of which replica created them.
type OpID struct {
	Counter uint64
	Actor   ActorID
}

// NewOpID builds an OpID from its components.
func NewOpID(counter uint64, actor ActorID) OpID {
	return OpID{Counter: counter, Actor: actor}
}

// IncrementBy returns the OpID obtained by advancing this one's counter by
// n while keeping the same actor, used to allocate the OpIDs of a run of
// values inserted by a single MultiElementInsert diff.
func (o OpID) IncrementBy(n uint64) OpID {
	return OpID{Counter: o.Counter + n, Actor: o.Actor}
}

// Less implements the Lamport order: lower counter first, actor as
// tie-breaker.
func (o OpID) Less(other OpID) bool {
	if o.Counter != other.Counter {
		return o.Counter < other.Counter
	}
	return o.Actor.Less(other.Actor)
}

// Greater is the converse of Less, handy when hunting for the maximal
// (default) OpID in a set of concurrent writers.
func (o OpID) Greater(other OpID) bool {
	return other.Less(o)
}

// String renders the Lamport syntax "<counter>@<actor>" used on the wire
// and in ElementId/Key serialization.
func (o OpID) String() string {
	return fmt.Sprintf("%d@%s", o.Counter, o.Actor)
}

// ParseOpID parses the "<counter>@<actor>" syntax produced by String.
func ParseOpID(s string) (OpID, bool) {
	at := strings.IndexByte(s, '@')
	if at < 0 {
		return OpID{}, false
	}
	counter, err := strconv.ParseUint(s[:at], 10, 64)
	if err != nil {
		return OpID{}, false
	}
	return OpID{Counter: counter, Actor: ActorID(s[at+1:])}, true
}

// MaxOpID returns the Lamport-greatest of a non-empty slice of OpIDs.
// Callers must not pass an empty slice; every composite in this module
// maintains the invariant that there is always at least one candidate
// default.
func MaxOpID(ids []OpID) OpID {
	max := ids[0]
	for _, id := range ids[1:] {
		if max.Less(id) {
			max = id
		}
	}
	return max
}

// ObjectID names a CRDT composite: either the singleton document Root or
// the OpID of the operation that created the object.
type ObjectID struct {
	root bool
	id   OpID
}

// RootID is the singleton identifier of the document's root map.
var RootID = ObjectID{root: true}

// NewObjectID wraps the OpID of the operation that created an object.
func NewObjectID(id OpID) ObjectID {
	return ObjectID{id: id}
}

// IsRoot reports whether this is the Root sentinel.
func (o ObjectID) IsRoot() bool { return o.root }

// OpID returns the creating operation's id and true, or the zero OpID and
// false if this is the Root sentinel.
func (o ObjectID) OpID() (OpID, bool) {
	if o.root {
		return OpID{}, false
	}
	return o.id, true
}

// String renders "_root" for the root sentinel or the creating OpID's
// Lamport syntax otherwise.
func (o ObjectID) String() string {
	if o.root {
		return "_root"
	}
	return o.id.String()
}

// ElementID names a position in a sequence: either the Head sentinel
// (before the first element) or the OpID of the operation that inserted
// the element currently occupying that position.
type ElementID struct {
	head bool
	id   OpID
}

// HeadID is the sentinel identifying the position before a sequence's
// first element.
var HeadID = ElementID{head: true}

// NewElementID wraps the OpID that inserted an element.
func NewElementID(id OpID) ElementID {
	return ElementID{id: id}
}

// IsHead reports whether this is the Head sentinel.
func (e ElementID) IsHead() bool { return e.head }

// OpID returns the inserting operation's id and true, or the zero OpID
// and false for Head.
func (e ElementID) OpID() (OpID, bool) {
	if e.head {
		return OpID{}, false
	}
	return e.id, true
}

// IncrementBy returns the ElementID obtained by advancing the underlying
// OpID's counter by n. Panics if called on Head, which callers must not
// do (Head never anchors a MultiElementInsert's later values).
func (e ElementID) IncrementBy(n uint64) ElementID {
	if e.head {
		panic("protocol: IncrementBy called on Head element id")
	}
	return ElementID{id: e.id.IncrementBy(n)}
}

// String renders "_head" for Head or the OpID's Lamport syntax otherwise.
func (e ElementID) String() string {
	if e.head {
		return "_head"
	}
	return e.id.String()
}

// ParseElementID parses the "_head" literal or the "<counter>@<actor>"
// Lamport syntax.
func ParseElementID(s string) (ElementID, bool) {
	if s == "_head" {
		return HeadID, true
	}
	id, ok := ParseOpID(s)
	if !ok {
		return ElementID{}, false
	}
	return ElementID{id: id}, true
}
