// Package path gives callers a way to name a location in the document
// independent of any particular state tree revision: a sequence of map
// keys and sequence indices from the root. Paths are immutable, so they
// are safe to stash across calls into the mutation tracker; compare them
// with Equal (a Path holds a slice, so it is not comparable with == and
// cannot be a map key).
package path

import "fmt"

// ElementKind tags whether a Path element addresses a map key or a
// sequence index.
type ElementKind int

const (
	ElementKey ElementKind = iota
	ElementIndex
)

// Element is one step in a Path: either a map/table key or a list/text
// index.
type Element struct {
	Kind  ElementKind
	Key   string
	Index int
}

func KeyElement(key string) Element    { return Element{Kind: ElementKey, Key: key} }
func IndexElement(index int) Element   { return Element{Kind: ElementIndex, Index: index} }

func (e Element) String() string {
	switch e.Kind {
	case ElementKey:
		return e.Key
	default:
		return fmt.Sprintf("[%d]", e.Index)
	}
}

// Path is an immutable sequence of Elements naming a location relative to
// the document root. The empty Path names the root itself.
type Path struct {
	elements []Element
}

// Root returns the path naming the document root.
func Root() Path { return Path{} }

// Key returns a new path extending p with a map/table key segment.
func (p Path) Key(key string) Path {
	next := make([]Element, len(p.elements)+1)
	copy(next, p.elements)
	next[len(p.elements)] = KeyElement(key)
	return Path{elements: next}
}

// Index returns a new path extending p with a sequence index segment.
func (p Path) Index(index int) Path {
	next := make([]Element, len(p.elements)+1)
	copy(next, p.elements)
	next[len(p.elements)] = IndexElement(index)
	return Path{elements: next}
}

// Elements returns the path's segments, root first. Callers must not
// mutate the returned slice.
func (p Path) Elements() []Element { return p.elements }

// IsRoot reports whether this path names the document root.
func (p Path) IsRoot() bool { return len(p.elements) == 0 }

// Name returns the final segment of the path and true, or the zero
// Element and false if the path is the root.
func (p Path) Name() (Element, bool) {
	if len(p.elements) == 0 {
		return Element{}, false
	}
	return p.elements[len(p.elements)-1], true
}

// Parent returns the path with its final segment removed, and true, or
// the zero Path and false if called on the root.
func (p Path) Parent() (Path, bool) {
	if len(p.elements) == 0 {
		return Path{}, false
	}
	return Path{elements: p.elements[:len(p.elements)-1]}, true
}

// String renders the path in a dotted/bracketed debugging form, e.g.
// "cards[2].title".
func (p Path) String() string {
	if len(p.elements) == 0 {
		return "."
	}
	s := ""
	for i, e := range p.elements {
		switch e.Kind {
		case ElementKey:
			if i > 0 {
				s += "."
			}
			s += e.Key
		case ElementIndex:
			s += e.String()
		}
	}
	return s
}

// Equal reports whether p and other name the same location.
func (p Path) Equal(other Path) bool {
	if len(p.elements) != len(other.elements) {
		return false
	}
	for i, e := range p.elements {
		if e != other.elements[i] {
			return false
		}
	}
	return true
}
