// Package errs collects the error types a caller can get back from
// resolving a path or applying a local change. Each is a concrete struct
// implementing error, so callers distinguish them with errors.As rather
// than string matching, and each carries enough context (the path, the
// offending index, the object kind found) to explain itself without a
// caller re-deriving it.
package errs

import (
	"fmt"

	"github.com/gocrdt/automerge-frontend/path"
)

// NoSuchPathError is returned when a Path cannot be resolved because some
// segment along the way does not exist in the document.
type NoSuchPathError struct {
	Path path.Path
}

func (e NoSuchPathError) Error() string {
	return fmt.Sprintf("no such path: %s", e.Path)
}

// CannotSetNonMapObjectAsRootError is returned when a Set operation is
// given the root path and a value that is not a Map.
type CannotSetNonMapObjectAsRootError struct{}

func (e CannotSetNonMapObjectAsRootError) Error() string {
	return "cannot set a non-map object as the document root"
}

// CannotOverwriteCounterError is returned when a Set targets a path that
// currently holds a Counter; a counter's value changes only through
// Increment.
type CannotOverwriteCounterError struct {
	Path path.Path
}

func (e CannotOverwriteCounterError) Error() string {
	return fmt.Sprintf("cannot overwrite counter at %s, use increment instead", e.Path)
}

// CannotDeleteRootObjectError is returned when a caller attempts to
// delete the document root itself.
type CannotDeleteRootObjectError struct{}

func (e CannotDeleteRootObjectError) Error() string {
	return "cannot delete the root object"
}

// InsertForNonSequenceObjectError is returned when Insert/InsertMany is
// called against a path whose parent does not resolve at all.
type InsertForNonSequenceObjectError struct {
	Path path.Path
}

func (e InsertForNonSequenceObjectError) Error() string {
	return fmt.Sprintf("cannot resolve parent of insert path %s", e.Path)
}

// InsertWithNonSequencePathError is returned when Insert/InsertMany's
// trailing path element is not an index, or when Set addresses an index
// inside a parent that is not a List or Text. An Insert/InsertMany whose
// parent resolves to something other than a List or Text gets
// NoSuchPathError instead.
type InsertWithNonSequencePathError struct {
	Path path.Path
}

func (e InsertWithNonSequencePathError) Error() string {
	return fmt.Sprintf("path %s does not address a sequence element", e.Path)
}

// InsertNonTextInTextObjectError is returned when a value inserted into a
// Text object is not exactly one grapheme cluster.
type InsertNonTextInTextObjectError struct {
	Path  path.Path
	Value string
}

func (e InsertNonTextInTextObjectError) Error() string {
	return fmt.Sprintf("cannot insert %q into text object at %s: not a single grapheme cluster", e.Value, e.Path)
}

// IncrementForNonCounterObjectError is returned when Increment targets a
// path that does not resolve to a Counter.
type IncrementForNonCounterObjectError struct {
	Path path.Path
}

func (e IncrementForNonCounterObjectError) Error() string {
	return fmt.Sprintf("cannot increment non-counter object at %s", e.Path)
}

// MissingIndexError is returned when a Path element or an insert/remove
// index falls outside the bounds of the sequence it addresses.
type MissingIndexError struct {
	Path  path.Path
	Index int
}

func (e MissingIndexError) Error() string {
	return fmt.Sprintf("missing index %d at %s", e.Index, e.Path)
}

// InvalidIndexError is returned when a patch's DiffEdit addresses an
// index that is inconsistent with the sequence's current length, which
// signals a malformed or out-of-order patch rather than a user mistake.
type InvalidIndexError struct {
	Index uint32
	Len   int
}

func (e InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid patch index %d against sequence of length %d", e.Index, e.Len)
}
