package statetree

import (
	"github.com/gocrdt/automerge-frontend/errs"
	"github.com/gocrdt/automerge-frontend/protocol"
)

// DiffableValue is the capability a sequence element type needs in order
// to live inside a DiffableSequence: MultiValue and MultiGrapheme both
// implement it.
type DiffableValue[T any] interface {
	DefaultOpID() protocol.OpID
	OpIDs() []protocol.OpID
	OnlyForOpID(id protocol.OpID) (T, bool)
	AddValuesFrom(other T) T
	ApplyDiff(opID protocol.OpID, diff protocol.Diff) (T, error)
}

type elementPhase int

const (
	phaseOriginal elementPhase = iota
	phaseNew
	phaseUpdated
)

// updatingSequenceElement is the three-state element wrapper DiffableSequence
// buffers patch updates in. Outside an in-progress ApplyDiff every element
// is phaseOriginal; get panics otherwise, matching the invariant
// that intermediate within-patch values are never observable.
type updatingSequenceElement[T DiffableValue[T]] struct {
	phase elementPhase

	// phaseOriginal, phaseNew
	value T

	// phaseUpdated
	original         T
	initialUpdate    T
	remainingUpdates []T
}

func originalElement[T DiffableValue[T]](v T) *updatingSequenceElement[T] {
	return &updatingSequenceElement[T]{phase: phaseOriginal, value: v}
}

func newElement[T DiffableValue[T]](v T) *updatingSequenceElement[T] {
	return &updatingSequenceElement[T]{phase: phaseNew, value: v}
}

func (e *updatingSequenceElement[T]) get() T {
	if e.phase != phaseOriginal {
		panic("statetree: get called on a sequence element mid-patch")
	}
	return e.value
}

// applyDiff buffers an Update diff targeting this element. Elements
// inserted earlier in the same patch (phaseNew) absorb the update
// directly, since nothing committed yet needs to survive untouched;
// phaseOriginal elements transition to phaseUpdated, recording the
// pre-patch value so later updates in the same patch fold against it
// rather than against each other.
func (e *updatingSequenceElement[T]) applyDiff(opID protocol.OpID, diff protocol.Diff) error {
	switch e.phase {
	case phaseNew:
		updated, err := e.value.ApplyDiff(opID, diff)
		if err != nil {
			return err
		}
		e.value = updated
		return nil
	case phaseOriginal:
		updated, err := e.value.ApplyDiff(opID, diff)
		if err != nil {
			return err
		}
		e.original = e.value
		e.initialUpdate = updated
		e.remainingUpdates = nil
		e.phase = phaseUpdated
		return nil
	default: // phaseUpdated
		updated, err := e.original.ApplyDiff(opID, diff)
		if err != nil {
			return err
		}
		e.remainingUpdates = append(e.remainingUpdates, updated)
		return nil
	}
}

// finish collapses phaseNew into phaseOriginal, and folds a phaseUpdated
// element's buffered updates into a single phaseOriginal value via
// AddValuesFrom.
func (e *updatingSequenceElement[T]) finish() {
	switch e.phase {
	case phaseNew:
		e.phase = phaseOriginal
	case phaseUpdated:
		result := e.initialUpdate
		for _, u := range e.remainingUpdates {
			result = result.AddValuesFrom(u)
		}
		e.value = result
		e.original = *new(T)
		e.initialUpdate = *new(T)
		e.remainingUpdates = nil
		e.phase = phaseOriginal
	}
}

type seqEntry[T DiffableValue[T]] struct {
	elemID protocol.ElementID
	elem   *updatingSequenceElement[T]
}

// DiffableSequence is an ordered container of (ElementID, value) pairs
// supporting patch-driven batch updates with two-phase commit: every edit
// in one patch is buffered via applyDiff/insert, then finish() is called
// once to commit them all, so intermediate states within a single patch
// are never exposed to ElemAt callers mid-patch.
type DiffableSequence[T DiffableValue[T]] struct {
	entries   []seqEntry[T]
	construct func(protocol.OpID, protocol.Diff) (T, error)
}

// NewDiffableSequence builds an empty sequence. construct builds a fresh
// T from the op-id and Diff carried by an insert edit.
func NewDiffableSequence[T DiffableValue[T]](construct func(protocol.OpID, protocol.Diff) (T, error)) *DiffableSequence[T] {
	return &DiffableSequence[T]{construct: construct}
}

// Len returns the number of elements currently in the sequence.
func (s *DiffableSequence[T]) Len() int { return len(s.entries) }

// ElemAt returns the element id and committed value at index i.
func (s *DiffableSequence[T]) ElemAt(i int) (protocol.ElementID, T, error) {
	if i < 0 || i >= len(s.entries) {
		var zero T
		return protocol.ElementID{}, zero, errs.MissingIndexError{Index: i}
	}
	e := s.entries[i]
	return e.elemID, e.elem.get(), nil
}

// PredForIndex returns the op-ids the element at index i currently
// carries, the pred set an operation overwriting that index must cite.
func (s *DiffableSequence[T]) PredForIndex(i int) ([]protocol.OpID, error) {
	_, v, err := s.ElemAt(i)
	if err != nil {
		return nil, err
	}
	return v.OpIDs(), nil
}

// InsertCommitted inserts a ready-made (elemID, value) pair directly,
// already in phaseOriginal. Used by local mutation, which has no
// two-phase-commit requirement: a local insert is immediately visible.
func (s *DiffableSequence[T]) InsertCommitted(index int, elemID protocol.ElementID, v T) error {
	if index < 0 || index > len(s.entries) {
		return errs.MissingIndexError{Index: index}
	}
	entry := seqEntry[T]{elemID: elemID, elem: originalElement(v)}
	s.entries = append(s.entries, seqEntry[T]{})
	copy(s.entries[index+1:], s.entries[index:])
	s.entries[index] = entry
	return nil
}

// RemoveCommitted removes count elements starting at index, immediately.
func (s *DiffableSequence[T]) RemoveCommitted(index, count int) error {
	if index < 0 || count < 0 || index+count > len(s.entries) {
		return errs.MissingIndexError{Index: index}
	}
	s.entries = append(s.entries[:index], s.entries[index+count:]...)
	return nil
}

// SetCommitted replaces the value at index, immediately.
func (s *DiffableSequence[T]) SetCommitted(index int, v T) error {
	if index < 0 || index >= len(s.entries) {
		return errs.MissingIndexError{Index: index}
	}
	s.entries[index].elem = originalElement(v)
	return nil
}

// ApplyDiff applies a patch's ordered DiffEdit list against the sequence,
// then commits every buffered element via finish(). Edits are applied in
// the order given, exactly as the patch specifies.
func (s *DiffableSequence[T]) ApplyDiff(edits []protocol.DiffEdit) error {
	for _, edit := range edits {
		if err := s.applyOneEdit(edit); err != nil {
			return err
		}
	}
	for _, e := range s.entries {
		e.elem.finish()
	}
	return nil
}

func (s *DiffableSequence[T]) applyOneEdit(edit protocol.DiffEdit) error {
	switch edit.Kind {
	case protocol.EditRemove:
		index, count := int(edit.Index), int(edit.Count)
		if index >= len(s.entries) || index+count > len(s.entries) {
			return errs.InvalidIndexError{Index: edit.Index, Len: len(s.entries)}
		}
		s.entries = append(s.entries[:index], s.entries[index+count:]...)
		return nil

	case protocol.EditSingleElementInsert:
		index := int(edit.Index)
		if index > len(s.entries) {
			return errs.InvalidIndexError{Index: edit.Index, Len: len(s.entries)}
		}
		v, err := s.construct(edit.OpID, edit.Value)
		if err != nil {
			return err
		}
		entry := seqEntry[T]{elemID: protocol.NewElementID(edit.ElemID), elem: newElement(v)}
		s.entries = append(s.entries, seqEntry[T]{})
		copy(s.entries[index+1:], s.entries[index:])
		s.entries[index] = entry
		return nil

	case protocol.EditMultiElementInsert:
		index := int(edit.Index)
		if index > len(s.entries) {
			return errs.InvalidIndexError{Index: edit.Index, Len: len(s.entries)}
		}
		fresh := make([]seqEntry[T], len(edit.Values))
		for i, sv := range edit.Values {
			opID := edit.ElemID.IncrementBy(uint64(i))
			v, err := s.construct(opID, protocol.ValueDiff(sv))
			if err != nil {
				return err
			}
			fresh[i] = seqEntry[T]{elemID: protocol.NewElementID(opID), elem: newElement(v)}
		}
		tail := append([]seqEntry[T]{}, s.entries[index:]...)
		s.entries = append(s.entries[:index], append(fresh, tail...)...)
		return nil

	case protocol.EditUpdate:
		index := int(edit.Index)
		if index >= len(s.entries) {
			return errs.InvalidIndexError{Index: edit.Index, Len: len(s.entries)}
		}
		return s.entries[index].elem.applyDiff(edit.OpID, edit.Value)

	default:
		return errs.InvalidIndexError{Index: edit.Index, Len: len(s.entries)}
	}
}
