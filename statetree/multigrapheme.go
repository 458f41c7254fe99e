package statetree

import (
	"fmt"

	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/value"
)

// MultiGrapheme is MultiValue's specialization for Text elements: the
// surviving assignments are always exactly one Unicode grapheme cluster
// rather than an arbitrary StateTreeValue.
type MultiGrapheme struct {
	values map[protocol.OpID]string
}

// NewMultiGrapheme builds a single-assignment MultiGrapheme. g must be
// exactly one grapheme cluster; callers validate this before constructing.
func NewMultiGrapheme(opID protocol.OpID, g string) MultiGrapheme {
	return MultiGrapheme{values: map[protocol.OpID]string{opID: g}}
}

func (g MultiGrapheme) opIDSlice() []protocol.OpID {
	ids := make([]protocol.OpID, 0, len(g.values))
	for id := range g.values {
		ids = append(ids, id)
	}
	return ids
}

func (g MultiGrapheme) DefaultOpID() protocol.OpID {
	return protocol.MaxOpID(g.opIDSlice())
}

func (g MultiGrapheme) DefaultValue() string {
	return g.values[g.DefaultOpID()]
}

func (g MultiGrapheme) RealiseValues() map[protocol.OpID]string {
	out := make(map[protocol.OpID]string, len(g.values))
	for k, v := range g.values {
		out[k] = v
	}
	return out
}

func (g MultiGrapheme) OpIDs() []protocol.OpID { return g.opIDSlice() }

func (g MultiGrapheme) OnlyForOpID(id protocol.OpID) (MultiGrapheme, bool) {
	v, ok := g.values[id]
	if !ok {
		return MultiGrapheme{}, false
	}
	return MultiGrapheme{values: map[protocol.OpID]string{id: v}}, true
}

func (g MultiGrapheme) AddValuesFrom(other MultiGrapheme) MultiGrapheme {
	merged := make(map[protocol.OpID]string, len(g.values)+len(other.values))
	for k, v := range g.values {
		merged[k] = v
	}
	for k, v := range other.values {
		merged[k] = v
	}
	return MultiGrapheme{values: merged}
}

// ApplyDiff folds a Diff targeting opID into a copy of g. The diff must be
// a scalar string diff of exactly one grapheme cluster.
func (g MultiGrapheme) ApplyDiff(opID protocol.OpID, diff protocol.Diff) (MultiGrapheme, error) {
	s, err := graphemeFromDiff(diff)
	if err != nil {
		return MultiGrapheme{}, err
	}
	next := make(map[protocol.OpID]string, len(g.values)+1)
	for k, v := range g.values {
		next[k] = v
	}
	next[opID] = s
	return MultiGrapheme{values: next}, nil
}

func graphemeFromDiff(diff protocol.Diff) (string, error) {
	if diff.Kind != protocol.DiffValue || diff.Value.Kind != protocol.KindStr {
		return "", fmt.Errorf("statetree: text element diff must be a string value")
	}
	if !value.IsSingleGrapheme(diff.Value.Str) {
		return "", fmt.Errorf("statetree: text element diff %q is not a single grapheme cluster", diff.Value.Str)
	}
	return diff.Value.Str, nil
}
