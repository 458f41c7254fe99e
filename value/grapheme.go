package value

import "github.com/rivo/uniseg"

// IsSingleGrapheme reports whether s is exactly one Unicode grapheme
// cluster, the constraint a Text object's elements must satisfy. This is
// the Go analogue of automerge-frontend's use of unicode_segmentation's
// graphemes(true).count() == 1 check in its insert/insert_many paths.
func IsSingleGrapheme(s string) bool {
	if s == "" {
		return false
	}
	gr := uniseg.NewGraphemes(s)
	if !gr.Next() {
		return false
	}
	return !gr.Next()
}

// SplitGraphemes breaks s into its grapheme clusters, in order. Insert and
// InsertMany on a Text object do not call it: they take one value per
// grapheme and reject any value that is not exactly one cluster.
func SplitGraphemes(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}
