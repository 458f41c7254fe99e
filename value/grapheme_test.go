package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSingleGrapheme(t *testing.T) {
	require.True(t, IsSingleGrapheme("a"))
	require.True(t, IsSingleGrapheme("é")) // precomposed form: U+00E9
	require.True(t, IsSingleGrapheme("👨‍👩‍👧")) // family emoji ZWJ sequence is one cluster
	require.False(t, IsSingleGrapheme(""))
	require.False(t, IsSingleGrapheme("ab"))
}

func TestSplitGraphemes(t *testing.T) {
	require.Equal(t, []string{"h", "e", "l", "l", "o"}, SplitGraphemes("hello"))
	require.Nil(t, SplitGraphemes(""))
}
