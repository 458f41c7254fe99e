package errs

import (
	"errors"
	"testing"

	"github.com/gocrdt/automerge-frontend/path"
	"github.com/stretchr/testify/require"
)

func TestErrors_SatisfyErrorInterfaceAndErrorsAs(t *testing.T) {
	cases := []error{
		NoSuchPathError{Path: path.Root().Key("a")},
		CannotSetNonMapObjectAsRootError{},
		CannotOverwriteCounterError{Path: path.Root().Key("c")},
		CannotDeleteRootObjectError{},
		InsertForNonSequenceObjectError{Path: path.Root().Key("l")},
		InsertWithNonSequencePathError{Path: path.Root().Key("l")},
		InsertNonTextInTextObjectError{Path: path.Root().Key("t"), Value: "ab"},
		IncrementForNonCounterObjectError{Path: path.Root().Key("n")},
		MissingIndexError{Path: path.Root().Key("l"), Index: 3},
		InvalidIndexError{Index: 3, Len: 2},
	}
	for _, err := range cases {
		require.NotEmpty(t, err.Error())
	}
}

func TestErrors_AsDistinguishesKinds(t *testing.T) {
	var err error = MissingIndexError{Index: 5}

	var missing MissingIndexError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, 5, missing.Index)

	var notCounter IncrementForNonCounterObjectError
	require.False(t, errors.As(err, &notCounter))
}
