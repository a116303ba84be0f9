package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := E(MissingInput, "extract", "seed %s not in graph", "s_9")
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.False(t, errors.Is(err, ErrNotBuilt))

	wrapped := fmt.Errorf("ego command: %w", err)
	assert.True(t, errors.Is(wrapped, ErrMissingInput))
	assert.Equal(t, MissingInput, KindOf(wrapped))
}

func TestWrap_KeepsCause(t *testing.T) {
	err := Wrap(IOFailure, "read gexf", os.ErrNotExist)
	require.True(t, errors.Is(err, ErrIOFailure))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "read gexf: io_failure: file does not exist", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
