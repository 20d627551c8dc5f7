package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/atomkit/internal/format"
)

func TestCheckEntry(t *testing.T) {
	p := make([]byte, 12)
	entryView(p).init(0, []byte("abcde"))

	ev, err := checkEntry(p)
	require.NoError(t, err)
	assert.Equal(t, "abcde", string(ev.str()))

	// Seven bytes fill the string area and leave no terminator.
	p[format.EntryLengthOffset] = 7
	_, err = checkEntry(p)
	require.ErrorIs(t, err, ErrCorrupt)

	p[format.EntryLengthOffset] = 0xFF
	_, err = checkEntry(p)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Nil(t, entryView(p).str())

	_, err = checkEntry(p[:format.EntryHeaderSize-1])
	require.ErrorIs(t, err, ErrCorrupt)
}
