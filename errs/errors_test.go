package errs

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeErrorAt(t *testing.T) {
	err := At(42, ErrMalformedRecord, "invalid type tag %d", 99)

	require.ErrorIs(t, err, ErrMalformedRecord)
	require.NotErrorIs(t, err, ErrUnreadableStream)
	require.EqualError(t, err, "malformed record at offset 42: invalid type tag 99")

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, int64(42), de.Offset)
}

func TestDecodeErrorWrap(t *testing.T) {
	err := Wrap(7, ErrUnreadableStream, io.ErrUnexpectedEOF, "short read: want %d bytes, got %d", 8, 3)

	// Both the sentinel kind and the underlying cause stay matchable.
	require.ErrorIs(t, err, ErrUnreadableStream)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.EqualError(t, err, "unreadable stream at offset 7: short read: want 8 bytes, got 3: unexpected EOF")
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrUnreadableStream,
		ErrUnsupportedVersion,
		ErrMalformedRecord,
		ErrUnsupportedType,
		ErrMalformedDataFrame,
		ErrInvalidDateValue,
		ErrEmptyStream,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "%v matches %v", a, b)
		}
	}
}
