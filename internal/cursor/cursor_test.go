package cursor

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdatakit/rdata/endian"
	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
)

func xdrCursor(data []byte, base int64) *Cursor {
	return New(bytes.NewReader(data), endian.GetBigEndianEngine(), format.ModeXDR, base)
}

func asciiCursor(text string) *Cursor {
	return New(bytes.NewReader([]byte(text)), endian.GetBigEndianEngine(), format.ModeASCII, 0)
}

func TestOffsetTracking(t *testing.T) {
	data := make([]byte, 12)
	binary.BigEndian.PutUint32(data[0:], 7)
	binary.BigEndian.PutUint64(data[4:], math.Float64bits(2.5))

	c := xdrCursor(data, 14)
	require.Equal(t, int64(14), c.Offset())

	v, err := c.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(7), v)
	require.Equal(t, int64(18), c.Offset())

	f, err := c.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, 2.5, f)
	require.Equal(t, int64(26), c.Offset())
}

func TestReadFullShortStream(t *testing.T) {
	c := xdrCursor([]byte{1, 2}, 0)

	err := c.ReadFull(make([]byte, 4))
	require.ErrorIs(t, err, errs.ErrUnreadableStream)

	var de *errs.DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, int64(2), de.Offset)
}

func TestLittleEndianEngine(t *testing.T) {
	c := New(bytes.NewReader([]byte{1, 0, 0, 0}), endian.GetLittleEndianEngine(), format.ModeBinary, 0)

	v, err := c.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(1), v)
}

func TestASCIITokens(t *testing.T) {
	t.Run("IntegerNA", func(t *testing.T) {
		c := asciiCursor("12\nNA\n-3\n")
		for _, want := range []int32{12, format.NAInteger, -3} {
			v, err := c.ReadInt32()
			require.NoError(t, err)
			require.Equal(t, want, v)
		}
	})

	t.Run("RealSpecials", func(t *testing.T) {
		c := asciiCursor("1.5\nNA\nInf\n-Inf\nNaN\n")

		v, err := c.ReadFloat64()
		require.NoError(t, err)
		require.Equal(t, 1.5, v)

		v, err = c.ReadFloat64()
		require.NoError(t, err)
		require.Equal(t, format.NARealBits, math.Float64bits(v))

		v, err = c.ReadFloat64()
		require.NoError(t, err)
		require.True(t, math.IsInf(v, 1))

		v, err = c.ReadFloat64()
		require.NoError(t, err)
		require.True(t, math.IsInf(v, -1))

		v, err = c.ReadFloat64()
		require.NoError(t, err)
		require.True(t, math.IsNaN(v))
		require.NotEqual(t, format.NARealBits, math.Float64bits(v))
	})

	t.Run("BadToken", func(t *testing.T) {
		c := asciiCursor("twelve\n")
		_, err := c.ReadInt32()
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})
}

func TestASCIIStrings(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"Plain", "hello\n", 5, "hello"},
		{"Empty", "", 0, ""},
		{"NewlineEscape", "a\\nb\n", 3, "a\nb"},
		{"TabEscape", "a\\tb\n", 3, "a\tb"},
		{"Backslash", "a\\\\b\n", 3, "a\\b"},
		{"Octal", "\\040x\n", 2, " x"},
		{"OctalShort", "\\7x\n", 2, "\ax"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := asciiCursor(tc.text).ReadString(tc.n)
			require.NoError(t, err)
			require.Equal(t, tc.want, s)
		})
	}
}

func TestASCIIRaw(t *testing.T) {
	t.Run("HexTokens", func(t *testing.T) {
		dst := make([]byte, 3)
		require.NoError(t, asciiCursor("de\nad\n0f\n").ReadRaw(dst))
		require.Equal(t, []byte{0xde, 0xad, 0x0f}, dst)
	})

	t.Run("BadHex", func(t *testing.T) {
		err := asciiCursor("zz\n").ReadRaw(make([]byte, 1))
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})
}

func TestReadBytes(t *testing.T) {
	t.Run("NegativeCount", func(t *testing.T) {
		_, err := xdrCursor(nil, 0).ReadBytes(-1)
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})

	t.Run("LargeCountBoundedByStream", func(t *testing.T) {
		// A lying count runs the stream dry instead of allocating 1 GiB.
		_, err := xdrCursor(make([]byte, 128), 0).ReadBytes(1 << 30)
		require.ErrorIs(t, err, errs.ErrUnreadableStream)
	})
}

func TestReadInt32sBatched(t *testing.T) {
	// Longer than one scratch-buffer batch.
	const n = 20000
	data := make([]byte, n*4)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint32(data[i*4:], uint32(i))
	}

	dst := make([]int32, n)
	require.NoError(t, xdrCursor(data, 0).ReadInt32s(dst))
	require.Equal(t, int32(0), dst[0])
	require.Equal(t, int32(n-1), dst[n-1])
	require.Equal(t, int32(16384), dst[16384])
}
