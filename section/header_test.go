package section

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
)

func be32(v int32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))

	return b[:]
}

func le32(v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))

	return b[:]
}

// release packs an R release version the way the header stores it.
func release(major, minor, patch int32) int32 {
	return major<<16 | minor<<8 | patch
}

func parse(t *testing.T, chunks ...[]byte) (Header, error) {
	t.Helper()
	h, _, err := Parse(bufio.NewReader(bytes.NewReader(bytes.Join(chunks, nil))))

	return h, err
}

func TestParseRDSXDR(t *testing.T) {
	h, err := parse(t, []byte("X\n"), be32(2), be32(release(3, 6, 3)), be32(release(2, 3, 0)))
	require.NoError(t, err)

	require.Equal(t, format.FormatRDS, h.Format)
	require.Equal(t, format.ModeXDR, h.Mode)
	require.Equal(t, 2, h.Version)
	require.Equal(t, "3.6.3", h.WriterRelease())
	require.Equal(t, "2.3.0", h.MinReaderRelease())
	require.Empty(t, h.NativeEncoding)
}

func TestParseVersion3Encoding(t *testing.T) {
	h, err := parse(t, []byte("X\n"),
		be32(3), be32(release(4, 3, 1)), be32(release(3, 5, 0)),
		be32(5), []byte("UTF-8"))
	require.NoError(t, err)

	require.Equal(t, 3, h.Version)
	require.Equal(t, "UTF-8", h.NativeEncoding)
	require.Equal(t, "4.3.1", h.WriterRelease())
}

func TestParseNativeBinary(t *testing.T) {
	h, err := parse(t, []byte("B\n"), le32(2), le32(release(4, 0, 2)), le32(release(2, 3, 0)))
	require.NoError(t, err)

	require.Equal(t, format.ModeBinary, h.Mode)
	require.Equal(t, "4.0.2", h.WriterRelease())
}

func TestParseASCII(t *testing.T) {
	h, err := parse(t, []byte("A\n2\n197379\n131840\n"))
	require.NoError(t, err)

	require.Equal(t, format.ModeASCII, h.Mode)
	require.Equal(t, 2, h.Version)
	require.Equal(t, "3.3.3", h.WriterRelease())
}

func TestParseWorkspaceMagic(t *testing.T) {
	t.Run("RDX2", func(t *testing.T) {
		h, err := parse(t, []byte("RDX2\nX\n"), be32(2), be32(release(3, 6, 3)), be32(release(2, 3, 0)))
		require.NoError(t, err)
		require.Equal(t, format.FormatRData, h.Format)
		require.Equal(t, format.ModeXDR, h.Mode)
	})

	t.Run("RDA2", func(t *testing.T) {
		h, err := parse(t, []byte("RDA2\nA\n2\n197379\n131840\n"))
		require.NoError(t, err)
		require.Equal(t, format.FormatRData, h.Format)
		require.Equal(t, format.ModeASCII, h.Mode)
	})

	t.Run("Version1Rejected", func(t *testing.T) {
		_, err := parse(t, []byte("RDX1\nX\n"), be32(1), be32(0), be32(0))
		require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	})
}

func TestParseUnsupportedSerializationVersion(t *testing.T) {
	for _, v := range []int32{0, 1, 4} {
		_, err := parse(t, []byte("X\n"), be32(v), be32(release(3, 6, 3)), be32(release(2, 3, 0)))
		require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	}
}

func TestParseBadMarker(t *testing.T) {
	t.Run("UnknownMode", func(t *testing.T) {
		_, err := parse(t, []byte("Q\n"), be32(2))
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})

	t.Run("NotAMarker", func(t *testing.T) {
		_, err := parse(t, []byte("no serialization here"))
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := parse(t, []byte("X"))
		require.ErrorIs(t, err, errs.ErrUnreadableStream)
	})
}
