package compress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/rdatakit/rdata/format"
)

// Codec wraps a compressed byte stream with its streaming decompressor.
type Codec interface {
	// Type reports the compression algorithm this codec handles.
	Type() format.CompressionType

	// NewReader wraps r with a streaming decompressor. Reads from the
	// returned reader fail when the compressed payload is corrupt or
	// truncated.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{'B', 'Z', 'h'}
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// magicLen is the longest magic prefix any supported algorithm uses.
const magicLen = 6

// Detect identifies the compression algorithm from the first bytes of a
// stream. An unrecognized prefix means an uncompressed stream.
func Detect(prefix []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(prefix, gzipMagic):
		return format.CompressionGzip
	case bytes.HasPrefix(prefix, bzip2Magic):
		return format.CompressionBzip2
	case bytes.HasPrefix(prefix, xzMagic):
		return format.CompressionXZ
	case bytes.HasPrefix(prefix, zstdMagic):
		return format.CompressionZstd
	default:
		return format.CompressionNone
	}
}

// ForType returns the codec handling the given compression type.
func ForType(t format.CompressionType) Codec {
	switch t {
	case format.CompressionGzip:
		return NewGzipCodec()
	case format.CompressionBzip2:
		return NewBzip2Codec()
	case format.CompressionXZ:
		return NewXZCodec()
	case format.CompressionZstd:
		return NewZstdCodec()
	default:
		return NewNoOpCodec()
	}
}

// Open sniffs the compression magic on br and returns a reader producing
// the plain serialization stream, together with the detected algorithm.
// When the returned reader is an io.ReadCloser the caller owns closing it.
func Open(br *bufio.Reader) (io.Reader, format.CompressionType, error) {
	prefix, err := br.Peek(magicLen)
	if err != nil && len(prefix) == 0 {
		// Nothing readable; hand the stream through so the header parser
		// reports the failure with its offset.
		return br, format.CompressionNone, nil
	}

	ctype := Detect(prefix)
	if ctype == format.CompressionNone {
		return br, ctype, nil
	}

	rc, err := ForType(ctype).NewReader(br)
	if err != nil {
		return nil, ctype, fmt.Errorf("opening %s stream: %w", ctype, err)
	}

	return rc, ctype, nil
}
