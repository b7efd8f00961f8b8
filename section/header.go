// Package section parses the serialization stream framing: the workspace
// magic line, the wire-mode marker, and the version triple.
package section

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rdatakit/rdata/endian"
	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
	"github.com/rdatakit/rdata/internal/cursor"
)

// maxEncodingLen bounds the version-3 native-encoding field; real writers
// emit short charset names like "UTF-8".
const maxEncodingLen = 256

// Header describes the framing read off the front of a serialization
// stream.
type Header struct {
	Format format.FormatType
	Mode   format.Mode

	// Version is the serialization format version (2 or 3).
	Version int
	// WriterVersion is the packed release version of the writer, encoded
	// as major*65536 + minor*256 + patch.
	WriterVersion int
	// MinReaderVersion is the packed release version the writer declared
	// as the minimum able to read the stream.
	MinReaderVersion int

	// NativeEncoding is the writer's native charset, present from
	// version 3.
	NativeEncoding string
}

// WriterRelease formats the writer's packed release version as
// "major.minor.patch".
func (h Header) WriterRelease() string {
	return releaseString(h.WriterVersion)
}

// MinReaderRelease formats the declared minimum reader release version.
func (h Header) MinReaderRelease() string {
	return releaseString(h.MinReaderVersion)
}

func releaseString(v int) string {
	return fmt.Sprintf("%d.%d.%d", v>>16, (v>>8)&0xFF, v&0xFF)
}

// Parse consumes the stream framing from br and returns the header plus a
// cursor positioned at the first serialized item.
func Parse(br *bufio.Reader) (Header, *cursor.Cursor, error) {
	var h Header
	var consumed int64

	h.Format = format.FormatRDS
	magic, _ := br.Peek(5)
	if isWorkspaceMagic(magic) {
		if magic[3] == '1' {
			return h, nil, errs.At(0, errs.ErrUnsupportedVersion, "version 1 workspace %q", magic[:4])
		}
		h.Format = format.FormatRData
		if _, err := br.Discard(5); err != nil {
			return h, nil, errs.Wrap(0, errs.ErrUnreadableStream, err, "consuming workspace magic")
		}
		consumed += 5
	}

	marker := make([]byte, 2)
	if n, err := io.ReadFull(br, marker); err != nil {
		return h, nil, errs.Wrap(consumed+int64(n), errs.ErrUnreadableStream, err, "reading format marker")
	}
	if marker[1] != '\n' {
		return h, nil, errs.At(consumed, errs.ErrMalformedRecord, "unrecognized format marker %q", marker)
	}

	var engine endian.EndianEngine
	switch marker[0] {
	case 'X':
		h.Mode = format.ModeXDR
		engine = endian.GetBigEndianEngine()
	case 'B':
		h.Mode = format.ModeBinary
		engine = endian.GetLittleEndianEngine()
	case 'A':
		h.Mode = format.ModeASCII
		engine = endian.GetBigEndianEngine()
	default:
		return h, nil, errs.At(consumed, errs.ErrMalformedRecord, "unrecognized format marker %q", marker)
	}
	consumed += 2

	cur := cursor.New(br, engine, h.Mode, consumed)

	version, err := cur.ReadInt32()
	if err != nil {
		return h, nil, err
	}
	writer, err := cur.ReadInt32()
	if err != nil {
		return h, nil, err
	}
	minReader, err := cur.ReadInt32()
	if err != nil {
		return h, nil, err
	}

	h.Version = int(version)
	h.WriterVersion = int(writer)
	h.MinReaderVersion = int(minReader)

	if h.Version < format.MinVersion || h.Version > format.MaxVersion {
		return h, nil, errs.At(cur.Offset(), errs.ErrUnsupportedVersion,
			"serialization version %d (supported: %d-%d, written by R %s)",
			h.Version, format.MinVersion, format.MaxVersion, h.WriterRelease())
	}

	if h.Version >= 3 {
		n, err := cur.ReadInt32()
		if err != nil {
			return h, nil, err
		}
		if n < 0 || n > maxEncodingLen {
			return h, nil, errs.At(cur.Offset(), errs.ErrMalformedRecord, "native encoding length %d", n)
		}
		enc, err := cur.ReadString(int(n))
		if err != nil {
			return h, nil, err
		}
		h.NativeEncoding = enc
	}

	return h, cur, nil
}

// isWorkspaceMagic recognizes the five-byte save() magic line: "RD", one of
// A/B/X for the wire mode, a version digit, and a newline.
func isWorkspaceMagic(magic []byte) bool {
	if len(magic) < 5 {
		return false
	}
	if magic[0] != 'R' || magic[1] != 'D' || magic[4] != '\n' {
		return false
	}
	switch magic[2] {
	case 'A', 'B', 'X':
	default:
		return false
	}

	return magic[3] >= '1' && magic[3] <= '9'
}
