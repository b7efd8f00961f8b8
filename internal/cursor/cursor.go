// Package cursor implements the positioned sequential reader the decoders
// consume the serialization stream through.
package cursor

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/rdatakit/rdata/endian"
	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
	"github.com/rdatakit/rdata/internal/pool"
)

// Cursor reads the decompressed serialization stream sequentially and
// tracks the byte offset used in positioned errors. The two binary wire
// modes (XDR and native binary) go through the endian engine; the ASCII
// wire mode reads whitespace-separated tokens. Both modes surface missing
// values as the same sentinels, so callers never branch on the mode.
//
// A Cursor is not safe for concurrent use. Each decode call owns its own
// instance.
type Cursor struct {
	r       *bufio.Reader
	engine  endian.EndianEngine
	offset  int64
	ascii   bool
	scratch [8]byte
	token   []byte
}

// New creates a Cursor over r. base is the number of stream bytes already
// consumed by framing, so reported offsets stay absolute.
func New(r io.Reader, engine endian.EndianEngine, mode format.Mode, base int64) *Cursor {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Cursor{r: br, engine: engine, ascii: mode == format.ModeASCII, offset: base}
}

// Offset returns the current byte offset into the decompressed stream.
func (c *Cursor) Offset() int64 {
	return c.offset
}

// ASCII reports whether the cursor reads the ASCII wire mode.
func (c *Cursor) ASCII() bool {
	return c.ascii
}

// ReadFull fills p from the stream or fails with a positioned
// ErrUnreadableStream.
func (c *Cursor) ReadFull(p []byte) error {
	n, err := io.ReadFull(c.r, p)
	c.offset += int64(n)
	if err != nil {
		return errs.Wrap(c.offset, errs.ErrUnreadableStream, err, "short read: want %d bytes, got %d", len(p), n)
	}

	return nil
}

// ReadInt32 reads one 32-bit integer. In ASCII mode the token "NA" maps to
// the integer missing-value sentinel, matching its binary representation.
func (c *Cursor) ReadInt32() (int32, error) {
	if c.ascii {
		return c.readInt32ASCII()
	}
	if err := c.ReadFull(c.scratch[:4]); err != nil {
		return 0, err
	}

	return int32(c.engine.Uint32(c.scratch[:4])), nil
}

// ReadFloat64 reads one IEEE 754 double. In ASCII mode the token "NA" maps
// to the real missing-value sentinel bit pattern; "Inf", "-Inf" and "NaN"
// parse to their ordinary values.
func (c *Cursor) ReadFloat64() (float64, error) {
	if c.ascii {
		return c.readFloat64ASCII()
	}
	if err := c.ReadFull(c.scratch[:8]); err != nil {
		return 0, err
	}

	return math.Float64frombits(c.engine.Uint64(c.scratch[:8])), nil
}

// ReadInt32s fills dst with consecutive 32-bit integers.
func (c *Cursor) ReadInt32s(dst []int32) error {
	if c.ascii {
		for i := range dst {
			v, err := c.readInt32ASCII()
			if err != nil {
				return err
			}
			dst[i] = v
		}

		return nil
	}

	sb := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(sb)

	for len(dst) > 0 {
		batch := min(len(dst), pool.ScratchBufferSize/4)
		buf := sb.Ensure(batch * 4)
		if err := c.ReadFull(buf); err != nil {
			return err
		}
		for i := 0; i < batch; i++ {
			dst[i] = int32(c.engine.Uint32(buf[i*4:]))
		}
		dst = dst[batch:]
	}

	return nil
}

// ReadFloat64s fills dst with consecutive doubles.
func (c *Cursor) ReadFloat64s(dst []float64) error {
	if c.ascii {
		for i := range dst {
			v, err := c.readFloat64ASCII()
			if err != nil {
				return err
			}
			dst[i] = v
		}

		return nil
	}

	sb := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(sb)

	for len(dst) > 0 {
		batch := min(len(dst), pool.ScratchBufferSize/8)
		buf := sb.Ensure(batch * 8)
		if err := c.ReadFull(buf); err != nil {
			return err
		}
		for i := 0; i < batch; i++ {
			dst[i] = math.Float64frombits(c.engine.Uint64(buf[i*8:]))
		}
		dst = dst[batch:]
	}

	return nil
}

// ReadRaw fills dst with raw vector bytes: direct bytes in the binary
// modes, two-digit hex tokens in ASCII mode.
func (c *Cursor) ReadRaw(dst []byte) error {
	if !c.ascii {
		return c.ReadFull(dst)
	}
	for i := range dst {
		start := c.offset
		tok, err := c.readToken()
		if err != nil {
			return err
		}
		v, perr := strconv.ParseUint(string(tok), 16, 8)
		if perr != nil {
			return errs.At(start, errs.ErrMalformedRecord, "invalid raw byte token %q", tok)
		}
		dst[i] = byte(v)
	}

	return nil
}

// ReadString reads an n-byte string payload: raw bytes in the binary
// modes, backslash-escaped characters in ASCII mode. n counts decoded
// bytes.
func (c *Cursor) ReadString(n int) (string, error) {
	if c.ascii {
		return c.readStringASCII(n)
	}
	b, err := c.ReadBytes(int64(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadBytes reads n bytes into a fresh slice. The allocation grows in
// bounded chunks so a lying count word cannot force a huge allocation
// before the stream runs dry.
func (c *Cursor) ReadBytes(n int64) ([]byte, error) {
	if n < 0 {
		return nil, errs.At(c.offset, errs.ErrMalformedRecord, "negative byte count %d", n)
	}

	out := make([]byte, 0, min(n, int64(pool.ScratchBufferSize)))
	for int64(len(out)) < n {
		batch := int(min(n-int64(len(out)), int64(pool.ScratchBufferSize)))
		start := len(out)
		out = append(out, make([]byte, batch)...)
		if err := c.ReadFull(out[start:]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (c *Cursor) readByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, errs.Wrap(c.offset, errs.ErrUnreadableStream, err, "unexpected end of stream")
	}
	c.offset++

	return b, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// readToken returns the next whitespace-separated ASCII token. The returned
// slice is valid until the next read.
func (c *Cursor) readToken() ([]byte, error) {
	c.token = c.token[:0]

	var b byte
	var err error
	for {
		b, err = c.readByte()
		if err != nil {
			return nil, err
		}
		if !isSpace(b) {
			break
		}
	}

	for {
		c.token = append(c.token, b)
		b, err = c.r.ReadByte()
		if err != nil {
			// A token terminated by end of stream is complete.
			return c.token, nil
		}
		c.offset++
		if isSpace(b) {
			return c.token, nil
		}
	}
}

func (c *Cursor) readInt32ASCII() (int32, error) {
	start := c.offset
	tok, err := c.readToken()
	if err != nil {
		return 0, err
	}
	if string(tok) == "NA" {
		return format.NAInteger, nil
	}
	v, perr := strconv.ParseInt(string(tok), 10, 32)
	if perr != nil {
		return 0, errs.At(start, errs.ErrMalformedRecord, "invalid integer token %q", tok)
	}

	return int32(v), nil
}

func (c *Cursor) readFloat64ASCII() (float64, error) {
	start := c.offset
	tok, err := c.readToken()
	if err != nil {
		return 0, err
	}
	if string(tok) == "NA" {
		return format.NAReal(), nil
	}
	v, perr := strconv.ParseFloat(string(tok), 64)
	if perr != nil {
		return 0, errs.At(start, errs.ErrMalformedRecord, "invalid real token %q", tok)
	}

	return v, nil
}

// readStringASCII reads n decoded bytes of a backslash-escaped string.
// Leading whitespace separates the string from the preceding token.
func (c *Cursor) readStringASCII(n int) (string, error) {
	if n == 0 {
		return "", nil
	}

	out := make([]byte, 0, min(n, pool.ScratchBufferSize))

	var b byte
	var err error
	for {
		b, err = c.readByte()
		if err != nil {
			return "", err
		}
		if !isSpace(b) {
			break
		}
	}

	for len(out) < n {
		if b == '\\' {
			b, err = c.readEscape()
		}
		if err != nil {
			return "", err
		}
		out = append(out, b)
		if len(out) == n {
			break
		}
		b, err = c.readByte()
		if err != nil {
			return "", err
		}
	}

	return string(out), nil
}

// readEscape decodes the character following a backslash, including up to
// three octal digits.
func (c *Cursor) readEscape() (byte, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'b':
		return '\b', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'a':
		return '\a', nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := int(b - '0')
		for j := 0; j < 2; j++ {
			nb, err := c.r.ReadByte()
			if err != nil {
				break
			}
			if nb < '0' || nb > '7' {
				if uerr := c.r.UnreadByte(); uerr != nil {
					return 0, errs.Wrap(c.offset, errs.ErrUnreadableStream, uerr, "unreading octal escape")
				}
				break
			}
			c.offset++
			v = v*8 + int(nb-'0')
		}

		return byte(v), nil
	default:
		// Covers \\, \", \', \? and any other literally escaped byte.
		return b, nil
	}
}
