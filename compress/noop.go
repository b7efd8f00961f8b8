package compress

import (
	"io"

	"github.com/rdatakit/rdata/format"
)

// NoOpCodec passes an uncompressed stream through untouched.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// NewNoOpCodec creates a pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

func (NoOpCodec) Type() format.CompressionType {
	return format.CompressionNone
}

func (NoOpCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
