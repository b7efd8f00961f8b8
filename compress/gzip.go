package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/rdatakit/rdata/format"
)

// GzipCodec handles gzip containers, the default compression for both
// saveRDS and save output.
type GzipCodec struct{}

var _ Codec = GzipCodec{}

// NewGzipCodec creates a gzip codec.
func NewGzipCodec() GzipCodec {
	return GzipCodec{}
}

func (GzipCodec) Type() format.CompressionType {
	return format.CompressionGzip
}

// NewReader wraps r with a streaming gzip decompressor. The container
// header is validated eagerly, so a recognized-but-corrupt header fails
// here rather than on the first read.
func (GzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	return zr, nil
}
