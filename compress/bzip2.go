package compress

import (
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/rdatakit/rdata/format"
)

// Bzip2Codec handles bzip2 containers (saveRDS compress="bzip2").
type Bzip2Codec struct{}

var _ Codec = Bzip2Codec{}

// NewBzip2Codec creates a bzip2 codec.
func NewBzip2Codec() Bzip2Codec {
	return Bzip2Codec{}
}

func (Bzip2Codec) Type() format.CompressionType {
	return format.CompressionBzip2
}

func (Bzip2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := bzip2.NewReader(r, nil)
	if err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}

	return zr, nil
}
