package compress

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/rdatakit/rdata/format"
)

// XZCodec handles xz containers (saveRDS compress="xz").
type XZCodec struct{}

var _ Codec = XZCodec{}

// NewXZCodec creates an xz codec.
func NewXZCodec() XZCodec {
	return XZCodec{}
}

func (XZCodec) Type() format.CompressionType {
	return format.CompressionXZ
}

func (XZCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}

	return io.NopCloser(zr), nil
}
