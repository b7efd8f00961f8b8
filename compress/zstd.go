package compress

import "github.com/rdatakit/rdata/format"

// ZstdCodec handles zstd containers, written by R 4.5 and later. The
// reader implementation is selected at build time: the cgo build wraps
// libzstd, the pure-Go build uses klauspost/compress.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a zstd codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

func (ZstdCodec) Type() format.CompressionType {
	return format.CompressionZstd
}
