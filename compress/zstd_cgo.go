//go:build cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

type zstdReadCloser struct {
	*gozstd.Reader
}

// Close releases the reader back to libzstd.
func (rc zstdReadCloser) Close() error {
	rc.Release()
	return nil
}

// NewReader wraps r with a libzstd-backed streaming decompressor.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return zstdReadCloser{gozstd.NewReader(r)}, nil
}
