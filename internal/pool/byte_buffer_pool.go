// Package pool provides pooled scratch buffers for transient decode reads.
package pool

import "sync"

const (
	// ScratchBufferSize is the default capacity of a pooled scratch buffer
	// and the chunk size used for bounded vector reads.
	ScratchBufferSize = 64 * 1024
	// scratchMaxThreshold caps the capacity of buffers returned to the
	// pool; anything larger is dropped for the GC to reclaim.
	scratchMaxThreshold = 1024 * 1024
)

// ByteBuffer is a reusable byte slice wrapper handed out by the pool.
type ByteBuffer struct {
	B []byte
}

// Ensure returns a slice of exactly n bytes backed by the buffer, growing
// the underlying storage if needed. The content is unspecified.
func (bb *ByteBuffer) Ensure(n int) []byte {
	if cap(bb.B) < n {
		bb.B = make([]byte, n)
	}

	return bb.B[:n]
}

// Reset empties the buffer while keeping its storage.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Cap returns the capacity of the underlying storage.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

var scratchPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, ScratchBufferSize)}
	},
}

// GetScratchBuffer obtains a scratch buffer from the pool.
func GetScratchBuffer() *ByteBuffer {
	return scratchPool.Get().(*ByteBuffer)
}

// PutScratchBuffer returns a scratch buffer to the pool. Oversized buffers
// are dropped so a single huge read does not pin memory.
func PutScratchBuffer(bb *ByteBuffer) {
	if bb.Cap() > scratchMaxThreshold {
		return
	}
	bb.Reset()
	scratchPool.Put(bb)
}
