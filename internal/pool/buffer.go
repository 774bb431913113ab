// Package pool provides pooled byte buffers for the codec's "measure then
// fill" encoding strategy, so repeated Encode calls from worker goroutines
// don't each pay for a fresh allocation.
package pool

import "sync"

// RecordBufferDefaultSize and RecordBufferMaxThreshold size the pool used by
// ElemCodec and PropCodec while assembling a single record's slots. Graph
// records are small (a handful of properties per group) compared to the
// batched time-series payloads this buffer type was originally sized for, so
// the defaults are considerably smaller.
const (
	RecordBufferDefaultSize  = 512       // 512B, enough for most single-slot buffers
	RecordBufferMaxThreshold = 64 * 1024 // 64KiB, discard anything larger than this on Put
)

// Buffer is a growable byte slice wrapper that supports the amortized
// "measure then fill" growth strategy used throughout the codec.
type Buffer struct {
	B []byte
}

// NewBuffer creates a new Buffer with the given starting capacity.
func NewBuffer(defaultSize int) *Buffer {
	return &Buffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice. The caller must not retain it
// past the next call to Reset, Grow, or MustWrite.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Reset empties the buffer but keeps the underlying array for reuse.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int {
	return len(b.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (b *Buffer) MustWrite(data []byte) {
	b.B = append(b.B, data...)
}

// Grow ensures the buffer can hold requiredBytes more bytes without a
// reallocation, doubling its capacity until it does. A single record's
// slots rarely need more than one or two doublings past
// RecordBufferDefaultSize, so there's no need for the plateaued growth
// curve a buffer sized for much larger payloads would want.
func (b *Buffer) Grow(requiredBytes int) {
	available := cap(b.B) - len(b.B)
	if available >= requiredBytes {
		return
	}

	newCap := cap(b.B)
	if newCap == 0 {
		newCap = RecordBufferDefaultSize
	}
	for newCap-len(b.B) < requiredBytes {
		newCap *= 2
	}

	newBuf := make([]byte, len(b.B), newCap)
	copy(newBuf, b.B)
	b.B = newBuf
}

// Pool is a sync.Pool of Buffers bounded by a maximum retained capacity.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a Pool whose buffers start at defaultSize and are
// discarded on Put once their capacity exceeds maxThreshold.
func NewPool(defaultSize, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return NewBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a Buffer from the pool, allocating one if the pool is empty.
func (p *Pool) Get() *Buffer {
	buf, _ := p.pool.Get().(*Buffer)
	return buf
}

// Put returns a Buffer to the pool for reuse, discarding it instead if it
// grew past the pool's maximum threshold.
func (p *Pool) Put(buf *Buffer) {
	if buf == nil {
		return
	}
	if p.maxThreshold > 0 && cap(buf.B) > p.maxThreshold {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

var defaultPool = NewPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)

// Get retrieves a Buffer from the package-wide default pool.
func Get() *Buffer {
	return defaultPool.Get()
}

// Put returns a Buffer to the package-wide default pool.
func Put(buf *Buffer) {
	defaultPool.Put(buf)
}
