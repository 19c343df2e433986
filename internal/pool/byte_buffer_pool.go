package pool

import "sync"

// The codec has exactly two buffer tiers: a term buffer sized for a single
// encoded value's output (Encode's working buffer, and emitFun's nested
// size-prefixed body), and an envelope buffer sized for a decompressed ETF
// stream, which has no per-term bound and can run well past a single
// term's footprint once compression is in play.
const (
	TermBufferDefaultSize      = 1024 * 16       // 16KiB
	TermBufferMaxThreshold     = 1024 * 128      // 128KiB
	EnvelopeBufferDefaultSize  = 1024 * 1024     // 1MiB
	EnvelopeBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable byte slice drawn from a ByteBufferPool. The zero
// value is an empty buffer that allocates on its first write; NewByteBuffer
// or a pool Get gives one with capacity reserved up front.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given starting capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while keeping its backing array for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the buffer's current capacity.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data, pre-growing the backing array with grow's
// batched policy instead of relying on append's own doubling.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.grow(len(data))
	bb.B = append(bb.B, data...)
}

// Write implements io.Writer so a ByteBuffer can be the destination of
// io.Copy, which is how compress.ZlibCodec.Decompress fills an envelope
// buffer from a zlib reader.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)

	return len(data), nil
}

// grow ensures the buffer can accept n additional bytes without every
// MustWrite/Write call forcing append to reallocate. Small buffers grow by
// a fixed increment; once a buffer has grown past a few multiples of that
// increment, it grows by a quarter of its current capacity instead, so a
// buffer that is already large doesn't keep paying a huge fixed step.
func (bb *ByteBuffer) grow(n int) {
	available := cap(bb.B) - len(bb.B)
	if available >= n {
		return
	}

	growBy := TermBufferDefaultSize
	if cap(bb.B) > 4*TermBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a sync.Pool of ByteBuffers with an optional size cap:
// a buffer that has grown past maxThreshold is dropped instead of returned
// to the pool, so one outsized payload doesn't inflate every future Get.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose fresh buffers start at defaultSize
// and whose Put discards anything grown past maxThreshold (0 disables the
// cap).
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool, allocating one if empty.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)

	return bb
}

// Put resets bb and returns it to the pool, unless it has grown past the
// pool's maxThreshold.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	termBufferPool     = NewByteBufferPool(TermBufferDefaultSize, TermBufferMaxThreshold)
	envelopeBufferPool = NewByteBufferPool(EnvelopeBufferDefaultSize, EnvelopeBufferMaxThreshold)
)

// GetTermBuffer retrieves a buffer sized for a single encoded term, as
// Encode uses for its working output.
func GetTermBuffer() *ByteBuffer {
	return termBufferPool.Get()
}

// PutTermBuffer returns a buffer obtained from GetTermBuffer.
func PutTermBuffer(bb *ByteBuffer) {
	termBufferPool.Put(bb)
}

// GetEnvelopeBuffer retrieves a buffer sized for a decompressed ETF
// envelope, as ZlibCodec.Decompress uses as its inflate destination.
func GetEnvelopeBuffer() *ByteBuffer {
	return envelopeBufferPool.Get()
}

// PutEnvelopeBuffer returns a buffer obtained from GetEnvelopeBuffer.
func PutEnvelopeBuffer(bb *ByteBuffer) {
	envelopeBufferPool.Put(bb)
}
