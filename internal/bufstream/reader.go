package bufstream

import "sync"

// LockedBuffer is a borrowed view into a locked buffer's memory. It is
// valid until the buffer is unlocked.
type LockedBuffer struct {
	Data   []byte
	Width  uint32
	Height uint32
	Stride uint32
	Format Format

	buf *Buffer
}

// Reader adapts a Consumer for one-buffer-at-a-time consumption with a
// hard cap on outstanding locks.
type Reader struct {
	mu        sync.Mutex
	consumer  *Consumer
	name      string
	maxLocked int
	locked    int
}

// NewReader wraps the consumer side of a buffer stream. maxLocked caps
// how many buffers may be locked at once.
func NewReader(c *Consumer, maxLocked int) *Reader {
	if maxLocked < 1 {
		maxLocked = 1
	}
	return &Reader{consumer: c, maxLocked: maxLocked}
}

// SetName attaches a debug name to the reader.
func (r *Reader) SetName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
}

// SetFrameAvailableListener registers the listener on the underlying
// stream.
func (r *Reader) SetFrameAvailableListener(l FrameAvailableListener) {
	r.consumer.SetFrameAvailableListener(l)
}

// LockNextBuffer locks the next queued buffer and fills lb with a
// borrowed view of it. Reports INVALID_OPERATION once maxLocked
// buffers are outstanding and WOULD_BLOCK when no buffer is queued.
func (r *Reader) LockNextBuffer(lb *LockedBuffer) Status {
	if lb == nil {
		return BadValue
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locked >= r.maxLocked {
		return InvalidOperation
	}
	b, st := r.consumer.AcquireBuffer()
	if st != OK {
		return st
	}
	r.locked++
	*lb = LockedBuffer{
		Data:   b.Data,
		Width:  b.Width,
		Height: b.Height,
		Stride: b.Stride,
		Format: b.Format,
		buf:    b,
	}
	return OK
}

// UnlockBuffer releases a previously locked buffer back to the stream.
// Skipping it stalls subsequent locks once maxLocked is reached.
func (r *Reader) UnlockBuffer(lb *LockedBuffer) Status {
	if lb == nil || lb.buf == nil {
		return BadValue
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.consumer.ReleaseBuffer(lb.buf)
	r.locked--
	*lb = LockedBuffer{}
	return st
}

// Close tears down the underlying stream.
func (r *Reader) Close() {
	r.consumer.Close()
}
