// Package bufstream implements the producer/consumer graphics buffer
// stream a virtual output renders into. One side deposits filled
// buffers, the other locks them one at a time through a Reader.
package bufstream

import (
	"sync"
)

const (
	// Row starts are padded to this many pixels, so a buffer's stride
	// may exceed its width.
	strideAlign = 16

	asyncBufferCount = 3
	syncBufferCount  = 2
)

// FrameAvailableListener is notified every time the producer queues a
// buffer. The callback runs on the producer's goroutine and must not
// block.
type FrameAvailableListener interface {
	OnFrameAvailable()
}

// Buffer is a single graphics buffer slot. Stride is in pixels and
// accounts for row padding; Data holds Stride*Height pixels.
type Buffer struct {
	Data   []byte
	Width  uint32
	Height uint32
	Stride uint32
	Format Format
}

type streamState struct {
	mu sync.Mutex

	defaultWidth  uint32
	defaultHeight uint32
	defaultFormat Format

	async      bool
	maxBuffers int
	allocated  int

	free   []*Buffer
	queued []*Buffer
	closed bool

	listener FrameAvailableListener
}

// Producer is the write side of a buffer stream.
type Producer struct {
	s *streamState
}

// Consumer is the read side of a buffer stream.
type Consumer struct {
	s *streamState
}

// NewQueue allocates a producer/consumer buffer-stream pair. The
// stream starts in async mode with triple buffering.
func NewQueue() (*Producer, *Consumer) {
	s := &streamState{
		defaultFormat: FormatRGBA8888,
		async:         true,
		maxBuffers:    asyncBufferCount,
	}
	return &Producer{s: s}, &Consumer{s: s}
}

func alignStride(width uint32) uint32 {
	return (width + strideAlign - 1) &^ (strideAlign - 1)
}

func (s *streamState) allocateLocked() (*Buffer, Status) {
	w, h, f := s.defaultWidth, s.defaultHeight, s.defaultFormat
	bpp := BytesPerPixel(f)
	if w == 0 || h == 0 || bpp == 0 {
		return nil, BadValue
	}
	stride := alignStride(w)
	s.allocated++
	return &Buffer{
		Data:   make([]byte, int(stride)*int(h)*int(bpp)),
		Width:  w,
		Height: h,
		Stride: stride,
		Format: f,
	}, OK
}

// Dequeue hands out an empty buffer for the producer to fill. In sync
// mode it reports WOULD_BLOCK once every slot is in flight; in async
// mode it reclaims the oldest queued buffer instead, so the producer
// never stalls.
func (p *Producer) Dequeue() (*Buffer, Status) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, DeadObject
	}
	if n := len(s.free); n > 0 {
		b := s.free[n-1]
		s.free = s.free[:n-1]
		return b, OK
	}
	if s.allocated < s.maxBuffers {
		return s.allocateLocked()
	}
	if s.async && len(s.queued) > 0 {
		b := s.queued[0]
		s.queued = s.queued[1:]
		return b, OK
	}
	return nil, WouldBlock
}

// Queue submits a filled buffer and fires the frame-available
// listener.
func (p *Producer) Queue(b *Buffer) Status {
	if b == nil {
		return BadValue
	}
	s := p.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return DeadObject
	}
	s.queued = append(s.queued, b)
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.OnFrameAvailable()
	}
	return OK
}

// Cancel returns a dequeued buffer without submitting it.
func (p *Producer) Cancel(b *Buffer) Status {
	if b == nil {
		return BadValue
	}
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return DeadObject
	}
	s.free = append(s.free, b)
	return OK
}

// AcquireBuffer pops the oldest queued buffer, or reports WOULD_BLOCK
// when none is available.
func (c *Consumer) AcquireBuffer() (*Buffer, Status) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, DeadObject
	}
	if len(s.queued) == 0 {
		return nil, WouldBlock
	}
	b := s.queued[0]
	s.queued = s.queued[1:]
	return b, OK
}

// ReleaseBuffer returns an acquired buffer to the producer's free
// list.
func (c *Consumer) ReleaseBuffer(b *Buffer) Status {
	if b == nil {
		return BadValue
	}
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return DeadObject
	}
	s.free = append(s.free, b)
	return OK
}

// SetDefaultBufferSize sets the geometry used for new buffer
// allocations. Idle buffers with stale geometry are dropped.
func (c *Consumer) SetDefaultBufferSize(width, height uint32) Status {
	if width == 0 || height == 0 {
		return BadValue
	}
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultWidth = width
	s.defaultHeight = height
	s.allocated -= len(s.free)
	s.free = nil
	return OK
}

// SetDefaultBufferFormat sets the native format used for new buffer
// allocations.
func (c *Consumer) SetDefaultBufferFormat(f Format) Status {
	if BytesPerPixel(f) == 0 {
		return BadValue
	}
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultFormat = f
	s.allocated -= len(s.free)
	s.free = nil
	return OK
}

// DisableAsyncBuffer switches the stream to double buffering with a
// blocking producer side. Async buffers cause vsync glitches with
// some compositor backends.
func (c *Consumer) DisableAsyncBuffer() Status {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allocated > 0 {
		return InvalidOperation
	}
	s.async = false
	s.maxBuffers = syncBufferCount
	return OK
}

// SetFrameAvailableListener registers the listener fired on every
// queued buffer.
func (c *Consumer) SetFrameAvailableListener(l FrameAvailableListener) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Close tears the stream down. Subsequent producer and consumer calls
// report DEAD_OBJECT.
func (c *Consumer) Close() {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.free = nil
	s.queued = nil
	s.listener = nil
}
