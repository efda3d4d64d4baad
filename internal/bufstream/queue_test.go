package bufstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingListener struct {
	frames int
}

func (l *countingListener) OnFrameAvailable() {
	l.frames++
}

func newTestQueue(t *testing.T, width, height uint32) (*Producer, *Consumer) {
	t.Helper()
	p, c := NewQueue()
	require.Equal(t, OK, c.SetDefaultBufferSize(width, height))
	require.Equal(t, OK, c.SetDefaultBufferFormat(FormatRGBA8888))
	return p, c
}

func TestDequeueWithoutGeometryFails(t *testing.T) {
	p, _ := NewQueue()
	b, st := p.Dequeue()
	assert.Nil(t, b)
	assert.Equal(t, BadValue, st)
}

func TestBufferGeometryAndStridePadding(t *testing.T) {
	p, _ := newTestQueue(t, 540, 960)

	b, st := p.Dequeue()
	require.Equal(t, OK, st)
	assert.Equal(t, uint32(540), b.Width)
	assert.Equal(t, uint32(960), b.Height)
	assert.Equal(t, FormatRGBA8888, b.Format)
	assert.GreaterOrEqual(t, b.Stride, b.Width)
	assert.Zero(t, b.Stride%strideAlign)
	assert.Len(t, b.Data, int(b.Stride)*int(b.Height)*4)
}

func TestQueueAcquireReleaseCycle(t *testing.T) {
	p, c := newTestQueue(t, 64, 64)
	listener := &countingListener{}
	c.SetFrameAvailableListener(listener)

	b, st := p.Dequeue()
	require.Equal(t, OK, st)
	b.Data[0] = 0xAB
	require.Equal(t, OK, p.Queue(b))
	assert.Equal(t, 1, listener.frames)

	got, st := c.AcquireBuffer()
	require.Equal(t, OK, st)
	assert.Equal(t, byte(0xAB), got.Data[0])
	require.Equal(t, OK, c.ReleaseBuffer(got))

	// Released buffer is reused.
	again, st := p.Dequeue()
	require.Equal(t, OK, st)
	assert.Same(t, got, again)
}

func TestAcquireEmptyWouldBlock(t *testing.T) {
	_, c := newTestQueue(t, 64, 64)
	b, st := c.AcquireBuffer()
	assert.Nil(t, b)
	assert.Equal(t, WouldBlock, st)
}

func TestSyncModeProducerWouldBlock(t *testing.T) {
	p, c := newTestQueue(t, 16, 16)
	require.Equal(t, OK, c.DisableAsyncBuffer())

	for i := 0; i < syncBufferCount; i++ {
		b, st := p.Dequeue()
		require.Equal(t, OK, st)
		require.Equal(t, OK, p.Queue(b))
	}

	b, st := p.Dequeue()
	assert.Nil(t, b)
	assert.Equal(t, WouldBlock, st)
}

func TestAsyncModeReclaimsOldestFrame(t *testing.T) {
	p, c := newTestQueue(t, 16, 16)

	var first *Buffer
	for i := 0; i < asyncBufferCount; i++ {
		b, st := p.Dequeue()
		require.Equal(t, OK, st)
		if i == 0 {
			first = b
		}
		require.Equal(t, OK, p.Queue(b))
	}

	b, st := p.Dequeue()
	require.Equal(t, OK, st)
	assert.Same(t, first, b)

	// The reclaimed frame is gone from the queued side.
	seen := 0
	for {
		q, st := c.AcquireBuffer()
		if st != OK {
			break
		}
		seen++
		assert.NotSame(t, first, q)
	}
	assert.Equal(t, asyncBufferCount-1, seen)
}

func TestDisableAsyncAfterAllocationFails(t *testing.T) {
	p, c := newTestQueue(t, 16, 16)
	_, st := p.Dequeue()
	require.Equal(t, OK, st)
	assert.Equal(t, InvalidOperation, c.DisableAsyncBuffer())
}

func TestClosedStreamReportsDeadObject(t *testing.T) {
	p, c := newTestQueue(t, 16, 16)
	b, st := p.Dequeue()
	require.Equal(t, OK, st)
	c.Close()

	assert.Equal(t, DeadObject, p.Queue(b))
	_, st = p.Dequeue()
	assert.Equal(t, DeadObject, st)
	_, st = c.AcquireBuffer()
	assert.Equal(t, DeadObject, st)
}

func TestReaderEnforcesSingleOutstandingLock(t *testing.T) {
	p, c := newTestQueue(t, 32, 32)
	r := NewReader(c, 1)
	r.SetName("test")

	for i := 0; i < 2; i++ {
		b, st := p.Dequeue()
		require.Equal(t, OK, st)
		require.Equal(t, OK, p.Queue(b))
	}

	var lb LockedBuffer
	require.Equal(t, OK, r.LockNextBuffer(&lb))
	assert.NotNil(t, lb.Data)

	var second LockedBuffer
	assert.Equal(t, InvalidOperation, r.LockNextBuffer(&second))

	require.Equal(t, OK, r.UnlockBuffer(&lb))
	assert.Nil(t, lb.Data)
	require.Equal(t, OK, r.LockNextBuffer(&second))
}

func TestReaderLockEmptyWouldBlock(t *testing.T) {
	_, c := newTestQueue(t, 32, 32)
	r := NewReader(c, 1)

	var lb LockedBuffer
	assert.Equal(t, WouldBlock, r.LockNextBuffer(&lb))
}

func TestReaderUnlockWithoutLockFails(t *testing.T) {
	_, c := newTestQueue(t, 32, 32)
	r := NewReader(c, 1)

	var lb LockedBuffer
	assert.Equal(t, BadValue, r.UnlockBuffer(&lb))
	assert.Equal(t, BadValue, r.UnlockBuffer(nil))
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "NO_ERROR", OK.Name())
	assert.Equal(t, "WOULD_BLOCK", WouldBlock.Name())
	assert.Equal(t, "DEAD_OBJECT", DeadObject.Name())
	assert.Equal(t, "UNMAPPED_STATUS", Status(99).Name())
}

func TestStatusAsError(t *testing.T) {
	assert.NoError(t, OK.Err())

	err := WouldBlock.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, WouldBlock))
	assert.Equal(t, "WOULD_BLOCK", err.Error())
}

func TestBytesPerPixel(t *testing.T) {
	assert.Equal(t, uint32(4), BytesPerPixel(FormatRGBA8888))
	assert.Equal(t, uint32(4), BytesPerPixel(FormatBGRA8888))
	assert.Equal(t, uint32(3), BytesPerPixel(FormatRGB888))
	assert.Equal(t, uint32(2), BytesPerPixel(FormatRGB565))
	assert.Equal(t, uint32(2), BytesPerPixel(FormatRGBA4444))
	assert.Equal(t, uint32(0), BytesPerPixel(FormatNone))
	assert.Equal(t, uint32(0), BytesPerPixel(FormatCustom))
}
