package capture

import (
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const defaultFrameQueueSize = 4

// asyncPipeWriter decouples the capture loop from the reader: frames
// are queued and written to the pipe on a separate goroutine, with
// drop-oldest backpressure so the capture loop never stalls on a slow
// reader.
type asyncPipeWriter struct {
	method    string
	displayID int32
	dst       *io.PipeWriter

	queue chan []byte
	done  chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup

	lastSlowLog atomic.Int64
	lastDropLog atomic.Int64
	dropped     atomic.Uint64
}

func newAsyncPipeWriter(method string, displayID int32, dst *io.PipeWriter, queueSize int) *asyncPipeWriter {
	if dst == nil {
		return nil
	}
	if queueSize <= 0 {
		queueSize = defaultFrameQueueSize
	}
	w := &asyncPipeWriter{
		method:    method,
		displayID: displayID,
		dst:       dst,
		queue:     make(chan []byte, queueSize),
		done:      make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

func (w *asyncPipeWriter) Enqueue(frame []byte) {
	if w == nil || len(frame) == 0 {
		return
	}

	select {
	case <-w.done:
		return
	default:
	}

	select {
	case w.queue <- frame:
		return
	default:
	}

	// Queue full: drop the oldest frame to keep the capture loop
	// non-blocking and low-latency.
	select {
	case <-w.queue:
		w.logDrop()
	default:
	}

	select {
	case w.queue <- frame:
	default:
		w.logDrop()
	}
}

func (w *asyncPipeWriter) logDrop() {
	total := w.dropped.Add(1)
	if captureShouldLogSlowWrite(&w.lastDropLog, time.Second) {
		captureDebugf(
			"method=%s display=%d dropped_frame total=%d queue=%d",
			w.method,
			w.displayID,
			total,
			len(w.queue),
		)
	}
}

func (w *asyncPipeWriter) Close() {
	if w == nil {
		return
	}
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
	})
}

func (w *asyncPipeWriter) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case b := <-w.queue:
			if len(b) == 0 {
				continue
			}
			start := time.Now()
			_, err := w.dst.Write(b)
			if err != nil {
				captureDebugf("method=%s display=%d write_err=%v", w.method, w.displayID, err)
				return
			}
			d := time.Since(start)
			if d > 50*time.Millisecond && captureShouldLogSlowWrite(&w.lastSlowLog, time.Second) {
				captureDebugf(
					"method=%s display=%d slow_write duration=%s bytes=%d queue=%d",
					w.method,
					w.displayID,
					d,
					len(b),
					len(w.queue),
				)
			}
		}
	}
}
