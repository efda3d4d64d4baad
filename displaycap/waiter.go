package displaycap

import "sync"

// frameWaiter bridges the producer's frame-ready callback and the
// consumer's blocking wait. Signals are counted, not flagged, so a
// burst of callbacks before the next wait loses nothing.
type frameWaiter struct {
	mu            sync.Mutex
	cond          *sync.Cond
	pendingFrames int
	closed        bool
}

func newFrameWaiter() *frameWaiter {
	w := &frameWaiter{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// OnFrameAvailable is the frame-ready callback. Runs on the producer's
// goroutine, any frequency.
func (w *frameWaiter) OnFrameAvailable() {
	w.mu.Lock()
	w.pendingFrames++
	w.mu.Unlock()
	w.cond.Signal()
}

// wait blocks until a frame is pending, then consumes exactly one
// signal. Pending signals are drained before a close is honored.
func (w *frameWaiter) wait() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.pendingFrames == 0 {
		if w.closed {
			return ErrReleased
		}
		w.cond.Wait()
	}
	w.pendingFrames--
	return nil
}

// close wakes every parked waiter; their wait calls return
// ErrReleased once the pending count is drained.
func (w *frameWaiter) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.cond.Broadcast()
}
