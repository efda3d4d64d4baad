package displaycap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitAsync(w *frameWaiter) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- w.wait()
	}()
	return done
}

func TestWaiterAbsorbsSignalBursts(t *testing.T) {
	w := newFrameWaiter()

	for i := 0; i < 3; i++ {
		w.OnFrameAvailable()
	}
	for i := 0; i < 3; i++ {
		select {
		case err := <-waitAsync(w):
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatalf("wait %d blocked despite pending signal", i)
		}
	}

	// Counter is back at zero: the next wait blocks.
	done := waitAsync(w)
	select {
	case <-done:
		t.Fatal("wait returned with no pending signal")
	case <-time.After(50 * time.Millisecond):
	}
	w.OnFrameAvailable()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not wake on signal")
	}
}

func TestWaiterBlocksUntilSignal(t *testing.T) {
	w := newFrameWaiter()
	done := waitAsync(w)

	select {
	case <-done:
		t.Fatal("wait returned before any signal")
	case <-time.After(50 * time.Millisecond):
	}

	w.OnFrameAvailable()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not wake on signal")
	}
}

func TestWaiterCloseWakesParkedWaiter(t *testing.T) {
	w := newFrameWaiter()
	done := waitAsync(w)

	time.Sleep(20 * time.Millisecond)
	w.close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrReleased)
	case <-time.After(time.Second):
		t.Fatal("close did not wake the waiter")
	}
}

func TestWaiterDrainsPendingBeforeClose(t *testing.T) {
	w := newFrameWaiter()
	w.OnFrameAvailable()
	w.close()

	require.NoError(t, w.wait())
	assert.ErrorIs(t, w.wait(), ErrReleased)
}
