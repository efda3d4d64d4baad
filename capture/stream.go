package capture

import (
	"errors"
	"io"
	"sync"

	"go2tv.app/displaycap/displaycap"
)

const defaultFrameRate = 60

// Stream is a raw frame source. Read yields complete frames of
// Stride*Height*4 RGBA bytes each.
type Stream struct {
	io.ReadCloser

	Width       uint32
	Height      uint32
	Stride      uint32
	FrameRate   uint32
	PixelFormat displaycap.PixelFormat
}

type sessionReadCloser struct {
	pr      *io.PipeReader
	session displaycap.Capture
	writer  *asyncPipeWriter

	once sync.Once
	err  error
}

func (r *sessionReadCloser) Read(p []byte) (int, error) {
	return r.pr.Read(p)
}

func (r *sessionReadCloser) Close() error {
	r.once.Do(func() {
		// Closing the read side first fails any in-flight pipe write,
		// releasing the session then unblocks the capture loop's wait.
		r.err = r.pr.Close()
		r.session.Release()
		r.writer.Close()
	})
	return r.err
}

// Open creates a capture session for the selected display, applies the
// requested geometry and returns a unified raw frame reader. It fails
// if no frame arrives within the startup timeout.
func Open(options *Options) (*Stream, error) {
	options, err := validateOpenOptions(options)
	if err != nil {
		return nil, err
	}

	session, err := CreateWithMethod(options.DisplayID, options.Method)
	if err != nil {
		return nil, err
	}

	// Release the session on setup failure.
	cleanupSession := true
	defer func() {
		if cleanupSession {
			Free(session)
		}
	}()

	realInfo, ok := TryGetDisplayInfo(options.DisplayID)
	if !ok {
		if options.Method != displaycap.MethodScreenshot {
			return nil, ErrNoDisplayInfo
		}
		realInfo = displaycap.DisplayInfo{FPS: defaultFrameRate}
	}

	desiredInfo := realInfo
	if options.Width > 0 {
		desiredInfo.Width = options.Width
		desiredInfo.Height = options.Height
	}
	desiredInfo.Orientation = options.Orientation

	session.SetRealInfo(realInfo)
	session.SetDesiredInfo(desiredInfo)
	if err := session.ApplyConfigChanges(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	writer := newAsyncPipeWriter(session.CaptureMethod().String(), options.DisplayID, pw, options.QueueSize)

	var (
		first     displaycap.Frame
		firstOnce sync.Once
		ready     = make(chan struct{})
	)

	go func() {
		defer func() {
			// Close the pipe first: it fails any in-flight write so the
			// writer loop can exit before Close waits on it.
			_ = pw.Close()
			writer.Close()
		}()

		for {
			if err := session.WaitForFrame(); err != nil {
				if !errors.Is(err, displaycap.ErrReleased) {
					captureDebugf("method=%s display=%d wait_err=%v",
						session.CaptureMethod(), options.DisplayID, err)
				}
				return
			}

			var frame displaycap.Frame
			if err := session.ConsumePendingFrame(&frame); err != nil {
				// Recoverable: go back to waiting.
				continue
			}

			firstOnce.Do(func() {
				first = frame
				first.Data = nil
				close(ready)
			})

			// The frame data is only borrowed until the next wait.
			out := make([]byte, len(frame.Data))
			copy(out, frame.Data)
			writer.Enqueue(out)
		}
	}()

	reader := &sessionReadCloser{
		pr:      pr,
		session: session,
		writer:  writer,
	}

	if err := waitForFirstFrame(session.CaptureMethod().String(), ready, reader.Close); err != nil {
		cleanupSession = false // reader.Close already released it
		return nil, err
	}

	frameRate := uint32(realInfo.FPS)
	if frameRate == 0 {
		frameRate = defaultFrameRate
	}

	cleanupSession = false
	return &Stream{
		ReadCloser:  reader,
		Width:       first.Width,
		Height:      first.Height,
		Stride:      first.Stride,
		FrameRate:   frameRate,
		PixelFormat: first.Format,
	}, nil
}
