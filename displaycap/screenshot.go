package displaycap

import (
	"fmt"
	"sync"
	"time"

	"github.com/vova616/screenshot"
)

const defaultScreenshotFPS = 60

// screenshotCapture is the non-virtual-display fallback: it polls the
// window system for full screenshots, paced to the display's refresh
// rate. Frames are always full-size RGBA; desired geometry only
// affects pacing.
type screenshotCapture struct {
	displayID int32

	mu               sync.Mutex
	realInfo         DisplayInfo
	desiredInfo      DisplayInfo
	interval         time.Duration
	lastFrame        time.Time
	running          bool
	havePendingFrame bool
	img              []byte
}

// NewScreenshotCapture returns a capture session backed by window
// system screenshots instead of a virtual output. It needs no
// composer session.
func NewScreenshotCapture(displayID int32) Capture {
	return &screenshotCapture{displayID: displayID}
}

func (s *screenshotCapture) CaptureMethod() CaptureMethod {
	return MethodScreenshot
}

func (s *screenshotCapture) DisplayID() int32 {
	return s.displayID
}

func (s *screenshotCapture) SetRealInfo(info DisplayInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.realInfo = info
}

func (s *screenshotCapture) SetDesiredInfo(info DisplayInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desiredInfo = info
}

func (s *screenshotCapture) ApplyConfigChanges() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := screenshot.ScreenRect(); err != nil {
		debugf("unable to query screen rectangle: %v", err)
		return fmt.Errorf("query screen rectangle: %w", err)
	}

	fps := s.realInfo.FPS
	if fps <= 0 {
		fps = defaultScreenshotFPS
	}
	s.interval = time.Duration(float64(time.Second) / fps)
	s.running = true
	s.havePendingFrame = false
	return nil
}

func (s *screenshotCapture) WaitForFrame() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	last, interval := s.lastFrame, s.interval
	s.mu.Unlock()

	if wait := interval - time.Since(last); wait > 0 {
		time.Sleep(wait)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ErrReleased
	}
	s.lastFrame = time.Now()
	s.havePendingFrame = true
	return nil
}

func (s *screenshotCapture) ConsumePendingFrame(frame *Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotRunning
	}
	img, err := screenshot.CaptureScreen()
	if err != nil {
		debugf("unable to capture screen: %v", err)
		return fmt.Errorf("capture screen: %w", err)
	}

	bounds := img.Bounds()
	frame.Data = img.Pix
	frame.Format = FormatRGBA8888
	frame.Width = uint32(bounds.Dx())
	frame.Height = uint32(bounds.Dy())
	frame.Stride = uint32(img.Stride / 4)
	frame.BPP = 4
	frame.Size = frame.Stride * frame.Height * frame.BPP

	s.img = img.Pix
	s.havePendingFrame = false
	return nil
}

func (s *screenshotCapture) HasPendingFrame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.havePendingFrame
}

func (s *screenshotCapture) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.havePendingFrame = false
	s.img = nil
}
