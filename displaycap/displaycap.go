// Package displaycap captures a live display by redirecting its output
// into an offscreen buffer stream and handing completed frames to the
// caller one at a time.
package displaycap

import (
	"errors"
	"image"
	"math"

	"go2tv.app/displaycap/internal/bufstream"
)

var (
	// ErrReleased reports that the capture session was torn down while
	// a caller was waiting for a frame.
	ErrReleased = errors.New("capture session was released")

	// ErrNotRunning reports a frame operation on a session with no
	// running virtual output.
	ErrNotRunning = errors.New("no running virtual output")

	// ErrNoComposer reports a session constructed without a composer.
	ErrNoComposer = errors.New("no composer available")
)

// CaptureMethod selects the strategy used to acquire frames.
type CaptureMethod uint32

const (
	MethodVirtualDisplay CaptureMethod = iota
	MethodScreenshot
)

func (m CaptureMethod) String() string {
	switch m {
	case MethodVirtualDisplay:
		return "virtual_display"
	case MethodScreenshot:
		return "screenshot"
	default:
		return "unknown"
	}
}

// DisplayInfo describes a display's geometry and physical metrics. Two
// instances exist per session: the real display, and the desired
// capture geometry.
type DisplayInfo struct {
	Width       uint32
	Height      uint32
	Orientation uint8
	FPS         float64
	Density     float64
	XDPI        float64
	YDPI        float64
	Secure      bool

	// Size is the diagonal in inches, derived from the pixel geometry
	// and the per-axis dpi.
	Size float64
}

// NewDisplayInfo builds a DisplayInfo from raw display metrics,
// deriving the diagonal size.
func NewDisplayInfo(width, height uint32, orientation uint8, fps, density, xdpi, ydpi float64, secure bool) DisplayInfo {
	info := DisplayInfo{
		Width:       width,
		Height:      height,
		Orientation: orientation,
		FPS:         fps,
		Density:     density,
		XDPI:        xdpi,
		YDPI:        ydpi,
		Secure:      secure,
	}
	if xdpi > 0 && ydpi > 0 {
		w := float64(width) / xdpi
		h := float64(height) / ydpi
		info.Size = math.Sqrt(w*w + h*h)
	}
	return info
}

// Frame describes one captured frame. Data is a borrowed view into the
// locked buffer and is valid only until the next WaitForFrame call on
// the session; Stride is in pixels and may exceed Width, so callers
// must use Stride, not Width, to index rows.
type Frame struct {
	Data   []byte
	Format PixelFormat
	Width  uint32
	Height uint32
	Stride uint32
	BPP    uint32
	Size   uint32
}

// Capture is one display-capture session. SetRealInfo, SetDesiredInfo,
// ApplyConfigChanges and the frame cycle must all run on the consumer
// goroutine; Release may additionally be called from another goroutine
// to unblock a parked WaitForFrame.
type Capture interface {
	CaptureMethod() CaptureMethod
	DisplayID() int32

	SetRealInfo(info DisplayInfo)
	SetDesiredInfo(info DisplayInfo)

	// ApplyConfigChanges (re)creates the virtual output from the
	// latest real/desired info, tearing down any running one first.
	ApplyConfigChanges() error

	// WaitForFrame unlocks any buffer held from a prior read, then
	// blocks until the producer signals a completed frame.
	WaitForFrame() error

	// ConsumePendingFrame locks the next buffer and fills frame with
	// its descriptor. A failure is recoverable: return to
	// WaitForFrame.
	ConsumePendingFrame(frame *Frame) error

	HasPendingFrame() bool

	// Release tears down the session. Idempotent.
	Release()
}

// Output is an opaque handle to a compositor-side virtual output.
type Output interface {
	Name() string
}

// Transaction is the atomic publish of a virtual output: surface
// binding, display projection and layer stack are applied together,
// all-or-nothing.
type Transaction struct {
	Output         Output
	Surface        *bufstream.Producer
	Orientation    uint8
	LayerStackRect image.Rectangle
	VisibleRect    image.Rectangle
	LayerStack     uint32
}

// Composer is the session handle to the compositing service.
type Composer interface {
	InitCheck() error
	DisplayInfo(displayID int32) (DisplayInfo, error)
	CreateOutput(name string, secure bool) (Output, error)
	DestroyOutput(o Output) error
	Commit(t *Transaction) error
}
