// Package capture is the unified frontend over the displaycap core:
// session entry points plus an io.ReadCloser stream of raw frames.
package capture

import (
	"errors"
	"fmt"

	"go2tv.app/displaycap/displaycap"
	"go2tv.app/displaycap/internal/compositor"
)

var (
	ErrInvalidOptions = errors.New("invalid capture options")
	ErrUnknownMethod  = errors.New("unknown capture method")
	ErrNoDisplayInfo  = errors.New("unable to query display info")
)

// Options configures an Open call.
type Options struct {
	// DisplayID selects the display to capture. Default is 0.
	DisplayID int32

	// Method selects the capture strategy. Default is the virtual
	// display.
	Method displaycap.CaptureMethod

	// Width/Height request a capture geometry. Zero means the
	// display's real size.
	Width  uint32
	Height uint32

	// Orientation requests a projection orientation (0-3).
	Orientation uint8

	// QueueSize bounds the async frame queue between the capture loop
	// and the reader. Default is 4.
	QueueSize int
}

// StartDispatcher starts the process-wide IPC dispatch. It must be
// called once per process before any session is usable.
func StartDispatcher() error {
	return compositor.StartDispatcher()
}

// Create returns a virtual-display capture session for displayID.
func Create(displayID int32) (displaycap.Capture, error) {
	return CreateWithMethod(displayID, displaycap.MethodVirtualDisplay)
}

// CreateWithMethod returns a capture session using the given method.
func CreateWithMethod(displayID int32, method displaycap.CaptureMethod) (displaycap.Capture, error) {
	switch method {
	case displaycap.MethodVirtualDisplay:
		client, err := compositor.NewClient()
		if err != nil {
			return nil, err
		}
		return displaycap.NewVirtualDisplay(displayID, client), nil
	case displaycap.MethodScreenshot:
		return displaycap.NewScreenshotCapture(displayID), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, method)
	}
}

// Free releases a session and all of its resources. Safe to call more
// than once.
func Free(c displaycap.Capture) {
	if c != nil {
		c.Release()
	}
}

// TryGetDisplayInfo queries a display's real geometry and metrics.
// The second return is false when the display is unknown or the query
// fails; failures are logged with their cause.
func TryGetDisplayInfo(displayID int32) (displaycap.DisplayInfo, bool) {
	client, err := compositor.NewClient()
	if err != nil {
		captureDebugf("display=%d info query failed: %v", displayID, err)
		return displaycap.DisplayInfo{}, false
	}

	info, err := client.DisplayInfo(displayID)
	if err != nil {
		captureDebugf("display=%d info query failed: %v", displayID, err)
		return displaycap.DisplayInfo{}, false
	}
	return info, true
}
