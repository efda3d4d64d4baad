package capture

import (
	"fmt"
	"time"
)

const defaultFirstFrameTimeout = 8 * time.Second

func validateOpenOptions(options *Options) (*Options, error) {
	if options == nil {
		options = &Options{}
	}
	if options.DisplayID < 0 {
		return nil, fmt.Errorf("%w: DisplayID must be >= 0", ErrInvalidOptions)
	}
	if options.Orientation > 3 {
		return nil, fmt.Errorf("%w: Orientation must be 0-3", ErrInvalidOptions)
	}
	if (options.Width == 0) != (options.Height == 0) {
		return nil, fmt.Errorf("%w: Width and Height must be set together", ErrInvalidOptions)
	}
	return options, nil
}

func waitForFirstFrame(method string, ready <-chan struct{}, onTimeout func() error) error {
	select {
	case <-ready:
		return nil
	case <-time.After(defaultFirstFrameTimeout):
		if onTimeout != nil {
			_ = onTimeout()
		}
		return fmt.Errorf("%s capture timed out waiting for first frame", method)
	}
}
