//go:build !linux

package compositor

import "errors"

var errMappingUnsupported = errors.New("frame payload mapping is not supported on this platform")

func mapFrame(fd, size int) ([]byte, error) {
	return nil, errMappingUnsupported
}

func unmapFrame(data []byte) {}
