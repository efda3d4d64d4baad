//go:build linux

package compositor

import (
	"errors"

	"golang.org/x/sys/unix"
)

// mapFrame maps a sealed frame memfd read-only and closes the fd. The
// mapping is valid until unmapFrame.
func mapFrame(fd, size int) ([]byte, error) {
	defer unix.Close(fd)

	if size <= 0 {
		return nil, errors.New("frame payload has no size")
	}
	return unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func unmapFrame(data []byte) {
	_ = unix.Munmap(data)
}
