package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go2tv.app/displaycap/internal/bufstream"
)

func newTestBuffer(width, height, stride uint32) *bufstream.Buffer {
	return &bufstream.Buffer{
		Data:   make([]byte, int(stride)*int(height)*4),
		Width:  width,
		Height: height,
		Stride: stride,
		Format: bufstream.FormatRGBA8888,
	}
}

func TestCopyRowsHonorsBothStrides(t *testing.T) {
	// 2x2 payload with a 4-pixel source stride.
	src := make([]byte, 4*2*4)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			off := (y*4 + x) * 4
			src[off] = byte(10*y + x)
		}
	}

	buf := newTestBuffer(2, 2, 8)
	copyRows(buf, src, 2, 2, 4, bufstream.FormatRGBA8888)

	assert.Equal(t, byte(0), buf.Data[0])
	assert.Equal(t, byte(1), buf.Data[4])
	assert.Equal(t, byte(10), buf.Data[8*4])
	assert.Equal(t, byte(11), buf.Data[8*4+4])
}

func TestCopyRowsClampsToSmallerGeometry(t *testing.T) {
	src := make([]byte, 8*8*4)
	for i := range src {
		src[i] = 0xFF
	}

	buf := newTestBuffer(4, 4, 4)
	copyRows(buf, src, 8, 8, 8, bufstream.FormatRGBA8888)

	// Buffer is filled completely but nothing beyond it is touched.
	for i, b := range buf.Data {
		assert.Equal(t, byte(0xFF), b, "byte %d", i)
	}
}

func TestCopyRowsUnknownFormatFallsBackToBufferFormat(t *testing.T) {
	src := make([]byte, 2*2*4)
	src[0] = 0x42

	buf := newTestBuffer(2, 2, 2)
	copyRows(buf, src, 2, 2, 2, bufstream.FormatNone)

	assert.Equal(t, byte(0x42), buf.Data[0])
}

func TestCopyRowsNoPixelLayoutIsNoop(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	buf := newTestBuffer(1, 1, 1)
	buf.Format = bufstream.FormatNone

	copyRows(buf, src, 1, 1, 1, bufstream.FormatNone)
	assert.Equal(t, byte(0), buf.Data[0])
}
