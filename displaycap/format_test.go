package displaycap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go2tv.app/displaycap/internal/bufstream"
)

func TestConvertFormat(t *testing.T) {
	assert.Equal(t, FormatRGBA8888, convertFormat(bufstream.FormatRGBA8888))
	assert.Equal(t, FormatRGBX8888, convertFormat(bufstream.FormatRGBX8888))
	assert.Equal(t, FormatRGB888, convertFormat(bufstream.FormatRGB888))
	assert.Equal(t, FormatRGB565, convertFormat(bufstream.FormatRGB565))
	assert.Equal(t, FormatBGRA8888, convertFormat(bufstream.FormatBGRA8888))
	assert.Equal(t, FormatRGBA5551, convertFormat(bufstream.FormatRGBA5551))
	assert.Equal(t, FormatRGBA4444, convertFormat(bufstream.FormatRGBA4444))
	assert.Equal(t, FormatNone, convertFormat(bufstream.FormatNone))
	assert.Equal(t, FormatOpaque, convertFormat(bufstream.FormatOpaque))
	assert.Equal(t, FormatTransparent, convertFormat(bufstream.FormatTransparent))
	assert.Equal(t, FormatTranslucent, convertFormat(bufstream.FormatTranslucent))
	assert.Equal(t, FormatCustom, convertFormat(bufstream.FormatCustom))
}

func TestConvertFormatUnmappedFallsBack(t *testing.T) {
	assert.Equal(t, FormatUnknown, convertFormat(bufstream.Format(42)))
	assert.Equal(t, FormatUnknown, convertFormat(bufstream.Format(-99)))
}

func TestPixelFormatString(t *testing.T) {
	assert.Equal(t, "RGBA_8888", FormatRGBA8888.String())
	assert.Equal(t, "BGRA_8888", FormatBGRA8888.String())
	assert.Equal(t, "NONE", FormatNone.String())
	assert.Equal(t, "UNKNOWN", FormatUnknown.String())
	assert.Equal(t, "UNKNOWN", PixelFormat(200).String())
}

func TestNewDisplayInfoDerivesDiagonal(t *testing.T) {
	info := NewDisplayInfo(1080, 1920, 0, 60, 2.0, 480, 480, true)
	// sqrt((1080/480)^2 + (1920/480)^2)
	assert.InDelta(t, 4.589, info.Size, 0.01)
	assert.True(t, info.Secure)

	zero := NewDisplayInfo(1080, 1920, 0, 60, 2.0, 0, 0, false)
	assert.Zero(t, zero.Size)
}
