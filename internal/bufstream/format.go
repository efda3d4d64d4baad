package bufstream

// Format is the native pixel format code carried by a graphics buffer.
// Negative values are the compositor's opaque framebuffer aliases.
type Format int32

const (
	FormatNone     Format = 0
	FormatRGBA8888 Format = 1
	FormatRGBX8888 Format = 2
	FormatRGB888   Format = 3
	FormatRGB565   Format = 4
	FormatBGRA8888 Format = 5
	FormatRGBA5551 Format = 6
	FormatRGBA4444 Format = 7

	FormatOpaque      Format = -1
	FormatTransparent Format = -2
	FormatTranslucent Format = -3
	FormatCustom      Format = -4
)

// BytesPerPixel returns the pixel width in bytes for a native format,
// or 0 when the format has no defined memory layout.
func BytesPerPixel(f Format) uint32 {
	switch f {
	case FormatRGBA8888, FormatRGBX8888, FormatBGRA8888,
		FormatOpaque, FormatTransparent, FormatTranslucent:
		return 4
	case FormatRGB888:
		return 3
	case FormatRGB565, FormatRGBA5551, FormatRGBA4444:
		return 2
	default:
		return 0
	}
}
