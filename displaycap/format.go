package displaycap

import "go2tv.app/displaycap/internal/bufstream"

// PixelFormat is the normalized pixel format reported on a Frame.
type PixelFormat uint32

const (
	FormatNone PixelFormat = iota
	FormatCustom
	FormatTranslucent
	FormatTransparent
	FormatOpaque
	FormatRGBA8888
	FormatRGBX8888
	FormatRGB888
	FormatRGB565
	FormatBGRA8888
	FormatRGBA5551
	FormatRGBA4444
	FormatUnknown
)

func (f PixelFormat) String() string {
	switch f {
	case FormatNone:
		return "NONE"
	case FormatCustom:
		return "CUSTOM"
	case FormatTranslucent:
		return "TRANSLUCENT"
	case FormatTransparent:
		return "TRANSPARENT"
	case FormatOpaque:
		return "OPAQUE"
	case FormatRGBA8888:
		return "RGBA_8888"
	case FormatRGBX8888:
		return "RGBX_8888"
	case FormatRGB888:
		return "RGB_888"
	case FormatRGB565:
		return "RGB_565"
	case FormatBGRA8888:
		return "BGRA_8888"
	case FormatRGBA5551:
		return "RGBA_5551"
	case FormatRGBA4444:
		return "RGBA_4444"
	default:
		return "UNKNOWN"
	}
}

// convertFormat maps a native buffer format to the normalized enum.
// Unmapped codes fall back to FormatUnknown.
func convertFormat(f bufstream.Format) PixelFormat {
	switch f {
	case bufstream.FormatNone:
		return FormatNone
	case bufstream.FormatCustom:
		return FormatCustom
	case bufstream.FormatTranslucent:
		return FormatTranslucent
	case bufstream.FormatTransparent:
		return FormatTransparent
	case bufstream.FormatOpaque:
		return FormatOpaque
	case bufstream.FormatRGBA8888:
		return FormatRGBA8888
	case bufstream.FormatRGBX8888:
		return FormatRGBX8888
	case bufstream.FormatRGB888:
		return FormatRGB888
	case bufstream.FormatRGB565:
		return FormatRGB565
	case bufstream.FormatBGRA8888:
		return FormatBGRA8888
	case bufstream.FormatRGBA5551:
		return FormatRGBA5551
	case bufstream.FormatRGBA4444:
		return FormatRGBA4444
	default:
		return FormatUnknown
	}
}
