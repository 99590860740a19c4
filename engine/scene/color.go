package scene

// Color is a background color attachment with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// DefaultClearColor is the color a surface is cleared to before any scene is bound.
var DefaultClearColor = ColorFromRGBA(0x103030ff)

// ColorFromRGBA unpacks a 0xRRGGBBAA value.
func ColorFromRGBA(rgba uint32) Color {
	return Color{
		R: float64(rgba>>24&0xff) / 255,
		G: float64(rgba>>16&0xff) / 255,
		B: float64(rgba>>8&0xff) / 255,
		A: float64(rgba&0xff) / 255,
	}
}

// RGBA packs the color back into 0xRRGGBBAA, clamping each channel.
func (c Color) RGBA() uint32 {
	return uint32(channel(c.R))<<24 | uint32(channel(c.G))<<16 | uint32(channel(c.B))<<8 | uint32(channel(c.A))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
