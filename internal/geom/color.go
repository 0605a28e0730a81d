package geom

import (
	"fmt"
	"image/color"
)

// Color is a packed 32-bit RGBA value: red in the lowest byte, then green,
// blue and alpha. Alpha 0 is fully transparent, 255 fully opaque.
type Color uint32

// Common colors.
const (
	Black            Color = 0xFF000000
	White            Color = 0xFFFFFFFF
	TransparentWhite Color = 0x00FFFFFF
)

const byteMask = 0xFF

// RGBA packs the four channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// RGB packs an opaque color.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, byteMask)
}

func (c Color) R() uint8 { return uint8(c & byteMask) }
func (c Color) G() uint8 { return uint8((c >> 8) & byteMask) }
func (c Color) B() uint8 { return uint8((c >> 16) & byteMask) }
func (c Color) A() uint8 { return uint8((c >> 24) & byteMask) }

// Opaque reports whether alpha is 255.
func (c Color) Opaque() bool { return c.A() == byteMask }

// Transparent reports whether alpha is 0.
func (c Color) Transparent() bool { return c.A() == 0 }

// AlphaFrac returns alpha in [0, 1].
func (c Color) AlphaFrac() float64 { return float64(c.A()) / byteMask }

// Hex formats the color channels as "#RRGGBB", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R(), c.G(), c.B())
}

// NRGBA converts to the non-premultiplied standard library color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// FromColor converts any color.Color into a packed Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA(n.R, n.G, n.B, n.A)
}
