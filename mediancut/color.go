package mediancut

import (
	"fmt"
	"image/color"
	"math"
)

// Channel selects one component of a Color.
type Channel int

// Channel constants, in the order they are stored in a Color.
const (
	Red Channel = iota
	Green
	Blue
)

func (ch Channel) String() string {
	switch ch {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("Channel(%d)", int(ch))
}

// Color is a 3 channel color, always in R, G, B order. Channels are
// usually in the range 0-255, but averaged palette colors keep their
// fractional part.
type Color [3]float64

// RGB returns a Color from 8-bit channel values.
func RGB(r, g, b uint8) Color {
	return Color{float64(r), float64(g), float64(b)}
}

// ColorFrom converts any color.Color to a Color. Alpha is dropped, and
// the channels are un-premultiplied first so translucent pixels keep
// their hue.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB(n.R, n.G, n.B)
}

// At returns the value of the given channel.
func (c Color) At(ch Channel) float64 {
	return c[ch]
}

// Distance returns the Euclidean distance between two colors.
func (c Color) Distance(o Color) float64 {
	dr := c[Red] - o[Red]
	dg := c[Green] - o[Green]
	db := c[Blue] - o[Blue]
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// NRGBA returns the color as an opaque color.NRGBA. Channels are clamped
// to 0-255 and the fractional part is truncated.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{toByte(c[Red]), toByte(c[Green]), toByte(c[Blue]), 255}
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c Color) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func toByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
