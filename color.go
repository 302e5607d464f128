package treelight

import "math"

// Color is an additive color accumulator. The zero value is "empty": it has
// contributed nothing yet and packs to 0. Empty is distinct from a color that
// was explicitly set to black; adding an empty color to anything is a no-op.
//
// Channels are unbounded while accumulating. Only Pack clamps them, so
// several generators can be merged without losing headroom in between.
type Color struct {
	R, G, B float64
	set     bool
}

// RGB creates a color from the given channel values. An all-zero color is
// the empty sentinel, matching what generators return for "off" pixels.
func RGB(r, g, b float64) Color {
	return Color{
		R: r, G: g, B: b,
		set: r != 0 || g != 0 || b != 0,
	}
}

// Empty reports whether the color has had no contribution yet.
func (c Color) Empty() bool {
	return !c.set
}

// Add merges other into c. Adding empty is a no-op; adding to empty adopts
// the other color's channels.
func (c Color) Add(other Color) Color {
	if !other.set {
		return c
	}
	if !c.set {
		return other
	}
	c.R += other.R
	c.G += other.G
	c.B += other.B
	return c
}

// Scale multiplies each channel by f. Negative factors are treated as 0.
// Scaling an empty color keeps it empty.
func (c Color) Scale(f float64) Color {
	if !c.set {
		return c
	}
	if f < 0 {
		f = 0
	}
	c.R *= f
	c.G *= f
	c.B *= f
	return c
}

// Pack clamps each channel to [0, 255], rounds, and packs the result into
// the wire layout the strip controller expects: red in bits 8-15, green in
// bits 16-23, blue in bits 0-7. An empty color packs to 0.
func (c Color) Pack() uint32 {
	if !c.set {
		return 0
	}
	return packChannel(c.R)<<8 | packChannel(c.G)<<16 | packChannel(c.B)
}

func packChannel(v float64) uint32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(math.Round(v))
}

// UnpackColor splits a packed pixel back into its 8-bit channels.
func UnpackColor(v uint32) (r, g, b uint8) {
	return uint8(v >> 8), uint8(v >> 16), uint8(v)
}

// Wheel generates rainbow colors across positions 0-255. The cycle runs
// green -> red -> blue -> green in three 85-wide linear segments.
func Wheel(pos int) Color {
	pos &= 255
	switch {
	case pos < 85:
		return RGB(float64(pos*3), float64(255-pos*3), 0)
	case pos < 170:
		pos -= 85
		return RGB(float64(255-pos*3), 0, float64(pos*3))
	default:
		pos -= 170
		return RGB(0, float64(pos*3), float64(255-pos*3))
	}
}

// FixColor returns one of six fixed palette entries, or white for any index
// outside the table.
func FixColor(i int) Color {
	switch i {
	case 0:
		return RGB(255, 0, 0)
	case 1:
		return RGB(0, 255, 0)
	case 2:
		return RGB(0, 0, 255)
	case 3:
		return RGB(128, 128, 0)
	case 4:
		return RGB(0, 128, 128)
	case 5:
		return RGB(128, 0, 128)
	default:
		return RGB(255, 255, 255)
	}
}
