// Package colormap maps normalized scalars to RGB colors under a small
// set of palettes suited to heatmap rendering.
package colormap

import (
	"fmt"
	"math"
	"strings"
)

// RGB is one color, 0-255 per channel.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as "#rrggbb" for terminal styling.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette selects a color map.
type Palette int

const (
	Viridis Palette = iota
	Plasma
	Rainbow
	BlueRed
)

// Next cycles to the following palette.
func (p Palette) Next() Palette {
	switch p {
	case Viridis:
		return Plasma
	case Plasma:
		return Rainbow
	case Rainbow:
		return BlueRed
	default:
		return Viridis
	}
}

// Name returns the display name.
func (p Palette) Name() string {
	switch p {
	case Viridis:
		return "Viridis"
	case Plasma:
		return "Plasma"
	case Rainbow:
		return "Rainbow"
	case BlueRed:
		return "Blue-Red"
	}
	return "Viridis"
}

// ParsePalette resolves a palette by name, case-insensitively.
func ParsePalette(name string) (Palette, error) {
	switch strings.ToLower(name) {
	case "viridis":
		return Viridis, nil
	case "plasma":
		return Plasma, nil
	case "rainbow":
		return Rainbow, nil
	case "bluered", "blue-red":
		return BlueRed, nil
	}
	return Viridis, fmt.Errorf("unknown palette %q", name)
}

// Color maps t in [0,1] to a color. t is clamped.
func (p Palette) Color(t float64) RGB {
	t = math.Min(1, math.Max(0, t))
	switch p {
	case Plasma:
		return segments(t, plasmaLow, plasmaMid, plasmaHigh)
	case Rainbow:
		return rainbow(t)
	case BlueRed:
		return blueRed(t)
	default:
		return segments(t, viridisLow, viridisMid, viridisHigh)
	}
}

// Two-segment piecewise-linear approximations anchored at t=0, 0.5, 1.
var (
	viridisLow  = RGB{68, 1, 84}
	viridisMid  = RGB{33, 104, 109}
	viridisHigh = RGB{253, 231, 37}

	plasmaLow  = RGB{13, 8, 135}
	plasmaMid  = RGB{180, 54, 121}
	plasmaHigh = RGB{240, 175, 12}
)

func segments(t float64, low, mid, high RGB) RGB {
	if t < 0.5 {
		return lerp(low, mid, t*2)
	}
	return lerp(mid, high, (t-0.5)*2)
}

func lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
	}
}

// rainbow sweeps HSV hue from 240° (blue) to 0° (red) at full
// saturation and value.
func rainbow(t float64) RGB {
	h := (1 - t) * 240
	x := 1 - math.Abs(math.Mod(h/60, 2)-1)

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = 1, x, 0
	case h < 120:
		r, g, b = x, 1, 0
	case h < 180:
		r, g, b = 0, 1, x
	default:
		r, g, b = 0, x, 1
	}
	return RGB{uint8(r * 255), uint8(g * 255), uint8(b * 255)}
}

// blueRed is a diverging map: blue→white over [0,0.5], white→red over
// [0.5,1].
func blueRed(t float64) RGB {
	if t < 0.5 {
		c := uint8(t * 2 * 255)
		return RGB{c, c, 255}
	}
	c := uint8((1 - (t-0.5)*2) * 255)
	return RGB{255, c, c}
}

// SafeRange floors a degenerate value range so normalization never
// divides by zero; a constant field maps to one color.
func SafeRange(min, max float64) float64 {
	r := max - min
	if math.Abs(r) < 1e-10 {
		return 1
	}
	return r
}
