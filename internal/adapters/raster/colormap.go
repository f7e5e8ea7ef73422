package raster

import (
	"image/color"
	"sort"
)

// anchor is one control point of a colormap: a position in [0,1] and an
// RGB color.
type anchor struct {
	pos     float64
	r, g, b uint8
}

// Colormap maps a normalized value in [0,1] to a color by linear
// interpolation between anchors.
type Colormap struct {
	name    string
	anchors []anchor
}

// Built-in colormaps. "seismic" is the diverging default for signed
// fields, "viridis" the sequential default for densities.
var builtin = map[string]Colormap{
	"seismic": {
		name: "seismic",
		anchors: []anchor{
			{0.00, 0, 0, 76},
			{0.25, 0, 0, 255},
			{0.50, 255, 255, 255},
			{0.75, 255, 0, 0},
			{1.00, 127, 0, 0},
		},
	},
	"viridis": {
		name: "viridis",
		anchors: []anchor{
			{0.00, 68, 1, 84},
			{0.25, 59, 82, 139},
			{0.50, 33, 145, 140},
			{0.75, 94, 201, 98},
			{1.00, 253, 231, 37},
		},
	},
	"inferno": {
		name: "inferno",
		anchors: []anchor{
			{0.00, 0, 0, 4},
			{0.25, 87, 16, 110},
			{0.50, 188, 55, 84},
			{0.75, 249, 142, 9},
			{1.00, 252, 255, 164},
		},
	},
	"coolwarm": {
		name: "coolwarm",
		anchors: []anchor{
			{0.00, 59, 76, 192},
			{0.50, 221, 221, 221},
			{1.00, 180, 4, 38},
		},
	},
}

// Lookup returns the named colormap.
func Lookup(name string) (Colormap, bool) {
	c, ok := builtin[name]
	return c, ok
}

// Exists reports whether name is a known colormap. Used to validate
// overrides at argument-parsing time.
func Exists(name string) bool {
	_, ok := builtin[name]
	return ok
}

// Names returns the names of all built-in colormaps, sorted for stable
// error messages.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// At returns the color for t, clamping t to [0,1].
func (c Colormap) At(t float64) color.NRGBA {
	if t <= 0 || len(c.anchors) == 0 {
		return c.anchorColor(0)
	}
	if t >= 1 {
		return c.anchorColor(len(c.anchors) - 1)
	}

	for i := 1; i < len(c.anchors); i++ {
		hi := c.anchors[i]
		if t > hi.pos {
			continue
		}
		lo := c.anchors[i-1]
		span := hi.pos - lo.pos
		f := 0.0
		if span > 0 {
			f = (t - lo.pos) / span
		}
		return color.NRGBA{
			R: lerp(lo.r, hi.r, f),
			G: lerp(lo.g, hi.g, f),
			B: lerp(lo.b, hi.b, f),
			A: 0xFF,
		}
	}
	return c.anchorColor(len(c.anchors) - 1)
}

func (c Colormap) anchorColor(i int) color.NRGBA {
	if len(c.anchors) == 0 {
		return color.NRGBA{A: 0xFF}
	}
	a := c.anchors[i]
	return color.NRGBA{R: a.r, G: a.g, B: a.b, A: 0xFF}
}

func lerp(a, b uint8, f float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*f
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
