// Package palette implements the pure palette(mode, t, position) -> RGB
// function of spec.md §3/§4.3: effects emit a scalar intensity and are
// otherwise color-agnostic, and this package turns that intensity (plus
// pixel position and render time, for Rainbow's traveling hue) into a
// final RGB triplet. The piecewise-linear color-ramp idiom (Fire/Ocean/
// Sunset/Matrix) follows the teacher's gradient/heatmap rendering style
// (internal/widget/matrix.go, internal/shared/render), expressed here over
// golang.org/x/image/colornames named endpoints instead of the teacher's
// single-channel grayscale ramps.
package palette

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"
)

// Mode is the tagged color-mode value of spec.md §3.
type Mode int

const (
	Rainbow Mode = iota
	Fire
	Ocean
	Sunset
	Matrix
	Custom
)

// ParseMode maps the §6 JSON string to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "rainbow":
		return Rainbow, true
	case "fire":
		return Fire, true
	case "ocean":
		return Ocean, true
	case "sunset":
		return Sunset, true
	case "matrix":
		return Matrix, true
	case "custom":
		return Custom, true
	default:
		return 0, false
	}
}

func (m Mode) String() string {
	switch m {
	case Rainbow:
		return "rainbow"
	case Fire:
		return "fire"
	case Ocean:
		return "ocean"
	case Sunset:
		return "sunset"
	case Matrix:
		return "matrix"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Custom(r,g,b) carries its own fixed color, components in [0,1].
type CustomColor struct {
	R, G, B float64
}

// Params bundles the palette function's inputs.
type Params struct {
	Mode        Mode
	Intensity   float64 // effect's scalar output, clamped to [0,1]
	X, W        int     // pixel column and matrix width, for Rainbow's hue ramp
	TimeSeconds float64
	Custom      CustomColor
}

var (
	fireRamp   = []color.RGBA{rgba(colornames.Black), rgba(colornames.Red), rgba(colornames.Orange), rgba(colornames.Yellow), rgba(colornames.White)}
	oceanRamp  = []color.RGBA{rgba(colornames.Navy), rgba(colornames.Teal), rgba(colornames.Cyan), rgba(colornames.White)}
	sunsetRamp = []color.RGBA{rgba(colornames.Purple), rgba(colornames.Magenta), rgba(colornames.Orange), rgba(colornames.Yellow)}
	matrixRamp = []color.RGBA{rgba(colornames.Black), rgba(colornames.Darkgreen), rgba(colornames.Green), {R: 0xC0, G: 0xFF, B: 0xC0, A: 0xFF}}
)

func rgba(c color.RGBA) color.RGBA { return c }

// Eval computes the final RGB triplet for the given parameters.
func Eval(p Params) (r, g, b uint8) {
	t := clamp01(p.Intensity)
	switch p.Mode {
	case Rainbow:
		hue := fract(float64(p.X)/float64(maxInt(p.W, 1)) + p.TimeSeconds*0.1)
		return hsv(hue, 1.0, t)
	case Fire:
		return ramp(fireRamp, t)
	case Ocean:
		return ramp(oceanRamp, t)
	case Sunset:
		return ramp(sunsetRamp, t)
	case Matrix:
		return ramp(matrixRamp, t)
	case Custom:
		return uint8(p.Custom.R*t*255 + 0.5), uint8(p.Custom.G*t*255 + 0.5), uint8(p.Custom.B*t*255 + 0.5)
	default:
		return 0, 0, 0
	}
}

// ramp linearly interpolates across a list of color stops by t in [0,1].
func ramp(stops []color.RGBA, t float64) (r, g, b uint8) {
	if len(stops) == 0 {
		return 0, 0, 0
	}
	if t <= 0 {
		c := stops[0]
		return c.R, c.G, c.B
	}
	if t >= 1 {
		c := stops[len(stops)-1]
		return c.R, c.G, c.B
	}
	segments := len(stops) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	localT := pos - float64(i)
	a, bb := stops[i], stops[i+1]
	r = uint8(float64(a.R)*(1-localT) + float64(bb.R)*localT + 0.5)
	g = uint8(float64(a.G)*(1-localT) + float64(bb.G)*localT + 0.5)
	b = uint8(float64(a.B)*(1-localT) + float64(bb.B)*localT + 0.5)
	return
}

// hsv converts HSV (hue in [0,1], sat in [0,1], val in [0,1]) to RGB8,
// matching the Rainbow mode's "hue=..., sat=1, val=intensity" definition.
func hsv(h, s, v float64) (r, g, b uint8) {
	if s <= 0 {
		c := uint8(v*255 + 0.5)
		return c, c, c
	}
	h = fract(h) * 6
	i := int(h)
	f := h - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var rf, gf, bf float64
	switch i % 6 {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}
	return uint8(rf*255 + 0.5), uint8(gf*255 + 0.5), uint8(bf*255 + 0.5)
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
