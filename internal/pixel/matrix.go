// Package pixel implements the W×H RGB pixel matrix shared by the Effect
// Engine, LED Output, and Control Plane, grounded in the teacher's flat
// framebuffer convention (internal/bitmap/draw.go, which packs an image.Gray
// into a flat byte slice for transport) generalized from 1 channel/pixel
// 1bpp to 3 channels/pixel 8bpp RGB.
package pixel

import (
	"image"

	"golang.org/x/image/draw"
)

// Matrix is a W×H grid of RGB triplets stored as a flat byte slice,
// Pix[3*(y*W+x)+0..2] = R,G,B. This is the wire format spec.md §3 names for
// the pixel matrix data model.
type Matrix struct {
	W, H int
	Pix  []uint8
}

// New allocates a zeroed (black) matrix of the given size.
func New(w, h int) *Matrix {
	return &Matrix{W: w, H: h, Pix: make([]uint8, w*h*3)}
}

// Clear zeros every channel (effects call it to start a frame from black).
func (m *Matrix) Clear() {
	for i := range m.Pix {
		m.Pix[i] = 0
	}
}

// Set writes one pixel's RGB triplet. Coordinates outside the matrix are
// ignored, so Set never panics on out-of-range input.
func (m *Matrix) Set(x, y int, r, g, b uint8) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return
	}
	i := (y*m.W + x) * 3
	m.Pix[i] = r
	m.Pix[i+1] = g
	m.Pix[i+2] = b
}

// At returns one pixel's RGB triplet.
func (m *Matrix) At(x, y int) (r, g, b uint8) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return 0, 0, 0
	}
	i := (y*m.W + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// CopyFrom overwrites m's contents with src's (both must be the same size).
func (m *Matrix) CopyFrom(src *Matrix) {
	copy(m.Pix, src.Pix)
}

// Blend linearly interpolates between a and b per-pixel by progress p in
// [0,1] and writes the result into dst: dst[i] = round(a[i]*(1-p) + b[i]*p).
// This is the cross-fade composition step of spec.md §4.3 step 3, a plain
// linear alpha blend — the RGB generalization of the teacher's
// applyDissolveFade (internal/shared/anim/transition.go), which does the
// same per-channel blend over single-channel Gray images.
func Blend(dst, a, b *Matrix, p float64) {
	if p <= 0 {
		dst.CopyFrom(a)
		return
	}
	if p >= 1 {
		dst.CopyFrom(b)
		return
	}
	for i := range dst.Pix {
		av := float64(a.Pix[i])
		bv := float64(b.Pix[i])
		dst.Pix[i] = uint8(av*(1-p) + bv*p + 0.5)
	}
}

// ScaleBrightness multiplies every channel of src by factor in [0,1] and
// writes the result into dst, matching spec.md §8's
// F'[i] = round(F[i]*b) invariant.
func ScaleBrightness(dst, src *Matrix, factor float64) {
	for i := range src.Pix {
		dst.Pix[i] = uint8(float64(src.Pix[i])*factor + 0.5)
	}
}

// ToImage returns an image.RGBA view suitable for golang.org/x/image/draw
// resizing, copying m's pixels (opaque alpha).
func (m *Matrix) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			r, g, b := m.At(x, y)
			o := img.PixOffset(x, y)
			img.Pix[o] = r
			img.Pix[o+1] = g
			img.Pix[o+2] = b
			img.Pix[o+3] = 255
		}
	}
	return img
}

// Resize produces a new Matrix of size (w,h) resampled from m using
// nearest-neighbor interpolation, satisfying the "components must tolerate
// reconfiguration" invariant of spec.md §3 when W/H change at runtime.
func (m *Matrix) Resize(w, h int) *Matrix {
	src := m.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := dst.PixOffset(x, y)
			out.Set(x, y, dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2])
		}
	}
	return out
}
