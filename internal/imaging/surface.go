package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ErrReleased is returned when drawing on a surface after Release.
var ErrReleased = errors.New("surface has been released")

// Interpolator resamples source pixels whenever a draw scales.
var Interpolator draw.Interpolator = draw.ApproxBiLinear

// Rect is a source rectangle in real-valued pixel coordinates, relative to
// the source image's top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Surface is an off-screen raster buffer.
//
// A Surface owns its pixel memory until Release, after which its dimensions
// are zero and every draw fails with ErrReleased.
type Surface struct {
	img *image.RGBA
}

// NewSurface allocates a transparent width x height surface.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface %dx%d: %w", width, height, ErrEmptyImage)
	}
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// Width returns the surface width, 0 after Release.
func (s *Surface) Width() int {
	if s.img == nil {
		return 0
	}
	return s.img.Rect.Dx()
}

// Height returns the surface height, 0 after Release.
func (s *Surface) Height() int {
	if s.img == nil {
		return 0
	}
	return s.img.Rect.Dy()
}

// Image exposes the backing buffer. It is nil after Release.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Fill paints every pixel with c.
func (s *Surface) Fill(c color.Color) error {
	if s.img == nil {
		return ErrReleased
	}
	draw.Draw(s.img, s.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() error {
	return s.Fill(color.Transparent)
}

// DrawImage draws the sr region of src into dr on the surface, scaling as
// needed. Destination pixels outside the surface are clipped.
func (s *Surface) DrawImage(src image.Image, sr Rect, dr image.Rectangle, op draw.Op) error {
	if s.img == nil {
		return ErrReleased
	}
	if sr.W <= 0 || sr.H <= 0 || dr.Empty() {
		return fmt.Errorf("draw %v -> %v: %w", sr, dr, ErrEmptyImage)
	}

	sb := src.Bounds()
	kx := float64(dr.Dx()) / sr.W
	ky := float64(dr.Dy()) / sr.H
	ox := float64(sb.Min.X) + sr.X
	oy := float64(sb.Min.Y) + sr.Y

	// One pixel of slack keeps the interpolator's neighbours identical to a
	// draw over the whole source.
	read := image.Rect(
		int(math.Floor(ox))-1,
		int(math.Floor(oy))-1,
		int(math.Ceil(ox+sr.W))+1,
		int(math.Ceil(oy+sr.H))+1,
	).Intersect(sb)
	if read.Empty() {
		return fmt.Errorf("draw %v: source region outside image bounds %v", sr, sb)
	}

	dst, ok := s.img.SubImage(dr).(*image.RGBA)
	if !ok || dst.Rect.Empty() {
		return nil
	}

	// Unscaled draws at whole-pixel offsets are plain copies. Transform's
	// own translation shortcut offsets Y by the source's Min.X, so it is
	// bypassed here.
	if kx == 1 && ky == 1 && ox == math.Trunc(ox) && oy == math.Trunc(oy) {
		sp := image.Pt(int(ox)+dst.Rect.Min.X-dr.Min.X, int(oy)+dst.Rect.Min.Y-dr.Min.Y)
		draw.Draw(dst, dst.Rect, src, sp, op)
		return nil
	}

	s2d := f64.Aff3{
		kx, 0, float64(dr.Min.X) - ox*kx,
		0, ky, float64(dr.Min.Y) - oy*ky,
	}
	Interpolator.Transform(dst, s2d, src, read, op, nil)
	return nil
}

// DrawSurface composites other onto s with its top-left corner at at.
func (s *Surface) DrawSurface(other *Surface, at image.Point) error {
	if s.img == nil || other.img == nil {
		return ErrReleased
	}
	r := image.Rectangle{Min: at, Max: at.Add(other.img.Rect.Size())}
	draw.Draw(s.img, r, other.img, image.Point{}, draw.Over)
	return nil
}

// Release drops the pixel buffer. It is safe to call more than once.
func (s *Surface) Release() {
	s.img = nil
}
