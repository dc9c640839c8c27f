package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/draw"
)

func TestNewSurface(t *testing.T) {
	s, err := NewSurface(40, 30)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	if s.Width() != 40 || s.Height() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", s.Width(), s.Height())
	}

	// New surfaces start transparent.
	if _, _, _, a := s.Image().At(0, 0).RGBA(); a != 0 {
		t.Errorf("alpha: got %d, want 0", a)
	}
}

func TestNewSurface_Invalid(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		_, err := NewSurface(dims[0], dims[1])
		if !errors.Is(err, ErrEmptyImage) {
			t.Errorf("NewSurface(%d, %d): got %v, want ErrEmptyImage", dims[0], dims[1], err)
		}
	}
}

func TestSurface_Fill(t *testing.T) {
	s, _ := NewSurface(10, 10)
	if err := s.Fill(color.RGBA{255, 255, 255, 255}); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	for _, p := range []image.Point{{0, 0}, {9, 9}, {5, 3}} {
		if got := s.Image().RGBAAt(p.X, p.Y); got != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("pixel %v: got %v, want opaque white", p, got)
		}
	}
}

func TestSurface_DrawImage_Copy(t *testing.T) {
	src := createPatternImage(20, 20)
	s, _ := NewSurface(20, 20)

	if err := s.DrawImage(src, Rect{0, 0, 20, 20}, image.Rect(0, 0, 20, 20), draw.Src); err != nil {
		t.Fatalf("DrawImage failed: %v", err)
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if s.Image().RGBAAt(x, y) != src.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, s.Image().RGBAAt(x, y), src.RGBAAt(x, y))
			}
		}
	}
}

func TestSurface_DrawImage_SourceRegion(t *testing.T) {
	src := createPatternImage(100, 100)
	s, _ := NewSurface(10, 10)

	// The bottom-right quadrant of the pattern is white, scaled 5x down.
	if err := s.DrawImage(src, Rect{50, 50, 50, 50}, image.Rect(0, 0, 10, 10), draw.Src); err != nil {
		t.Fatalf("DrawImage failed: %v", err)
	}
	if got := s.Image().RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("center: got %v, want white", got)
	}

	// The top-left quadrant is red.
	if err := s.DrawImage(src, Rect{0, 0, 50, 50}, image.Rect(0, 0, 10, 10), draw.Src); err != nil {
		t.Fatalf("DrawImage failed: %v", err)
	}
	if got := s.Image().RGBAAt(5, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("center: got %v, want red", got)
	}
}

func TestSurface_DrawImage_OffsetSource(t *testing.T) {
	full := createPatternImage(100, 100)
	sub := full.SubImage(image.Rect(50, 0, 100, 50)) // green quadrant, Min at (50,0)

	s, _ := NewSurface(10, 10)
	if err := s.DrawImage(sub, Rect{0, 0, 50, 50}, image.Rect(0, 0, 10, 10), draw.Src); err != nil {
		t.Fatalf("DrawImage failed: %v", err)
	}
	if got := s.Image().RGBAAt(5, 5); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("center: got %v, want green", got)
	}
}

func TestSurface_DrawImage_UnscaledRegion(t *testing.T) {
	src := createGradientImage(120, 80)
	s, _ := NewSurface(40, 26)

	tests := []Rect{
		{40, 0, 40, 26},
		{0, 26, 40, 26},
		{80, 52, 40, 26},
	}
	for _, sr := range tests {
		if err := s.DrawImage(src, sr, image.Rect(0, 0, 40, 26), draw.Src); err != nil {
			t.Fatalf("DrawImage(%v) failed: %v", sr, err)
		}
		for _, p := range []image.Point{{0, 0}, {39, 0}, {0, 25}, {39, 25}} {
			want := src.RGBAAt(int(sr.X)+p.X, int(sr.Y)+p.Y)
			if got := s.Image().RGBAAt(p.X, p.Y); got != want {
				t.Errorf("region %v pixel %v: got %v, want %v", sr, p, got, want)
			}
		}
	}
}

func TestSurface_DrawImage_Clipped(t *testing.T) {
	src := createInMemoryImage(10, 10, color.RGBA{0, 0, 255, 255})
	s, _ := NewSurface(10, 10)

	// Destination partly outside the surface.
	if err := s.DrawImage(src, Rect{0, 0, 10, 10}, image.Rect(5, 5, 15, 15), draw.Src); err != nil {
		t.Fatalf("DrawImage failed: %v", err)
	}
	if got := s.Image().RGBAAt(7, 7); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("inside clip: got %v, want blue", got)
	}
	if _, _, _, a := s.Image().At(2, 2).RGBA(); a != 0 {
		t.Errorf("outside draw: alpha %d, want 0", a)
	}
}

func TestSurface_DrawImage_EmptyRect(t *testing.T) {
	src := createInMemoryImage(10, 10, color.RGBA{0, 0, 255, 255})
	s, _ := NewSurface(10, 10)

	if err := s.DrawImage(src, Rect{0, 0, 0, 10}, image.Rect(0, 0, 10, 10), draw.Src); err == nil {
		t.Error("DrawImage should fail for an empty source rectangle")
	}
	if err := s.DrawImage(src, Rect{0, 0, 10, 10}, image.Rectangle{}, draw.Src); err == nil {
		t.Error("DrawImage should fail for an empty destination rectangle")
	}
	if err := s.DrawImage(src, Rect{50, 50, 10, 10}, image.Rect(0, 0, 10, 10), draw.Src); err == nil {
		t.Error("DrawImage should fail for a source region outside the image")
	}
}

func TestSurface_DrawSurface(t *testing.T) {
	dst, _ := NewSurface(20, 20)
	dst.Fill(color.RGBA{255, 255, 255, 255})

	tile, _ := NewSurface(5, 5)
	tile.Fill(color.RGBA{255, 0, 0, 255})

	if err := dst.DrawSurface(tile, image.Pt(10, 10)); err != nil {
		t.Fatalf("DrawSurface failed: %v", err)
	}
	if got := dst.Image().RGBAAt(12, 12); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside tile: got %v, want red", got)
	}
	if got := dst.Image().RGBAAt(9, 9); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside tile: got %v, want white", got)
	}
}

func TestSurface_DrawSurface_TransparentKeepsBase(t *testing.T) {
	dst, _ := NewSurface(4, 4)
	dst.Fill(color.RGBA{255, 255, 255, 255})
	tile, _ := NewSurface(4, 4) // transparent

	if err := dst.DrawSurface(tile, image.Point{}); err != nil {
		t.Fatalf("DrawSurface failed: %v", err)
	}
	if got := dst.Image().RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("got %v, want the white base to show through", got)
	}
}

func TestSurface_Release(t *testing.T) {
	s, _ := NewSurface(10, 10)
	s.Release()

	if s.Width() != 0 || s.Height() != 0 {
		t.Errorf("dimensions after Release: got %dx%d, want 0x0", s.Width(), s.Height())
	}
	if s.Image() != nil {
		t.Error("Image() should be nil after Release")
	}
	if err := s.Fill(color.Black); !errors.Is(err, ErrReleased) {
		t.Errorf("Fill after Release: got %v, want ErrReleased", err)
	}
	src := createInMemoryImage(2, 2, color.Black)
	if err := s.DrawImage(src, Rect{0, 0, 2, 2}, image.Rect(0, 0, 2, 2), draw.Src); !errors.Is(err, ErrReleased) {
		t.Errorf("DrawImage after Release: got %v, want ErrReleased", err)
	}

	// Releasing twice is harmless.
	s.Release()
}
