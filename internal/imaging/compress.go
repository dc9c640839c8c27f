package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// MimeType is the media type of every compressed image.
const MimeType = "image/jpeg"

// Result is a compressed image.
type Result struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
	Plan     Plan   `json:"plan"`
}

// Compress downscales img to at most DefaultMaxPixels and re-encodes it as a
// JPEG at DefaultQuality.
func Compress(img image.Image) ([]byte, error) {
	res, err := CompressWithOptions(img, Options{})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// CompressWithOptions is Compress with explicit routine parameters.
//
// The image is redrawn onto an opaque background, since JPEG has no alpha
// channel. Outputs above opts.TilePixels are redrawn tile by tile through a
// scratch surface so no single draw has to scale a very large region.
// Either complete JPEG bytes or an error is returned, never both.
func CompressWithOptions(img image.Image, opts Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("compress: %w", ErrEmptyImage)
	}
	opts = opts.withDefaults()

	bg, err := ParseBackground(opts.Background)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	plan, err := NewPlan(b.Dx(), b.Dy(), opts)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	out, err := render(img, plan, bg)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	defer out.Release()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out.Image(), imaging.JPEG, imaging.JPEGQuality(jpegQuality(opts.Quality))); err != nil {
		return nil, fmt.Errorf("compress: failed to encode image: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		MimeType: MimeType,
		Plan:     plan,
	}, nil
}

// render draws img onto a new bg-filled output surface as the plan says.
// The caller releases the returned surface.
func render(img image.Image, plan Plan, bg color.Color) (*Surface, error) {
	out, err := NewSurface(plan.Width, plan.Height)
	if err != nil {
		return nil, fmt.Errorf("output surface: %w", err)
	}
	if err := out.Fill(bg); err != nil {
		out.Release()
		return nil, err
	}

	src := drawableSource(img)
	if plan.Tiled {
		err = drawTiled(out, src, plan)
	} else {
		full := image.Rect(0, 0, plan.Width, plan.Height)
		err = out.DrawImage(src, plan.sourceRect(0, 0, plan.Width, plan.Height), full, draw.Over)
	}
	if err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// drawTiled redraws src onto out in a Count x Count grid of TileWidth x
// TileHeight cells, reusing one tile surface. The strips the grid leaves
// uncovered on the right and bottom are under Count pixels wide and are
// drawn directly.
func drawTiled(out *Surface, src image.Image, plan Plan) error {
	tile, err := NewSurface(plan.TileWidth, plan.TileHeight)
	if err != nil {
		return fmt.Errorf("tile surface: %w", err)
	}
	defer tile.Release()

	nw, nh := plan.TileWidth, plan.TileHeight
	tileRect := image.Rect(0, 0, nw, nh)
	for i := 0; i < plan.Count; i++ {
		for j := 0; j < plan.Count; j++ {
			x, y := i*nw, j*nh
			if x >= plan.Width || y >= plan.Height {
				continue
			}
			if err := tile.Clear(); err != nil {
				return err
			}
			if err := tile.DrawImage(src, plan.sourceRect(x, y, nw, nh), tileRect, draw.Src); err != nil {
				return fmt.Errorf("tile (%d,%d): %w", i, j, err)
			}
			if err := out.DrawSurface(tile, image.Pt(x, y)); err != nil {
				return fmt.Errorf("tile (%d,%d): %w", i, j, err)
			}
		}
	}

	covered := image.Pt(min(plan.Count*nw, plan.Width), min(plan.Count*nh, plan.Height))
	if covered.X < plan.Width {
		r := image.Rect(covered.X, 0, plan.Width, plan.Height)
		if err := out.DrawImage(src, plan.sourceRect(r.Min.X, 0, r.Dx(), r.Dy()), r, draw.Over); err != nil {
			return fmt.Errorf("right edge: %w", err)
		}
	}
	if covered.Y < plan.Height {
		r := image.Rect(0, covered.Y, covered.X, plan.Height)
		if err := out.DrawImage(src, plan.sourceRect(0, r.Min.Y, r.Dx(), r.Dy()), r, draw.Over); err != nil {
			return fmt.Errorf("bottom edge: %w", err)
		}
	}
	return nil
}

// sourceRect maps an output rectangle back onto the source image.
func (p Plan) sourceRect(x, y, w, h int) Rect {
	sx, sy := p.scaleX, p.scaleY
	if sx == 0 {
		sx = p.Ratio
	}
	if sy == 0 {
		sy = p.Ratio
	}
	return Rect{
		X: float64(x) * sx,
		Y: float64(y) * sy,
		W: float64(w) * sx,
		H: float64(h) * sy,
	}
}

// drawableSource converts sources without a fast resampling path to RGBA
// once, so tiles do not pay the generic colour conversion per draw.
func drawableSource(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.YCbCr, *image.Gray:
		return img
	default:
		return clone.AsRGBA(img)
	}
}

// ParseBackground parses a "#rgb" or "#rrggbb" colour into an opaque colour.
func ParseBackground(hex string) (color.RGBA, error) {
	if hex == "" {
		hex = DefaultBackground
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid background colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// jpegQuality maps a 0.0-1.0 quality factor onto JPEG's 1-100 scale.
func jpegQuality(q float64) int {
	return min(max(int(math.Round(q*100)), 1), 100)
}
