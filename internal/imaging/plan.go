package imaging

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultMaxPixels is the pixel ceiling of a compressed image.
	DefaultMaxPixels = 4_000_000

	// DefaultTilePixels is the output pixel count above which the redraw is
	// split into tiles.
	DefaultTilePixels = 1_000_000

	// DefaultQuality is the lossy quality factor on a 0.0-1.0 scale.
	DefaultQuality = 0.1

	// DefaultBackground is the opaque base colour under the redrawn image.
	DefaultBackground = "#ffffff"
)

// ErrEmptyImage is returned for images with zero width or height.
var ErrEmptyImage = errors.New("image has zero width or height")

// Options are the parameters of the compression routine.
//
// Zero fields fall back to the Default* constants, so the zero Options value
// reproduces Compress exactly.
type Options struct {
	// MaxPixels is the pixel ceiling of the output surface.
	MaxPixels int `json:"max_pixels" yaml:"max_pixels"`

	// TilePixels is the output pixel count that switches on tiled drawing.
	TilePixels int `json:"tile_pixels" yaml:"tile_pixels"`

	// Quality is the lossy quality factor (0.0-1.0, 1.0 near lossless).
	Quality float64 `json:"quality" yaml:"quality"`

	// Background is a "#rgb" or "#rrggbb" colour painted under the image.
	Background string `json:"background" yaml:"background"`
}

// DefaultOptions returns the options used by Compress.
func DefaultOptions() Options {
	return Options{
		MaxPixels:  DefaultMaxPixels,
		TilePixels: DefaultTilePixels,
		Quality:    DefaultQuality,
		Background: DefaultBackground,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxPixels <= 0 {
		o.MaxPixels = d.MaxPixels
	}
	if o.TilePixels <= 0 {
		o.TilePixels = d.TilePixels
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = d.Quality
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	return o
}

// Plan is the dimension math of one compression: how far the source is
// downscaled and how the redraw is tiled.
type Plan struct {
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	// Ratio is the uniform downscale factor, 1 when no downscale happens.
	Ratio float64 `json:"ratio"`

	// Width and Height are the output surface dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Tiled reports whether the redraw goes through the tile surface.
	Tiled bool `json:"tiled"`

	// Count is the number of tiles per axis (1 for a direct draw).
	Count int `json:"count"`

	// TileWidth and TileHeight are the tile surface dimensions. For a direct
	// draw they equal Width and Height.
	TileWidth  int `json:"tile_width"`
	TileHeight int `json:"tile_height"`

	// source pixels per output pixel on each axis; both equal Ratio unless
	// the output was clamped
	scaleX, scaleY float64
}

// NewPlan computes the Plan for a width x height source.
//
// Pixel counts are real numbers during the ratio math and are truncated
// only when they become surface dimensions, so an output may be one pixel
// short per axis of the ideal size. Outputs never shrink below 1x1; when an
// extreme aspect ratio forces an axis up to 1 pixel the other axis is
// reduced so the pixel ceiling still holds.
func NewPlan(width, height int, opts Options) (Plan, error) {
	if width <= 0 || height <= 0 {
		return Plan{}, fmt.Errorf("plan %dx%d: %w", width, height, ErrEmptyImage)
	}
	opts = opts.withDefaults()

	w, h := float64(width), float64(height)
	ratio := w * h / float64(opts.MaxPixels)
	if ratio > 1 {
		ratio = math.Sqrt(ratio)
		w /= ratio
		h /= ratio
	} else {
		ratio = 1
	}

	p := Plan{
		SourceWidth:  width,
		SourceHeight: height,
		Ratio:        ratio,
		Width:        int(w),
		Height:       int(h),
		Count:        1,
		scaleX:       ratio,
		scaleY:       ratio,
	}
	if p.Width < 1 || p.Height < 1 {
		p.clampOutput(opts.MaxPixels)
		w, h = float64(p.Width), float64(p.Height)
	}

	tiles := w * h / float64(opts.TilePixels)
	if tiles > 1 {
		p.Tiled = true
		p.Count = int(math.Sqrt(tiles) + 1)
		p.TileWidth = max(int(w/float64(p.Count)), 1)
		p.TileHeight = max(int(h/float64(p.Count)), 1)
	} else {
		p.TileWidth = p.Width
		p.TileHeight = p.Height
	}
	return p, nil
}

func (p *Plan) clampOutput(maxPixels int) {
	if p.Width < 1 {
		p.Width = 1
		p.Height = min(max(p.Height, 1), maxPixels)
	}
	if p.Height < 1 {
		p.Height = 1
		p.Width = min(max(p.Width, 1), maxPixels)
	}
	p.scaleX = float64(p.SourceWidth) / float64(p.Width)
	p.scaleY = float64(p.SourceHeight) / float64(p.Height)
}

// Pixels returns the output pixel count.
func (p Plan) Pixels() int {
	return p.Width * p.Height
}
