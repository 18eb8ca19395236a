// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster renders SVG documents in-process. It is the last-resort
// SVG to PNG method when neither rsvg-convert nor Inkscape is usable, and
// also renders PDF pages extracted by package pdfpage. Parsing and
// scan conversion are done by oksvg and rasterx; resizing by nfnt/resize.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/nfnt/resize"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/pdiddy/vectorconv/pkg/types"
)

// MaxSide bounds either dimension of a rendered or resized image.
const MaxSide = types.MaxSide

// ErrNoSize is returned for documents without a usable viewBox or size.
var ErrNoSize = errors.New("svg has no intrinsic size")

// Rasterize parses the SVG read from r and renders it at zoom times its
// intrinsic size. When bg is non-nil the canvas is filled with it first.
func Rasterize(r io.Reader, zoom float64, bg color.Color) (*image.RGBA, error) {
	if zoom <= 0 {
		return nil, fmt.Errorf("zoom must be positive, got %g", zoom)
	}
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, ErrNoSize
	}

	w := int(math.Round(icon.ViewBox.W * zoom))
	h := int(math.Round(icon.ViewBox.H * zoom))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("rendered size %dx%d exceeds %d pixels per side", w, h, MaxSide)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}

// Fit resizes img to width x height. When only one dimension is given the
// other follows the aspect ratio; when neither is given img is returned
// unchanged. A target larger than MaxSide on either side is an error.
func Fit(img image.Image, width, height int) (image.Image, error) {
	b := img.Bounds()
	if (width <= 0 && height <= 0) || b.Empty() {
		return img, nil
	}
	width, height = max(width, 0), max(height, 0)

	w, h := width, height
	if w == 0 {
		w = int(math.Round(float64(b.Dx()) * float64(h) / float64(b.Dy())))
	}
	if h == 0 {
		h = int(math.Round(float64(b.Dy()) * float64(w) / float64(b.Dx())))
	}
	if w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("resized size %dx%d exceeds %d pixels per side", w, h, MaxSide)
	}
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3), nil
}

// Render rasterizes an SVG with the given options: scale sets the zoom,
// width and height resize the result and background fills the canvas.
func Render(r io.Reader, o types.RasterOptions) (image.Image, error) {
	bg, err := ParseColor(o.Background)
	if err != nil {
		return nil, err
	}
	img, err := Rasterize(r, o.Scale, bg)
	if err != nil {
		return nil, err
	}
	return Fit(img, o.Width, o.Height)
}
