// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"io"
	"math"
	"strconv"

	"github.com/pdiddy/vectorconv/internal/container"
	"github.com/pdiddy/vectorconv/pkg/types"
)

// Canonical engine names.
const (
	NameVtracer  = "vtracer"
	NameRsvg     = "rsvg-convert"
	NameInkscape = "inkscape"
	NamePdftoppm = "pdftoppm"
)

// Set holds one Tool per engine.
type Set struct {
	Vtracer  *Tool
	Rsvg     *Tool
	Inkscape *Tool
	Pdftoppm *Tool
}

// NewSet builds the engine set from configuration. rt may be nil; it is
// only consulted when cfg.Image is set.
func NewSet(cfg types.EngineConfig, rt container.Runtime) *Set {
	return newSet(cfg, rt, osExecutor{})
}

func newSet(cfg types.EngineConfig, rt container.Runtime, exec executor) *Set {
	mk := func(name, bin string, stdio bool, versionArgs ...string) *Tool {
		if bin == "" {
			bin = name
		}
		return &Tool{
			name:        name,
			bin:         bin,
			versionArgs: versionArgs,
			stdio:       stdio,
			timeout:     cfg.Timeout,
			exec:        exec,
			rt:          rt,
			image:       cfg.Image,
		}
	}
	return &Set{
		Vtracer:  mk(NameVtracer, cfg.Vtracer, false, "--version"),
		Rsvg:     mk(NameRsvg, cfg.Rsvg, true, "--version"),
		Inkscape: mk(NameInkscape, cfg.Inkscape, false, "--version"),
		Pdftoppm: mk(NamePdftoppm, cfg.Pdftoppm, true, "-v"),
	}
}

// Tools returns the engines in display order.
func (s *Set) Tools() []*Tool {
	return []*Tool{s.Vtracer, s.Rsvg, s.Inkscape, s.Pdftoppm}
}

// Trace runs vtracer on the bitmap at in and writes the SVG to out.
func (s *Set) Trace(ctx context.Context, in, out string, o types.TraceOptions) error {
	return s.Vtracer.Run(ctx, traceArgs(in, out, o), nil, nil)
}

// RsvgPNG renders the SVG read from svg into PNG bytes written to w.
func (s *Set) RsvgPNG(ctx context.Context, svg io.Reader, o types.RasterOptions, w io.Writer) error {
	return s.Rsvg.Run(ctx, rsvgPNGArgs(o), svg, w)
}

// RsvgPDF renders the SVG read from svg into a PDF written to w.
func (s *Set) RsvgPDF(ctx context.Context, svg io.Reader, o types.PDFOptions, w io.Writer) error {
	return s.Rsvg.Run(ctx, rsvgPDFArgs(o), svg, w)
}

// InkscapePNG exports the SVG at in to a PNG at out.
func (s *Set) InkscapePNG(ctx context.Context, in, out string, o types.RasterOptions) error {
	return s.Inkscape.Run(ctx, inkscapePNGArgs(in, out, o), nil, nil)
}

// InkscapePDF exports the SVG at in to a PDF at out.
func (s *Set) InkscapePDF(ctx context.Context, in, out string, o types.PDFOptions) error {
	return s.Inkscape.Run(ctx, inkscapePDFArgs(in, out, o), nil, nil)
}

// PdftoppmPage renders one 1-based page of the PDF read from pdf as PNG
// bytes written to w.
func (s *Set) PdftoppmPage(ctx context.Context, pdf io.Reader, page int, o types.PageOptions, w io.Writer) error {
	return s.Pdftoppm.Run(ctx, pdftoppmArgs(page, o), pdf, w)
}

func traceArgs(in, out string, o types.TraceOptions) []string {
	colormode := "color"
	if o.ColorMode == types.ColorModeBinary {
		colormode = "bw"
	}
	mode := string(o.Mode)
	if o.Mode == types.ModePixel {
		mode = "pixel"
	}
	return []string{
		"--input", in,
		"--output", out,
		"--colormode", colormode,
		"--hierarchical", string(o.Hierarchical),
		"--mode", mode,
		"--filter_speckle", strconv.Itoa(o.FilterSpeckle),
		"--color_precision", strconv.Itoa(o.ColorPrecision),
		"--gradient_step", roundInt(o.LayerDifference),
		"--corner_threshold", roundInt(o.CornerThreshold),
		"--segment_length", formatFloat(o.LengthThreshold),
		"--splice_threshold", roundInt(o.SpliceThreshold),
		"--path_precision", strconv.Itoa(o.PathPrecision),
	}
}

func rsvgPNGArgs(o types.RasterOptions) []string {
	args := []string{
		"--format", "png",
		"--dpi-x", strconv.Itoa(o.DPI),
		"--dpi-y", strconv.Itoa(o.DPI),
		"--zoom", formatFloat(o.Scale),
	}
	if o.Width > 0 {
		args = append(args, "--width", strconv.Itoa(o.Width))
	}
	if o.Height > 0 {
		args = append(args, "--height", strconv.Itoa(o.Height))
	}
	if (o.Width > 0) != (o.Height > 0) {
		args = append(args, "--keep-aspect-ratio")
	}
	if o.Background != "" {
		args = append(args, "--background-color", o.Background)
	}
	return args
}

func rsvgPDFArgs(o types.PDFOptions) []string {
	args := []string{
		"--format", "pdf",
		"--dpi-x", strconv.Itoa(o.DPI),
		"--dpi-y", strconv.Itoa(o.DPI),
		"--zoom", formatFloat(o.Scale),
	}
	if o.Background != "" {
		args = append(args, "--background-color", o.Background)
	}
	return args
}

// Inkscape has no zoom flag, so scale is folded into the export DPI.
func inkscapePNGArgs(in, out string, o types.RasterOptions) []string {
	args := []string{
		in,
		"--export-type=png",
		"--export-filename=" + out,
		"--export-dpi=" + roundInt(float64(o.DPI)*o.Scale),
	}
	if o.Width > 0 {
		args = append(args, "--export-width="+strconv.Itoa(o.Width))
	}
	if o.Height > 0 {
		args = append(args, "--export-height="+strconv.Itoa(o.Height))
	}
	if o.Background != "" {
		args = append(args, "--export-background="+o.Background, "--export-background-opacity=1")
	}
	return args
}

func inkscapePDFArgs(in, out string, o types.PDFOptions) []string {
	args := []string{
		in,
		"--export-type=pdf",
		"--export-filename=" + out,
		"--export-dpi=" + roundInt(float64(o.DPI)*o.Scale),
	}
	if o.Background != "" {
		args = append(args, "--export-background="+o.Background, "--export-background-opacity=1")
	}
	return args
}

// pdftoppm reads the document from stdin ("-") and, with -singlefile and no
// output root, writes the PNG to stdout.
func pdftoppmArgs(page int, o types.PageOptions) []string {
	p := strconv.Itoa(page)
	args := []string{
		"-png",
		"-r", strconv.Itoa(o.DPI),
		"-f", p,
		"-l", p,
		"-singlefile",
	}
	if o.Width > 0 || o.Height > 0 {
		w, h := -1, -1
		if o.Width > 0 {
			w = o.Width
		}
		if o.Height > 0 {
			h = o.Height
		}
		args = append(args, "-scale-to-x", strconv.Itoa(w), "-scale-to-y", strconv.Itoa(h))
	}
	return append(args, "-")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func roundInt(f float64) string {
	return strconv.Itoa(int(math.Round(f)))
}
