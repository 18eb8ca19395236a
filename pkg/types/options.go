// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// DefaultDPI is the resolution forwarded to renderers when none is given.
const DefaultDPI = 600

// MaxSide bounds the width and height, in pixels, of any output image.
const MaxSide = 32768

// TraceMode selects the curve fitting used by the tracer.
type TraceMode string

const (
	ModeSpline  TraceMode = "spline"
	ModePolygon TraceMode = "polygon"
	ModePixel   TraceMode = "none"
)

// ColorMode selects between full colour and black/white tracing.
type ColorMode string

const (
	ColorModeColor  ColorMode = "color"
	ColorModeBinary ColorMode = "binary"
)

// Hierarchy selects how traced shapes are layered.
type Hierarchy string

const (
	HierarchyStacked Hierarchy = "stacked"
	HierarchyCutout  Hierarchy = "cutout"
)

// Preset names a bundle of tracing defaults.
type Preset string

const (
	PresetHigh   Preset = "high"
	PresetSimple Preset = "simple"
)

// TraceOptions holds the parameters forwarded to the raster-to-vector
// tracer.
type TraceOptions struct {
	Mode            TraceMode `json:"mode" yaml:"mode"`
	ColorMode       ColorMode `json:"colormode" yaml:"colormode"`
	Hierarchical    Hierarchy `json:"hierarchical" yaml:"hierarchical"`
	FilterSpeckle   int       `json:"filter_speckle" yaml:"filter_speckle"`
	ColorPrecision  int       `json:"color_precision" yaml:"color_precision"`
	LayerDifference float64   `json:"layer_difference" yaml:"layer_difference"`
	CornerThreshold float64   `json:"corner_threshold" yaml:"corner_threshold"`
	LengthThreshold float64   `json:"length_threshold" yaml:"length_threshold"`
	MaxIterations   int       `json:"max_iterations" yaml:"max_iterations"`
	SpliceThreshold float64   `json:"splice_threshold" yaml:"splice_threshold"`
	PathPrecision   int       `json:"path_precision" yaml:"path_precision"`
}

// DefaultTraceOptions returns the high quality preset.
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{
		Mode:            ModeSpline,
		ColorMode:       ColorModeColor,
		Hierarchical:    HierarchyStacked,
		FilterSpeckle:   4,
		ColorPrecision:  6,
		LayerDifference: 16,
		CornerThreshold: 60,
		LengthThreshold: 4.0,
		MaxIterations:   10,
		SpliceThreshold: 45,
		PathPrecision:   3,
	}
}

// TraceOptionsForPreset returns the defaults for the named preset.
func TraceOptionsForPreset(p Preset) (TraceOptions, error) {
	o := DefaultTraceOptions()
	switch p {
	case "", PresetHigh:
		return o, nil
	case PresetSimple:
		o.ColorPrecision = 8
		o.MaxIterations = 20
		return o, nil
	}
	return o, fmt.Errorf("unknown preset %q (want high or simple)", p)
}

// ParseColorMode maps user input to a ColorMode. The spellings
// "binary-fast" and "curve" are accepted for compatibility and trace in
// black and white.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "color", "colour":
		return ColorModeColor, nil
	case "binary", "binary-fast", "curve", "bw":
		return ColorModeBinary, nil
	}
	return "", fmt.Errorf("unknown colormode %q", s)
}

// UnmarshalText accepts every spelling ParseColorMode does.
func (m *ColorMode) UnmarshalText(text []byte) error {
	v, err := ParseColorMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalYAML accepts every spelling ParseColorMode does.
func (m *ColorMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}

// Validate reports the first out-of-range tracing parameter.
func (o TraceOptions) Validate() error {
	switch o.Mode {
	case ModeSpline, ModePolygon, ModePixel:
	default:
		return fmt.Errorf("unknown mode %q (want spline, polygon or none)", o.Mode)
	}
	switch o.ColorMode {
	case ColorModeColor, ColorModeBinary:
	default:
		return fmt.Errorf("unknown colormode %q", o.ColorMode)
	}
	switch o.Hierarchical {
	case HierarchyStacked, HierarchyCutout:
	default:
		return fmt.Errorf("unknown hierarchical mode %q (want stacked or cutout)", o.Hierarchical)
	}
	if o.ColorPrecision < 1 || o.ColorPrecision > 8 {
		return fmt.Errorf("color precision %d out of range 1-8", o.ColorPrecision)
	}
	if o.FilterSpeckle < 0 {
		return fmt.Errorf("filter speckle must not be negative, got %d", o.FilterSpeckle)
	}
	if o.LayerDifference < 0 {
		return fmt.Errorf("layer difference must not be negative, got %g", o.LayerDifference)
	}
	if o.CornerThreshold < 0 || o.CornerThreshold > 180 {
		return fmt.Errorf("corner threshold %g out of range 0-180", o.CornerThreshold)
	}
	if o.LengthThreshold < 3.5 || o.LengthThreshold > 10 {
		return fmt.Errorf("length threshold %g out of range 3.5-10", o.LengthThreshold)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be positive, got %d", o.MaxIterations)
	}
	if o.SpliceThreshold < 0 || o.SpliceThreshold > 180 {
		return fmt.Errorf("splice threshold %g out of range 0-180", o.SpliceThreshold)
	}
	if o.PathPrecision < 0 {
		return fmt.Errorf("path precision must not be negative, got %d", o.PathPrecision)
	}
	return nil
}

// RasterOptions holds the parameters forwarded to SVG rasterizers.
type RasterOptions struct {
	DPI        int     `json:"dpi" yaml:"dpi"`
	Scale      float64 `json:"scale" yaml:"scale"`
	Width      int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int     `json:"height,omitempty" yaml:"height,omitempty"`
	Background string  `json:"background,omitempty" yaml:"background,omitempty"`
}

// DefaultRasterOptions returns 600 DPI at scale 1 on a transparent
// background.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{DPI: DefaultDPI, Scale: 1.0}
}

// Validate reports the first invalid raster parameter.
func (o RasterOptions) Validate() error {
	return validateSize(o.DPI, o.Scale, o.Width, o.Height)
}

// PDFOptions holds the parameters forwarded when exporting SVG to PDF.
type PDFOptions struct {
	DPI        int     `json:"dpi" yaml:"dpi"`
	Scale      float64 `json:"scale" yaml:"scale"`
	Background string  `json:"background,omitempty" yaml:"background,omitempty"`
}

// DefaultPDFOptions returns 600 DPI at scale 1.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{DPI: DefaultDPI, Scale: 1.0}
}

// Validate reports the first invalid PDF export parameter.
func (o PDFOptions) Validate() error {
	return validateSize(o.DPI, o.Scale, 0, 0)
}

// PageOptions holds the parameters forwarded to the PDF page renderer.
// FirstPage and LastPage are 1-based; zero means "from the start" and
// "to the end".
type PageOptions struct {
	DPI        int    `json:"dpi" yaml:"dpi"`
	FirstPage  int    `json:"first_page,omitempty" yaml:"first_page,omitempty"`
	LastPage   int    `json:"last_page,omitempty" yaml:"last_page,omitempty"`
	Width      int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int    `json:"height,omitempty" yaml:"height,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
}

// DefaultPageOptions returns all pages at 600 DPI.
func DefaultPageOptions() PageOptions {
	return PageOptions{DPI: DefaultDPI}
}

// Validate reports the first invalid page rendering parameter.
func (o PageOptions) Validate() error {
	if err := validateSize(o.DPI, 1, o.Width, o.Height); err != nil {
		return err
	}
	if o.FirstPage < 0 || o.LastPage < 0 {
		return errors.New("page numbers must not be negative")
	}
	if o.LastPage != 0 && o.FirstPage > o.LastPage {
		return fmt.Errorf("first page %d is after last page %d", o.FirstPage, o.LastPage)
	}
	return nil
}

// PageRange clamps the requested range to a document of n pages and
// returns 1-based inclusive bounds.
func (o PageOptions) PageRange(n int) (first, last int, err error) {
	first, last = o.FirstPage, o.LastPage
	if first == 0 {
		first = 1
	}
	if last == 0 || last > n {
		last = n
	}
	if first > n {
		return 0, 0, fmt.Errorf("first page %d beyond document end (%d pages)", first, n)
	}
	return first, last, nil
}

func validateSize(dpi int, scale float64, width, height int) error {
	if dpi <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", dpi)
	}
	if scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", scale)
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("width and height must not be negative, got %dx%d", width, height)
	}
	if width > MaxSide || height > MaxSide {
		return fmt.Errorf("width and height must not exceed %d, got %dx%d", MaxSide, width, height)
	}
	return nil
}

// Options bundles the per-kind options so a single value can drive any
// conversion.
type Options struct {
	Trace  TraceOptions  `json:"trace" yaml:"trace"`
	Raster RasterOptions `json:"raster" yaml:"raster"`
	PDF    PDFOptions    `json:"pdf" yaml:"pdf"`
	Page   PageOptions   `json:"page" yaml:"page"`
}

// DefaultOptions returns the defaults for every kind.
func DefaultOptions() Options {
	return Options{
		Trace:  DefaultTraceOptions(),
		Raster: DefaultRasterOptions(),
		PDF:    DefaultPDFOptions(),
		Page:   DefaultPageOptions(),
	}
}

// WithDPI returns a copy with dpi applied to every kind that renders.
func (o Options) WithDPI(dpi int) Options {
	if dpi <= 0 {
		return o
	}
	o.Raster.DPI = dpi
	o.PDF.DPI = dpi
	o.Page.DPI = dpi
	return o
}
