// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/vectorconv/internal/convert"
	"github.com/pdiddy/vectorconv/pkg/types"
)

// addOutputFlags registers the flags shared by the single-file commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output file, or output directory when INPUT is a pattern")
	cmd.Flags().Bool("skip-existing", false, "skip inputs whose output already exists")
}

// addDPIFlag registers --dpi; unset means the configured default.
func addDPIFlag(fs *pflag.FlagSet, usage string) {
	fs.Int("dpi", types.DefaultDPI, usage)
}

func addTraceFlags(fs *pflag.FlagSet) {
	d := types.DefaultTraceOptions()
	fs.String("preset", string(types.PresetHigh), "tracing preset: high or simple")
	fs.String("mode", string(d.Mode), "curve fitting: spline, polygon or none")
	fs.String("colormode", string(d.ColorMode), "color or binary (binary-fast and curve are accepted)")
	fs.String("hierarchical", string(d.Hierarchical), "shape layering: stacked or cutout")
	fs.Int("filter-speckle", d.FilterSpeckle, "discard patches smaller than this many pixels")
	fs.Int("color-precision", d.ColorPrecision, "significant bits per RGB channel (1-8)")
	fs.Float64("layer-difference", d.LayerDifference, "color difference between gradient layers")
	fs.Float64("corner-threshold", d.CornerThreshold, "minimum angle in degrees to be a corner")
	fs.Float64("length-threshold", d.LengthThreshold, "minimum segment length (3.5-10)")
	fs.Int("max-iterations", d.MaxIterations, "maximum curve fitting iterations")
	fs.Float64("splice-threshold", d.SpliceThreshold, "minimum angle displacement in degrees to splice a spline")
	fs.Int("path-precision", d.PathPrecision, "decimal places in path coordinates")
}

// traceOptions builds tracing options from the preset and every flag the
// user set explicitly.
func traceOptions(fs *pflag.FlagSet) (types.TraceOptions, error) {
	preset, _ := fs.GetString("preset")
	o, err := types.TraceOptionsForPreset(types.Preset(preset))
	if err != nil {
		return o, err
	}
	if fs.Changed("mode") {
		v, _ := fs.GetString("mode")
		o.Mode = types.TraceMode(v)
	}
	if fs.Changed("colormode") {
		v, _ := fs.GetString("colormode")
		if o.ColorMode, err = types.ParseColorMode(v); err != nil {
			return o, err
		}
	}
	if fs.Changed("hierarchical") {
		v, _ := fs.GetString("hierarchical")
		o.Hierarchical = types.Hierarchy(v)
	}
	changedInt(fs, "filter-speckle", &o.FilterSpeckle)
	changedInt(fs, "color-precision", &o.ColorPrecision)
	changedFloat(fs, "layer-difference", &o.LayerDifference)
	changedFloat(fs, "corner-threshold", &o.CornerThreshold)
	changedFloat(fs, "length-threshold", &o.LengthThreshold)
	changedInt(fs, "max-iterations", &o.MaxIterations)
	changedFloat(fs, "splice-threshold", &o.SpliceThreshold)
	changedInt(fs, "path-precision", &o.PathPrecision)
	return o, o.Validate()
}

func addSizeFlags(fs *pflag.FlagSet) {
	fs.Int("width", 0, "output width in pixels (height follows the aspect ratio when unset)")
	fs.Int("height", 0, "output height in pixels (width follows the aspect ratio when unset)")
}

func addBackgroundFlag(fs *pflag.FlagSet) {
	fs.String("background", "", "background color (name or #RRGGBB[AA]); transparent when empty")
}

func addScaleFlag(fs *pflag.FlagSet) {
	fs.Float64("scale", 1.0, "scale factor applied to the document size")
}

// applyFlags overlays every rendering flag the user set on opts.
func applyFlags(fs *pflag.FlagSet, opts types.Options) types.Options {
	if fs.Lookup("dpi") != nil && fs.Changed("dpi") {
		dpi, _ := fs.GetInt("dpi")
		opts.Raster.DPI, opts.PDF.DPI, opts.Page.DPI = dpi, dpi, dpi
	}
	if fs.Lookup("scale") != nil && fs.Changed("scale") {
		scale, _ := fs.GetFloat64("scale")
		opts.Raster.Scale, opts.PDF.Scale = scale, scale
	}
	if fs.Lookup("width") != nil {
		changedInt(fs, "width", &opts.Raster.Width)
		changedInt(fs, "height", &opts.Raster.Height)
		changedInt(fs, "width", &opts.Page.Width)
		changedInt(fs, "height", &opts.Page.Height)
	}
	if fs.Lookup("background") != nil && fs.Changed("background") {
		bg, _ := fs.GetString("background")
		opts.Raster.Background, opts.PDF.Background, opts.Page.Background = bg, bg, bg
	}
	if fs.Lookup("first") != nil {
		changedInt(fs, "first", &opts.Page.FirstPage)
		changedInt(fs, "last", &opts.Page.LastPage)
	}
	return opts
}

func changedInt(fs *pflag.FlagSet, name string, dst *int) {
	if fs.Changed(name) {
		*dst, _ = fs.GetInt(name)
	}
}

func changedFloat(fs *pflag.FlagSet, name string, dst *float64) {
	if fs.Changed(name) {
		*dst, _ = fs.GetFloat64(name)
	}
}

// runSingle converts args[0] as kind with options built from the
// configured defaults and cmd's flags.
func runSingle(cmd *cobra.Command, args []string, kind types.Kind) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := applyFlags(cmd.Flags(), a.defaultOptions())
	if kind == types.KindPNGToSVG {
		if opts.Trace, err = traceOptions(cmd.Flags()); err != nil {
			return err
		}
	}

	out, _ := cmd.Flags().GetString("output")
	skip, _ := cmd.Flags().GetBool("skip-existing")
	res, err := a.conv.Single(cmd.Context(), kind, args[0], out, convert.BatchOptions{Options: opts, SkipExisting: skip})
	if err != nil {
		return err
	}
	return failures(res)
}
