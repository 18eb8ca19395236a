// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "png2svg", want: KindPNGToSVG},
		{in: "SVG2PNG", want: KindSVGToPNG},
		{in: "png_to_svg", want: KindPNGToSVG},
		{in: "svg_to_png", want: KindSVGToPNG},
		{in: " pdf2png ", want: KindPDFToPNG},
		{in: "svg2pdf", want: KindSVGToPDF},
		{in: "jpg2svg", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindExtensions(t *testing.T) {
	tests := []struct {
		kind   Kind
		in     string
		out    string
		outDir string
		label  string
	}{
		{KindPNGToSVG, ".png", ".svg", "svg_output", "PNG -> SVG"},
		{KindSVGToPNG, ".svg", ".png", "png_output", "SVG -> PNG"},
		{KindSVGToPDF, ".svg", ".pdf", "pdf_output", "SVG -> PDF"},
		{KindPDFToPNG, ".pdf", ".png", "png_output", "PDF -> PNG"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.in, tt.kind.InputExt())
			assert.Equal(t, tt.out, tt.kind.OutputExt())
			assert.Equal(t, tt.outDir, tt.kind.DefaultOutputDir())
			assert.Equal(t, tt.label, tt.kind.Label())
		})
	}
}

func TestTraceOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TraceOptions)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*TraceOptions) {}},
		{name: "polygon mode", mutate: func(o *TraceOptions) { o.Mode = ModePolygon }},
		{name: "unknown mode", mutate: func(o *TraceOptions) { o.Mode = "bezier" }, wantErr: "unknown mode"},
		{name: "precision too high", mutate: func(o *TraceOptions) { o.ColorPrecision = 9 }, wantErr: "color precision"},
		{name: "precision zero", mutate: func(o *TraceOptions) { o.ColorPrecision = 0 }, wantErr: "color precision"},
		{name: "bad hierarchy", mutate: func(o *TraceOptions) { o.Hierarchical = "flat" }, wantErr: "hierarchical"},
		{name: "short segments", mutate: func(o *TraceOptions) { o.LengthThreshold = 1 }, wantErr: "length threshold"},
		{name: "no iterations", mutate: func(o *TraceOptions) { o.MaxIterations = 0 }, wantErr: "max iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultTraceOptions()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTraceOptionsForPreset(t *testing.T) {
	simple, err := TraceOptionsForPreset(PresetSimple)
	require.NoError(t, err)
	assert.Equal(t, 8, simple.ColorPrecision)
	assert.Equal(t, 20, simple.MaxIterations)
	assert.Equal(t, ModeSpline, simple.Mode)

	high, err := TraceOptionsForPreset("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTraceOptions(), high)

	_, err = TraceOptionsForPreset("ultra")
	require.Error(t, err)
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{
		"color":       ColorModeColor,
		"binary":      ColorModeBinary,
		"binary-fast": ColorModeBinary,
		"curve":       ColorModeBinary,
	} {
		got, err := ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseColorMode("sepia")
	require.Error(t, err)
}

func TestColorModeDecoding(t *testing.T) {
	var o TraceOptions
	require.NoError(t, yaml.Unmarshal([]byte("colormode: curve\n"), &o))
	assert.Equal(t, ColorModeBinary, o.ColorMode)
	require.NoError(t, o.ColorMode.UnmarshalText([]byte("colour")))
	assert.Equal(t, ColorModeColor, o.ColorMode)

	err := yaml.Unmarshal([]byte("colormode: sepia\n"), &o)
	require.ErrorContains(t, err, `unknown colormode "sepia"`)

	var m ColorMode
	require.NoError(t, json.Unmarshal([]byte(`"binary-fast"`), &m))
	assert.Equal(t, ColorModeBinary, m)
}

func TestRasterOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultRasterOptions().Validate())
	require.Error(t, RasterOptions{DPI: 0, Scale: 1}.Validate())
	require.Error(t, RasterOptions{DPI: 300, Scale: 0}.Validate())
	require.Error(t, RasterOptions{DPI: 300, Scale: 1, Width: -1}.Validate())
	require.ErrorContains(t, RasterOptions{DPI: 300, Scale: 1, Width: 500000}.Validate(), "must not exceed")
	require.Error(t, PageOptions{DPI: 300, Height: MaxSide + 1}.Validate())
	require.NoError(t, RasterOptions{DPI: 300, Scale: 1, Width: MaxSide}.Validate())
}

func TestPageRange(t *testing.T) {
	tests := []struct {
		name      string
		opts      PageOptions
		pages     int
		wantFirst int
		wantLast  int
		wantErr   bool
	}{
		{name: "all pages", opts: PageOptions{DPI: 300}, pages: 4, wantFirst: 1, wantLast: 4},
		{name: "single page", opts: PageOptions{DPI: 300, FirstPage: 2, LastPage: 2}, pages: 4, wantFirst: 2, wantLast: 2},
		{name: "last clamped", opts: PageOptions{DPI: 300, FirstPage: 3, LastPage: 9}, pages: 4, wantFirst: 3, wantLast: 4},
		{name: "first beyond end", opts: PageOptions{DPI: 300, FirstPage: 5}, pages: 4, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, err := tt.opts.PageRange(tt.pages)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestPageOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultPageOptions().Validate())
	require.Error(t, PageOptions{DPI: 300, FirstPage: 3, LastPage: 2}.Validate())
	require.Error(t, PageOptions{DPI: 300, FirstPage: -1}.Validate())
}

func TestBatchResult(t *testing.T) {
	var b BatchResult
	b.Add(Result{Status: StatusConverted})
	b.Add(Result{Status: StatusConverted})
	b.Add(Result{Status: StatusSkipped})
	b.Add(Result{Status: StatusFailed})

	assert.Equal(t, 2, b.Converted)
	assert.Equal(t, 1, b.Skipped)
	assert.Equal(t, 1, b.Failed)
	assert.Equal(t, 4, b.Total())
	assert.True(t, b.HasFailures())

	b.Merge(BatchResult{Converted: 3})
	assert.Equal(t, 5, b.Converted)
	assert.Equal(t, 7, b.Total())
}

func TestOptionsWithDPI(t *testing.T) {
	o := DefaultOptions().WithDPI(300)
	assert.Equal(t, 300, o.Raster.DPI)
	assert.Equal(t, 300, o.PDF.DPI)
	assert.Equal(t, 300, o.Page.DPI)

	unchanged := DefaultOptions().WithDPI(0)
	assert.Equal(t, DefaultDPI, unchanged.Raster.DPI)
}
