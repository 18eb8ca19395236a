// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vectorconv/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("defaults.dpi", 150)
	v.Set("engines.rsvg", "/opt/bin/rsvg-convert")
	v.Set("fetch.max_retries", 2)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.Defaults.DPI)
	assert.Equal(t, "/opt/bin/rsvg-convert", cfg.Engines.Rsvg)
	assert.Equal(t, 2, cfg.Fetch.MaxRetries)
	assert.Equal(t, "inkscape", cfg.Engines.Inkscape)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("defaults.dpi", 0)
	_, err := loadConfig(v)
	require.ErrorContains(t, err, "defaults.dpi")

	v = viper.New()
	setDefaults(v)
	v.Set("defaults.scale", -1.0)
	_, err = loadConfig(v)
	require.ErrorContains(t, err, "defaults.scale")
}

func traceFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("png2svg", pflag.ContinueOnError)
	addTraceFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestTraceOptions(t *testing.T) {
	o, err := traceOptions(traceFlags(t))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTraceOptions(), o)

	o, err = traceOptions(traceFlags(t, "--preset", "simple", "--colormode", "binary-fast", "--filter-speckle", "8"))
	require.NoError(t, err)
	assert.Equal(t, 8, o.ColorPrecision, "preset value kept")
	assert.Equal(t, 20, o.MaxIterations)
	assert.Equal(t, types.ColorModeBinary, o.ColorMode)
	assert.Equal(t, 8, o.FilterSpeckle)

	_, err = traceOptions(traceFlags(t, "--preset", "fancy"))
	require.Error(t, err)

	_, err = traceOptions(traceFlags(t, "--color-precision", "12"))
	require.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("pdf2png", pflag.ContinueOnError)
	addDPIFlag(fs, "")
	addSizeFlags(fs)
	addBackgroundFlag(fs)
	fs.Int("first", 0, "")
	fs.Int("last", 0, "")
	require.NoError(t, fs.Parse([]string{"--dpi", "96", "--width", "800", "--background", "white", "--first", "2"}))

	opts := applyFlags(fs, types.DefaultOptions())
	assert.Equal(t, 96, opts.Page.DPI)
	assert.Equal(t, 96, opts.Raster.DPI)
	assert.Equal(t, 800, opts.Page.Width)
	assert.Equal(t, 0, opts.Page.Height)
	assert.Equal(t, "white", opts.Page.Background)
	assert.Equal(t, 2, opts.Page.FirstPage)
	assert.Equal(t, 0, opts.Page.LastPage)
	assert.Equal(t, 1.0, opts.Raster.Scale, "scale flag not registered")
}

func TestApplyFlagsKeepsDefaultsWhenUnset(t *testing.T) {
	fs := pflag.NewFlagSet("svg2pdf", pflag.ContinueOnError)
	addDPIFlag(fs, "")
	addScaleFlag(fs)
	require.NoError(t, fs.Parse(nil))

	base := types.DefaultOptions().WithDPI(300)
	assert.Equal(t, base, applyFlags(fs, base))
}

func TestFailures(t *testing.T) {
	require.NoError(t, failures(types.BatchResult{Converted: 3, Skipped: 1}))
	require.EqualError(t, failures(types.BatchResult{Converted: 1, Failed: 2}), "2 file(s) failed")
}

func TestCommands(t *testing.T) {
	t.Setenv("VECTORCONV_HISTORY_PATH", filepath.Join(t.TempDir(), "history.db"))

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(args)
		err := rootCmd.Execute()
		return out.String(), err
	}

	out, err := run("version")
	require.NoError(t, err)
	assert.Equal(t, "vectorconv dev\n", out)

	out, err = run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "no conversions recorded")

	_, err = run("batch", "*.svg")
	require.ErrorContains(t, err, "PATTERN and OUTPUT_DIR")

	_, err = run("batch", "*.svg", "out")
	require.ErrorContains(t, err, "--type is required")
}
