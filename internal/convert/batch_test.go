// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vectorconv/pkg/types"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		kind types.Kind
		want string
	}{
		{"art/logo.png", types.KindPNGToSVG, "art/logo.svg"},
		{"art/logo.svg", types.KindSVGToPNG, "art/logo.png"},
		{"doc.svg", types.KindSVGToPDF, "doc.pdf"},
		{"scan.pdf", types.KindPDFToPNG, "scan.png"},
		{"noext", types.KindPNGToSVG, "noext.svg"},
		{"https://example.test/icons/star.svg?v=2", types.KindSVGToPNG, "star.png"},
		{"https://example.test/", types.KindSVGToPDF, "download.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.in, tt.kind), tt.in)
	}
}

func TestIsPattern(t *testing.T) {
	assert.True(t, IsPattern("*.png"))
	assert.True(t, IsPattern("scan?.pdf"))
	assert.True(t, IsPattern("img[0-9].svg"))
	assert.False(t, IsPattern("plain.svg"))
	assert.False(t, IsPattern("https://example.test/a.svg?x=1"))
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a.svg", "b.svg", "c.png", "sub/d.svg", "sub/deep/e.svg"} {
		writeFile(t, filepath.Join(dir, p), rectSVG)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir.svg"), 0o755))

	got, err := Glob(filepath.Join(dir, "*.svg"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.svg"), filepath.Join(dir, "b.svg")}, got, "directories are not returned")

	got, err = Glob(filepath.Join(dir, "**", "*.svg"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.svg"),
		filepath.Join(dir, "b.svg"),
		filepath.Join(dir, "sub", "d.svg"),
		filepath.Join(dir, "sub", "deep", "e.svg"),
	}, got)

	got, err = Glob(filepath.Join(dir, "sub", "**", "e.svg"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub", "deep", "e.svg")}, got)

	_, err = Glob(filepath.Join(dir, "[.svg"))
	require.Error(t, err)
	_, err = Glob(filepath.Join(dir, "**", "[.svg"))
	require.Error(t, err)
}

func TestMatchSegments(t *testing.T) {
	split := func(s string) []string { return strings.Split(s, "/") }
	assert.True(t, matchSegments(split("a/**/*.svg"), split("a/x.svg")))
	assert.True(t, matchSegments(split("a/**/*.svg"), split("a/b/c/x.svg")))
	assert.False(t, matchSegments(split("a/**/*.svg"), split("b/x.svg")))
	assert.False(t, matchSegments(split("a/*.svg"), split("a/b/x.svg")))
	assert.True(t, matchSegments(split("**"), split("anything/at/all")))
}

func TestStaticRoot(t *testing.T) {
	assert.Equal(t, ".", staticRoot("*.svg"))
	assert.Equal(t, "in", staticRoot("in/*.svg"))
	assert.Equal(t, filepath.FromSlash("in/art"), staticRoot("in/art/**/*.svg"))
	assert.Equal(t, "/", staticRoot("/*.svg"))
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(inDir, "good.svg"), rectSVG)
	writeFile(t, filepath.Join(inDir, "also.svg"), rectSVG)
	writeFile(t, filepath.Join(inDir, "nested", "deep.svg"), rectSVG)
	outDir := filepath.Join(dir, "out")

	eng := &fakeEngines{}
	c, log := newTestConverter(t, eng, nil)
	res, err := c.Batch(context.Background(), filepath.Join(inDir, "**", "*.svg"), outDir, types.KindSVGToPDF, BatchOptions{Options: types.DefaultOptions()})
	require.NoError(t, err)

	assert.Equal(t, types.BatchResult{Converted: 3}, res)
	assert.FileExists(t, filepath.Join(outDir, "good.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "also.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "nested", "deep.pdf"))
	assert.Contains(t, log.String(), "found 3 files to convert")
	assert.Contains(t, log.String(), "Batch conversion complete: 3 converted, 0 skipped, 0 failed (total: 3)")
}

func TestBatch_MixedResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.png"), string(tinyPNG(2, 2)))
	writeFile(t, filepath.Join(dir, "done.png"), string(tinyPNG(2, 2)))
	writeFile(t, filepath.Join(dir, "zbad.png"), string(tinyPNG(2, 2)))
	outDir := filepath.Join(dir, "svg_output")
	writeFile(t, filepath.Join(outDir, "done.svg"), rectSVG)

	c, log := newTestConverter(t, &fakeEngines{}, nil)
	c.Engines = failingOn{fakeEngines: &fakeEngines{}, name: "zbad.png"}
	rec := &fakeRecorder{}
	c.Recorder = rec

	res, err := c.Batch(context.Background(), filepath.Join(dir, "*.png"), outDir, types.KindPNGToSVG,
		BatchOptions{Options: types.DefaultOptions(), SkipExisting: true})
	require.NoError(t, err)

	assert.Equal(t, types.BatchResult{Converted: 1, Skipped: 1, Failed: 1}, res)
	assert.True(t, res.HasFailures())
	assert.Len(t, rec.results, 3, "skips are recorded too")
	assert.Contains(t, log.String(), "skipped "+filepath.Join(dir, "done.png"))
}

// failingOn fails the trace of one named input.
type failingOn struct {
	*fakeEngines
	name string
}

func (f failingOn) Trace(ctx context.Context, in, out string, o types.TraceOptions) error {
	if filepath.Base(in) == f.name {
		return errors.New("tracer crashed")
	}
	return f.fakeEngines.Trace(ctx, in, out, o)
}

func TestBatch_NoMatches(t *testing.T) {
	c, log := newTestConverter(t, &fakeEngines{}, nil)
	outDir := filepath.Join(t.TempDir(), "out")
	res, err := c.Batch(context.Background(), filepath.Join(t.TempDir(), "*.svg"), outDir, types.KindSVGToPNG, BatchOptions{})
	require.NoError(t, err)
	assert.Zero(t, res.Total())
	assert.Contains(t, log.String(), "no files matched pattern")
	assert.NoDirExists(t, outDir)
}

func TestBatch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.svg"), rectSVG)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, log := newTestConverter(t, &fakeEngines{}, nil)
	res, err := c.Batch(ctx, filepath.Join(dir, "*.svg"), filepath.Join(dir, "out"), types.KindSVGToPDF, BatchOptions{Options: types.DefaultOptions()})
	require.NoError(t, err)
	assert.Zero(t, res.Total())
	assert.Contains(t, log.String(), "batch cancelled")
}

func TestSingle(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "pic.svg"), rectSVG)

	c, _ := newTestConverter(t, &fakeEngines{}, nil)
	res, err := c.Single(context.Background(), types.KindSVGToPNG, in, "", BatchOptions{Options: types.DefaultOptions()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Converted)
	assert.FileExists(t, filepath.Join(dir, "pic.png"))

	res, err = c.Single(context.Background(), types.KindSVGToPNG, in, "", BatchOptions{Options: types.DefaultOptions(), SkipExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
}

func TestSingle_PatternUsesDefaultDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.svg"), rectSVG)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, _ := newTestConverter(t, &fakeEngines{}, nil)
	res, err := c.Single(context.Background(), types.KindSVGToPDF, "*.svg", "", BatchOptions{Options: types.DefaultOptions()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Converted)
	assert.FileExists(t, filepath.Join(dir, "pdf_output", "a.pdf"))
}

func TestOutputExists_PDFPages(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "doc.png")
	assert.False(t, outputExists(base, types.KindPDFToPNG))
	writeFile(t, filepath.Join(dir, "doc-01.png"), "x")
	assert.True(t, outputExists(base, types.KindPDFToPNG))
	assert.False(t, outputExists(base, types.KindSVGToPNG))
}
