// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsummers/gobmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// decoders covers bitmap formats the tracer does not read directly.
var decoders = map[string]func(f *os.File) (image.Image, error){
	".bmp":  func(f *os.File) (image.Image, error) { return gobmp.Decode(f) },
	".tif":  func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	".tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	".webp": func(f *os.File) (image.Image, error) { return webp.Decode(f) },
}

// TraceInputExts lists the extensions accepted for tracing: PNG plus every
// format NormalizeForTrace re-encodes.
func TraceInputExts() []string {
	exts := []string{".png"}
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts[1:])
	return exts
}

// NeedsNormalize reports whether path must be re-encoded before tracing.
func NeedsNormalize(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// NormalizeForTrace returns a path the tracer can read. PNG and JPEG inputs
// are returned as-is; BMP, TIFF and WebP are decoded and written to a
// temporary PNG. The returned cleanup removes any temporary file and is
// always safe to call.
func NormalizeForTrace(path string) (string, func(), error) {
	noop := func() {}
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return path, noop, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", noop, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return "", noop, fmt.Errorf("decoding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp("", "vectorconv-*.png")
	if err != nil {
		return "", noop, fmt.Errorf("creating temporary png: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, fmt.Errorf("encoding %s as png: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("writing temporary png: %w", err)
	}
	return tmp.Name(), cleanup, nil
}
