// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfpage extracts pages from PDF documents without external
// programs. Pages come out as SVG, which package raster then renders; this
// is the fallback used when pdftoppm is unavailable.
package pdfpage

import (
	"errors"
	"fmt"
	"os"

	"github.com/raff/pdfreader/pdfread"
	"github.com/raff/pdfreader/svg"
)

// svgUnitsPerPoint is the scale the extractor applies to page geometry.
const svgUnitsPerPoint = 1.25

// ZoomForDPI returns the raster zoom that renders an extracted page at dpi.
// PDF geometry is in points (1/72 inch).
func ZoomForDPI(dpi int) float64 {
	return float64(dpi) / 72 / svgUnitsPerPoint
}

// ErrUnreadable is returned when the document cannot be parsed.
var ErrUnreadable = errors.New("unreadable pdf")

// Document is a loaded PDF.
type Document struct {
	path string
	pd   *pdfread.PdfReaderT
}

// Open loads the PDF at path. The parser panics on some malformed inputs;
// those panics are returned as ErrUnreadable.
func Open(path string) (doc *Document, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, fmt.Errorf("opening %s: %w", path, statErr)
	}
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, r)
		}
	}()
	pd := pdfread.Load(path)
	if pd == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, path)
	}
	return &Document{path: path, pd: pd}, nil
}

// Count returns the number of pages.
func (d *Document) Count() (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%w: counting pages of %s: %v", ErrUnreadable, d.path, r)
		}
	}()
	return len(d.pd.Pages()), nil
}

// SVG returns the 1-based page rendered as a standalone SVG document.
func (d *Document) SVG(page int) (out []byte, err error) {
	n, err := d.Count()
	if err != nil {
		return nil, err
	}
	// svg.Page exits the process on a missing page, so the range is
	// checked here first.
	if page < 1 || page > n {
		return nil, fmt.Errorf("page %d out of range 1-%d", page, n)
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: extracting page %d of %s: %v", ErrUnreadable, page, d.path, r)
		}
	}()
	return svg.Page(d.pd, page-1, true), nil
}

// Count is a convenience wrapper returning the page count of the PDF at
// path.
func Count(path string) (int, error) {
	doc, err := Open(path)
	if err != nil {
		return 0, err
	}
	return doc.Count()
}
