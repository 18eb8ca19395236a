// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/vectorconv/internal/engine"
	"github.com/pdiddy/vectorconv/internal/pdfpage"
	"github.com/pdiddy/vectorconv/internal/raster"
	"github.com/pdiddy/vectorconv/pkg/types"
)

// PNGToSVG traces the bitmap at in into an SVG at out. BMP, TIFF and WebP
// inputs are re-encoded as PNG before tracing.
func (c *Converter) PNGToSVG(ctx context.Context, in, out string, o types.TraceOptions) types.Result {
	r := types.Result{Input: in, Output: out, Kind: types.KindPNGToSVG, Engine: engine.NameVtracer}
	began := time.Now()
	c.start(r.Kind, in, out)

	size, err := c.pngToSVG(ctx, in, out, o)
	return c.finish(ctx, r, began, size, err)
}

func (c *Converter) pngToSVG(ctx context.Context, in, out string, o types.TraceOptions) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	local, cleanup, err := c.resolveInput(ctx, in)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	src, done, err := raster.NormalizeForTrace(local)
	if err != nil {
		return 0, err
	}
	defer done()

	if err := ensureDir(out); err != nil {
		return 0, err
	}
	if err := c.Engines.Trace(ctx, src, out, o); err != nil {
		return 0, err
	}
	return verifyOutput(out)
}

// SVGToPNG rasterizes the SVG at in into a PNG at out. rsvg-convert is
// tried first, then inkscape, then the in-process rasterizer. The PNG
// records o.DPI as its pixel density whichever method produced it.
func (c *Converter) SVGToPNG(ctx context.Context, in, out string, o types.RasterOptions) types.Result {
	r := types.Result{Input: in, Output: out, Kind: types.KindSVGToPNG}
	began := time.Now()
	c.start(r.Kind, in, out)

	name, size, err := c.svgToPNG(ctx, in, out, o)
	r.Engine = name
	return c.finish(ctx, r, began, size, err)
}

func (c *Converter) svgToPNG(ctx context.Context, in, out string, o types.RasterOptions) (string, int64, error) {
	if err := o.Validate(); err != nil {
		return "", 0, err
	}
	local, cleanup, err := c.resolveInput(ctx, in)
	if err != nil {
		return "", 0, err
	}
	defer cleanup()
	if err := ensureDir(out); err != nil {
		return "", 0, err
	}

	name, err := c.firstOf(ctx, in, []method{
		{engine.NameRsvg, func() error {
			f, err := os.Open(local)
			if err != nil {
				return err
			}
			defer f.Close()
			var buf bytes.Buffer
			if err := c.Engines.RsvgPNG(ctx, f, o, &buf); err != nil {
				return err
			}
			return writePNG(out, buf.Bytes(), o.DPI)
		}},
		{engine.NameInkscape, func() error {
			if err := c.Engines.InkscapePNG(ctx, local, out, o); err != nil {
				return err
			}
			data, err := os.ReadFile(out)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrEmptyOutput, err)
			}
			return writePNG(out, data, o.DPI)
		}},
		{EngineNative, func() error {
			f, err := os.Open(local)
			if err != nil {
				return err
			}
			defer f.Close()
			img, err := raster.Render(f, o)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := raster.EncodePNG(&buf, img, o.DPI); err != nil {
				return err
			}
			return writeOutput(out, buf.Bytes())
		}},
	})
	if err != nil {
		return name, 0, err
	}
	size, err := verifyOutput(out)
	return name, size, err
}

// writePNG stamps dpi into the PNG data and writes it to out.
func writePNG(out string, data []byte, dpi int) error {
	if len(data) == 0 {
		return ErrEmptyOutput
	}
	stamped, err := raster.SetDensity(data, dpi)
	if err != nil {
		return err
	}
	return writeOutput(out, stamped)
}

// SVGToPDF exports the SVG at in as a PDF at out using rsvg-convert, or
// inkscape when rsvg-convert fails.
func (c *Converter) SVGToPDF(ctx context.Context, in, out string, o types.PDFOptions) types.Result {
	r := types.Result{Input: in, Output: out, Kind: types.KindSVGToPDF}
	began := time.Now()
	c.start(r.Kind, in, out)

	name, size, err := c.svgToPDF(ctx, in, out, o)
	r.Engine = name
	return c.finish(ctx, r, began, size, err)
}

func (c *Converter) svgToPDF(ctx context.Context, in, out string, o types.PDFOptions) (string, int64, error) {
	if err := o.Validate(); err != nil {
		return "", 0, err
	}
	local, cleanup, err := c.resolveInput(ctx, in)
	if err != nil {
		return "", 0, err
	}
	defer cleanup()
	if err := ensureDir(out); err != nil {
		return "", 0, err
	}

	name, err := c.firstOf(ctx, in, []method{
		{engine.NameRsvg, func() error {
			f, err := os.Open(local)
			if err != nil {
				return err
			}
			defer f.Close()
			var buf bytes.Buffer
			if err := c.Engines.RsvgPDF(ctx, f, o, &buf); err != nil {
				return err
			}
			return writeOutput(out, buf.Bytes())
		}},
		{engine.NameInkscape, func() error {
			if err := c.Engines.InkscapePDF(ctx, local, out, o); err != nil {
				return err
			}
			_, err := verifyOutput(out)
			return err
		}},
	})
	if err != nil {
		return name, 0, err
	}
	size, err := verifyOutput(out)
	return name, size, err
}

// PDFToPNG renders the pages of the PDF at in selected by o. out names the
// PNG for a single-page document; for longer documents each page is
// written next to it as <base>-<n>.png. pdftoppm renders each page; when
// it fails the page is extracted in-process and rasterized natively.
func (c *Converter) PDFToPNG(ctx context.Context, in, out string, o types.PageOptions) []types.Result {
	base := strings.TrimSuffix(out, ".png")
	began := time.Now()
	c.start(types.KindPDFToPNG, in, out)

	fail := func(err error) []types.Result {
		r := types.Result{Input: in, Output: out, Kind: types.KindPDFToPNG}
		return []types.Result{c.finish(ctx, r, began, 0, err)}
	}

	if err := o.Validate(); err != nil {
		return fail(err)
	}
	local, cleanup, err := c.resolveInput(ctx, in)
	if err != nil {
		return fail(err)
	}
	defer cleanup()
	if err := ensureDir(out); err != nil {
		return fail(err)
	}

	doc, openErr := c.openPDF(local)
	n, err := c.pageCount(doc, openErr, in, o)
	if err != nil {
		return fail(err)
	}
	first, last, err := o.PageRange(n)
	if err != nil {
		return fail(err)
	}

	var results []types.Result
	for page := first; page <= last; page++ {
		if ctx.Err() != nil {
			results = append(results, fail(ctx.Err())...)
			break
		}
		pageOut := PageOutputPath(base, page, n)
		pageBegan := time.Now()
		r := types.Result{Input: in, Output: pageOut, Kind: types.KindPDFToPNG}
		name, size, err := c.renderPage(ctx, local, doc, openErr, page, pageOut, o)
		r.Engine = name
		results = append(results, c.finish(ctx, r, pageBegan, size, err))
	}
	return results
}

func (c *Converter) openPDF(path string) (PDFDocument, error) {
	if c.OpenPDF == nil {
		return openPDF(path)
	}
	return c.OpenPDF(path)
}

// pageCount returns the number of pages in the document. When the
// in-process reader cannot parse the file, an explicit last page stands
// in for the count; otherwise only the first page is rendered.
func (c *Converter) pageCount(doc PDFDocument, openErr error, in string, o types.PageOptions) (int, error) {
	err := openErr
	if err == nil {
		n, countErr := doc.Count()
		if countErr == nil && n > 0 {
			return n, nil
		}
		err = countErr
		if err == nil {
			err = fmt.Errorf("no pages found")
		}
	}
	if o.LastPage > 0 {
		c.Reporter.Warn("page_count_failed", fmt.Sprintf("cannot count pages of %s (%v); rendering pages %d-%d", in, err, max(o.FirstPage, 1), o.LastPage), nil)
		return o.LastPage, nil
	}
	if o.FirstPage > 1 {
		return 0, fmt.Errorf("cannot count pages of %s: %w", in, err)
	}
	c.Reporter.Warn("page_count_failed", fmt.Sprintf("cannot count pages of %s (%v); rendering page 1 only", in, err), nil)
	return 1, nil
}

func (c *Converter) renderPage(ctx context.Context, local string, doc PDFDocument, openErr error, page int, out string, o types.PageOptions) (string, int64, error) {
	name, err := c.firstOf(ctx, local, []method{
		{engine.NamePdftoppm, func() error {
			f, err := os.Open(local)
			if err != nil {
				return err
			}
			defer f.Close()
			var buf bytes.Buffer
			if err := c.Engines.PdftoppmPage(ctx, f, page, o, &buf); err != nil {
				return err
			}
			return writePNG(out, buf.Bytes(), o.DPI)
		}},
		{EnginePdfreader, func() error {
			if openErr != nil {
				return openErr
			}
			svg, err := doc.SVG(page)
			if err != nil {
				return err
			}
			bg, err := raster.ParseColor(o.Background)
			if err != nil {
				return err
			}
			img, err := raster.Rasterize(bytes.NewReader(svg), pdfpage.ZoomForDPI(o.DPI), bg)
			if err != nil {
				return err
			}
			fitted, err := raster.Fit(img, o.Width, o.Height)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := raster.EncodePNG(&buf, fitted, o.DPI); err != nil {
				return err
			}
			return writeOutput(out, buf.Bytes())
		}},
	})
	if err != nil {
		return name, 0, err
	}
	size, err := verifyOutput(out)
	return name, size, err
}

// PageOutputPath names the PNG for page of an n-page document. A
// single-page document keeps base.png; otherwise the page number is
// appended, zero padded to the width of n.
func PageOutputPath(base string, page, n int) string {
	if n <= 1 {
		return base + ".png"
	}
	width := len(fmt.Sprint(n))
	return fmt.Sprintf("%s-%0*d.png", base, width, page)
}
