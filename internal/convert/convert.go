// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the four conversions (PNG to SVG, SVG to PNG,
// SVG to PDF and PDF to PNG) on top of the external engines, with
// in-process fallbacks, per-file reporting and batch iteration.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/vectorconv/internal/fetch"
	"github.com/pdiddy/vectorconv/internal/pdfpage"
	"github.com/pdiddy/vectorconv/internal/report"
	"github.com/pdiddy/vectorconv/pkg/types"
)

var (
	// ErrInputMissing is returned when the input file does not exist.
	ErrInputMissing = errors.New("input file not found")

	// ErrEmptyOutput is returned when an engine reports success but leaves
	// no output behind.
	ErrEmptyOutput = errors.New("engine produced no output")

	// ErrAllMethodsFailed wraps the individual errors of a fallback chain
	// in which no method succeeded.
	ErrAllMethodsFailed = errors.New("all methods failed")
)

// Engine names recorded in results for the in-process fallbacks.
const (
	EngineNative    = "native"
	EnginePdfreader = "pdfreader"
)

// Engines is the set of external engine invocations the converter drives.
// *engine.Set implements it.
type Engines interface {
	Trace(ctx context.Context, in, out string, o types.TraceOptions) error
	RsvgPNG(ctx context.Context, svg io.Reader, o types.RasterOptions, w io.Writer) error
	RsvgPDF(ctx context.Context, svg io.Reader, o types.PDFOptions, w io.Writer) error
	InkscapePNG(ctx context.Context, in, out string, o types.RasterOptions) error
	InkscapePDF(ctx context.Context, in, out string, o types.PDFOptions) error
	PdftoppmPage(ctx context.Context, pdf io.Reader, page int, o types.PageOptions, w io.Writer) error
}

// Recorder persists conversion results. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, runID string, r types.Result) error
}

// Fetcher downloads remote inputs. *fetch.Client implements it.
type Fetcher interface {
	Download(ctx context.Context, rawURL, dir string) (string, error)
}

// PDFDocument is an opened PDF used for page counting and the in-process
// page fallback. *pdfpage.Document implements it.
type PDFDocument interface {
	Count() (int, error)
	SVG(page int) ([]byte, error)
}

// Converter runs conversions and reports their progress.
type Converter struct {
	Engines  Engines
	Reporter report.Reporter

	// Fetcher resolves http(s) inputs. Remote inputs fail when nil.
	Fetcher Fetcher

	// Recorder receives every result. Nil disables recording.
	Recorder Recorder

	// RunID groups the results of one invocation in the history.
	RunID string

	// OpenPDF opens a PDF for page counting and page extraction.
	OpenPDF func(path string) (PDFDocument, error)
}

// New returns a Converter over engines with a fresh run ID.
func New(engines Engines, rep report.Reporter) *Converter {
	if rep == nil {
		rep = report.Discard
	}
	return &Converter{
		Engines:  engines,
		Reporter: rep,
		RunID:    uuid.NewString(),
		OpenPDF:  openPDF,
	}
}

func openPDF(path string) (PDFDocument, error) {
	return pdfpage.Open(path)
}

// ConvertFile runs the conversion for kind on one input. PDF inputs yield
// one result per rendered page; every other kind yields exactly one.
func (c *Converter) ConvertFile(ctx context.Context, kind types.Kind, in, out string, opts types.Options) []types.Result {
	switch kind {
	case types.KindPNGToSVG:
		return []types.Result{c.PNGToSVG(ctx, in, out, opts.Trace)}
	case types.KindSVGToPNG:
		return []types.Result{c.SVGToPNG(ctx, in, out, opts.Raster)}
	case types.KindSVGToPDF:
		return []types.Result{c.SVGToPDF(ctx, in, out, opts.PDF)}
	case types.KindPDFToPNG:
		return c.PDFToPNG(ctx, in, out, opts.Page)
	}
	r := types.Result{Input: in, Output: out, Kind: kind}
	return []types.Result{c.finish(ctx, r, time.Now(), 0, fmt.Errorf("unknown conversion type %q", kind))}
}

// start announces a conversion.
func (c *Converter) start(kind types.Kind, in, out string) {
	c.Reporter.Info("convert_start", fmt.Sprintf("Converting %s: %s", kind.Label(), in),
		map[string]any{"input": in, "output": out, "kind": string(kind)})
}

// finish completes r from the conversion outcome, reports it and records
// it.
func (c *Converter) finish(ctx context.Context, r types.Result, began time.Time, size int64, err error) types.Result {
	r.Duration = time.Since(began)
	if err != nil {
		r.Status = types.StatusFailed
		r.Err = err
		c.Reporter.Error("convert_failed", fmt.Sprintf("%s failed: %v", r.Input, err),
			map[string]any{"input": r.Input, "output": r.Output, "kind": string(r.Kind), "error": err.Error()})
	} else {
		r.Status = types.StatusConverted
		r.Bytes = size
		c.Reporter.Info("convert_done", fmt.Sprintf("saved %s (%d bytes)", r.Output, size),
			map[string]any{"input": r.Input, "output": r.Output, "engine": r.Engine, "bytes": size,
				"duration_ms": r.Duration.Milliseconds()})
	}
	c.record(ctx, r)
	return r
}

// skip records r as skipped because its output already exists.
func (c *Converter) skip(ctx context.Context, r types.Result) types.Result {
	r.Status = types.StatusSkipped
	c.Reporter.Info("convert_skipped", fmt.Sprintf("skipped %s (%s already exists)", r.Input, r.Output),
		map[string]any{"input": r.Input, "output": r.Output})
	c.record(ctx, r)
	return r
}

func (c *Converter) record(ctx context.Context, r types.Result) {
	if c.Recorder == nil {
		return
	}
	if err := c.Recorder.Record(ctx, c.RunID, r); err != nil {
		c.Reporter.Warn("history_failed", fmt.Sprintf("recording %s: %v", r.Input, err), nil)
	}
}

// resolveInput returns a local path for in. Remote inputs are downloaded
// into a temporary directory that cleanup removes.
func (c *Converter) resolveInput(ctx context.Context, in string) (string, func(), error) {
	noop := func() {}
	if fetch.IsRemote(in) {
		if c.Fetcher == nil {
			return "", noop, fmt.Errorf("remote input %s: downloads are not configured", in)
		}
		dir, err := os.MkdirTemp("", "vectorconv-fetch-*")
		if err != nil {
			return "", noop, fmt.Errorf("creating download directory: %w", err)
		}
		cleanup := func() { _ = os.RemoveAll(dir) }
		c.Reporter.Info("fetch_start", "Downloading "+in, map[string]any{"url": in})
		local, err := c.Fetcher.Download(ctx, in, dir)
		if err != nil {
			cleanup()
			return "", noop, err
		}
		return local, cleanup, nil
	}

	info, err := os.Stat(in)
	if errors.Is(err, os.ErrNotExist) {
		return "", noop, fmt.Errorf("%w: %s", ErrInputMissing, in)
	}
	if err != nil {
		return "", noop, fmt.Errorf("checking input %s: %w", in, err)
	}
	if info.IsDir() {
		return "", noop, fmt.Errorf("input %s is a directory", in)
	}
	return in, noop, nil
}

// ensureDir creates the parent directory of out.
func ensureDir(out string) error {
	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return nil
}

// verifyOutput returns the size of out, failing when it is missing or
// empty.
func verifyOutput(out string) (int64, error) {
	info, err := os.Stat(out)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s not created", ErrEmptyOutput, out)
	}
	if err != nil {
		return 0, fmt.Errorf("checking output %s: %w", out, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("%w: %s is empty", ErrEmptyOutput, out)
	}
	return info.Size(), nil
}

// writeOutput writes data to out, treating an empty buffer as an engine
// failure.
func writeOutput(out string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyOutput
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

// method is one step of a fallback chain.
type method struct {
	name string
	run  func() error
}

// firstOf runs methods in order until one succeeds and returns its name.
// Each failure is reported before the next method is tried.
func (c *Converter) firstOf(ctx context.Context, in string, methods []method) (string, error) {
	var errs []error
	for _, m := range methods {
		err := m.run()
		if err == nil {
			return m.name, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.name, ctxErr
		}
		c.Reporter.Warn("method_failed", fmt.Sprintf("method %s failed: %v", m.name, err),
			map[string]any{"input": in, "method": m.name, "error": err.Error()})
		errs = append(errs, fmt.Errorf("%s: %w", m.name, err))
	}
	return "", fmt.Errorf("%w: %w", ErrAllMethodsFailed, errors.Join(errs...))
}
