// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package menu implements the interactive terminal menu: it lists the
// convertible files of a working directory and dispatches the chosen
// conversion for one file or all of them.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/vectorconv/internal/pdfpage"
	"github.com/pdiddy/vectorconv/internal/raster"
	"github.com/pdiddy/vectorconv/pkg/types"
)

// Converter runs one conversion. *convert.Converter implements it.
type Converter interface {
	ConvertFile(ctx context.Context, kind types.Kind, in, out string, opts types.Options) []types.Result
}

// Menu holds the state of an interactive session.
type Menu struct {
	Dir     string
	Options types.Options

	conv  Converter
	in    *bufio.Scanner
	out   io.Writer
	files []string
	last  types.BatchResult
}

// New returns a menu over dir reading commands from in and writing
// prompts to out.
func New(dir string, conv Converter, opts types.Options, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		Dir:     dir,
		Options: opts,
		conv:    conv,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Files returns the listing from the most recent directory scan.
func (m *Menu) Files() []string { return m.files }

// Last returns the counts of the most recent conversion round.
func (m *Menu) Last() types.BatchResult { return m.last }

// Run shows the menu until the user quits, input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	if err := checkDir(m.Dir); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.printMain()
		choice, ok := m.prompt("> ")
		if !ok {
			fmt.Fprintln(m.out)
			return m.in.Err()
		}
		switch strings.ToLower(choice) {
		case "1", "2", "3", "4":
			n, _ := strconv.Atoi(choice)
			if err := m.convertMenu(ctx, types.Kinds[n-1]); err != nil {
				return err
			}
		case "l":
			m.listAll()
		case "d":
			m.changeDir()
		case "r":
			m.changeDPI()
		case "q", "quit", "exit":
			return nil
		case "":
		default:
			fmt.Fprintf(m.out, "unknown option %q\n", choice)
		}
	}
}

func (m *Menu) printMain() {
	fmt.Fprintf(m.out, "\nvectorconv: %s (DPI %d)\n", m.Dir, m.Options.Raster.DPI)
	for i, k := range types.Kinds {
		fmt.Fprintf(m.out, "  %d) %s\n", i+1, k.Label())
	}
	fmt.Fprintln(m.out, "  l) list files")
	fmt.Fprintln(m.out, "  d) change directory")
	fmt.Fprintln(m.out, "  r) change DPI")
	fmt.Fprintln(m.out, "  q) quit")
}

// prompt prints p and returns the next trimmed input line. ok is false at
// end of input.
func (m *Menu) prompt(p string) (string, bool) {
	fmt.Fprint(m.out, p)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// convertMenu lets the user pick files for kind and converts them into
// the kind's output directory below Dir.
func (m *Menu) convertMenu(ctx context.Context, kind types.Kind) error {
	files, err := m.scan(inputExts(kind)...)
	if err != nil {
		fmt.Fprintf(m.out, "error: %v\n", err)
		return nil
	}
	if len(files) == 0 {
		fmt.Fprintf(m.out, "no %s files in %s\n", kind.InputExt(), m.Dir)
		return nil
	}

	fmt.Fprintf(m.out, "\n%s\n", kind.Label())
	for i, f := range files {
		fmt.Fprintf(m.out, "  %d) %s\n", i+1, f)
	}
	choice, ok := m.prompt("file number, a for all, enter to go back: ")
	if !ok || choice == "" {
		return nil
	}

	selected, err := pick(files, choice)
	if err != nil {
		fmt.Fprintf(m.out, "%v\n", err)
		return nil
	}

	outDir := filepath.Join(m.Dir, kind.DefaultOutputDir())
	var round types.BatchResult
	for _, name := range selected {
		if ctx.Err() != nil {
			break
		}
		in := filepath.Join(m.Dir, name)
		out := filepath.Join(outDir, strings.TrimSuffix(name, filepath.Ext(name))+kind.OutputExt())
		for _, r := range m.conv.ConvertFile(ctx, kind, in, out, m.Options) {
			round.Add(r)
		}
	}
	m.last = round
	fmt.Fprintf(m.out, "\nConversion complete: %d converted, %d failed\n", round.Converted, round.Failed)
	return nil
}

// inputExts lists the extensions offered for kind. Tracing also accepts
// the bitmap formats the converter re-encodes as PNG.
func inputExts(kind types.Kind) []string {
	if kind == types.KindPNGToSVG {
		return raster.TraceInputExts()
	}
	return []string{kind.InputExt()}
}

// pick resolves a selection ("a", "3" or "1,4") against files.
func pick(files []string, choice string) ([]string, error) {
	if strings.EqualFold(choice, "a") || strings.EqualFold(choice, "all") {
		return files, nil
	}
	var selected []string
	for _, part := range strings.Split(choice, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > len(files) {
			return nil, fmt.Errorf("invalid selection %q (want 1-%d or a)", strings.TrimSpace(part), len(files))
		}
		selected = append(selected, files[n-1])
	}
	return selected, nil
}

// scan lists the regular files in Dir with one of exts, case-insensitive,
// and caches the listing.
func (m *Menu) scan(exts ...string) ([]string, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.Dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				files = append(files, e.Name())
				break
			}
		}
	}
	sort.Strings(files)
	m.files = files
	return files, nil
}

func (m *Menu) listAll() {
	files, err := m.scan(append(raster.TraceInputExts(), ".svg", ".pdf")...)
	if err != nil {
		fmt.Fprintf(m.out, "error: %v\n", err)
		return
	}
	if len(files) == 0 {
		fmt.Fprintf(m.out, "no convertible files in %s\n", m.Dir)
		return
	}
	fmt.Fprintf(m.out, "\n%d files in %s\n", len(files), m.Dir)
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ".pdf") {
			if n, err := pdfpage.Count(filepath.Join(m.Dir, f)); err == nil {
				fmt.Fprintf(m.out, "  %s (%d pages)\n", f, n)
				continue
			}
		}
		fmt.Fprintf(m.out, "  %s\n", f)
	}
}

func (m *Menu) changeDir() {
	dir, ok := m.prompt("directory: ")
	if !ok || dir == "" {
		return
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(m.Dir, dir)
	}
	if err := checkDir(dir); err != nil {
		fmt.Fprintf(m.out, "error: %v\n", err)
		return
	}
	m.Dir = filepath.Clean(dir)
	m.files = nil
}

func (m *Menu) changeDPI() {
	v, ok := m.prompt("DPI: ")
	if !ok || v == "" {
		return
	}
	dpi, err := strconv.Atoi(v)
	if err != nil || dpi <= 0 {
		fmt.Fprintf(m.out, "invalid DPI %q\n", v)
		return
	}
	m.Options = m.Options.WithDPI(dpi)
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
