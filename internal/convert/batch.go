// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/vectorconv/internal/fetch"
	"github.com/pdiddy/vectorconv/pkg/types"
)

// BatchOptions controls a batch run.
type BatchOptions struct {
	Options types.Options

	// SkipExisting leaves inputs whose output already exists untouched.
	SkipExisting bool
}

// IsPattern reports whether s contains a glob meta character.
func IsPattern(s string) bool {
	return !fetch.IsRemote(s) && strings.ContainsAny(s, "*?[")
}

// OutputPath returns the default output for in: the same path with the
// kind's output extension. Remote inputs are named after the last URL
// path element in the current directory.
func OutputPath(in string, kind types.Kind) string {
	if fetch.IsRemote(in) {
		name := "download"
		if u, err := url.Parse(in); err == nil {
			if b := path.Base(u.Path); b != "." && b != "/" && b != "" {
				name = b
			}
		}
		in = name
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + kind.OutputExt()
}

// Single converts in according to kind. A pattern input becomes a batch
// into out, or into the kind's default directory when out is empty. A
// plain input is converted to out, defaulting to OutputPath.
func (c *Converter) Single(ctx context.Context, kind types.Kind, in, out string, opts BatchOptions) (types.BatchResult, error) {
	if IsPattern(in) {
		if out == "" {
			out = kind.DefaultOutputDir()
		}
		return c.Batch(ctx, in, out, kind, opts)
	}

	if out == "" {
		out = OutputPath(in, kind)
	}
	var result types.BatchResult
	if opts.SkipExisting && outputExists(out, kind) {
		result.Add(c.skip(ctx, types.Result{Input: in, Output: out, Kind: kind}))
		return result, nil
	}
	for _, r := range c.ConvertFile(ctx, kind, in, out, opts.Options) {
		result.Add(r)
	}
	return result, nil
}

// Batch converts every file matching pattern into outDir, sequentially.
// Files found through a recursive "**" pattern keep their directory
// relative to the pattern's fixed prefix. Per-file failures are counted,
// never returned; the error is reserved for an invalid pattern or an
// unusable output directory.
func (c *Converter) Batch(ctx context.Context, pattern, outDir string, kind types.Kind, opts BatchOptions) (types.BatchResult, error) {
	var result types.BatchResult

	files, err := Glob(pattern)
	if err != nil {
		return result, fmt.Errorf("matching %q: %w", pattern, err)
	}
	if len(files) == 0 {
		c.Reporter.Info("batch_empty", fmt.Sprintf("no files matched pattern: %s", pattern),
			map[string]any{"pattern": pattern})
		return result, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	c.Reporter.Info("batch_found", fmt.Sprintf("found %d files to convert", len(files)),
		map[string]any{"pattern": pattern, "count": len(files), "kind": string(kind)})

	root := staticRoot(pattern)
	for _, in := range files {
		if ctx.Err() != nil {
			c.Reporter.Warn("batch_cancelled", "batch cancelled", nil)
			break
		}
		out := batchOutput(in, root, outDir, kind)
		if opts.SkipExisting && outputExists(out, kind) {
			result.Add(c.skip(ctx, types.Result{Input: in, Output: out, Kind: kind}))
			continue
		}
		for _, r := range c.ConvertFile(ctx, kind, in, out, opts.Options) {
			result.Add(r)
		}
	}

	c.Reporter.Info("batch_done",
		fmt.Sprintf("Batch conversion complete: %d converted, %d skipped, %d failed (total: %d)",
			result.Converted, result.Skipped, result.Failed, result.Total()),
		map[string]any{"converted": result.Converted, "skipped": result.Skipped,
			"failed": result.Failed, "run_id": c.RunID})
	return result, nil
}

// batchOutput places in under outDir with the kind's extension,
// preserving its directory below root.
func batchOutput(in, root, outDir string, kind types.Kind) string {
	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + kind.OutputExt()
	rel, err := filepath.Rel(root, filepath.Dir(in))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Join(outDir, name)
	}
	return filepath.Join(outDir, rel, name)
}

// outputExists reports whether the output for a conversion is already in
// place. For PDF pages either the single-page name or the first numbered
// page counts.
func outputExists(out string, kind types.Kind) bool {
	if _, err := os.Stat(out); err == nil {
		return true
	}
	if kind != types.KindPDFToPNG {
		return false
	}
	matches, _ := filepath.Glob(escapeMeta(strings.TrimSuffix(out, ".png")) + "-*.png")
	return len(matches) > 0
}

// Glob returns the regular files matching pattern in lexical order. In
// addition to filepath.Match syntax, a "**" path element matches any
// number of directories.
func Glob(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		return regularFiles(matches), nil
	}

	if _, err := path.Match(strings.ReplaceAll(filepath.ToSlash(pattern), "**", "*"), ""); err != nil {
		return nil, err
	}
	segs := strings.Split(filepath.ToSlash(filepath.Clean(pattern)), "/")
	root := staticRoot(pattern)

	var matches []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if matchSegments(segs, strings.Split(filepath.ToSlash(filepath.Clean(p)), "/")) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// matchSegments matches path elements against pattern elements, where
// "**" consumes zero or more elements.
func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], name[0])
		if err != nil || !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}

// staticRoot returns the directory prefix of pattern that contains no
// meta characters.
func staticRoot(pattern string) string {
	segs := strings.Split(filepath.ToSlash(filepath.Clean(pattern)), "/")
	var fixed []string
	for _, s := range segs[:len(segs)-1] {
		if strings.ContainsAny(s, "*?[") {
			break
		}
		fixed = append(fixed, s)
	}
	if len(fixed) == 0 {
		return "."
	}
	root := strings.Join(fixed, "/")
	if root == "" {
		return "/"
	}
	return filepath.FromSlash(root)
}

func regularFiles(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func escapeMeta(s string) string {
	r := strings.NewReplacer("*", `\*`, "?", `\?`, "[", `\[`)
	return r.Replace(s)
}
