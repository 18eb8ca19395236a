// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch converts files as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/vectorconv/internal/report"
	"github.com/pdiddy/vectorconv/pkg/types"
)

// DefaultDebounce is the quiet period after the last write to a file
// before it is converted.
const DefaultDebounce = 500 * time.Millisecond

// Converter runs one conversion. *convert.Converter implements it.
type Converter interface {
	ConvertFile(ctx context.Context, kind types.Kind, in, out string, opts types.Options) []types.Result
}

// Watcher converts every file with the kind's input extension created or
// rewritten in Dir, writing the result to OutDir.
type Watcher struct {
	Dir      string
	OutDir   string
	Kind     types.Kind
	Options  types.Options
	Debounce time.Duration

	// Existing converts the files already present before watching starts.
	Existing bool

	Conv     Converter
	Reporter report.Reporter

	// ready is called once the directory is being watched.
	ready func()
}

// Run watches until ctx is cancelled and returns the counts of the
// conversions it ran. Conversions run one at a time on the event loop.
func (w *Watcher) Run(ctx context.Context) (types.BatchResult, error) {
	var result types.BatchResult
	rep := w.Reporter
	if rep == nil {
		rep = report.Discard
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if err := os.MkdirAll(w.OutDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", w.OutDir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return result, fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.Dir); err != nil {
		return result, fmt.Errorf("watching %s: %w", w.Dir, err)
	}

	rep.Info("watch_start", fmt.Sprintf("Watching %s for %s files (%s), writing to %s", w.Dir, w.Kind.InputExt(), w.Kind.Label(), w.OutDir),
		map[string]any{"dir": w.Dir, "output": w.OutDir, "kind": string(w.Kind)})
	if w.ready != nil {
		w.ready()
	}

	pending := make(map[string]struct{})
	if w.Existing {
		entries, err := os.ReadDir(w.Dir)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", w.Dir, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && w.matches(e.Name()) {
				pending[filepath.Join(w.Dir, e.Name())] = struct{}{}
			}
		}
	}

	timer := time.NewTimer(debounce)
	defer timer.Stop()
	if len(pending) == 0 {
		timer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			rep.Info("watch_stop", fmt.Sprintf("Stopped watching %s: %d converted, %d failed", w.Dir, result.Converted, result.Failed), nil)
			return result, nil

		case ev, ok := <-fw.Events:
			if !ok {
				return result, nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return result, nil
			}
			rep.Warn("watch_error", fmt.Sprintf("watcher: %v", err), nil)

		case <-timer.C:
			for _, in := range drain(pending) {
				if ctx.Err() != nil {
					break
				}
				info, err := os.Stat(in)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				out := filepath.Join(w.OutDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+w.Kind.OutputExt())
				for _, r := range w.Conv.ConvertFile(ctx, w.Kind, in, out, w.Options) {
					result.Add(r)
				}
			}
		}
	}
}

// matches reports whether name has the kind's input extension.
func (w *Watcher) matches(name string) bool {
	return strings.EqualFold(filepath.Ext(name), w.Kind.InputExt())
}

// drain empties pending and returns its keys in order.
func drain(pending map[string]struct{}) []string {
	names := make([]string, 0, len(pending))
	for n := range pending {
		names = append(names, n)
		delete(pending, n)
	}
	sort.Strings(names)
	return names
}
