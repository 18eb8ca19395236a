// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"io"
	"runtime"
)

// Status describes whether one engine can be used.
type Status struct {
	Name          string `json:"name" yaml:"name"`
	Bin           string `json:"bin" yaml:"bin"`
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
	Available     bool   `json:"available" yaml:"available"`
	Containerized bool   `json:"containerized" yaml:"containerized"`
	Hint          string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Detect probes every engine in the set. It never fails: problems are
// reported in the returned statuses.
func Detect(ctx context.Context, s *Set) []Status {
	tools := s.Tools()
	out := make([]Status, 0, len(tools))
	for _, t := range tools {
		st := Status{
			Name:          t.Name(),
			Bin:           t.Bin(),
			Containerized: t.Containerized(),
		}
		if path, err := t.Path(); err == nil {
			st.Path = path
			st.Available = true
			if v, err := t.Version(ctx); err == nil {
				st.Version = v
			}
		} else if !st.Containerized {
			st.Hint = InstallHint(runtime.GOOS, t.Name())
		}
		out = append(out, st)
	}
	return out
}

// WriteTable prints statuses as aligned text lines.
func WriteTable(w io.Writer, statuses []Status) {
	for _, st := range statuses {
		switch {
		case st.Available:
			version := st.Version
			if version == "" {
				version = "unknown version"
			}
			fmt.Fprintf(w, "  %-13s ok        %s (%s)\n", st.Name, st.Path, version)
		case st.Containerized:
			fmt.Fprintf(w, "  %-13s container (not on PATH, runs in the configured image)\n", st.Name)
		default:
			fmt.Fprintf(w, "  %-13s missing   %s\n", st.Name, st.Hint)
		}
	}
}

// InstallHint returns a one-line installation suggestion for a missing
// engine on the given operating system.
func InstallHint(goos, name string) string {
	switch name {
	case NameVtracer:
		return "install with: cargo install vtracer (or download a release binary)"
	case NameRsvg:
		switch goos {
		case "darwin":
			return "install with: brew install librsvg"
		case "windows":
			return "install with: scoop install rsvg-convert (or choco install rsvg-convert)"
		default:
			return "install with: sudo apt-get install librsvg2-bin (or your package manager)"
		}
	case NameInkscape:
		switch goos {
		case "darwin":
			return "install with: brew install --cask inkscape"
		case "windows":
			return "install with: scoop install inkscape (or choco install inkscape)"
		default:
			return "install with: sudo apt-get install inkscape (or your package manager)"
		}
	case NamePdftoppm:
		switch goos {
		case "darwin":
			return "install with: brew install poppler"
		case "windows":
			return "install with: scoop install poppler (or choco install poppler)"
		default:
			return "install with: sudo apt-get install poppler-utils (or your package manager)"
		}
	}
	return ""
}
