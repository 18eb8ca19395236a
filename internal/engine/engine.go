// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine locates and invokes the external programs that do the
// actual image work: vtracer traces bitmaps into paths, rsvg-convert and
// Inkscape render SVG, and pdftoppm renders PDF pages. Engines that stream
// stdin to stdout can also run inside a container image when they are not
// installed on the host.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pdiddy/vectorconv/internal/container"
)

// ErrNotFound is returned when an engine is neither on PATH nor runnable
// through a container image.
var ErrNotFound = errors.New("engine not found")

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Tool is one external engine binary.
type Tool struct {
	name        string   // canonical name, also the entrypoint inside containers
	bin         string   // configured binary name or path
	versionArgs []string // e.g. ["--version"]
	stdio       bool     // reads input from stdin and writes output to stdout
	timeout     time.Duration

	exec  executor
	rt    container.Runtime
	image string
}

// Name returns the canonical engine name.
func (t *Tool) Name() string { return t.name }

// Bin returns the configured binary.
func (t *Tool) Bin() string { return t.bin }

// Path resolves the binary on PATH.
func (t *Tool) Path() (string, error) {
	p, err := t.exec.LookPath(t.bin)
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.bin, ErrNotFound)
	}
	return p, nil
}

// Available reports whether the binary is installed on the host.
func (t *Tool) Available() bool {
	_, err := t.Path()
	return err == nil
}

// Containerized reports whether the tool can fall back to the configured
// container image.
func (t *Tool) Containerized() bool {
	return t.stdio && t.rt != nil && t.image != ""
}

// Usable reports whether Run has any way to execute the tool.
func (t *Tool) Usable() bool {
	return t.Available() || t.Containerized()
}

// Version runs the tool's version flag and extracts the version number.
func (t *Tool) Version(ctx context.Context) (string, error) {
	path, err := t.Path()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := t.exec.Run(ctx, path, t.versionArgs, nil, &out, &out); err != nil {
		return "", fmt.Errorf("running %s %s: %w", t.bin, strings.Join(t.versionArgs, " "), err)
	}
	v, ok := extractVersion(out.String())
	if !ok {
		return "", fmt.Errorf("cannot parse %s version from %q", t.bin, firstLine(out.String()))
	}
	return v, nil
}

// Run executes the tool with args. The host binary is preferred; when it is
// missing and a container image is configured, stdio tools run inside the
// container. Stderr is captured and folded into the returned error.
func (t *Tool) Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	if stdout == nil {
		stdout = io.Discard
	}

	path, err := t.Path()
	if err != nil {
		if !t.Containerized() {
			return err
		}
		return t.rt.Exec(ctx, t.image, t.name, args, stdin, stdout)
	}

	var stderr bytes.Buffer
	if err := t.exec.Run(ctx, path, args, stdin, stdout, &stderr); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", t.name, ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", t.name, err, lastLines(msg, 3))
		}
		return fmt.Errorf("%s: %w", t.name, err)
	}
	return nil
}

// extractVersion returns the first whitespace-separated token that looks
// like a dotted version number ("2.56.3", "v0.6.4", "1.2.2").
func extractVersion(text string) (string, bool) {
	for _, field := range strings.Fields(firstLine(text)) {
		tok := strings.TrimPrefix(strings.Trim(field, "(),"), "v")
		parts := strings.Split(tok, ".")
		if len(parts) < 2 {
			continue
		}
		if isDigits(parts[0]) && isDigits(parts[1]) {
			return tok, true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}
