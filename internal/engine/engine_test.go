// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vectorconv/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	bins    map[string]bool
	runFunc func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
	calls   []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.bins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, name+" "+strings.Join(args, " "))
	if m.runFunc != nil {
		return m.runFunc(name, args, stdin, stdout, stderr)
	}
	return nil
}

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	image      string
	entrypoint string
	args       []string
}

func (f *fakeRuntime) Name() string { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }
func (f *fakeRuntime) ImageExists(context.Context, string) error { return nil }
func (f *fakeRuntime) Exec(_ context.Context, image, entrypoint string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.image, f.entrypoint, f.args = image, entrypoint, args
	data, _ := io.ReadAll(stdin)
	_, err := stdout.Write(append([]byte("from-container:"), data...))
	return err
}

func TestToolRunNative(t *testing.T) {
	exec := &mockExecutor{
		bins: map[string]bool{"rsvg-convert": true},
		runFunc: func(_ string, _ []string, stdin io.Reader, stdout, _ io.Writer) error {
			data, _ := io.ReadAll(stdin)
			_, _ = stdout.Write(append([]byte("png:"), data...))
			return nil
		},
	}
	set := newSet(types.EngineConfig{}, nil, exec)

	var out bytes.Buffer
	err := set.RsvgPNG(context.Background(), strings.NewReader("<svg/>"), types.DefaultRasterOptions(), &out)
	require.NoError(t, err)
	assert.Equal(t, "png:<svg/>", out.String())
	require.Len(t, exec.calls, 1)
	assert.True(t, strings.HasPrefix(exec.calls[0], "/usr/bin/rsvg-convert --format png"))
}

func TestToolRunMissing(t *testing.T) {
	set := newSet(types.EngineConfig{}, nil, &mockExecutor{})
	err := set.Trace(context.Background(), "a.png", "a.svg", types.DefaultTraceOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToolRunFoldsStderr(t *testing.T) {
	exec := &mockExecutor{
		bins: map[string]bool{"vtracer": true},
		runFunc: func(_ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
			_, _ = stderr.Write([]byte("line one\nError: image decode failed\n"))
			return errors.New("exit status 1")
		},
	}
	set := newSet(types.EngineConfig{}, nil, exec)
	err := set.Trace(context.Background(), "a.png", "a.svg", types.DefaultTraceOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image decode failed")
	assert.Contains(t, err.Error(), "vtracer")
}

func TestToolRunContainerFallback(t *testing.T) {
	rt := &fakeRuntime{}
	set := newSet(types.EngineConfig{Image: "tools:1"}, rt, &mockExecutor{})

	var out bytes.Buffer
	err := set.PdftoppmPage(context.Background(), strings.NewReader("%PDF"), 2, types.DefaultPageOptions(), &out)
	require.NoError(t, err)
	assert.Equal(t, "from-container:%PDF", out.String())
	assert.Equal(t, "tools:1", rt.image)
	assert.Equal(t, NamePdftoppm, rt.entrypoint)
	assert.Contains(t, rt.args, "-singlefile")

	// vtracer works on files, so it never runs in the container.
	err = set.Trace(context.Background(), "a.png", "a.svg", types.DefaultTraceOptions())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToolVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{name: "rsvg", output: "rsvg-convert version 2.56.3\n", want: "2.56.3"},
		{name: "inkscape", output: "Inkscape 1.2.2 (b0a8486541, 2022-12-01)\n", want: "1.2.2"},
		{name: "vtracer", output: "vtracer 0.6.4\n", want: "0.6.4"},
		{name: "pdftoppm", output: "pdftoppm version 22.02.0\nCopyright 2005-2022\n", want: "22.02.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{
				bins: map[string]bool{"tool": true},
				runFunc: func(_ string, _ []string, _ io.Reader, stdout, _ io.Writer) error {
					_, _ = stdout.Write([]byte(tt.output))
					return nil
				},
			}
			tool := &Tool{name: tt.name, bin: "tool", versionArgs: []string{"--version"}, exec: exec}
			got, err := tool.Version(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect(t *testing.T) {
	exec := &mockExecutor{
		bins: map[string]bool{"vtracer": true, "/opt/rsvg": true},
		runFunc: func(name string, _ []string, _ io.Reader, stdout, _ io.Writer) error {
			_, _ = stdout.Write([]byte(name + " version 1.0.0\n"))
			return nil
		},
	}
	set := newSet(types.EngineConfig{Rsvg: "/opt/rsvg"}, nil, exec)
	statuses := Detect(context.Background(), set)
	require.Len(t, statuses, 4)

	byName := map[string]Status{}
	for _, st := range statuses {
		byName[st.Name] = st
	}
	assert.True(t, byName[NameVtracer].Available)
	assert.Equal(t, "1.0.0", byName[NameVtracer].Version)
	assert.True(t, byName[NameRsvg].Available)
	assert.Equal(t, "/opt/rsvg", byName[NameRsvg].Bin)
	assert.False(t, byName[NameInkscape].Available)
	assert.NotEmpty(t, byName[NameInkscape].Hint)
	assert.False(t, byName[NamePdftoppm].Available)

	var buf bytes.Buffer
	WriteTable(&buf, statuses)
	assert.Contains(t, buf.String(), "missing")
	assert.Contains(t, buf.String(), "ok")
}

func TestInstallHint(t *testing.T) {
	assert.Contains(t, InstallHint("linux", NamePdftoppm), "poppler-utils")
	assert.Contains(t, InstallHint("darwin", NameRsvg), "brew install librsvg")
	assert.Contains(t, InstallHint("windows", NameInkscape), "scoop")
	assert.Contains(t, InstallHint("linux", NameVtracer), "cargo install vtracer")
	assert.Empty(t, InstallHint("linux", "unknown"))
}
