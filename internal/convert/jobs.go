// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vectorconv/pkg/types"
)

// Job is one entry of a YAML job file:
//
//	jobs:
//	  - name: icons
//	    type: svg2png
//	    input: "art/**/*.svg"
//	    output: build/icons
//	    dpi: 300
//	    skip_existing: true
//	    options:
//	      raster:
//	        width: 256
//
// Options overlays the run's defaults; only the keys present change.
type Job struct {
	Name         string    `yaml:"name"`
	Type         string    `yaml:"type"`
	Input        string    `yaml:"input"`
	Output       string    `yaml:"output"`
	DPI          int       `yaml:"dpi"`
	SkipExisting bool      `yaml:"skip_existing"`
	Options      yaml.Node `yaml:"options"`
}

// JobFile is the top-level document of a job file.
type JobFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs decodes and validates a job file.
func LoadJobs(r io.Reader) ([]Job, error) {
	var jf JobFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&jf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("job file is empty")
		}
		return nil, fmt.Errorf("parsing job file: %w", err)
	}
	if len(jf.Jobs) == 0 {
		return nil, errors.New("job file defines no jobs")
	}
	for i, j := range jf.Jobs {
		if j.Input == "" {
			return nil, fmt.Errorf("job %d (%s): input is required", i+1, j.label(i))
		}
		if _, _, err := j.resolve(types.DefaultOptions()); err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i+1, j.label(i), err)
		}
	}
	return jf.Jobs, nil
}

// LoadJobFile reads the job file at path.
func LoadJobFile(path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening job file: %w", err)
	}
	defer f.Close()
	return LoadJobs(f)
}

func (j Job) label(i int) string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// resolve returns the kind and the options for j layered over base.
// Unknown keys under options are rejected like those of the job itself.
func (j Job) resolve(base types.Options) (types.Kind, types.Options, error) {
	kind, err := types.ParseKind(j.Type)
	if err != nil {
		return "", base, err
	}
	opts := base.WithDPI(j.DPI)
	if !j.Options.IsZero() {
		raw, err := yaml.Marshal(&j.Options)
		if err != nil {
			return "", base, fmt.Errorf("decoding options: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil {
			return "", base, fmt.Errorf("decoding options: %w", err)
		}
	}
	return kind, opts, nil
}

// RunJobs runs each job in order and returns the combined counts. A job
// whose options cannot be decoded counts as one failure and the remaining
// jobs still run.
func (c *Converter) RunJobs(ctx context.Context, jobs []Job, base types.Options) types.BatchResult {
	var total types.BatchResult
	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		c.Reporter.Info("job_start", fmt.Sprintf("Job %s: %s %s", j.label(i), j.Type, j.Input),
			map[string]any{"job": j.label(i), "type": j.Type, "input": j.Input, "output": j.Output})

		kind, opts, err := j.resolve(base)
		if err != nil {
			c.Reporter.Error("job_failed", fmt.Sprintf("job %s: %v", j.label(i), err), nil)
			total.Failed++
			continue
		}
		res, err := c.Single(ctx, kind, j.Input, j.Output, BatchOptions{Options: opts, SkipExisting: j.SkipExisting})
		if err != nil {
			c.Reporter.Error("job_failed", fmt.Sprintf("job %s: %v", j.label(i), err), nil)
			total.Failed++
		}
		total.Merge(res)
	}
	return total
}
