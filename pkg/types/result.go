// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Status indicates the outcome of converting one file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result records the outcome of converting a single input into a single
// output. PDF inputs produce one Result per rendered page.
type Result struct {
	Input    string        `json:"input" yaml:"input"`
	Output   string        `json:"output" yaml:"output"`
	Kind     Kind          `json:"kind" yaml:"kind"`
	Engine   string        `json:"engine,omitempty" yaml:"engine,omitempty"`
	Status   Status        `json:"status" yaml:"status"`
	Err      error         `json:"-" yaml:"-"`
	Bytes    int64         `json:"bytes" yaml:"bytes"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// OK reports whether the file was converted.
func (r Result) OK() bool {
	return r.Status == StatusConverted
}

// Error returns the failure message, or "" for successful results.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Add counts r in the matching bucket.
func (b *BatchResult) Add(r Result) {
	switch r.Status {
	case StatusConverted:
		b.Converted++
	case StatusSkipped:
		b.Skipped++
	default:
		b.Failed++
	}
}

// Merge adds the counts of other into b.
func (b *BatchResult) Merge(other BatchResult) {
	b.Converted += other.Converted
	b.Skipped += other.Skipped
	b.Failed += other.Failed
}

// Total returns the total number of files processed.
func (b BatchResult) Total() int {
	return b.Converted + b.Skipped + b.Failed
}

// HasFailures reports whether any file failed conversion.
func (b BatchResult) HasFailures() bool {
	return b.Failed > 0
}
