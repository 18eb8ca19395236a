// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes progress events either as plain console lines or
// as newline-delimited JSON for scripting.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is the severity of an event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the Reporter implementation.
type Format string

const (
	FormatText   Format = "text"
	FormatNDJSON Format = "ndjson"
)

// Reporter receives progress events.
type Reporter interface {
	Info(event, message string, details map[string]any)
	Warn(event, message string, details map[string]any)
	Error(event, message string, details map[string]any)
}

// New returns the reporter for format writing to w.
func New(format Format, w io.Writer) (Reporter, error) {
	switch format {
	case "", FormatText:
		return &Text{W: w}, nil
	case FormatNDJSON:
		return &NDJSON{W: w}, nil
	}
	return nil, fmt.Errorf("unknown log format %q (want text or ndjson)", format)
}

// Text prints the message of each event on its own line. Warnings and
// errors are prefixed so they stand out in batch output.
type Text struct {
	W  io.Writer
	mu sync.Mutex
}

func (t *Text) Info(_, message string, _ map[string]any) { t.write("", message) }
func (t *Text) Warn(_, message string, _ map[string]any) { t.write("warning: ", message) }
func (t *Text) Error(_, message string, _ map[string]any) { t.write("error: ", message) }

func (t *Text) write(prefix, message string) {
	if t.W == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.W, "%s%s\n", prefix, message)
}

// event is one NDJSON line.
type event struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Event     string         `json:"event"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// NDJSON writes one JSON object per event.
type NDJSON struct {
	W   io.Writer
	Now func() time.Time
	mu  sync.Mutex
}

func (n *NDJSON) Info(ev, message string, details map[string]any) {
	n.emit(LevelInfo, ev, message, details)
}

func (n *NDJSON) Warn(ev, message string, details map[string]any) {
	n.emit(LevelWarn, ev, message, details)
}

func (n *NDJSON) Error(ev, message string, details map[string]any) {
	n.emit(LevelError, ev, message, details)
}

func (n *NDJSON) emit(level Level, ev, message string, details map[string]any) {
	if n.W == nil {
		return
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	e := event{
		Timestamp: now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Event:     ev,
		Message:   message,
		Details:   details,
	}
	buf, err := json.Marshal(e)
	if err != nil {
		buf, _ = json.Marshal(event{
			Timestamp: e.Timestamp,
			Level:     LevelError,
			Event:     "logger_error",
			Message:   "cannot encode event " + ev,
			Details:   map[string]any{"reason": err.Error()},
		})
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = n.W.Write(append(buf, '\n'))
}

// Discard drops every event.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Info(string, string, map[string]any) {}
func (discard) Warn(string, string, map[string]any) {}
func (discard) Error(string, string, map[string]any) {}
