// Package logging provides leveled logging and diff tracing for worddiff.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TraceLog for structured JSONL records of each diff (diffs.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug.
// At this level the diffed texts themselves are included in trace records.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "", "info", "debug", "trace":
		return true
	}
	return false
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TraceLog appends one JSON line per diff to a file.
// It is safe for concurrent use. A nil TraceLog is safe to use;
// all methods are no-ops on nil receiver.
type TraceLog struct {
	mu          sync.Mutex
	file        *os.File
	includeText bool
}

// NewTraceLog opens dir/diffs.jsonl for append.
// At "info" level (the default) it returns nil and no file is created.
// At "trace" level records also carry the old and new text.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewTraceLog(dir string, level string) *TraceLog {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "diffs.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &TraceLog{file: f, includeText: lvl <= LevelTrace}
}

// DiffRecord describes one completed diff.
type DiffRecord struct {
	Source   string        `json:"source"`
	Mode     string        `json:"mode"`
	Pattern  string        `json:"pattern,omitempty"`
	Added    int           `json:"added"`
	Removed  int           `json:"removed"`
	Segments int           `json:"segments"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
	OldText  string        `json:"old_text,omitempty"`
	NewText  string        `json:"new_text,omitempty"`
}

// Record writes rec as a single JSONL line with a "time" field added.
// Texts are dropped unless the log was opened at trace level.
// Safe to call on nil receiver.
func (tl *TraceLog) Record(rec DiffRecord) {
	if tl == nil || tl.file == nil {
		return
	}
	if !tl.includeText {
		rec.OldText, rec.NewText = "", ""
	}

	entry := struct {
		Time string `json:"time"`
		DiffRecord
	}{
		Time:       time.Now().UTC().Format(time.RFC3339Nano),
		DiffRecord: rec,
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = tl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (tl *TraceLog) Close() {
	if tl == nil || tl.file == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.file.Close()
	tl.file = nil
}
