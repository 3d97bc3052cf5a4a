// Package mcplog records MCP tool calls as JSON lines and summarizes the
// resulting log.
package mcplog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	// maxParamString is the longest string parameter logged verbatim.
	// Component sources sent to parse_component are far longer.
	maxParamString = 64

	// maxParamItems is the longest list parameter logged verbatim.
	maxParamItems = 8
)

// LogEntry is one line of the call log.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	Error         *string        `json:"error"`
}

// Logger appends entries to a file. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating it and its directory as
// needed. An empty path yields a nil Logger and no error; callers treat
// nil as logging disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry. Callers ignore the error so logging never
// changes a tool result.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SanitizeParams returns a copy of args fit for the log. Long strings are
// replaced by a "<key>_len" entry and long lists by "<key>_count".
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		switch val := v.(type) {
		case string:
			if len(val) > maxParamString {
				out[k+"_len"] = len(val)
				continue
			}
		case []any:
			if len(val) > maxParamItems {
				out[k+"_count"] = len(val)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// ResponseBytes returns the encoded size of a result's content, 0 for a nil
// result.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// ResultText joins the text content of a result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ReadEntries decodes a call log. Blank lines are skipped; a malformed
// line is an error naming its line number.
func ReadEntries(r io.Reader) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("mcplog: line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mcplog: read log: %w", err)
	}
	return entries, nil
}

// ToolSummary aggregates the calls of one tool.
type ToolSummary struct {
	Tool          string
	Calls         int
	Errors        int
	AvgDurationMs float64
	MaxDurationMs int64
	TokensEst     int
}

// Summarize groups entries by tool, ordered by call count and then name.
func Summarize(entries []LogEntry) []ToolSummary {
	byTool := make(map[string]*ToolSummary)
	totals := make(map[string]int64)
	for _, e := range entries {
		s, ok := byTool[e.Tool]
		if !ok {
			s = &ToolSummary{Tool: e.Tool}
			byTool[e.Tool] = s
		}
		s.Calls++
		if e.Error != nil {
			s.Errors++
		}
		if e.DurationMs > s.MaxDurationMs {
			s.MaxDurationMs = e.DurationMs
		}
		s.TokensEst += e.TokensEst
		totals[e.Tool] += e.DurationMs
	}

	out := make([]ToolSummary, 0, len(byTool))
	for tool, s := range byTool {
		s.AvgDurationMs = float64(totals[tool]) / float64(s.Calls)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Tool < out[j].Tool
	})
	return out
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
