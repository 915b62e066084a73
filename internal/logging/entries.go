package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed log line.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	RunID     string         `json:"run_id,omitempty"`
	Component string         `json:"component,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	// MinLevel keeps entries at or above this level.
	MinLevel  string
	RunID     string
	Component string
	Since     time.Time
	Contains  string
}

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadEntries parses a log file, skipping lines that are not JSON objects.
// Entries are sorted by time.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseEntries(f)
}

func parseEntries(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func parseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, err
	}

	e := Entry{Attrs: make(map[string]any)}
	for k, v := range raw {
		s, _ := v.(string)
		switch k {
		case "time":
			e.Time, _ = time.Parse(time.RFC3339Nano, s)
		case "level":
			e.Level = s
		case "msg":
			e.Message = s
		case "run_id":
			e.RunID = s
		case "component":
			e.Component = s
		default:
			e.Attrs[k] = v
		}
	}
	return e, nil
}

// Apply returns the entries matching every set field of f.
func (f Filter) Apply(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) match(e Entry) bool {
	if f.MinLevel != "" {
		floor, ok1 := levelRank[ParseLevel(f.MinLevel)]
		got, ok2 := levelRank[e.Level]
		if ok1 && ok2 && got < floor {
			return false
		}
	}
	if f.RunID != "" && e.RunID != f.RunID {
		return false
	}
	if f.Component != "" && e.Component != f.Component {
		return false
	}
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	if f.Contains != "" && !strings.Contains(e.Message, f.Contains) {
		return false
	}
	return true
}

// Format renders an entry as one human-readable line.
func (e Entry) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s %s", e.Time.Format("2006-01-02 15:04:05.000"), e.Level, e.Message)
	if e.Component != "" {
		fmt.Fprintf(&b, " (%s)", e.Component)
	}
	if len(e.Attrs) > 0 {
		attrs, _ := json.Marshal(e.Attrs)
		b.WriteByte(' ')
		b.Write(attrs)
	}
	return b.String()
}
