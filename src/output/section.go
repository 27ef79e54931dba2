package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sofmeright/lintscope/src/scan"
)

const frameWidth = 61

// Status is the outcome shown next to a row.
type Status int

const (
	StatusOK Status = iota
	StatusChanged
	StatusSkipped
)

// Icon renders the status glyph, colored when color is set.
func (s Status) Icon(color bool) string {
	glyph, code := "⊘", "33"
	switch s {
	case StatusOK:
		glyph, code = "✓", "32"
	case StatusChanged:
		glyph, code = "✗", "31"
	}
	if !color {
		return glyph
	}
	return "\033[" + code + "m" + glyph + "\033[0m"
}

// Section is a framed block of rows:
//
//	── Plan ──────────────── 12ms ──
//	│ files          4
//	└───────────────────────────────
type Section struct {
	w     io.Writer
	color bool
}

// NewSection writes the header for title and returns the section. A non-zero
// elapsed is shown at the right end of the header.
func NewSection(w io.Writer, title string, elapsed time.Duration, color bool) *Section {
	s := &Section{w: w, color: color}

	label := "── " + title + " "
	suffix := "──"
	if elapsed > 0 {
		suffix = " " + formatElapsed(elapsed) + " ──"
	}
	fill := max(frameWidth+4-utf8.RuneCountInString(label)-utf8.RuneCountInString(suffix), 1)
	header := label + strings.Repeat("─", fill) + suffix
	if color {
		header = "\033[2;36m" + header + "\033[0m"
	}
	fmt.Fprintf(w, "\n    %s\n", header)
	return s
}

// Row writes one line inside the frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "    │ %s\n", fmt.Sprintf(format, args...))
}

// Count writes a label with a right-aligned count and an optional dimmed note.
func (s *Section) Count(label string, n int, note string) {
	if note == "" {
		s.Row("%-12s%6d", label, n)
		return
	}
	s.Row("%-12s%6d  %s", label, n, Dimmed(note, s.color))
}

// Tally writes a divider, a heading row, and one row per key in name order.
// Nothing is written for an empty map.
func (s *Section) Tally(heading string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	s.Divider()
	s.Row("%-32s%6s", heading, "files")
	for _, name := range scan.Keys(counts) {
		s.Row("%-32s%6d", name, counts[name])
	}
}

// Status writes "label: detail icon", or "label icon" without detail.
func (s *Section) Status(label, detail string, st Status) {
	if detail == "" {
		s.Row("%s %s", label, st.Icon(s.color))
		return
	}
	s.Row("%s: %s %s", label, detail, st.Icon(s.color))
}

func (s *Section) Divider() {
	fmt.Fprintf(s.w, "    ├%s\n", strings.Repeat("─", frameWidth))
}

// Close writes the footer.
func (s *Section) Close() {
	fmt.Fprintf(s.w, "    └%s\n", strings.Repeat("─", frameWidth))
}

// Dimmed returns text in grey when color is set.
func Dimmed(text string, color bool) string {
	if !color {
		return text
	}
	return "\033[90m" + text + "\033[0m"
}

// KV is one line of a ContextBlock.
type KV struct {
	Key   string
	Value string
}

// ContextBlock prints one key/value pair per line, values aligned after the
// longest key.
func ContextBlock(w io.Writer, kv []KV) {
	if len(kv) == 0 {
		return
	}
	width := 0
	for _, p := range kv {
		width = max(width, len(p.Key))
	}
	fmt.Fprintln(w)
	for _, p := range kv {
		fmt.Fprintf(w, "    %-*s  %s\n", width, p.Key, p.Value)
	}
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
