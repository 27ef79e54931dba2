package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/sofmeright/lintscope/src/scan"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Printer writes effective configurations as text.
type Printer struct {
	Writer  io.Writer
	Color   bool
	Explain bool // show the block that set each rule
}

// NewPrinter creates a printer writing to stdout with color auto-detection.
func NewPrinter() *Printer {
	return &Printer{
		Writer: os.Stdout,
		Color:  UseColor(),
	}
}

// Config prints the effective configuration of one file. A nil cfg means the
// file is globally ignored.
func (p *Printer) Config(path string, cfg *resolver.EffectiveConfig) {
	fmt.Fprintf(p.Writer, "\n%s\n", p.colorize(path, colorBold))

	if cfg == nil {
		fmt.Fprintf(p.Writer, "  %s\n", p.colorize("ignored", colorGray))
		return
	}
	if cfg.Empty() {
		fmt.Fprintf(p.Writer, "  %s\n", p.colorize("no matching blocks", colorGray))
		return
	}

	fmt.Fprintf(p.Writer, "  %-8s %s\n", "blocks", strings.Join(cfg.Matched, ", "))

	if keys := cfg.OptionKeys(); len(keys) > 0 {
		fmt.Fprintf(p.Writer, "  %s\n", "options")
		width := maxLen(keys)
		for _, k := range keys {
			fmt.Fprintf(p.Writer, "    %-*s  %s\n", width, k, formatValue(cfg.Options[k]))
		}
	}

	if ids := cfg.RuleIDs(); len(ids) > 0 {
		fmt.Fprintf(p.Writer, "  %s\n", "rules")
		width := maxLen(ids)
		for _, id := range ids {
			s := cfg.Rules[id]
			line := fmt.Sprintf("    %s  %-*s", severityTag(s.Severity, p.Color), width, id)
			if len(s.Params) > 0 {
				line += "  " + formatValue(s.Params)
			}
			if p.Explain {
				line += "  " + p.colorize("("+cfg.Sources[id]+")", colorGray)
			}
			fmt.Fprintln(p.Writer, strings.TrimRight(line, " "))
		}
	}
}

// Ignored prints whether a path is ignored. With quiet set only ignored
// paths are printed, bare.
func (p *Printer) Ignored(path string, ignored, quiet bool) {
	switch {
	case quiet && ignored:
		fmt.Fprintln(p.Writer, path)
	case quiet:
	case ignored:
		fmt.Fprintf(p.Writer, "%s  %s\n", p.colorize("ignored", colorYellow), path)
	default:
		fmt.Fprintf(p.Writer, "%s   %s\n", p.colorize("linted", colorCyan), path)
	}
}

// severityTag returns a fixed-width severity label, optionally colored.
func severityTag(s resolver.Severity, color bool) string {
	switch s {
	case resolver.SeverityError:
		if color {
			return colorRed + "ERROR" + colorReset
		}
		return "ERROR"
	case resolver.SeverityWarn:
		if color {
			return colorYellow + "WARN " + colorReset
		}
		return "WARN "
	case resolver.SeverityOff:
		if color {
			return colorGray + "OFF  " + colorReset
		}
		return "OFF  "
	default:
		return fmt.Sprintf("%-5s", s.String())
	}
}

// formatValue renders an option or parameter list compactly.
func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func maxLen(ss []string) int {
	n := 0
	for _, s := range ss {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

func (p *Printer) colorize(text, color string) string {
	if !p.Color {
		return text
	}
	return color + text + colorReset
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// SectionSummary renders scan totals inside a section.
func SectionSummary(sec *Section, s scan.Summary) {
	sec.Count("files", s.Files, "")
	sec.Count("planned", s.Files-s.Excluded-s.Unmatched, "")
	sec.Count("unmatched", s.Unmatched, "")
	sec.Count("excluded", s.Excluded, "global ignores")
	sec.Tally("parser", s.ByParser)
	sec.Tally("block", s.ByBlock)
}

// SectionDrift renders drift entries inside a section.
func SectionDrift(sec *Section, drift []scan.DriftEntry) {
	if len(drift) == 0 {
		sec.Status("effective configs", "unchanged", StatusOK)
		return
	}
	for _, d := range drift {
		st := StatusSkipped
		if d.Kind == scan.DriftChanged {
			st = StatusChanged
		}
		sec.Row("%-8s %s %s", d.Kind, d.Path, st.Icon(sec.color))
	}
}
