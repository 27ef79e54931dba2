package output

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/sofmeright/lintscope/src/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	r, err := resolver.Load([]resolver.OverrideBlock{
		{
			Name:    "typescript",
			Files:   []string{"**/*.ts"},
			Options: map[string]any{"parser": "@typescript-eslint/parser", "globals": []any{"browser"}},
			Rules: map[string]resolver.RuleSetting{
				"complexity":   resolver.Rule(resolver.SeverityWarn, 15),
				"import/order": resolver.Rule(resolver.SeverityOff),
			},
		},
		{
			Name:  "strict",
			Files: []string{"src/core/**"},
			Rules: map[string]resolver.RuleSetting{"complexity": resolver.Rule(resolver.SeverityError, 10)},
		},
	}, []string{"dist"})
	require.NoError(t, err)
	return r
}

func TestPrinter_Config(t *testing.T) {
	r := testResolver(t)
	var buf bytes.Buffer
	p := &Printer{Writer: &buf, Explain: true}

	cfg, ok := r.Resolve("src/core/app.ts")
	require.True(t, ok)
	p.Config("src/core/app.ts", cfg)

	out := buf.String()
	assert.Contains(t, out, "src/core/app.ts\n")
	assert.Contains(t, out, "  blocks   typescript, strict\n")
	assert.Contains(t, out, `    globals  ["browser"]`)
	assert.Contains(t, out, `    parser   "@typescript-eslint/parser"`)
	assert.Contains(t, out, "    ERROR  complexity    [10]  (strict)\n")
	assert.Contains(t, out, "    OFF    import/order  (typescript)\n")
	assert.NotContains(t, out, "\033[", "no color codes when color is off")
}

func TestPrinter_ConfigIgnoredAndUnmatched(t *testing.T) {
	r := testResolver(t)
	var buf bytes.Buffer
	p := &Printer{Writer: &buf}

	cfg, ok := r.Resolve("dist/app.ts")
	require.False(t, ok)
	p.Config("dist/app.ts", cfg)

	cfg, _ = r.Resolve("README.md")
	p.Config("README.md", cfg)

	assert.Equal(t, "\ndist/app.ts\n  ignored\n\nREADME.md\n  no matching blocks\n", buf.String())
}

func TestPrinter_Ignored(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Writer: &buf}
	p.Ignored("dist/a.js", true, false)
	p.Ignored("src/a.ts", false, false)
	p.Ignored("dist/b.js", true, true)
	p.Ignored("src/b.ts", false, true)

	assert.Equal(t, "ignored  dist/a.js\nlinted   src/a.ts\ndist/b.js\n", buf.String())
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Plan", 1500*time.Millisecond, false)
	SectionSummary(sec, scan.Summary{
		Files: 4, Excluded: 1, Unmatched: 1,
		ByParser: map[string]int{"@typescript-eslint/parser": 2},
		ByBlock:  map[string]int{"typescript": 2},
	})
	sec.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "── Plan "))
	assert.True(t, strings.HasSuffix(lines[0], " 1.5s ──"))
	assert.Contains(t, buf.String(), "    │ planned          2\n")
	assert.Contains(t, buf.String(), "    │ typescript                           2\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "└"))
}

func TestSectionDrift(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Drift", 0, false)
	SectionDrift(sec, nil)
	SectionDrift(sec, []scan.DriftEntry{
		{Path: "src/a.ts", Kind: scan.DriftChanged},
		{Path: "src/b.ts", Kind: scan.DriftAdded},
	})
	sec.Close()

	out := buf.String()
	header := strings.Split(strings.TrimSpace(out), "\n")[0]
	assert.Equal(t, frameWidth+4, utf8.RuneCountInString(header))
	assert.Contains(t, out, "    │ effective configs: unchanged ✓\n")
	assert.Contains(t, out, "    │ changed  src/a.ts ✗\n")
	assert.Contains(t, out, "    │ added    src/b.ts ⊘\n")
}

func TestContextBlock(t *testing.T) {
	var buf bytes.Buffer
	ContextBlock(&buf, []KV{{Key: "config", Value: ".lintscope.yml"}, {Key: "root", Value: "."}})
	assert.Equal(t, "\n    config  .lintscope.yml\n    root    .\n", buf.String())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "<1ms", formatElapsed(300*time.Microsecond))
	assert.Equal(t, "12ms", formatElapsed(12*time.Millisecond+400*time.Microsecond))
	assert.Equal(t, "1.5s", formatElapsed(1480*time.Millisecond))
	assert.Equal(t, "1m2.3s", formatElapsed(62300*time.Millisecond))
}

func TestWriteDriftJUnit(t *testing.T) {
	r := testResolver(t)
	var plans []scan.FilePlan
	for _, p := range []string{"src/a.ts", "src/core/b.ts", "dist/c.ts"} {
		cfg, ok := r.Resolve(p)
		plans = append(plans, scan.FilePlan{Path: p, Excluded: !ok, Config: cfg})
	}
	drift := []scan.DriftEntry{
		{Path: "src/core/b.ts", Kind: scan.DriftChanged},
		{Path: "src/gone.ts", Kind: scan.DriftRemoved},
	}

	dir := t.TempDir()
	require.NoError(t, WriteDriftJUnit(dir, plans, drift, time.Second))

	data, err := os.ReadFile(filepath.Join(dir, "drift.xml"))
	require.NoError(t, err)

	var got JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &got))
	assert.Equal(t, 2, got.Tests)
	assert.Equal(t, 1, got.Failures)
	require.Len(t, got.Suites, 1)
	require.Len(t, got.Suites[0].Cases, 2)
	assert.Nil(t, got.Suites[0].Cases[0].Failure)
	require.NotNil(t, got.Suites[0].Cases[1].Failure)
	assert.Equal(t, "matched blocks: typescript, strict", got.Suites[0].Cases[1].Failure.Body)
}
