package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sofmeright/lintscope/src/scan"
)

// CI environment detection.

func IsCI() bool {
	return os.Getenv("CI") == "true"
}

func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

// GitLab collapsible section helpers.

func SectionStart(w io.Writer, id, name string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s\r\033[0K%s\n", ts, id, name)
}

func SectionEnd(w io.Writer, id string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_end:%d:%s\r\033[0K\n", ts, id)
}

// SectionStartCollapsed starts a section that is collapsed by default.
func SectionStartCollapsed(w io.Writer, id, name string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s[collapsed=true]\r\033[0K%s\n", ts, id, name)
}

// JUnit XML types for CI test reporting.

type JUnitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// WriteDriftJUnit writes a drift report as JUnit XML for CI test reporting.
// Each resolved file is a test case; a file whose effective configuration
// changed since the previous snapshot is a failure.
func WriteDriftJUnit(dir string, plans []scan.FilePlan, drift []scan.DriftEntry, elapsed time.Duration) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	kinds := make(map[string]scan.DriftKind, len(drift))
	for _, d := range drift {
		kinds[d.Path] = d.Kind
	}

	suite := JUnitTestSuite{
		Name: "lintscope/drift",
		Time: fmt.Sprintf("%.3f", elapsed.Seconds()),
	}
	for _, p := range plans {
		if p.Excluded {
			continue
		}
		tc := JUnitTestCase{
			Name:      p.Path,
			Classname: "lintscope.drift",
			Time:      "0.000",
		}
		if kinds[p.Path] == scan.DriftChanged {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("effective configuration of %s changed", p.Path),
				Type:    string(scan.DriftChanged),
				Body:    "matched blocks: " + strings.Join(p.Config.Matched, ", "),
			}
			suite.Failures++
		}
		suite.Cases = append(suite.Cases, tc)
		suite.Tests++
	}

	root := JUnitTestSuites{
		Name:     "lintscope",
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Time:     suite.Time,
		Suites:   []JUnitTestSuite{suite},
	}

	path := filepath.Join(dir, "drift.xml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	_, err = f.WriteString("\n")
	return err
}

// CIHeader prints a compact pipeline context block at the start of a CI run.
func CIHeader(w io.Writer) {
	if !IsCI() {
		return
	}
	parts := []string{}
	if tag := os.Getenv("CI_COMMIT_TAG"); tag != "" {
		parts = append(parts, fmt.Sprintf("tag=%s", tag))
	}
	if sha := os.Getenv("CI_COMMIT_SHORT_SHA"); sha != "" {
		parts = append(parts, fmt.Sprintf("sha=%s", sha))
	} else if sha := os.Getenv("CI_COMMIT_SHA"); sha != "" && len(sha) >= 8 {
		parts = append(parts, fmt.Sprintf("sha=%s", sha[:8]))
	}
	if pipe := os.Getenv("CI_PIPELINE_ID"); pipe != "" {
		parts = append(parts, fmt.Sprintf("pipeline=%s", pipe))
	}
	if runner := os.Getenv("CI_RUNNER_DESCRIPTION"); runner != "" {
		parts = append(parts, fmt.Sprintf("runner=%s", runner))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  ci: %s\n", strings.Join(parts, "  "))
	}
}
