package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	stateDir        = ".lintscope"
	cacheDir        = stateDir + "/cache"
	snapshotName    = "plan.json"
	snapshotVersion = 1
)

// Cache persists effective-config fingerprints between runs so that drift
// can be reported.
type Cache struct {
	RootDir string
}

// Snapshot maps file paths to the fingerprint of their effective
// configuration. Excluded files are not recorded.
type Snapshot struct {
	Version int               `json:"version"`
	Files   map[string]string `json:"files"`
}

// NewSnapshot records the fingerprints of plans.
func NewSnapshot(plans []FilePlan) Snapshot {
	s := Snapshot{Version: snapshotVersion, Files: make(map[string]string, len(plans))}
	for _, p := range plans {
		if p.Excluded {
			continue
		}
		s.Files[p.Path] = p.Config.Fingerprint()
	}
	return s
}

// Load reads the last saved snapshot. ok is false when none exists or it
// was written by an incompatible version.
func (c *Cache) Load() (s Snapshot, ok bool, err error) {
	data, err := os.ReadFile(c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("reading snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, false, fmt.Errorf("parsing snapshot %s: %w", c.path(), err)
	}
	if s.Version != snapshotVersion {
		return Snapshot{}, false, nil
	}
	return s, true, nil
}

// Save writes s, replacing any previous snapshot.
func (c *Cache) Save(s Snapshot) error {
	path := c.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// Clear removes the cache directory.
func (c *Cache) Clear() error {
	return os.RemoveAll(filepath.Join(c.RootDir, cacheDir))
}

func (c *Cache) path() string {
	return filepath.Join(c.RootDir, cacheDir, snapshotName)
}

// DriftKind classifies a change between two snapshots.
type DriftKind string

const (
	DriftAdded   DriftKind = "added"
	DriftChanged DriftKind = "changed"
	DriftRemoved DriftKind = "removed"
)

// DriftEntry is one file whose effective configuration differs from the
// previous snapshot.
type DriftEntry struct {
	Path string    `json:"path" yaml:"path"`
	Kind DriftKind `json:"kind" yaml:"kind"`
}

// Drift compares plans with a previous snapshot and returns the differences
// sorted by path.
func Drift(prev Snapshot, plans []FilePlan) []DriftEntry {
	cur := NewSnapshot(plans)

	var out []DriftEntry
	for path, fp := range cur.Files {
		old, seen := prev.Files[path]
		switch {
		case !seen:
			out = append(out, DriftEntry{Path: path, Kind: DriftAdded})
		case old != fp:
			out = append(out, DriftEntry{Path: path, Kind: DriftChanged})
		}
	}
	for path := range prev.Files {
		if _, ok := cur.Files[path]; !ok {
			out = append(out, DriftEntry{Path: path, Kind: DriftRemoved})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// EnsureGitignore adds .lintscope/ to the root .gitignore if not already
// present. Best effort.
func EnsureGitignore(rootDir string) {
	gitignorePath := filepath.Join(rootDir, ".gitignore")
	const entry = stateDir + "/"

	data, err := os.ReadFile(gitignorePath)
	if err == nil {
		for _, line := range splitLines(data) {
			if line == entry {
				return
			}
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, _ = f.WriteString("\n")
	}
	_, _ = f.WriteString(entry + "\n")
}

func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			line := string(data[start:i])
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}
