package resolver

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// normalizeSlashPath converts a path to forward slashes and strips leading
// "./" and "/" so patterns always see a root-relative path.
func normalizeSlashPath(p string) string {
	p = filepath.ToSlash(p)
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	p = strings.TrimLeft(p, "/")
	if p == "." {
		return ""
	}
	return p
}

func normalizePattern(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimLeft(p, "/")
}

// pattern is one compiled glob.
type pattern struct {
	raw     string
	glob    string
	negate  bool // "!pat" in an ignore list re-includes
	dirOnly bool // "pat/" matches directories only
}

func compilePattern(raw string, ignoreList bool) (pattern, error) {
	p := pattern{raw: raw}
	g := strings.TrimSpace(raw)
	if ignoreList && strings.HasPrefix(g, "!") {
		p.negate = true
		g = g[1:]
	}
	g = normalizePattern(g)
	if ignoreList && strings.HasSuffix(g, "/") {
		p.dirOnly = true
		g = strings.TrimRight(g, "/")
	}
	if g == "" {
		return p, fmt.Errorf("%w %q: empty pattern", ErrInvalidGlob, raw)
	}
	if !doublestar.ValidatePattern(g) {
		return p, fmt.Errorf("%w %q", ErrInvalidGlob, raw)
	}
	p.glob = g
	return p, nil
}

func (p pattern) match(name string) bool {
	ok, _ := doublestar.Match(p.glob, name)
	return ok
}

// matchTree matches the path itself and then each of its ancestor
// directories, so ignoring "dist" also ignores "dist/app.js".
func (p pattern) matchTree(name string, isDir bool) bool {
	if (isDir || !p.dirOnly) && p.match(name) {
		return true
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '/' && p.match(name[:i]) {
			return true
		}
	}
	return false
}

type patternList []pattern

// compilePatterns compiles every pattern in raws. Failures come back as
// ConfigErrors carrying only the field; the caller fills in the block.
func compilePatterns(raws []string, ignoreList bool, field string) (patternList, []*ConfigError) {
	out := make(patternList, 0, len(raws))
	var errs []*ConfigError
	for i, raw := range raws {
		p, err := compilePattern(raw, ignoreList)
		if err != nil {
			errs = append(errs, &ConfigError{Block: GlobalScope, Field: fmt.Sprintf("%s[%d]", field, i), Err: err})
			continue
		}
		out = append(out, p)
	}
	return out, errs
}

// matchAny reports whether any include pattern matches the path.
func (l patternList) matchAny(name string) bool {
	for _, p := range l {
		if p.match(name) {
			return true
		}
	}
	return false
}

// ignored evaluates an ignore list in order; the last pattern that matches
// decides, so a later "!pattern" re-includes what an earlier one excluded.
// Ancestor directories are matched too.
func (l patternList) ignored(name string, isDir bool) bool {
	return l.eval(func(p pattern) bool { return p.matchTree(name, isDir) })
}

// excludes is ignored for a block's own ignore list: only the file path
// itself is matched, never its ancestors, and directory-only patterns never
// apply.
func (l patternList) excludes(name string) bool {
	return l.eval(func(p pattern) bool { return !p.dirOnly && p.match(name) })
}

func (l patternList) eval(matches func(pattern) bool) bool {
	ignored := false
	for _, p := range l {
		if p.negate != ignored {
			continue // cannot change the outcome
		}
		if matches(p) {
			ignored = !p.negate
		}
	}
	return ignored
}

func (l patternList) hasNegation() bool {
	for _, p := range l {
		if p.negate {
			return true
		}
	}
	return false
}

func (l patternList) raw() []string {
	out := make([]string, len(l))
	for i, p := range l {
		out[i] = p.raw
	}
	return out
}
