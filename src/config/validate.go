package config

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks structural invariants of a decoded File that the resolver
// itself does not care about. Returns warnings (soft issues) and a hard
// error if the file is invalid. Glob syntax and rule settings are checked by
// Build.
func Validate(f *File) (warnings []string, err error) {
	var errs []string

	// ── Version ───────────────────────────────────────────────────────────

	if verr := checkVersion(f.Version); verr != nil {
		errs = append(errs, fmt.Sprintf("version: %v", verr))
	}

	// ── Plugins ───────────────────────────────────────────────────────────

	plugins := make(map[string]bool)
	addPlugins := func(path string, m map[string]string) {
		for _, ns := range sortedNames(m) {
			if ns == "" {
				errs = append(errs, fmt.Sprintf("%s: empty plugin namespace", path))
				continue
			}
			if strings.TrimSpace(m[ns]) == "" {
				errs = append(errs, fmt.Sprintf("%s.%s: package is required", path, ns))
			}
			plugins[ns] = true
		}
	}
	addPlugins("plugins", f.Plugins)
	for i, b := range f.Blocks {
		addPlugins(blockPath(i, b)+".plugins", b.Plugins)
	}

	checkNamespaces := func(path string, rules map[string]any) {
		if len(plugins) == 0 {
			return // plugin registration not in use
		}
		for _, id := range sortedNames(rules) {
			ns := ruleNamespace(id)
			if ns == "" || hasPlugin(plugins, id) {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("%s: rule %q uses unregistered plugin namespace %q", path, id, ns))
		}
	}

	// ── Rule sets ─────────────────────────────────────────────────────────

	used := make(map[string]bool)
	for _, name := range sortedNames(f.Rulesets) {
		rs := f.Rulesets[name]
		for _, parent := range rs.Extends {
			used[parent] = true
		}
		checkNamespaces("rulesets."+name, rs.Rules)
	}

	// ── Blocks ────────────────────────────────────────────────────────────

	names := make(map[string]int)
	for i, b := range f.Blocks {
		bpath := blockPath(i, b)

		if b.Name != "" {
			if prev, dup := names[b.Name]; dup {
				errs = append(errs, fmt.Sprintf("%s: duplicate block name %q (first used by blocks[%d])", bpath, b.Name, prev))
			} else {
				names[b.Name] = i
			}
		}

		for _, e := range b.Extends {
			used[e] = true
		}

		if len(b.Rules) == 0 && len(b.Options) == 0 && len(b.Extends) == 0 && b.Parser == "" {
			warnings = append(warnings, fmt.Sprintf("%s: sets no rules or options and has no effect", bpath))
		}

		checkNamespaces(bpath, b.Rules)
	}

	for _, name := range sortedNames(f.Rulesets) {
		if !used[name] {
			warnings = append(warnings, fmt.Sprintf("rulesets.%s: never extended", name))
		}
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return warnings, nil
}

func blockPath(i int, b BlockConfig) string {
	if b.Name != "" {
		return fmt.Sprintf("blocks[%d] (%s)", i, b.Name)
	}
	return fmt.Sprintf("blocks[%d]", i)
}

// ruleNamespace returns the plugin part of a rule identifier:
// "import/order" → "import", "@stylistic/ts/indent" → "@stylistic/ts",
// "@angular-eslint/component-selector" → "@angular-eslint". Core rules have
// no namespace.
func ruleNamespace(id string) string {
	i := strings.LastIndex(id, "/")
	if i <= 0 {
		return ""
	}
	return id[:i]
}

// hasPlugin reports whether some registered namespace is a "/"-delimited
// prefix of the rule identifier.
func hasPlugin(plugins map[string]bool, id string) bool {
	for ns := range plugins {
		if strings.HasPrefix(id, ns+"/") {
			return true
		}
	}
	return false
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
