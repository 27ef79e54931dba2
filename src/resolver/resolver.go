package resolver

import (
	"errors"
	"fmt"
	"sort"
)

// OverrideBlock scopes options and rule settings to the files its patterns
// select.
type OverrideBlock struct {
	Name    string                 // optional label used in errors and explanations
	Files   []string               // globs selecting files; must be non-empty
	Ignores []string               // globs excluding files this block would otherwise match
	Options map[string]any         // opaque, namespaced by the consuming plugin
	Rules   map[string]RuleSetting // rule identifier -> setting
}

// label returns the block's name, or its position when unnamed.
func (b OverrideBlock) label(index int) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("blocks[%d]", index)
}

type compiledBlock struct {
	label   string
	src     OverrideBlock
	files   patternList
	ignores patternList
	options map[string]any
	rules   map[string]RuleSetting
}

// Resolver computes effective configurations. It is immutable after Load.
type Resolver struct {
	blocks  []compiledBlock
	ignores patternList
}

// Load compiles blocks and global ignore patterns into a Resolver.
//
// Every problem found is reported; the returned error joins one *ConfigError
// per problem. A Resolver is only returned when the whole input is valid.
func Load(blocks []OverrideBlock, globalIgnores []string) (*Resolver, error) {
	var errs []error

	if len(blocks) == 0 {
		errs = append(errs, &ConfigError{Block: GlobalScope, Field: "blocks", Err: ErrNoBlocks})
	}

	ignores, ierrs := compilePatterns(globalIgnores, true, "ignores")
	for _, e := range ierrs {
		errs = append(errs, e)
	}

	// First block that set each option key, with the kind it used.
	type optionOwner struct {
		block int
		kind  valueKind
	}
	owners := make(map[string]optionOwner)

	compiled := make([]compiledBlock, 0, len(blocks))
	for i, b := range blocks {
		label := b.label(i)
		blockErr := func(e *ConfigError) {
			e.Block = i
			e.Label = b.Name
			errs = append(errs, e)
		}

		if len(b.Files) == 0 {
			blockErr(&ConfigError{Field: "files", Err: ErrEmptyMatch})
		}
		files, ferrs := compilePatterns(b.Files, false, "files")
		for _, e := range ferrs {
			blockErr(e)
		}
		blockIgnores, berrs := compilePatterns(b.Ignores, true, "ignores")
		for _, e := range berrs {
			blockErr(e)
		}

		for _, key := range sortedKeys(b.Options) {
			kind := kindOf(b.Options[key])
			if kind == kindNull {
				continue
			}
			prev, seen := owners[key]
			if !seen {
				owners[key] = optionOwner{block: i, kind: kind}
				continue
			}
			if prev.kind != kind {
				blockErr(&ConfigError{
					Field: "options." + key,
					Err:   fmt.Errorf("%w: %s here, %s in blocks[%d]", ErrOptionType, kind, prev.kind, prev.block),
				})
			}
		}

		rules := make(map[string]RuleSetting, len(b.Rules))
		for _, id := range sortedKeys(b.Rules) {
			s := b.Rules[id]
			if id == "" {
				blockErr(&ConfigError{Field: "rules", Err: errors.New("empty rule identifier")})
				continue
			}
			if !s.Severity.Valid() {
				blockErr(&ConfigError{Field: "rules." + id, Err: fmt.Errorf("%w: %s", ErrSeverity, s.Severity)})
				continue
			}
			rules[id] = s.clone()
		}

		compiled = append(compiled, compiledBlock{
			label:   label,
			src:     OverrideBlock{Name: b.Name, Files: append([]string(nil), b.Files...), Ignores: append([]string(nil), b.Ignores...)},
			files:   files,
			ignores: blockIgnores,
			options: cloneOptions(b.Options),
			rules:   rules,
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Resolver{blocks: compiled, ignores: ignores}, nil
}

// IsIgnored reports whether path is excluded by a global ignore pattern.
func (r *Resolver) IsIgnored(path string) bool {
	return r.ignores.ignored(normalizeSlashPath(path), false)
}

// PrunesDir reports whether a directory walk may skip dir entirely: the
// directory is globally ignored and no negated pattern could re-include
// anything beneath it.
func (r *Resolver) PrunesDir(dir string) bool {
	if r.ignores.hasNegation() {
		return false
	}
	return r.ignores.ignored(normalizeSlashPath(dir), true)
}

// Resolve folds every block matching path, in declaration order, into a new
// EffectiveConfig. ok is false when path is globally ignored. A path that no
// block matches yields an empty, non-nil configuration.
func (r *Resolver) Resolve(path string) (cfg *EffectiveConfig, ok bool) {
	p := normalizeSlashPath(path)
	if r.ignores.ignored(p, false) {
		return nil, false
	}

	cfg = newEffectiveConfig()
	for _, b := range r.blocks {
		if !b.files.matchAny(p) || b.ignores.excludes(p) {
			continue
		}
		cfg.Matched = append(cfg.Matched, b.label)
		for k, v := range b.options {
			cfg.Options[k] = cloneValue(v)
		}
		for id, s := range b.rules {
			cfg.Rules[id] = s.clone()
			cfg.Sources[id] = b.label
		}
	}
	return cfg, true
}

// Blocks returns copies of the loaded blocks in declaration order.
func (r *Resolver) Blocks() []OverrideBlock {
	out := make([]OverrideBlock, len(r.blocks))
	for i, b := range r.blocks {
		out[i] = OverrideBlock{
			Name:    b.src.Name,
			Files:   append([]string(nil), b.src.Files...),
			Ignores: append([]string(nil), b.src.Ignores...),
			Options: cloneOptions(b.options),
			Rules:   make(map[string]RuleSetting, len(b.rules)),
		}
		for id, s := range b.rules {
			out[i].Rules[id] = s.clone()
		}
	}
	return out
}

// Ignores returns the global ignore patterns as authored.
func (r *Resolver) Ignores() []string {
	return r.ignores.raw()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
