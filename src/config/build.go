package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sofmeright/lintscope/src/resolver"
)

// Build expands rule sets and compiles the file into a Resolver.
//
// A block's rules are the in-order fold of its extended rule sets with the
// block's own rules applied last, so a block always wins over what it
// extends and a later rule set wins over an earlier one.
func (f *File) Build() (*resolver.Resolver, error) {
	var errs []error
	memo := make(map[string]map[string]resolver.RuleSetting)

	blocks := make([]resolver.OverrideBlock, 0, len(f.Blocks))
	for i, b := range f.Blocks {
		blockErr := func(field string, err error) {
			errs = append(errs, &resolver.ConfigError{Block: i, Label: b.Name, Field: field, Err: err})
		}

		rules := make(map[string]resolver.RuleSetting)
		for _, name := range b.Extends {
			set, err := f.expandRuleset(name, nil, memo)
			if err != nil {
				blockErr("extends", err)
				continue
			}
			for id, s := range set {
				rules[id] = s
			}
		}

		own, ruleErrs := parseRules(b.Rules)
		for _, re := range ruleErrs {
			blockErr("rules."+re.id, re.err)
		}
		for id, s := range own {
			rules[id] = s
		}

		options := make(map[string]any, len(b.Options)+1)
		for k, v := range b.Options {
			options[k] = v
		}
		if b.Parser != "" {
			options["parser"] = b.Parser
		}

		blocks = append(blocks, resolver.OverrideBlock{
			Name:    b.Name,
			Files:   b.Files,
			Ignores: b.Ignores,
			Options: options,
			Rules:   rules,
		})
	}

	r, err := resolver.Load(blocks, f.Ignores)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// expandRuleset flattens a rule set and everything it extends. stack holds
// the chain currently being expanded and is used for cycle detection.
func (f *File) expandRuleset(name string, stack []string, memo map[string]map[string]resolver.RuleSetting) (map[string]resolver.RuleSetting, error) {
	if set, ok := memo[name]; ok {
		return set, nil
	}
	for _, s := range stack {
		if s == name {
			return nil, fmt.Errorf("%w: %s", ErrRulesetCycle, strings.Join(append(stack, name), " -> "))
		}
	}
	def, ok := f.Rulesets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRuleset, name)
	}

	next := append(append([]string(nil), stack...), name)
	out := make(map[string]resolver.RuleSetting)
	for _, parent := range def.Extends {
		set, err := f.expandRuleset(parent, next, memo)
		if err != nil {
			return nil, err
		}
		for id, s := range set {
			out[id] = s
		}
	}

	own, ruleErrs := parseRules(def.Rules)
	if len(ruleErrs) > 0 {
		return nil, fmt.Errorf("rulesets.%s.rules.%s: %w", name, ruleErrs[0].id, ruleErrs[0].err)
	}
	for id, s := range own {
		out[id] = s
	}

	memo[name] = out
	return out, nil
}

type ruleError struct {
	id  string
	err error
}

// parseRules decodes authored rule values, reporting failures in rule id
// order.
func parseRules(raw map[string]any) (map[string]resolver.RuleSetting, []ruleError) {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[string]resolver.RuleSetting, len(raw))
	var errs []ruleError
	for _, id := range ids {
		s, err := resolver.ParseRuleSetting(raw[id])
		if err != nil {
			errs = append(errs, ruleError{id: id, err: err})
			continue
		}
		out[id] = s
	}
	return out, errs
}
