package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gobwas/glob"
)

// fingerprintVersion is mixed into every fingerprint so a change in the
// canonical encoding invalidates stored fingerprints.
const fingerprintVersion = "1"

// EffectiveConfig is the merged configuration for one file. It is created
// fresh by every Resolve call and owned by the caller.
type EffectiveConfig struct {
	Options map[string]any         `json:"options" yaml:"options"`
	Rules   map[string]RuleSetting `json:"rules" yaml:"rules"`

	// Matched lists the labels of the blocks that applied, in order.
	Matched []string `json:"matched,omitempty" yaml:"matched,omitempty"`
	// Sources maps each rule identifier to the label of the block that set
	// its final value.
	Sources map[string]string `json:"-" yaml:"-"`
}

func newEffectiveConfig() *EffectiveConfig {
	return &EffectiveConfig{
		Options: map[string]any{},
		Rules:   map[string]RuleSetting{},
		Sources: map[string]string{},
	}
}

// Empty reports whether no rules and no options apply.
func (c *EffectiveConfig) Empty() bool {
	return len(c.Rules) == 0 && len(c.Options) == 0
}

// Parser returns the "parser" option when it is set to a string.
func (c *EffectiveConfig) Parser() string {
	s, _ := c.Options["parser"].(string)
	return s
}

// RuleIDs returns all rule identifiers, sorted.
func (c *EffectiveConfig) RuleIDs() []string {
	return sortedKeys(c.Rules)
}

// OptionKeys returns all option keys, sorted.
func (c *EffectiveConfig) OptionKeys() []string {
	return sortedKeys(c.Options)
}

// Enabled returns the sorted identifiers of rules not set to "off".
func (c *EffectiveConfig) Enabled() []string {
	var ids []string
	for id, s := range c.Rules {
		if s.Enabled() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// FilterRules returns the rules whose identifier matches pattern. In rule
// identifiers "*" also spans "/", so "@angular-eslint/*" selects the whole
// plugin namespace including nested ones.
func (c *EffectiveConfig) FilterRules(pattern string) (map[string]RuleSetting, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("rule pattern %q: %w", pattern, err)
	}
	out := make(map[string]RuleSetting)
	for id, s := range c.Rules {
		if g.Match(id) {
			out[id] = s.clone()
		}
	}
	return out, nil
}

// Fingerprint returns a content hash of the options and rules. Two
// configurations share a fingerprint exactly when a downstream linter would
// treat them identically, which makes it usable as a lint-cache key.
func (c *EffectiveConfig) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(fingerprintVersion))
	data, err := json.Marshal(struct {
		Options map[string]any         `json:"options"`
		Rules   map[string]RuleSetting `json:"rules"`
	}{c.Options, c.Rules})
	if err != nil {
		// fmt prints maps with sorted keys, so this stays deterministic.
		data = []byte(fmt.Sprintf("%v|%v", c.Options, c.Rules))
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
