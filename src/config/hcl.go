package config

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// HCL layout:
//
//	version = 1
//	ignores = ["dist"]
//	plugins = { import = "eslint-plugin-import" }
//
//	ruleset "base-style" {
//	  rules = { "import/order" = "off" }
//	}
//
//	block "typescript" {
//	  files   = ["**/*.ts"]
//	  extends = ["base-style"]
//	  rules   = { "max-len" = ["error", { code = 140 }] }
//	}
//
// Free-form options and rules are decoded as raw cty values and converted
// through their JSON form.
type hclFile struct {
	Version    int               `hcl:"version,optional"`
	MinVersion string            `hcl:"min_version,optional"`
	Ignores    []string          `hcl:"ignores,optional"`
	Plugins    map[string]string `hcl:"plugins,optional"`
	Rulesets   []hclRuleset      `hcl:"ruleset,block"`
	Blocks     []hclBlock        `hcl:"block,block"`
}

type hclRuleset struct {
	Name    string    `hcl:"name,label"`
	Extends []string  `hcl:"extends,optional"`
	Rules   cty.Value `hcl:"rules,optional"`
}

type hclBlock struct {
	Name    string            `hcl:"name,label"`
	Files   []string          `hcl:"files,optional"`
	Ignores []string          `hcl:"ignores,optional"`
	Parser  string            `hcl:"parser,optional"`
	Plugins map[string]string `hcl:"plugins,optional"`
	Extends []string          `hcl:"extends,optional"`
	Options cty.Value         `hcl:"options,optional"`
	Rules   cty.Value         `hcl:"rules,optional"`
}

func decodeHCL(name string, data []byte) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing hcl: %s", diags.Error())
	}

	var raw hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding hcl: %s", diags.Error())
	}

	f := &File{
		Version:    raw.Version,
		MinVersion: raw.MinVersion,
		Ignores:    raw.Ignores,
		Plugins:    raw.Plugins,
	}

	for _, rs := range raw.Rulesets {
		if f.Rulesets == nil {
			f.Rulesets = make(map[string]RulesetConfig)
		}
		if _, dup := f.Rulesets[rs.Name]; dup {
			return nil, fmt.Errorf("decoding hcl: duplicate ruleset %q", rs.Name)
		}
		rules, err := ctyObject(rs.Rules)
		if err != nil {
			return nil, fmt.Errorf("decoding hcl: ruleset %q: rules: %w", rs.Name, err)
		}
		f.Rulesets[rs.Name] = RulesetConfig{Extends: rs.Extends, Rules: rules}
	}

	for _, b := range raw.Blocks {
		options, err := ctyObject(b.Options)
		if err != nil {
			return nil, fmt.Errorf("decoding hcl: block %q: options: %w", b.Name, err)
		}
		rules, err := ctyObject(b.Rules)
		if err != nil {
			return nil, fmt.Errorf("decoding hcl: block %q: rules: %w", b.Name, err)
		}
		f.Blocks = append(f.Blocks, BlockConfig{
			Name:    b.Name,
			Files:   b.Files,
			Ignores: b.Ignores,
			Parser:  b.Parser,
			Plugins: b.Plugins,
			Extends: b.Extends,
			Options: options,
			Rules:   rules,
		})
	}

	return f, nil
}

// ctyObject converts an object or map value into a plain Go map. A missing
// or null value yields nil.
func ctyObject(v cty.Value) (map[string]any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known at load time")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	data, err := ctyjson.Marshal(v, ty)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
