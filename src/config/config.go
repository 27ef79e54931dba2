package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFiles are the names Load tries, in order, when no path is given.
var DefaultFiles = []string{
	".lintscope.yml",
	".lintscope.yaml",
	".lintscope.toml",
	".lintscope.json",
	".lintscope.hcl",
}

// Format is an on-disk encoding of a config file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// File is a decoded lintscope configuration file.
type File struct {
	Version    int                      `yaml:"version" toml:"version" json:"version"`
	MinVersion string                   `yaml:"min_version,omitempty" toml:"min_version,omitempty" json:"min_version,omitempty"`
	Ignores    []string                 `yaml:"ignores,omitempty" toml:"ignores,omitempty" json:"ignores,omitempty"`
	Plugins    map[string]string        `yaml:"plugins,omitempty" toml:"plugins,omitempty" json:"plugins,omitempty"`
	Rulesets   map[string]RulesetConfig `yaml:"rulesets,omitempty" toml:"rulesets,omitempty" json:"rulesets,omitempty"`
	Blocks     []BlockConfig            `yaml:"blocks" toml:"blocks" json:"blocks"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-" toml:"-" json:"-"`
}

// RulesetConfig is a named, reusable group of rule settings.
type RulesetConfig struct {
	Extends []string       `yaml:"extends,omitempty" toml:"extends,omitempty" json:"extends,omitempty"`
	Rules   map[string]any `yaml:"rules,omitempty" toml:"rules,omitempty" json:"rules,omitempty"`
}

// BlockConfig is one override block as authored.
type BlockConfig struct {
	Name    string            `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Files   []string          `yaml:"files" toml:"files" json:"files"`
	Ignores []string          `yaml:"ignores,omitempty" toml:"ignores,omitempty" json:"ignores,omitempty"`
	Parser  string            `yaml:"parser,omitempty" toml:"parser,omitempty" json:"parser,omitempty"`
	Plugins map[string]string `yaml:"plugins,omitempty" toml:"plugins,omitempty" json:"plugins,omitempty"`
	Extends []string          `yaml:"extends,omitempty" toml:"extends,omitempty" json:"extends,omitempty"`
	Options map[string]any    `yaml:"options,omitempty" toml:"options,omitempty" json:"options,omitempty"`
	Rules   map[string]any    `yaml:"rules,omitempty" toml:"rules,omitempty" json:"rules,omitempty"`
}

// Load reads and decodes a configuration file. The encoding is chosen by
// file extension. If path is empty, the DefaultFiles are tried in the
// working directory.
func Load(path string) (*File, error) {
	if path == "" {
		found, err := Discover(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Discover returns the first of DefaultFiles present in dir.
func Discover(dir string) (string, error) {
	for _, name := range DefaultFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNoConfigFile, strings.Join(DefaultFiles, ", "))
}

// FormatFor picks the encoding from a file name's extension.
func FormatFor(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q (want .yml, .yaml, .toml, .json or .hcl)", ErrUnknownFormat, filepath.Ext(name))
	}
}
