package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/sofmeright/lintscope/src/version"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only config schema version this build reads.
const CurrentVersion = 1

// checkVersion rejects files without a version field and files written for
// another schema version.
//
// Version chain:
//
//	version 1 → current
//
// Future schema changes add migration steps here.
func checkVersion(ver int) error {
	switch ver {
	case CurrentVersion:
		return nil
	case 0:
		return fmt.Errorf("%w: config has no version field; add \"version: %d\"", ErrVersion, CurrentVersion)
	default:
		return fmt.Errorf("%w: %d (latest supported: %d)", ErrVersion, ver, CurrentVersion)
	}
}

// peekVersion extracts the version field without strict decoding.
// HCL files are not probed.
func peekVersion(format Format, data []byte) (int, error) {
	var probe struct {
		Version int `yaml:"version" toml:"version"`
	}
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is a subset of YAML.
		if err := yaml.Unmarshal(data, &probe); err != nil {
			return 0, fmt.Errorf("reading version: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &probe); err != nil {
			return 0, fmt.Errorf("reading version: %w", err)
		}
	default:
		return 0, fmt.Errorf("reading version: not supported for %s", format)
	}
	return probe.Version, nil
}

// checkMinVersion enforces the file's min_version constraint against the
// running build. Development builds satisfy every constraint.
func checkMinVersion(constraint string) error {
	return checkMinVersionAgainst(constraint, version.Version)
}

func checkMinVersionAgainst(constraint, current string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("min_version: invalid constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(current)
	if err != nil {
		// "dev" and other unversioned builds.
		return nil
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: lintscope %s does not satisfy %q", ErrMinVersion, v, constraint)
	}
	return nil
}
