package config

import "errors"

var (
	// ErrNoConfigFile is returned by Load when no path is given and none of
	// the default file names exist.
	ErrNoConfigFile = errors.New("no config file found")

	ErrUnknownFormat  = errors.New("unknown config format")
	ErrVersion        = errors.New("unsupported config version")
	ErrMinVersion     = errors.New("min_version not satisfied")
	ErrUnknownRuleset = errors.New("unknown rule set")
	ErrRulesetCycle   = errors.New("rule set cycle")
)
