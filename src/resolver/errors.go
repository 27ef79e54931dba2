package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoBlocks    = errors.New("no override blocks")
	ErrEmptyMatch  = errors.New("empty match set")
	ErrInvalidGlob = errors.New("invalid glob pattern")
	ErrOptionType  = errors.New("conflicting option types")
	ErrSeverity    = errors.New("invalid severity")
)

// GlobalScope is the ConfigError.Block value for problems that do not belong
// to a single block (global ignores, the block list itself).
const GlobalScope = -1

// ConfigError reports a malformed configuration. Loading collects every
// ConfigError it finds and returns them joined; use errors.As to inspect the
// first one and errors.Is against the sentinels to classify it.
type ConfigError struct {
	Block int    // block index, or GlobalScope
	Label string // block name, if any
	Field string // e.g. "files[0]", "options.parser", "rules.curly"
	Err   error
}

func (e *ConfigError) Error() string {
	var loc []string
	if e.Block >= 0 {
		b := fmt.Sprintf("blocks[%d]", e.Block)
		if e.Label != "" {
			b += fmt.Sprintf(" (%s)", e.Label)
		}
		loc = append(loc, b)
	}
	if e.Field != "" {
		loc = append(loc, e.Field)
	}
	if len(loc) == 0 {
		return e.Err.Error()
	}
	return strings.Join(loc, ": ") + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }
