package resolver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RuleSetting is a rule's severity plus its rule-specific parameters.
// Parameters are opaque to the resolver and are never merged: a later block
// setting the same rule replaces the whole value.
type RuleSetting struct {
	Severity Severity
	Params   []any
}

// Rule returns a RuleSetting with the given severity and parameters.
func Rule(sev Severity, params ...any) RuleSetting {
	return RuleSetting{Severity: sev, Params: params}
}

// ParseRuleSetting decodes the two authoring forms of a rule setting:
// a bare severity ("error", 2) or a list whose first element is the
// severity and whose remaining elements are parameters.
func ParseRuleSetting(v any) (RuleSetting, error) {
	switch x := v.(type) {
	case RuleSetting:
		return x.clone(), nil
	case []any:
		if len(x) == 0 {
			return RuleSetting{}, fmt.Errorf("%w: empty list", ErrSeverity)
		}
		sev, err := ParseSeverity(x[0])
		if err != nil {
			return RuleSetting{}, err
		}
		s := RuleSetting{Severity: sev}
		if len(x) > 1 {
			s.Params = make([]any, len(x)-1)
			for i, p := range x[1:] {
				s.Params[i] = cloneValue(p)
			}
		}
		return s, nil
	case []string:
		list := make([]any, len(x))
		for i, e := range x {
			list[i] = e
		}
		return ParseRuleSetting(list)
	default:
		sev, err := ParseSeverity(v)
		if err != nil {
			return RuleSetting{}, err
		}
		return RuleSetting{Severity: sev}, nil
	}
}

// Enabled reports whether the rule runs at all.
func (s RuleSetting) Enabled() bool {
	return s.Severity != SeverityOff
}

// Value returns the authoring form: the severity name alone when there are
// no parameters, otherwise a list led by the severity name.
func (s RuleSetting) Value() any {
	if len(s.Params) == 0 {
		return s.Severity.String()
	}
	v := make([]any, 0, len(s.Params)+1)
	v = append(v, s.Severity.String())
	return append(v, s.Params...)
}

func (s RuleSetting) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value())
}

func (s RuleSetting) MarshalYAML() (any, error) {
	return s.Value(), nil
}

func (s RuleSetting) String() string {
	if len(s.Params) == 0 {
		return s.Severity.String()
	}
	parts := make([]string, 0, len(s.Params)+1)
	parts = append(parts, s.Severity.String())
	for _, p := range s.Params {
		data, err := json.Marshal(p)
		if err != nil {
			parts = append(parts, fmt.Sprint(p))
			continue
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, " ")
}

func (s RuleSetting) clone() RuleSetting {
	out := RuleSetting{Severity: s.Severity}
	if s.Params != nil {
		out.Params = make([]any, len(s.Params))
		for i, p := range s.Params {
			out.Params[i] = cloneValue(p)
		}
	}
	return out
}
