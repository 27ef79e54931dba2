package resolver

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Severity is the level a rule reports at.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Valid reports whether s is one of the three known levels.
func (s Severity) Valid() bool {
	return s >= SeverityOff && s <= SeverityError
}

// MarshalJSON encodes the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MarshalYAML encodes the severity by name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// ParseSeverity accepts "off", "warn", "error" (case-insensitive) or the
// numeric forms 0, 1 and 2.
func ParseSeverity(v any) (Severity, error) {
	switch x := v.(type) {
	case Severity:
		if x.Valid() {
			return x, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "off", "0":
			return SeverityOff, nil
		case "warn", "1":
			return SeverityWarn, nil
		case "error", "2":
			return SeverityError, nil
		}
	case int:
		return severityFromInt(int64(x), v)
	case int64:
		return severityFromInt(x, v)
	case uint64:
		if x <= math.MaxInt64 {
			return severityFromInt(int64(x), v)
		}
	case float64:
		if x == math.Trunc(x) {
			return severityFromInt(int64(x), v)
		}
	}
	return SeverityOff, fmt.Errorf("%w: %v (want off, warn, error or 0-2)", ErrSeverity, v)
}

func severityFromInt(n int64, raw any) (Severity, error) {
	s := Severity(n)
	if n < 0 || !s.Valid() {
		return SeverityOff, fmt.Errorf("%w: %v (want off, warn, error or 0-2)", ErrSeverity, raw)
	}
	return s, nil
}
