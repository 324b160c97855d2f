// Package coerce turns loosely typed form input into typed values.
//
// Input arrives as a decoded JSON object whose values may be strings,
// numbers, booleans, null or missing, and a field may be spelled under its
// current name or one of several legacy names. Each Rule says how to read one
// field. Apply never fails: anything unreadable becomes the rule's fallback.
package coerce

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"farm-backend/internal/timeutil"
)

// Kind selects how a raw value is read.
type Kind int

const (
	Number Kind = iota
	Integer
	Text
	Enum
	Date
	Payload
)

// Rule describes one output field. Name is the canonical spelling and the
// key of the result; Aliases are tried in order when Name is absent or
// unreadable.
type Rule struct {
	Name    string
	Kind    Kind
	Aliases []string
	// Default is used by Enum when no spelling matches Allowed.
	Default string
	// Allowed lists the canonical enum values, matched case-insensitively.
	Allowed []string
}

// Values is the typed result of Apply, keyed by Rule.Name.
type Values map[string]any

// Apply reads every rule from raw.
func Apply(raw map[string]any, rules []Rule) Values {
	out := make(Values, len(rules))
	for _, rule := range rules {
		out[rule.Name] = read(raw, rule)
	}
	return out
}

// Supplied reports whether any spelling of rule carries a usable value: a
// non-blank string, a finite number or a non-null payload.
func Supplied(raw map[string]any, rule Rule) bool {
	for _, key := range rule.keys() {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch rule.Kind {
		case Number:
			if _, ok := ToFloat(v); ok {
				return true
			}
		case Integer:
			if _, ok := ToInt(v); ok {
				return true
			}
		case Date:
			if _, ok := toDate(v); ok {
				return true
			}
		case Payload:
			return true
		default:
			if strings.TrimSpace(cast.ToString(v)) != "" {
				return true
			}
		}
	}
	return false
}

func (r Rule) keys() []string {
	return append([]string{r.Name}, r.Aliases...)
}

func read(raw map[string]any, rule Rule) any {
	switch rule.Kind {
	case Number:
		for _, key := range rule.keys() {
			if f, ok := ToFloat(raw[key]); ok {
				return f
			}
		}
		return 0.0
	case Integer:
		for _, key := range rule.keys() {
			if n, ok := ToInt(raw[key]); ok {
				return n
			}
		}
		return 0
	case Date:
		for _, key := range rule.keys() {
			if t, ok := toDate(raw[key]); ok {
				return t
			}
		}
		return time.Time{}
	case Enum:
		for _, key := range rule.keys() {
			s := strings.TrimSpace(cast.ToString(raw[key]))
			for _, allowed := range rule.Allowed {
				if strings.EqualFold(s, allowed) {
					return allowed
				}
			}
		}
		return rule.Default
	case Payload:
		for _, key := range rule.keys() {
			if p := toPayload(raw[key]); p != nil {
				return p
			}
		}
		return json.RawMessage(nil)
	default:
		for _, key := range rule.keys() {
			if s := strings.TrimSpace(cast.ToString(raw[key])); s != "" {
				return s
			}
		}
		return ""
	}
}

// ToInt reads a whole number from v, truncating fractions. Values outside
// the 32-bit range of an INTEGER column are unreadable.
func ToInt(v any) (int, bool) {
	f, ok := ToFloat(v)
	if !ok {
		return 0, false
	}
	f = math.Trunc(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ToFloat reads a finite float from v. Strings are trimmed; blank strings,
// NaN, infinities and non-numeric values are rejected.
func ToFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v = s
	}
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return timeutil.StartOfDay(d), true
	case string:
		return timeutil.ParseDate(d)
	default:
		return time.Time{}, false
	}
}

func toPayload(v any) json.RawMessage {
	switch p := v.(type) {
	case nil:
		return nil
	case json.RawMessage:
		if len(p) == 0 || string(p) == "null" {
			return nil
		}
		return p
	case string:
		s := strings.TrimSpace(p)
		if s == "" {
			return nil
		}
		if json.Valid([]byte(s)) {
			return json.RawMessage(s)
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// Float returns the float stored under name, or 0.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// Int returns the int stored under name, or 0.
func (v Values) Int(name string) int {
	i, _ := v[name].(int)
	return i
}

// String returns the string stored under name, or "".
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Time returns the date stored under name, or the zero time.
func (v Values) Time(name string) time.Time {
	t, _ := v[name].(time.Time)
	return t
}

// Payload returns the JSON payload stored under name, or nil.
func (v Values) Payload(name string) json.RawMessage {
	p, _ := v[name].(json.RawMessage)
	return p
}
