package domain

import (
	"fmt"
	"strings"
)

// filterKeys maps every accepted filter key to its canonical field name.
// "ipaddr" and "protcol" are spellings used by older invocations of the tool.
var filterKeys = map[string]string{
	"ipaddr":      FieldIPAddr,
	FieldIPAddr:   FieldIPAddr,
	FieldMethod:   FieldMethod,
	"protcol":     FieldProtocol,
	FieldProtocol: FieldProtocol,
	FieldStatus:   FieldStatus,
}

// Constraint requires a record field to equal Value exactly.
type Constraint struct {
	Field string
	Value string
}

func (c Constraint) String() string {
	return c.Field + "=" + c.Value
}

// FilterSpec is a normalized set of constraints, all of which must hold.
// The zero value matches every record.
type FilterSpec struct {
	constraints []Constraint
}

// NewFilterSpec builds a spec from already canonical constraints. A later
// constraint on the same field replaces the earlier one.
func NewFilterSpec(constraints ...Constraint) FilterSpec {
	var spec FilterSpec
	for _, c := range constraints {
		spec.set(c)
	}
	return spec
}

func (s *FilterSpec) set(c Constraint) {
	for i := range s.constraints {
		if s.constraints[i].Field == c.Field {
			s.constraints[i].Value = c.Value
			return
		}
	}
	s.constraints = append(s.constraints, c)
}

// ParseFilterTokens normalizes key=value tokens into a FilterSpec. Surrounding
// whitespace is trimmed from both key and value. It also returns the tokens it
// dropped: ones without "=", with an empty value or with a key outside the
// supported set.
func ParseFilterTokens(tokens []string) (spec FilterSpec, ignored []string) {
	for _, tok := range tokens {
		key, value, found := strings.Cut(tok, "=")
		value = strings.TrimSpace(value)
		if !found || value == "" {
			ignored = append(ignored, tok)
			continue
		}
		field, ok := filterKeys[strings.TrimSpace(key)]
		if !ok {
			ignored = append(ignored, tok)
			continue
		}
		spec.set(Constraint{Field: field, Value: value})
	}
	return spec, ignored
}

// Empty reports whether the spec has no constraints.
func (s FilterSpec) Empty() bool {
	return len(s.constraints) == 0
}

// Constraints returns a copy of the constraints in the order they were added.
func (s FilterSpec) Constraints() []Constraint {
	return append([]Constraint(nil), s.constraints...)
}

func (s FilterSpec) String() string {
	parts := make([]string, len(s.constraints))
	for i, c := range s.constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Match reports whether r satisfies every constraint. A constraint on a field
// the record does not have fails.
func (s FilterSpec) Match(r LogRecord) bool {
	for _, c := range s.constraints {
		v, ok := r.Field(c.Field)
		if !ok || v != c.Value {
			return false
		}
	}
	return true
}

// Filter returns the records matching spec, keeping their order. The input
// slice is not modified; an empty spec returns it as is.
func Filter(records []LogRecord, spec FilterSpec) []LogRecord {
	if spec.Empty() {
		return records
	}
	kept := make([]LogRecord, 0, len(records))
	for _, r := range records {
		if spec.Match(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// LegacyFilterToken folds the single key/value flag pair into a filter token.
// It returns "" only when neither part is set; a half-set pair yields a token
// that ParseFilterTokens rejects.
func LegacyFilterToken(key, value string) string {
	if key == "" && value == "" {
		return ""
	}
	return fmt.Sprintf("%s=%s", key, value)
}
