package affordability

import "fmt"

// Variable declares one categorical input: its enumerated options, which
// option is the baseline (reference) level, and which dummy feature each
// non-baseline option activates. Dummies is a zero-based option index to
// feature name mapping; several options may share one coarse dummy, and an
// option absent from the mapping encodes as baseline (baseline fallback).
type Variable struct {
	Name     string         `json:"name"`
	Options  []string       `json:"options"`
	Baseline int            `json:"baseline"`
	Dummies  map[int]string `json:"dummies"`
}

// OptionIndex returns the zero-based index of value in the declared domain.
func (v *Variable) OptionIndex(value string) (int, bool) {
	for i, opt := range v.Options {
		if opt == value {
			return i, true
		}
	}
	return 0, false
}

// EncodingSchema declares how a RespondentProfile maps onto feature names.
// Schemas are named, versioned configuration: different model generations
// swap in different schemas without encoder changes.
type EncodingSchema struct {
	Name       string     `json:"name"`
	AgeField   string     `json:"age_field"`
	AgeFeature string     `json:"age_feature"`
	AgeMin     int        `json:"age_min"`
	AgeMax     int        `json:"age_max"`
	Variables  []Variable `json:"variables"`
}

// Variable looks up a declared variable by name.
func (s *EncodingSchema) Variable(name string) (*Variable, bool) {
	for i := range s.Variables {
		if s.Variables[i].Name == name {
			return &s.Variables[i], true
		}
	}
	return nil, false
}

// Validate checks the schema's internal consistency and that every feature
// it can activate exists in the coefficient table. Run at load time so a
// misspelled dummy name is a startup failure, not a silent zero-weight term.
func (s *EncodingSchema) Validate(table *CoefficientTable) error {
	if s.Name == "" {
		return &ConfigError{Reason: "schema has no name"}
	}
	if s.AgeFeature == "" {
		return &ConfigError{Model: s.Name, Reason: "schema has no age feature"}
	}
	if !table.Contains(s.AgeFeature) {
		return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("age feature %q not in coefficient table", s.AgeFeature)}
	}
	if s.AgeMin >= s.AgeMax {
		return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("age bounds [%d, %d] are empty", s.AgeMin, s.AgeMax)}
	}
	if len(s.Variables) == 0 {
		return &ConfigError{Model: s.Name, Reason: "schema declares no variables"}
	}

	seenVars := make(map[string]bool, len(s.Variables))
	dummyOwner := make(map[string]string)

	for i := range s.Variables {
		v := &s.Variables[i]
		if v.Name == "" {
			return &ConfigError{Model: s.Name, Reason: "variable with empty name"}
		}
		if seenVars[v.Name] {
			return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("duplicate variable %q", v.Name)}
		}
		seenVars[v.Name] = true

		if len(v.Options) < 2 {
			return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("variable %q needs at least two options", v.Name)}
		}
		if v.Baseline < 0 || v.Baseline >= len(v.Options) {
			return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("variable %q baseline %d out of range", v.Name, v.Baseline)}
		}

		for idx, feature := range v.Dummies {
			if idx < 0 || idx >= len(v.Options) {
				return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("variable %q maps option index %d outside its domain", v.Name, idx)}
			}
			if idx == v.Baseline {
				return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("variable %q maps its baseline option to dummy %q", v.Name, feature)}
			}
			if !table.Contains(feature) {
				return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("variable %q references unknown feature %q", v.Name, feature)}
			}
			// Coarse dummies may be shared within a variable, never across.
			if owner, ok := dummyOwner[feature]; ok && owner != v.Name {
				return &ConfigError{Model: s.Name, Reason: fmt.Sprintf("feature %q owned by both %q and %q", feature, owner, v.Name)}
			}
			dummyOwner[feature] = v.Name
		}
	}

	return nil
}
