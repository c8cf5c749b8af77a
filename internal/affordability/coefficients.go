package affordability

import (
	"fmt"
	"math"
)

// ConstantFeature is the fixed intercept entry every table must carry.
const ConstantFeature = "Constant"

// Coefficient is one named weight of the logistic model.
type Coefficient struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// CoefficientTable is an ordered, immutable name-to-weight mapping. Order is
// preserved so the calculation table and its CSV export read the same way
// the fitted model was published.
type CoefficientTable struct {
	entries []Coefficient
	index   map[string]float64
}

// NewCoefficientTable validates and builds a table. Every name must be
// non-empty and unique, every weight finite, and the Constant entry present.
func NewCoefficientTable(entries []Coefficient) (*CoefficientTable, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Reason: "coefficient table is empty"}
	}

	index := make(map[string]float64, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, &ConfigError{Reason: "coefficient with empty name"}
		}
		if _, dup := index[e.Name]; dup {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate coefficient %q", e.Name)}
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, &ConfigError{Reason: fmt.Sprintf("non-finite weight for %q", e.Name)}
		}
		index[e.Name] = e.Weight
	}

	if _, ok := index[ConstantFeature]; !ok {
		return nil, &ConfigError{Reason: fmt.Sprintf("missing %s entry", ConstantFeature)}
	}

	copied := make([]Coefficient, len(entries))
	copy(copied, entries)

	return &CoefficientTable{entries: copied, index: index}, nil
}

// Weight returns the weight for a feature name.
func (t *CoefficientTable) Weight(name string) (float64, bool) {
	w, ok := t.index[name]
	return w, ok
}

// Contains reports whether the table has an entry for name.
func (t *CoefficientTable) Contains(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Entries returns the coefficients in table order.
func (t *CoefficientTable) Entries() []Coefficient {
	out := make([]Coefficient, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of coefficient entries.
func (t *CoefficientTable) Len() int {
	return len(t.entries)
}
