package affordability

import "math"

// Logistic applies the numerically stable sigmoid. The two-branch form
// keeps exp's argument non-positive so neither branch can overflow; the
// naive 1/(1+exp(-z)) overflows for large negative z.
func Logistic(z float64) float64 {
	if z >= 0 {
		ez := math.Exp(-z)
		return 1.0 / (1.0 + ez)
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}

// Breakdown builds the calculation table in coefficient order. A feature
// absent from the vector contributes an activation of 0.0, never an error.
func Breakdown(features FeatureVector, table *CoefficientTable) []BreakdownRow {
	entries := table.Entries()
	rows := make([]BreakdownRow, 0, len(entries))
	for _, e := range entries {
		x := features[e.Name]
		rows = append(rows, BreakdownRow{
			Feature:    e.Name,
			Weight:     e.Weight,
			Activation: x,
			Product:    e.Weight * x,
		})
	}
	return rows
}

// Score computes the linear predictor z as the exact sum of the product
// column and its probability p = Logistic(z). Pure: no I/O, no shared
// state. A non-finite z is rejected as a ScoreError rather than surfacing
// a NaN probability.
func Score(features FeatureVector, table *CoefficientTable) (ScoreResult, error) {
	rows := Breakdown(features, table)
	return scoreRows(rows)
}

func scoreRows(rows []BreakdownRow) (ScoreResult, error) {
	z := 0.0
	for _, r := range rows {
		z += r.Product
	}

	if math.IsNaN(z) || math.IsInf(z, 0) {
		return ScoreResult{}, &ScoreError{Z: z}
	}

	return ScoreResult{Z: z, P: Logistic(z)}, nil
}
