package affordability

// RespondentProfile is the raw input to one evaluation: a numeric age plus
// one selected option per categorical variable, keyed by variable name.
type RespondentProfile struct {
	Age        int               `json:"age"`
	Selections map[string]string `json:"selections"`
}

// FeatureVector maps feature name to activation value. Dummy features carry
// 0.0 or 1.0; the age feature carries the literal age and the constant
// feature carries 1.0. Built fresh per evaluation, never shared.
type FeatureVector map[string]float64

// ScoreResult holds the linear predictor and its logistic transform.
type ScoreResult struct {
	Z float64 `json:"z"`
	P float64 `json:"p"`
}

// BreakdownRow is one line of the calculation table: a coefficient, the
// activation the encoder produced for it, and their product. The product
// column sums to Z exactly.
type BreakdownRow struct {
	Feature    string  `json:"feature"`
	Weight     float64 `json:"weight"`
	Activation float64 `json:"activation"`
	Product    float64 `json:"product"`
}

// Verdict is the complete outcome of one evaluation. ConditionA is the
// logistic-model check, ConditionB the rent-to-income rule, Overall their
// conjunction. Both conditions are always computed and reported.
type Verdict struct {
	Model                string         `json:"model"`
	Z                    float64        `json:"z"`
	P                    float64        `json:"p"`
	ProbabilityThreshold float64        `json:"probability_threshold"`
	RentRatio            float64        `json:"rent_ratio"`
	Income               float64        `json:"income"`
	Rent                 float64        `json:"rent"`
	ThresholdRM          float64        `json:"threshold_rm"`
	ConditionA           bool           `json:"condition_a"`
	ConditionB           bool           `json:"condition_b"`
	Overall              bool           `json:"overall"`
	Breakdown            []BreakdownRow `json:"breakdown"`
}
