package affordability

import "math"

// EvaluationInput carries everything one verdict needs. RentRatio and
// ProbabilityThreshold are required and have no default here: published
// snapshots of the model disagreed on the threshold (0.5 vs 0.05), so the
// caller must state which policy it is applying.
type EvaluationInput struct {
	Model                string
	Profile              RespondentProfile
	Income               float64
	Rent                 float64
	RentRatio            float64
	ProbabilityThreshold float64
}

// Evaluator resolves a named model and runs the encode → score → combine
// pipeline. It holds only read-only configuration and is safe for
// concurrent use; every call builds its own vector and verdict.
type Evaluator struct {
	store *ModelStore
}

// NewEvaluator creates an evaluator backed by a model store.
func NewEvaluator(store *ModelStore) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate loads the requested model (or the default) and produces a verdict.
func (e *Evaluator) Evaluate(in EvaluationInput) (*Verdict, error) {
	name := in.Model
	if name == "" {
		name = DefaultModelName
	}

	model, err := e.store.LoadModel(name)
	if err != nil {
		return nil, err
	}

	return EvaluateWithModel(in, model)
}

// EvaluateWithModel runs one evaluation against an explicit model. Both
// conditions are always computed; condition B is reported even when
// condition A already failed.
func EvaluateWithModel(in EvaluationInput, model *Model) (*Verdict, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	features, err := Encode(in.Profile, model.Schema, model.Table)
	if err != nil {
		return nil, err
	}

	rows := Breakdown(features, model.Table)
	score, err := scoreRows(rows)
	if err != nil {
		return nil, err
	}

	thresholdRM := in.RentRatio * in.Income
	conditionA := score.P >= in.ProbabilityThreshold
	conditionB := in.Rent <= thresholdRM

	return &Verdict{
		Model:                model.Name,
		Z:                    score.Z,
		P:                    score.P,
		ProbabilityThreshold: in.ProbabilityThreshold,
		RentRatio:            in.RentRatio,
		Income:               in.Income,
		Rent:                 in.Rent,
		ThresholdRM:          thresholdRM,
		ConditionA:           conditionA,
		ConditionB:           conditionB,
		Overall:              conditionA && conditionB,
		Breakdown:            rows,
	}, nil
}

func validateInput(in EvaluationInput) error {
	switch {
	case math.IsNaN(in.Income) || math.IsInf(in.Income, 0) || in.Income < 0:
		return &ProfileError{Field: "income", Reason: "must be a finite, non-negative amount"}
	case math.IsNaN(in.Rent) || math.IsInf(in.Rent, 0) || in.Rent < 0:
		return &ProfileError{Field: "rent", Reason: "must be a finite, non-negative amount"}
	case math.IsNaN(in.RentRatio) || in.RentRatio < 0 || in.RentRatio > 1:
		return &ProfileError{Field: "rent_ratio", Reason: "must be within [0, 1]"}
	case math.IsNaN(in.ProbabilityThreshold) || in.ProbabilityThreshold <= 0 || in.ProbabilityThreshold > 1:
		return &ProfileError{Field: "probability_threshold", Reason: "must be within (0, 1]"}
	}
	return nil
}
