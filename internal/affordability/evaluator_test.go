package affordability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baselineInput(t *testing.T, model *Model) EvaluationInput {
	t.Helper()
	return EvaluationInput{
		Profile: RespondentProfile{
			Age:        38,
			Selections: baselineSelections(model.Schema),
		},
		Income:               6000,
		Rent:                 2000,
		RentRatio:            0.38,
		ProbabilityThreshold: 0.5,
	}
}

func TestEvaluateWithModel_BaselineScenario(t *testing.T) {
	model := excelTestModel(t)

	verdict, err := EvaluateWithModel(baselineInput(t, model), model)
	require.NoError(t, err)

	// z = constant + age weight * 38, every other activation zero.
	assert.InDelta(t, 38.728, verdict.Z, 1e-9)
	assert.InDelta(t, 1.0, verdict.P, 1e-12)

	assert.Equal(t, "2024-excel", verdict.Model)
	assert.Equal(t, 2280.0, verdict.ThresholdRM)
	assert.True(t, verdict.ConditionA)
	assert.True(t, verdict.ConditionB)
	assert.True(t, verdict.Overall)
	assert.Len(t, verdict.Breakdown, model.Table.Len())
}

func TestEvaluateWithModel_RentRule(t *testing.T) {
	model := excelTestModel(t)

	tests := []struct {
		name       string
		income     float64
		rent       float64
		conditionB bool
	}{
		{
			name:       "rent below threshold",
			income:     6000,
			rent:       2000,
			conditionB: true,
		},
		{
			name:       "rent exactly at threshold",
			income:     6000,
			rent:       2280,
			conditionB: true,
		},
		{
			name:       "rent above threshold",
			income:     6000,
			rent:       3000,
			conditionB: false,
		},
		{
			name:       "zero income and zero rent",
			income:     0,
			rent:       0,
			conditionB: true,
		},
		{
			name:       "zero income with any rent",
			income:     0,
			rent:       1,
			conditionB: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baselineInput(t, model)
			in.Income = tt.income
			in.Rent = tt.rent

			verdict, err := EvaluateWithModel(in, model)
			require.NoError(t, err)

			assert.Equal(t, tt.conditionB, verdict.ConditionB)
			// The probability condition is independent of the rent rule and
			// reported regardless of it.
			assert.True(t, verdict.ConditionA)
			assert.Equal(t, verdict.ConditionA && verdict.ConditionB, verdict.Overall)
		})
	}
}

func TestEvaluateWithModel_BothConditionsAlwaysComputed(t *testing.T) {
	model := excelTestModel(t)

	// Fail the probability condition with a profile whose occupation and
	// marital-status dummies drag z strongly negative
	// (38.728 - 35.097 - 25.465 < 0).
	in := baselineInput(t, model)
	in.Profile.Selections["Occupation"] = "Homemaker"
	in.Profile.Selections["Marital Status"] = "Married"

	verdict, err := EvaluateWithModel(in, model)
	require.NoError(t, err)

	assert.False(t, verdict.ConditionA)
	assert.True(t, verdict.ConditionB)
	assert.False(t, verdict.Overall)
}

func TestEvaluateWithModel_InputValidation(t *testing.T) {
	model := excelTestModel(t)

	tests := []struct {
		name   string
		mutate func(*EvaluationInput)
		field  string
	}{
		{
			name:   "negative income",
			mutate: func(in *EvaluationInput) { in.Income = -1 },
			field:  "income",
		},
		{
			name:   "negative rent",
			mutate: func(in *EvaluationInput) { in.Rent = -0.01 },
			field:  "rent",
		},
		{
			name:   "infinite income",
			mutate: func(in *EvaluationInput) { in.Income = math.Inf(1) },
			field:  "income",
		},
		{
			name:   "infinite rent",
			mutate: func(in *EvaluationInput) { in.Rent = math.Inf(1) },
			field:  "rent",
		},
		{
			name:   "rent ratio above one",
			mutate: func(in *EvaluationInput) { in.RentRatio = 1.01 },
			field:  "rent_ratio",
		},
		{
			name:   "negative rent ratio",
			mutate: func(in *EvaluationInput) { in.RentRatio = -0.1 },
			field:  "rent_ratio",
		},
		{
			name:   "zero probability threshold",
			mutate: func(in *EvaluationInput) { in.ProbabilityThreshold = 0 },
			field:  "probability_threshold",
		},
		{
			name:   "probability threshold above one",
			mutate: func(in *EvaluationInput) { in.ProbabilityThreshold = 1.5 },
			field:  "probability_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baselineInput(t, model)
			tt.mutate(&in)

			_, err := EvaluateWithModel(in, model)
			require.Error(t, err)

			var profileErr *ProfileError
			require.ErrorAs(t, err, &profileErr)
			assert.Equal(t, tt.field, profileErr.Field)
		})
	}
}

func TestEvaluator_DefaultsToCurrentGeneration(t *testing.T) {
	store, err := NewModelStore(t.TempDir())
	require.NoError(t, err)

	evaluator := NewEvaluator(store)
	model := excelTestModel(t)

	in := baselineInput(t, model)
	in.Model = ""

	verdict, err := evaluator.Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, DefaultModelName, verdict.Model)
}

func TestEvaluator_UnknownModel(t *testing.T) {
	store, err := NewModelStore(t.TempDir())
	require.NoError(t, err)

	evaluator := NewEvaluator(store)
	model := excelTestModel(t)

	in := baselineInput(t, model)
	in.Model = "2099-future"

	_, err = evaluator.Evaluate(in)
	require.Error(t, err)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "unknown model", configErr.Reason)
}

func TestEvaluator_PilotGeneration(t *testing.T) {
	store, err := NewModelStore(t.TempDir())
	require.NoError(t, err)

	pilot, err := store.LoadModel("2023-pilot")
	require.NoError(t, err)

	in := EvaluationInput{
		Model: "2023-pilot",
		Profile: RespondentProfile{
			Age:        38,
			Selections: baselineSelections(pilot.Schema),
		},
		Income:               6000,
		Rent:                 2000,
		RentRatio:            0.38,
		ProbabilityThreshold: 0.5,
	}

	verdict, err := NewEvaluator(store).Evaluate(in)
	require.NoError(t, err)

	// Both generations share one coefficient table, so an all-baseline
	// profile scores identically under either schema.
	assert.Equal(t, "2023-pilot", verdict.Model)
	assert.InDelta(t, 38.728, verdict.Z, 1e-9)
}
