package affordability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaTestTable(t *testing.T) *CoefficientTable {
	t.Helper()
	table, err := NewCoefficientTable([]Coefficient{
		{Name: "Umur", Weight: -0.006},
		{Name: "Bangsa(1)", Weight: -1.222},
		{Name: "Bangsa(2)", Weight: -1.693},
		{Name: "Agama(1)", Weight: -0.291},
		{Name: ConstantFeature, Weight: 38.956},
	})
	require.NoError(t, err)
	return table
}

func validSchema() *EncodingSchema {
	return &EncodingSchema{
		Name:       "test",
		AgeField:   "age",
		AgeFeature: "Umur",
		AgeMin:     15,
		AgeMax:     100,
		Variables: []Variable{
			{
				Name:    "Ethnicity",
				Options: []string{"Malay", "Chinese", "Indian"},
				Dummies: map[int]string{1: "Bangsa(1)", 2: "Bangsa(2)"},
			},
			{
				Name:    "Religion",
				Options: []string{"Islam", "Others"},
				Dummies: map[int]string{1: "Agama(1)"},
			},
		},
	}
}

func TestSchemaValidate_Accepts(t *testing.T) {
	assert.NoError(t, validSchema().Validate(schemaTestTable(t)))
}

func TestSchemaValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EncodingSchema)
	}{
		{
			name:   "empty schema name",
			mutate: func(s *EncodingSchema) { s.Name = "" },
		},
		{
			name:   "missing age feature",
			mutate: func(s *EncodingSchema) { s.AgeFeature = "" },
		},
		{
			name:   "age feature not in table",
			mutate: func(s *EncodingSchema) { s.AgeFeature = "Alter" },
		},
		{
			name:   "empty age bounds",
			mutate: func(s *EncodingSchema) { s.AgeMin, s.AgeMax = 50, 50 },
		},
		{
			name:   "no variables",
			mutate: func(s *EncodingSchema) { s.Variables = nil },
		},
		{
			name:   "variable with empty name",
			mutate: func(s *EncodingSchema) { s.Variables[0].Name = "" },
		},
		{
			name: "duplicate variable",
			mutate: func(s *EncodingSchema) {
				s.Variables[1].Name = s.Variables[0].Name
			},
		},
		{
			name:   "single option domain",
			mutate: func(s *EncodingSchema) { s.Variables[1].Options = []string{"Islam"} },
		},
		{
			name:   "baseline out of range",
			mutate: func(s *EncodingSchema) { s.Variables[0].Baseline = 3 },
		},
		{
			name: "dummy index outside domain",
			mutate: func(s *EncodingSchema) {
				s.Variables[0].Dummies[5] = "Bangsa(1)"
			},
		},
		{
			name: "baseline option mapped to a dummy",
			mutate: func(s *EncodingSchema) {
				s.Variables[0].Dummies[0] = "Bangsa(1)"
			},
		},
		{
			name: "dummy references unknown feature",
			mutate: func(s *EncodingSchema) {
				s.Variables[0].Dummies[1] = "Bangsa(9)"
			},
		},
		{
			name: "dummy shared across variables",
			mutate: func(s *EncodingSchema) {
				s.Variables[1].Dummies[1] = "Bangsa(1)"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchema()
			tt.mutate(s)

			err := s.Validate(schemaTestTable(t))
			require.Error(t, err)

			var configErr *ConfigError
			assert.ErrorAs(t, err, &configErr)
		})
	}
}

func TestSchemaValidate_SharedDummyWithinVariable(t *testing.T) {
	// Several options of one variable may collapse onto one coarse dummy.
	s := validSchema()
	s.Variables[0].Dummies = map[int]string{1: "Bangsa(1)", 2: "Bangsa(1)"}

	assert.NoError(t, s.Validate(schemaTestTable(t)))
}

func TestVariable_OptionIndex(t *testing.T) {
	v := Variable{Options: []string{"Malay", "Chinese", "Indian"}}

	idx, ok := v.OptionIndex("Chinese")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = v.OptionIndex("chinese")
	assert.False(t, ok, "option matching is exact")
}

func TestSchema_VariableLookup(t *testing.T) {
	s := validSchema()

	v, ok := s.Variable("Religion")
	require.True(t, ok)
	assert.Equal(t, "Religion", v.Name)

	_, ok = s.Variable("Income")
	assert.False(t, ok)
}
