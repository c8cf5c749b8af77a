package affordability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baselineSelections answers every variable with its baseline option.
func baselineSelections(schema *EncodingSchema) map[string]string {
	selections := make(map[string]string, len(schema.Variables))
	for _, v := range schema.Variables {
		selections[v.Name] = v.Options[v.Baseline]
	}
	return selections
}

func excelTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := buildModel(excelModel())
	require.NoError(t, err)
	return m
}

func TestEncode_AllBaseline(t *testing.T) {
	model := excelTestModel(t)

	profile := RespondentProfile{
		Age:        38,
		Selections: baselineSelections(model.Schema),
	}

	fv, err := Encode(profile, model.Schema, model.Table)
	require.NoError(t, err)

	// The vector covers the full coefficient key set.
	assert.Len(t, fv, model.Table.Len())
	for _, e := range model.Table.Entries() {
		_, ok := fv[e.Name]
		assert.True(t, ok, "missing feature %q", e.Name)
	}

	// Only the constant and the age feature are active.
	assert.Equal(t, 1.0, fv[ConstantFeature])
	assert.Equal(t, 38.0, fv["Umur"])
	for name, value := range fv {
		if name == ConstantFeature || name == "Umur" {
			continue
		}
		assert.Equal(t, 0.0, value, "feature %q should be zero for an all-baseline profile", name)
	}
}

func TestEncode_OneDummyPerGroup(t *testing.T) {
	model := excelTestModel(t)

	selections := baselineSelections(model.Schema)
	selections["Ethnicity"] = "Chinese"
	selections["Known SMART SEWA"] = "No"

	fv, err := Encode(RespondentProfile{Age: 30, Selections: selections}, model.Schema, model.Table)
	require.NoError(t, err)

	assert.Equal(t, 1.0, fv["Bangsa(1)"])
	assert.Equal(t, 0.0, fv["Bangsa(2)"])
	assert.Equal(t, 0.0, fv["Bangsa(3)"])
	assert.Equal(t, 0.0, fv["Bangsa(4)"])
	assert.Equal(t, 1.0, fv[smartSewaFeature])
}

func TestEncode_BaselineFallbackForUnmappedOption(t *testing.T) {
	model := excelTestModel(t)

	// The housing-type question declares eight options but the fitted model
	// only carries dummies for the first five non-baseline levels; the last
	// two answers encode the same as the baseline.
	selections := baselineSelections(model.Schema)
	selections["Type of Rental Housing"] = "Terrace House (Double storey)"

	fv, err := Encode(RespondentProfile{Age: 30, Selections: selections}, model.Schema, model.Table)
	require.NoError(t, err)

	assert.Equal(t, 0.0, fv["Jenis rumah sewa(1)"])
	assert.Equal(t, 0.0, fv["Jenis rumah sewa(2)"])
	assert.Equal(t, 0.0, fv["Jenis rumah sewa(3)"])
	assert.Equal(t, 0.0, fv["Jenis rumah sewa(4)"])
	assert.Equal(t, 0.0, fv["Jenis rumah sewa(5)"])
}

func TestEncode_EveryDeclaredOptionEncodes(t *testing.T) {
	for name := range builtinModels {
		t.Run(name, func(t *testing.T) {
			m, err := buildModel(builtinModels[name]())
			require.NoError(t, err)

			for _, v := range m.Schema.Variables {
				for _, opt := range v.Options {
					selections := baselineSelections(m.Schema)
					selections[v.Name] = opt

					fv, err := Encode(RespondentProfile{Age: 40, Selections: selections}, m.Schema, m.Table)
					require.NoError(t, err, "variable %q option %q", v.Name, opt)

					active := 0
					for _, feature := range v.Dummies {
						if fv[feature] == 1.0 {
							active++
						}
					}
					assert.LessOrEqual(t, active, 1, "variable %q option %q activates more than one dummy", v.Name, opt)
				}
			}
		})
	}
}

func TestEncode_ProfileErrors(t *testing.T) {
	model := excelTestModel(t)

	missing := baselineSelections(model.Schema)
	delete(missing, "Religion")

	outOfDomain := baselineSelections(model.Schema)
	outOfDomain["Religion"] = "Taoism"

	undeclared := baselineSelections(model.Schema)
	undeclared["Favourite colour"] = "Blue"

	tests := []struct {
		name       string
		age        int
		selections map[string]string
		field      string
	}{
		{
			name:       "age below minimum",
			age:        14,
			selections: baselineSelections(model.Schema),
			field:      "age",
		},
		{
			name:       "age above maximum",
			age:        101,
			selections: baselineSelections(model.Schema),
			field:      "age",
		},
		{
			name:       "missing selection",
			age:        38,
			selections: missing,
			field:      "Religion",
		},
		{
			name:       "option outside declared domain",
			age:        38,
			selections: outOfDomain,
			field:      "Religion",
		},
		{
			name:       "undeclared variable",
			age:        38,
			selections: undeclared,
			field:      "Favourite colour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(RespondentProfile{Age: tt.age, Selections: tt.selections}, model.Schema, model.Table)
			require.Error(t, err)

			var profileErr *ProfileError
			require.ErrorAs(t, err, &profileErr)
			assert.Equal(t, tt.field, profileErr.Field)
		})
	}
}
