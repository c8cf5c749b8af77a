package affordability

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdownCSV_RoundTripsZ(t *testing.T) {
	model := excelTestModel(t)

	in := baselineInput(t, model)
	in.Profile.Selections["Ethnicity"] = "Indian"
	in.Profile.Selections["Deposit"] = "2 + 1"

	verdict, err := EvaluateWithModel(in, model)
	require.NoError(t, err)

	data, err := verdict.BreakdownCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, model.Table.Len()+1)

	assert.Equal(t, []string{"variable", "coef", "input", "coef_x_input"}, records[0])

	// Shortest-exact float formatting: re-parsing the product column and
	// summing it reproduces Z bit for bit.
	sum := 0.0
	for _, record := range records[1:] {
		require.Len(t, record, 4)
		product, err := strconv.ParseFloat(record[3], 64)
		require.NoError(t, err)
		sum += product
	}
	assert.Equal(t, verdict.Z, sum)
}

func TestBreakdownCSV_RowOrderMatchesTable(t *testing.T) {
	model := excelTestModel(t)

	verdict, err := EvaluateWithModel(baselineInput(t, model), model)
	require.NoError(t, err)

	data, err := verdict.BreakdownCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	entries := model.Table.Entries()
	for i, e := range entries {
		assert.Equal(t, e.Name, records[i+1][0])
	}
	assert.Equal(t, ConstantFeature, records[len(records)-1][0])
}

func TestFormatFloat_ShortestExact(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "integer value",
			input:    1,
			expected: "1",
		},
		{
			name:     "zero",
			input:    0,
			expected: "0",
		},
		{
			name:     "negative weight",
			input:    -0.006,
			expected: "-0.006",
		},
		{
			name:     "large constant",
			input:    38.956,
			expected: "38.956",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))

			parsed, err := strconv.ParseFloat(formatFloat(tt.input), 64)
			require.NoError(t, err)
			assert.Equal(t, tt.input, parsed)
		})
	}
}
