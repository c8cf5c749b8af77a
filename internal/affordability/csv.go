package affordability

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// BreakdownCSV renders the calculation table as CSV. Floats use the
// shortest exact representation so re-parsing the product column and
// summing it reproduces Z bit for bit.
func (v *Verdict) BreakdownCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"variable", "coef", "input", "coef_x_input"}); err != nil {
		return nil, err
	}

	for _, row := range v.Breakdown {
		record := []string{
			row.Feature,
			formatFloat(row.Weight),
			formatFloat(row.Activation),
			formatFloat(row.Product),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
