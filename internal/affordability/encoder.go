package affordability

// Encode maps a respondent profile onto a feature vector using baseline
// (reference-category) dummy encoding. The vector starts as zeros over the
// full coefficient key set, then the constant, the age feature, and at most
// one dummy per categorical group are set. Selecting a baseline option, or
// an option the schema maps to no dummy at all, leaves the whole group at
// zero (baseline fallback).
//
// Validation is strict: an age outside the schema bounds, a selection
// outside its declared domain, or a variable set that does not match the
// schema aborts with a ProfileError before any scoring.
func Encode(profile RespondentProfile, schema *EncodingSchema, table *CoefficientTable) (FeatureVector, error) {
	if profile.Age < schema.AgeMin || profile.Age > schema.AgeMax {
		return nil, &ProfileError{
			Field:  schema.ageFieldName(),
			Reason: "age out of bounds",
		}
	}

	for name := range profile.Selections {
		if _, ok := schema.Variable(name); !ok {
			return nil, &ProfileError{Field: name, Reason: "not a declared variable"}
		}
	}

	fv := make(FeatureVector, table.Len())
	for _, e := range table.Entries() {
		fv[e.Name] = 0.0
	}
	fv[ConstantFeature] = 1.0
	fv[schema.AgeFeature] = float64(profile.Age)

	for i := range schema.Variables {
		v := &schema.Variables[i]

		selected, ok := profile.Selections[v.Name]
		if !ok {
			return nil, &ProfileError{Field: v.Name, Reason: "no option selected"}
		}

		idx, ok := v.OptionIndex(selected)
		if !ok {
			return nil, &ProfileError{Field: v.Name, Value: selected, Reason: "not in declared domain"}
		}
		if idx == v.Baseline {
			continue
		}
		if feature, ok := v.Dummies[idx]; ok {
			fv[feature] = 1.0
		}
	}

	return fv, nil
}

func (s *EncodingSchema) ageFieldName() string {
	if s.AgeField != "" {
		return s.AgeField
	}
	return "age"
}
