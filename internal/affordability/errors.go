package affordability

import "fmt"

// ProfileError reports a respondent field outside its declared domain.
// Evaluation aborts before scoring; the caller must correct and re-submit.
type ProfileError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ProfileError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid profile: %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid profile: %s: %s", e.Field, e.Reason)
}

// ConfigError reports a malformed coefficient table or encoding schema.
// Detected at load time and fatal at startup, never recovered silently.
type ConfigError struct {
	Model  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("invalid model %q: %s", e.Model, e.Reason)
	}
	return "invalid model: " + e.Reason
}

// ScoreError reports a non-finite linear predictor. A NaN probability would
// compare as "not afford", so scoring fails loudly instead of propagating it.
type ScoreError struct {
	Z float64
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("non-finite linear predictor z=%v", e.Z)
}
