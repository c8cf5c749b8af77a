package types

// EvaluateRequest is the request body for the evaluate endpoints. Model is
// optional and defaults server-side; rent_ratio and probability_threshold
// are required so the applied policy is always explicit in the request.
type EvaluateRequest struct {
	Model                string            `json:"model"`
	Age                  int               `json:"age" binding:"required"`
	Selections           map[string]string `json:"selections" binding:"required"`
	Income               float64           `json:"income"`
	Rent                 float64           `json:"rent"`
	RentRatio            float64           `json:"rent_ratio" binding:"required"`
	ProbabilityThreshold float64           `json:"probability_threshold" binding:"required"`
}
