package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewasmart/sewasmart/internal/affordability"
	"github.com/sewasmart/sewasmart/internal/audit"
)

func testApp(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := newServer(t.TempDir(), false)
	require.NoError(t, err)
	return app
}

// baselineRequest answers every question of the default generation with its
// baseline option.
func baselineRequest(t *testing.T, app *server) map[string]interface{} {
	t.Helper()

	model, err := app.store.LoadModel(affordability.DefaultModelName)
	require.NoError(t, err)

	selections := make(map[string]string, len(model.Schema.Variables))
	for _, v := range model.Schema.Variables {
		selections[v.Name] = v.Options[v.Baseline]
	}

	return map[string]interface{}{
		"age":                   38,
		"selections":            selections,
		"income":                6000,
		"rent":                  2000,
		"rent_ratio":            0.38,
		"probability_threshold": 0.5,
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := testApp(t).routes()

	w := doJSON(t, r, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Contains(t, body, "metrics")
}

func TestEvaluateEndpoint_BaselineScenario(t *testing.T) {
	app := testApp(t)
	r := app.routes()

	w := doJSON(t, r, "POST", "/evaluate", baselineRequest(t, app))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var verdict affordability.Verdict
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))

	assert.Equal(t, affordability.DefaultModelName, verdict.Model)
	assert.InDelta(t, 38.728, verdict.Z, 1e-9)
	assert.InDelta(t, 1.0, verdict.P, 1e-12)
	assert.Equal(t, 2280.0, verdict.ThresholdRM)
	assert.True(t, verdict.ConditionA)
	assert.True(t, verdict.ConditionB)
	assert.True(t, verdict.Overall)
	assert.Len(t, verdict.Breakdown, 54)
}

func TestEvaluateEndpoint_RentAboveThreshold(t *testing.T) {
	app := testApp(t)
	r := app.routes()

	body := baselineRequest(t, app)
	body["rent"] = 3000.0

	w := doJSON(t, r, "POST", "/evaluate", body)
	require.Equal(t, http.StatusOK, w.Code)

	var verdict affordability.Verdict
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))

	assert.True(t, verdict.ConditionA)
	assert.False(t, verdict.ConditionB)
	assert.False(t, verdict.Overall)
}

func TestEvaluateEndpoint_Validation(t *testing.T) {
	app := testApp(t)
	r := app.routes()

	tests := []struct {
		name           string
		mutate         func(map[string]interface{})
		expectedStatus int
	}{
		{
			name: "unknown model",
			mutate: func(body map[string]interface{}) {
				body["model"] = "2099-future"
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "age out of bounds",
			mutate: func(body map[string]interface{}) {
				body["age"] = 12
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "option outside declared domain",
			mutate: func(body map[string]interface{}) {
				body["selections"].(map[string]string)["Religion"] = "Taoism"
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing probability threshold",
			mutate: func(body map[string]interface{}) {
				delete(body, "probability_threshold")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "rent ratio above one",
			mutate: func(body map[string]interface{}) {
				body["rent_ratio"] = 1.5
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative income",
			mutate: func(body map[string]interface{}) {
				body["income"] = -100.0
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := baselineRequest(t, app)
			tt.mutate(body)

			w := doJSON(t, r, "POST", "/evaluate", body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestEvaluateCSVEndpoint(t *testing.T) {
	app := testApp(t)
	r := app.routes()

	w := doJSON(t, r, "POST", "/evaluate/csv", baselineRequest(t, app))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "affordability_calculation.csv")

	lines := bytes.Split(bytes.TrimSpace(w.Body.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	assert.Equal(t, "variable,coef,input,coef_x_input", string(bytes.TrimSpace(lines[0])))
	// Header plus one row per coefficient.
	assert.Len(t, lines, 55)
}

func TestModelsEndpoints(t *testing.T) {
	app := testApp(t)
	r := app.routes()

	w := doJSON(t, r, "GET", "/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Default string                    `json:"default"`
		Models  []affordability.ModelInfo `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, affordability.DefaultModelName, listing.Default)
	require.Len(t, listing.Models, 2)
	assert.Equal(t, "2023-pilot", listing.Models[0].Name)
	assert.Equal(t, "2024-excel", listing.Models[1].Name)

	w = doJSON(t, r, "GET", "/models/2024-excel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "2024-excel", detail["name"])
	assert.Contains(t, detail, "schema")
	assert.Contains(t, detail, "coefficients")

	w = doJSON(t, r, "GET", "/models/2099-future", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditEndpoint_DisabledReturns503(t *testing.T) {
	r := testApp(t).routes()

	w := doJSON(t, r, "GET", "/audit/recent", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuditTrail_RecordsEvaluations(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := newServer(t.TempDir(), true)
	require.NoError(t, err)
	require.NotNil(t, app.sink)
	r := app.routes()

	w := doJSON(t, r, "POST", "/evaluate", baselineRequest(t, app))
	require.Equal(t, http.StatusOK, w.Code)

	// The sink persists asynchronously.
	require.Eventually(t, func() bool {
		n, err := app.sink.Count()
		return err == nil && n >= 1
	}, 2*time.Second, 10*time.Millisecond)

	w = doJSON(t, r, "GET", "/audit/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Records []audit.Record `json:"records"`
		Total   int64          `json:"total"`
		Dropped int64          `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Records)
	assert.Equal(t, affordability.DefaultModelName, body.Records[0].Model)
	assert.True(t, body.Records[0].Overall)
	assert.Equal(t, int64(0), body.Dropped)

	require.NoError(t, app.sink.Close())
}

func TestMetricsEndpoint(t *testing.T) {
	app := testApp(t)
	r := app.routes()

	doJSON(t, r, "POST", "/evaluate", baselineRequest(t, app))

	w := doJSON(t, r, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Contains(t, stats, "evaluations")
	assert.Contains(t, stats, "afford_count")
	assert.Contains(t, stats, "model_evaluations")
	assert.Contains(t, stats, "audit_appends")
	assert.Contains(t, stats, "audit_failures")
	assert.Contains(t, stats, "rate_limit")
}

func TestUnknownRoute(t *testing.T) {
	r := testApp(t).routes()

	w := doJSON(t, r, "GET", "/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
