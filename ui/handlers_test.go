package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"oncodash/domain/access"
	"oncodash/domain/clinical"
	"oncodash/internal/testkit"
)

type viewResponse struct {
	View struct {
		SelectedModel string               `json:"selected_model"`
		Record        map[string]float64   `json:"record"`
		Prediction    *clinical.Prediction `json:"prediction"`
	} `json:"view"`
}

func decodeView(t *testing.T, body []byte) viewResponse {
	t.Helper()
	var resp viewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	return resp
}

func TestPredictViewInitializesZeroedRecord(t *testing.T) {
	server := newTestServer(t, nil)
	cookie := login(t, server, access.RoleScientist)

	w := doRequest(server, http.MethodGet, "/predict", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /predict = %d: %s", w.Code, w.Body.String())
	}

	resp := decodeView(t, w.Body.Bytes())
	if len(resp.View.Record) != 3 {
		t.Fatalf("record = %v, want one entry per fixture feature", resp.View.Record)
	}
	for feature, v := range resp.View.Record {
		if v != 0 {
			t.Errorf("feature %s = %v, want 0 before any edit", feature, v)
		}
	}
	if resp.View.SelectedModel != string(testkit.FixtureModelB) {
		t.Errorf("selected = %s, want the store's initial selection", resp.View.SelectedModel)
	}
}

func TestEditRecordCoercesAndIgnoresUnknownFeatures(t *testing.T) {
	server := newTestServer(t, nil)
	cookie := login(t, server, access.RoleScientist)
	doRequest(server, http.MethodGet, "/predict", "", cookie)

	w := doRequest(server, http.MethodPut, "/predict/record",
		`{"mean_radius": 17.5, "mean_texture": "not a number", "made_up": 3.0}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /predict/record = %d: %s", w.Code, w.Body.String())
	}

	resp := decodeView(t, w.Body.Bytes())
	if resp.View.Record["mean_radius"] != 17.5 {
		t.Errorf("mean_radius = %v, want 17.5", resp.View.Record["mean_radius"])
	}
	if resp.View.Record["mean_texture"] != 0 {
		t.Errorf("mean_texture = %v, want coercion to 0", resp.View.Record["mean_texture"])
	}
	if _, ok := resp.View.Record["made_up"]; ok {
		t.Error("unknown feature must not be added to the record")
	}
}

func TestSampleReplacesRecordAndClearsPrediction(t *testing.T) {
	server := newTestServer(t, nil)
	cookie := login(t, server, access.RoleScientist)
	doRequest(server, http.MethodGet, "/predict", "", cookie)

	// Establish a prediction first.
	w := doRequest(server, http.MethodPost, "/predict", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /predict = %d: %s", w.Code, w.Body.String())
	}
	if resp := decodeView(t, w.Body.Bytes()); resp.View.Prediction == nil {
		t.Fatal("predict should attach a prediction")
	}

	// Sampling regenerates the record and drops the stale prediction.
	w = doRequest(server, http.MethodPost, "/predict/sample", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /predict/sample = %d: %s", w.Code, w.Body.String())
	}
	resp := decodeView(t, w.Body.Bytes())
	if resp.View.Prediction != nil {
		t.Error("sampling must clear the previous prediction")
	}
	nonZero := false
	for _, v := range resp.View.Record {
		if v != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("sampled record should carry drawn values")
	}
}

func TestSampleWithoutStatsFailsInline(t *testing.T) {
	fake := testkit.NewFakeBackend()
	fake.RangesFn = func(ctx context.Context) (map[string]clinical.FeatureStat, error) {
		return map[string]clinical.FeatureStat{}, nil
	}
	server := newTestServer(t, fake)
	cookie := login(t, server, access.RoleScientist)
	doRequest(server, http.MethodGet, "/predict", "", cookie)

	w := doRequest(server, http.MethodPost, "/predict/sample-varied", "", cookie)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("sample without stats = %d, want 422", w.Code)
	}
	// The failure leaves the view intact.
	w = doRequest(server, http.MethodGet, "/predict", "", cookie)
	resp := decodeView(t, w.Body.Bytes())
	if len(resp.View.Record) != 3 {
		t.Errorf("record = %v, want the zeroed record untouched", resp.View.Record)
	}
}

func TestSelectModelRejectsUnknownID(t *testing.T) {
	server := newTestServer(t, nil)
	cookie := login(t, server, access.RoleScientist)

	w := doRequest(server, http.MethodPost, "/predict/model",
		`{"model_id": "nonexistent"}`, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("select unknown model = %d, want 404", w.Code)
	}

	w = doRequest(server, http.MethodPost, "/predict/model",
		`{"model_id": "`+string(testkit.FixtureModelA)+`"}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("select known model = %d: %s", w.Code, w.Body.String())
	}
	resp := decodeView(t, w.Body.Bytes())
	if resp.View.SelectedModel != string(testkit.FixtureModelA) {
		t.Errorf("selected = %s, want %s", resp.View.SelectedModel, testkit.FixtureModelA)
	}
}

func TestPredictFailureClearsPredictionAndSurfacesError(t *testing.T) {
	fake := testkit.NewFakeBackend()
	server := newTestServer(t, fake)
	cookie := login(t, server, access.RoleScientist)
	doRequest(server, http.MethodGet, "/predict", "", cookie)

	// Successful prediction first.
	doRequest(server, http.MethodPost, "/predict", "", cookie)

	fake.PredictFn = func(ctx context.Context, modelID clinical.ModelID, record clinical.PatientRecord) (*clinical.Prediction, error) {
		return nil, clinical.ErrBackendStatus
	}
	w := doRequest(server, http.MethodPost, "/predict", "", cookie)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("failed predict = %d, want 502", w.Code)
	}

	// The stale prediction is gone; the record survives.
	w = doRequest(server, http.MethodGet, "/predict", "", cookie)
	resp := decodeView(t, w.Body.Bytes())
	if resp.View.Prediction != nil {
		t.Error("failed predict must clear the previous prediction")
	}
}

func TestOverviewHeadlines(t *testing.T) {
	server := newTestServer(t, nil)
	cookie := login(t, server, access.RoleScientist)

	w := doRequest(server, http.MethodGet, "/overview", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /overview = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ModelCount int `json:"model_count"`
		Best       struct {
			ModelID  string `json:"model_id"`
			Severity string `json:"severity"`
		} `json:"best_model"`
		Recommended struct {
			ModelID string `json:"model_id"`
		} `json:"recommended_model"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ModelCount != 2 {
		t.Errorf("model_count = %d, want 2", resp.ModelCount)
	}
	if resp.Best.ModelID != string(testkit.FixtureModelB) {
		t.Errorf("best = %s, want %s", resp.Best.ModelID, testkit.FixtureModelB)
	}
	if resp.Best.Severity != string(clinical.SeveritySafe) {
		t.Errorf("best severity = %s, want safe (fnr 0)", resp.Best.Severity)
	}
	if resp.Recommended.ModelID != string(testkit.FixtureModelB) {
		t.Errorf("recommended = %s, want %s", resp.Recommended.ModelID, testkit.FixtureModelB)
	}
}

func TestMetricsViewAnnotatesSeverity(t *testing.T) {
	server := newTestServer(t, nil)
	cookie := login(t, server, access.RoleDataScientist)

	w := doRequest(server, http.MethodGet, "/metrics", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Rows []struct {
			ModelID  string `json:"model_id"`
			Severity string `json:"severity"`
		} `json:"rows"`
		BestOrder        []string `json:"best_order"`
		RecommendedOrder []string `json:"recommended_order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	severities := make(map[string]string)
	for _, row := range resp.Rows {
		severities[row.ModelID] = row.Severity
	}
	// Fixture model A misses 2 of 35 positives: over the warn threshold.
	if severities[string(testkit.FixtureModelA)] != string(clinical.SeverityBad) {
		t.Errorf("model A severity = %s, want bad", severities[string(testkit.FixtureModelA)])
	}
	if severities[string(testkit.FixtureModelB)] != string(clinical.SeveritySafe) {
		t.Errorf("model B severity = %s, want safe", severities[string(testkit.FixtureModelB)])
	}

	if len(resp.BestOrder) == 0 || resp.BestOrder[0] != string(testkit.FixtureModelB) {
		t.Errorf("best_order = %v, want %s first", resp.BestOrder, testkit.FixtureModelB)
	}
	if len(resp.RecommendedOrder) == 0 || resp.RecommendedOrder[0] != string(testkit.FixtureModelB) {
		t.Errorf("recommended_order = %v, want %s first", resp.RecommendedOrder, testkit.FixtureModelB)
	}
}

func TestChatRendersMarkdown(t *testing.T) {
	server := newTestServer(t, nil)
	cookie := login(t, server, access.RoleScientist)

	w := doRequest(server, http.MethodPost, "/chat",
		`{"messages": [{"role": "user", "content": "which model is safest?"}]}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /chat = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Markdown != "**fixture reply**" {
		t.Errorf("markdown = %q", resp.Markdown)
	}
	if resp.HTML == "" || resp.HTML == resp.Markdown {
		t.Errorf("html = %q, want rendered markup", resp.HTML)
	}
}
