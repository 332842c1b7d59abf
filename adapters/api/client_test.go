package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oncodash/domain/clinical"
	apperrors "oncodash/internal/errors"
)

const testBase = "http://backend.test"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient(testBase, 5*time.Second)
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestFetchModelsPreservesDocumentOrder(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/models",
		httpmock.NewStringResponder(200, `{
			"zeta": {"name": "Zeta", "supports_shap": true},
			"alpha": {"name": "Alpha", "supports_lime": true, "supports_importance": true}
		}`))

	models, err := client.FetchModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	// Document order, not lexical order.
	assert.Equal(t, clinical.ModelID("zeta"), models[0].ID)
	assert.Equal(t, clinical.ModelID("alpha"), models[1].ID)
	assert.True(t, models[0].SupportsSHAP)
	assert.True(t, models[1].SupportsImportance)
}

func TestFetchMetricsErrorMarkerAndNestedConfusion(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/metrics",
		httpmock.NewStringResponder(200, `{
			"nested": {"accuracy": 0.94, "auc": 0.95, "confusion": {"tn": 80, "fp": 5, "fn": 2, "tp": 33}},
			"flat": {"accuracy": 0.9, "auc": null, "tn": 10, "fp": 1, "fn": 1, "tp": 8},
			"broken": {"error": "model artifact missing"}
		}`))

	metrics, err := client.FetchMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	nested := metrics["nested"]
	assert.Equal(t, clinical.Confusion{TN: 80, FP: 5, FN: 2, TP: 33}, nested.Confusion)
	require.NotNil(t, nested.AUC)
	assert.InDelta(t, 0.95, *nested.AUC, 1e-9)

	flat := metrics["flat"]
	assert.Equal(t, clinical.Confusion{TN: 10, FP: 1, FN: 1, TP: 8}, flat.Confusion)
	assert.Nil(t, flat.AUC, "json null auc must stay nil")

	assert.True(t, metrics["broken"].Failed())
}

func TestPredictNormalizesResponse(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testBase+"/predict",
		httpmock.NewStringResponder(200, `{"prediction": 1, "probabilities": [0.1, 0.9]}`))

	pred, err := client.Predict(context.Background(), "logreg", clinical.PatientRecord{"mean_radius": 14.1})
	require.NoError(t, err)
	assert.Equal(t, 1, pred.PredictedClass)
	assert.Equal(t, []float64{0.1, 0.9}, pred.Probabilities)
}

func TestPredictMalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing prediction", `{"probabilities": [0.5, 0.5]}`},
		{"class outside binary", `{"prediction": 3}`},
		{"wrong probability arity", `{"prediction": 0, "probabilities": [1.0]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockedClient(t)
			httpmock.RegisterResponder(http.MethodPost, testBase+"/predict",
				httpmock.NewStringResponder(200, tt.body))

			_, err := client.Predict(context.Background(), "logreg", clinical.PatientRecord{"x": 1})
			require.Error(t, err)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodePredictionFailed, appErr.Code)
		})
	}
}

func TestPredictNeverRetries(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testBase+"/predict",
		httpmock.NewStringResponder(503, `{"detail": "model warming up"}`))

	_, err := client.Predict(context.Background(), "logreg", clinical.PatientRecord{"x": 1})
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "a failed predict must not be retried")
}

func TestNonSuccessStatusCarriesDetail(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/metrics",
		httpmock.NewStringResponder(500, `{"detail": "metrics unavailable"}`))

	_, err := client.FetchMetrics(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, clinical.ErrBackendStatus))
	assert.Contains(t, err.Error(), "metrics unavailable")
}

func TestBearerTokenAttachment(t *testing.T) {
	client := newMockedClient(t)

	var gotAuth string
	httpmock.RegisterResponder(http.MethodGet, testBase+"/features",
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			return httpmock.NewStringResponse(200, `{"features": ["mean_radius"]}`), nil
		})

	client.SetToken("tok-123")
	_, err := client.FetchFeatures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	client.SetToken("")
	_, err = client.FetchFeatures(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "cleared token must detach the header")
}

func TestLoginParsesAuthResult(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testBase+"/auth/login",
		httpmock.NewStringResponder(200, `{"access_token": "tok", "token_type": "bearer", "role": "data_scientist"}`))

	result, err := client.Login(context.Background(), "a@b.c", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", result.AccessToken)
	assert.Equal(t, "data_scientist", result.Role)
}

func TestSignupPasswordPolicy(t *testing.T) {
	client := newMockedClient(t)

	_, err := client.Signup(context.Background(), "a@b.c", "short", "scientist")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationError, appErr.Code)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'x'
	}
	_, err = client.Signup(context.Background(), "a@b.c", string(long), "scientist")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationError, appErr.Code)

	// Invalid passwords never reach the wire.
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestLimeExplanationPassesThroughFriendlyEmpty(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/lime-explanation/logreg",
		httpmock.NewStringResponder(200, `{"feature_weights": {}, "note": "sample index out of range"}`))

	artifact, err := client.LimeExplanation(context.Background(), "logreg", 99999)
	require.NoError(t, err)
	assert.Contains(t, artifact, "feature_weights")
	assert.Equal(t, "sample index out of range", artifact["note"])
}

func TestMonitoringLiveAcceptsBothShapes(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBase+"/monitoring/live",
		httpmock.NewStringResponder(200, `{"events": [{"model_id": "logreg", "prediction": 1, "probability": 0.9, "latency_ms": 12.5}]}`))

	events, err := client.MonitoringLive(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, clinical.ModelID("logreg"), events[0].ModelID)

	httpmock.RegisterResponder(http.MethodGet, testBase+"/monitoring/live",
		httpmock.NewStringResponder(200, `[{"model_id": "rf", "prediction": 0, "probability": 0.2, "latency_ms": 7.0}]`))

	events, err = client.MonitoringLive(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, clinical.ModelID("rf"), events[0].ModelID)
}

func TestChatExtractsReply(t *testing.T) {
	client := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testBase+"/chat",
		httpmock.NewStringResponder(200, `{"reply": "**hello**"}`))

	reply, err := client.Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "**hello**", reply)
}
