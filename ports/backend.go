package ports

import (
	"context"

	"oncodash/domain/clinical"
)

// Backend is the inference service consumed over its HTTP contract. Every
// method maps to one endpoint; none of them retries automatically.
type Backend interface {
	// Registry and feeds for the initial load.
	FetchModels(ctx context.Context) ([]clinical.Model, error)
	FetchFeatures(ctx context.Context) ([]string, error)
	FetchMetrics(ctx context.Context) (map[clinical.ModelID]clinical.MetricsRecord, error)
	FetchFeatureRanges(ctx context.Context) (map[string]clinical.FeatureStat, error)
	FetchDatasetInfo(ctx context.Context) (*clinical.DatasetInfo, error)
	FetchEvaluationTable(ctx context.Context) ([]clinical.EvaluationRow, error)
	FetchEvaluationReport(ctx context.Context) (*clinical.EvaluationReport, error)

	// Inference.
	Predict(ctx context.Context, modelID clinical.ModelID, record clinical.PatientRecord) (*clinical.Prediction, error)

	// Explainability artifacts, opaque to the core.
	ShapSummary(ctx context.Context, modelID clinical.ModelID) (map[string]any, error)
	FeatureImportance(ctx context.Context, modelID clinical.ModelID) (map[string]any, error)
	LimeExplanation(ctx context.Context, modelID clinical.ModelID, sampleIndex int) (map[string]any, error)

	// Operational telemetry, display-only.
	MonitoringSummary(ctx context.Context) (map[string]any, error)
	MonitoringLive(ctx context.Context, limit int) ([]clinical.MonitoringEvent, error)

	// Auth collaborator: the backend issues tokens, the dashboard stores them.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Signup(ctx context.Context, email, password, role string) (*AuthResult, error)

	// Chat relays assistant messages; the reply is markdown.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)

	// SetToken attaches a bearer token to every subsequent request.
	SetToken(token string)
}

// AuthResult is the normalized shape of a login or signup response.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
