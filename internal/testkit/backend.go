package testkit

import (
	"context"
	"sync"

	"oncodash/domain/clinical"
	"oncodash/ports"
)

// FakeBackend is an in-memory ports.Backend for tests. Every method serves
// the canned fixture unless the matching function field overrides it.
type FakeBackend struct {
	ModelsFn   func(ctx context.Context) ([]clinical.Model, error)
	FeaturesFn func(ctx context.Context) ([]string, error)
	MetricsFn  func(ctx context.Context) (map[clinical.ModelID]clinical.MetricsRecord, error)
	RangesFn   func(ctx context.Context) (map[string]clinical.FeatureStat, error)
	DatasetFn  func(ctx context.Context) (*clinical.DatasetInfo, error)
	TableFn    func(ctx context.Context) ([]clinical.EvaluationRow, error)
	ReportFn   func(ctx context.Context) (*clinical.EvaluationReport, error)
	PredictFn  func(ctx context.Context, modelID clinical.ModelID, record clinical.PatientRecord) (*clinical.Prediction, error)
	LiveFn     func(ctx context.Context, limit int) ([]clinical.MonitoringEvent, error)
	LoginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	SignupFn   func(ctx context.Context, email, password, role string) (*ports.AuthResult, error)
	ChatFn     func(ctx context.Context, messages []ports.ChatMessage) (string, error)

	mu    sync.Mutex
	token string
}

// NewFakeBackend creates a fake serving the standard two-model fixture.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

// Fixture ids shared by the canned data.
const (
	FixtureModelA = clinical.ModelID("logistic_regression")
	FixtureModelB = clinical.ModelID("random_forest")
)

// FixtureModels returns the canned registry in registration order.
func FixtureModels() []clinical.Model {
	return []clinical.Model{
		{ID: FixtureModelA, Name: "Logistic Regression", SupportsSHAP: true, SupportsLIME: true},
		{ID: FixtureModelB, Name: "Random Forest", SupportsSHAP: true, SupportsLIME: true, SupportsImportance: true},
	}
}

// FixtureMetrics returns canned metrics. Model A carries the confusion
// counts used throughout the acceptance fixtures: {tn:80, fp:5, fn:2, tp:33}.
func FixtureMetrics() map[clinical.ModelID]clinical.MetricsRecord {
	aucA, aucB := 0.95, 0.99
	return map[clinical.ModelID]clinical.MetricsRecord{
		FixtureModelA: {
			Accuracy: 0.9417, Precision: 0.8684, Recall: 0.9429, F1: 0.9041,
			AUC:       &aucA,
			Confusion: clinical.Confusion{TN: 80, FP: 5, FN: 2, TP: 33},
		},
		FixtureModelB: {
			Accuracy: 0.975, Precision: 0.9211, Recall: 1.0, F1: 0.9589,
			AUC:       &aucB,
			Confusion: clinical.Confusion{TN: 82, FP: 3, FN: 0, TP: 35},
		},
	}
}

// FixtureStats returns canned feature summary statistics.
func FixtureStats() map[string]clinical.FeatureStat {
	return map[string]clinical.FeatureStat{
		"mean_radius":  stat(14.1, 3.5, 6.9, 28.1),
		"mean_texture": stat(19.2, 4.3, 9.7, 39.2),
		"mean_area":    stat(654.8, 351.9, 143.5, 2501.0),
	}
}

func stat(mean, std, min, max float64) clinical.FeatureStat {
	return clinical.FeatureStat{Mean: &mean, Std: &std, Min: &min, Max: &max}
}

// FixtureReport returns a canned evaluation report consistent with the
// metrics fixture, recommended by lowest FNR.
func FixtureReport() *clinical.EvaluationReport {
	metrics := FixtureMetrics()
	recA, recB := metrics[FixtureModelA], metrics[FixtureModelB]
	return &clinical.EvaluationReport{
		Source:             "fixture",
		NTest:              120,
		PositiveRateTest:   35.0 / 120.0,
		RecommendedModelID: FixtureModelB,
		Rows: []clinical.EvaluationRow{
			{
				ModelID: FixtureModelB, ModelName: "Random Forest",
				Accuracy: recB.Accuracy, Precision: recB.Precision, Recall: recB.Recall,
				Specificity: 82.0 / 85.0, FNR: 0, F1: recB.F1, AUC: recB.AUC,
				Confusion: recB.Confusion,
			},
			{
				ModelID: FixtureModelA, ModelName: "Logistic Regression",
				Accuracy: recA.Accuracy, Precision: recA.Precision, Recall: recA.Recall,
				Specificity: 80.0 / 85.0, FNR: 2.0 / 35.0, F1: recA.F1, AUC: recA.AUC,
				Confusion: recA.Confusion,
			},
		},
		Roc: map[clinical.ModelID]clinical.RocCurve{
			FixtureModelA: {FPR: []float64{0, 0.2, 1}, TPR: []float64{0, 0.9, 1}, AUC: 0.95},
			FixtureModelB: {FPR: []float64{0, 0.1, 1}, TPR: []float64{0, 0.95, 1}, AUC: 0.99},
		},
	}
}

func (f *FakeBackend) FetchModels(ctx context.Context) ([]clinical.Model, error) {
	if f.ModelsFn != nil {
		return f.ModelsFn(ctx)
	}
	return FixtureModels(), nil
}

func (f *FakeBackend) FetchFeatures(ctx context.Context) ([]string, error) {
	if f.FeaturesFn != nil {
		return f.FeaturesFn(ctx)
	}
	return []string{"mean_radius", "mean_texture", "mean_area"}, nil
}

func (f *FakeBackend) FetchMetrics(ctx context.Context) (map[clinical.ModelID]clinical.MetricsRecord, error) {
	if f.MetricsFn != nil {
		return f.MetricsFn(ctx)
	}
	return FixtureMetrics(), nil
}

func (f *FakeBackend) FetchFeatureRanges(ctx context.Context) (map[string]clinical.FeatureStat, error) {
	if f.RangesFn != nil {
		return f.RangesFn(ctx)
	}
	return FixtureStats(), nil
}

func (f *FakeBackend) FetchDatasetInfo(ctx context.Context) (*clinical.DatasetInfo, error) {
	if f.DatasetFn != nil {
		return f.DatasetFn(ctx)
	}
	return &clinical.DatasetInfo{
		DatasetName: "breast_cancer",
		NSamples:    569,
		NFeatures:   3,
		ClassCounts: map[string]int{"benign": 357, "malignant": 212},
	}, nil
}

func (f *FakeBackend) FetchEvaluationTable(ctx context.Context) ([]clinical.EvaluationRow, error) {
	if f.TableFn != nil {
		return f.TableFn(ctx)
	}
	return FixtureReport().Rows, nil
}

func (f *FakeBackend) FetchEvaluationReport(ctx context.Context) (*clinical.EvaluationReport, error) {
	if f.ReportFn != nil {
		return f.ReportFn(ctx)
	}
	return FixtureReport(), nil
}

func (f *FakeBackend) Predict(ctx context.Context, modelID clinical.ModelID, record clinical.PatientRecord) (*clinical.Prediction, error) {
	if f.PredictFn != nil {
		return f.PredictFn(ctx, modelID, record)
	}
	return &clinical.Prediction{PredictedClass: 0, Probabilities: []float64{0.8, 0.2}}, nil
}

func (f *FakeBackend) ShapSummary(ctx context.Context, modelID clinical.ModelID) (map[string]any, error) {
	return map[string]any{"model_id": string(modelID), "plot_url": "/static/shap/" + string(modelID) + ".png"}, nil
}

func (f *FakeBackend) FeatureImportance(ctx context.Context, modelID clinical.ModelID) (map[string]any, error) {
	return map[string]any{"mean_radius": 0.6, "mean_texture": 0.3, "mean_area": 0.1}, nil
}

func (f *FakeBackend) LimeExplanation(ctx context.Context, modelID clinical.ModelID, sampleIndex int) (map[string]any, error) {
	return map[string]any{"feature_weights": map[string]any{}}, nil
}

func (f *FakeBackend) MonitoringSummary(ctx context.Context) (map[string]any, error) {
	return map[string]any{"total_predictions": 42}, nil
}

func (f *FakeBackend) MonitoringLive(ctx context.Context, limit int) ([]clinical.MonitoringEvent, error) {
	if f.LiveFn != nil {
		return f.LiveFn(ctx, limit)
	}
	return []clinical.MonitoringEvent{
		{ModelID: FixtureModelA, Prediction: 0, Probability: 0.12, LatencyMS: 8},
		{ModelID: FixtureModelB, Prediction: 1, Probability: 0.91, LatencyMS: 12},
	}, nil
}

func (f *FakeBackend) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if f.LoginFn != nil {
		return f.LoginFn(ctx, email, password)
	}
	return &ports.AuthResult{AccessToken: "fixture-token", Role: "scientist"}, nil
}

func (f *FakeBackend) Signup(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
	if f.SignupFn != nil {
		return f.SignupFn(ctx, email, password, role)
	}
	return &ports.AuthResult{AccessToken: "fixture-token", Role: role}, nil
}

func (f *FakeBackend) Chat(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	if f.ChatFn != nil {
		return f.ChatFn(ctx, messages)
	}
	return "**fixture reply**", nil
}

func (f *FakeBackend) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

// Token returns the last token passed to SetToken.
func (f *FakeBackend) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

var _ ports.Backend = (*FakeBackend)(nil)
