package clinical

import "time"

// ModelID uniquely identifies a classifier in the backend registry.
type ModelID string

// Model is a registry entry for a deployed classifier. Immutable once loaded.
type Model struct {
	ID                 ModelID `json:"id"`
	Name               string  `json:"name"`
	SupportsSHAP       bool    `json:"supports_shap"`
	SupportsLIME       bool    `json:"supports_lime"`
	SupportsImportance bool    `json:"supports_importance"`
}

// Confusion holds the raw confusion-matrix counts for a binary classifier.
type Confusion struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

// Total returns the number of evaluated samples behind the counts.
func (c Confusion) Total() int {
	return c.TN + c.FP + c.FN + c.TP
}

// MetricsRecord carries the per-model scalar metrics from the /metrics feed.
// A record may carry an error marker instead of values when the model failed
// evaluation; such records are excluded from ranking.
type MetricsRecord struct {
	Accuracy  float64   `json:"accuracy"`
	Precision float64   `json:"precision"`
	Recall    float64   `json:"recall"`
	F1        float64   `json:"f1"`
	AUC       *float64  `json:"auc,omitempty"`
	Confusion Confusion `json:"confusion"`
	Error     string    `json:"error,omitempty"`
}

// Failed reports whether the record carries an error marker.
func (m MetricsRecord) Failed() bool {
	return m.Error != ""
}

// EvaluationRow is a richer per-model record from the evaluation report.
// All rows in one report share the same test-set size, and
// tn+fp+fn+tp == n_test for every row.
type EvaluationRow struct {
	ModelID     ModelID   `json:"model_id"`
	ModelName   string    `json:"model_name"`
	Accuracy    float64   `json:"accuracy"`
	Precision   float64   `json:"precision"`
	Recall      float64   `json:"recall"`
	Specificity float64   `json:"specificity"`
	FNR         float64   `json:"fnr"`
	F1          float64   `json:"f1"`
	AUC         *float64  `json:"auc,omitempty"`
	Confusion   Confusion `json:"confusion"`
}

// RocCurve is an ordered sequence of (fpr, tpr) pairs plus a scalar AUC.
// Both sequences are monotonically non-decreasing, of equal length, with
// every component in [0,1].
type RocCurve struct {
	FPR []float64 `json:"fpr"`
	TPR []float64 `json:"tpr"`
	AUC float64   `json:"auc"`
}

// EvaluationReport is the single payload backing the metrics view.
type EvaluationReport struct {
	Rows               []EvaluationRow      `json:"rows"`
	Roc                map[ModelID]RocCurve `json:"roc"`
	RecommendedModelID ModelID              `json:"recommended_model_id"`
	NTest              int                  `json:"n_test"`
	PositiveRateTest   float64              `json:"positive_rate_test"`
	Source             string               `json:"source"`
}

// FeatureStat summarizes one feature of the training distribution.
// All fields are optional; Min <= Max when both are present.
type FeatureStat struct {
	Mean *float64 `json:"mean,omitempty"`
	Std  *float64 `json:"std,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

// PatientRecord maps feature name to value, one entry per known feature.
type PatientRecord map[string]float64

// NewPatientRecord builds a zeroed record over the given feature names.
func NewPatientRecord(features []string) PatientRecord {
	rec := make(PatientRecord, len(features))
	for _, f := range features {
		rec[f] = 0
	}
	return rec
}

// Prediction is the normalized outcome of a predict call. Probabilities,
// when present, is a 2-element vector summing to 1.
type Prediction struct {
	PredictedClass int       `json:"predicted_class"`
	Probabilities  []float64 `json:"probabilities,omitempty"`
}

// DatasetInfo describes the training dataset behind the deployed models.
type DatasetInfo struct {
	DatasetName string         `json:"dataset_name"`
	NSamples    int            `json:"n_samples"`
	NFeatures   int            `json:"n_features"`
	ClassCounts map[string]int `json:"class_counts"`
}

// MonitoringEvent is one operational telemetry record from the live feed.
type MonitoringEvent struct {
	ModelID     ModelID   `json:"model_id"`
	Prediction  int       `json:"prediction"`
	Probability float64   `json:"probability"`
	LatencyMS   float64   `json:"latency_ms"`
	Timestamp   time.Time `json:"timestamp"`
}
