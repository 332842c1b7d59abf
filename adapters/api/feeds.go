package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"oncodash/domain/clinical"
)

// FetchModels retrieves the model registry. The backend serves the registry
// as a JSON object; iteration follows document order so registration order
// survives into the returned slice.
func (c *Client) FetchModels(ctx context.Context) ([]clinical.Model, error) {
	raw, err := c.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: /models is not an object", clinical.ErrMalformedResponse)
	}

	var out []clinical.Model
	parsed.ForEach(func(key, value gjson.Result) bool {
		out = append(out, clinical.Model{
			ID:                 clinical.ModelID(key.String()),
			Name:               value.Get("name").String(),
			SupportsSHAP:       value.Get("supports_shap").Bool(),
			SupportsLIME:       value.Get("supports_lime").Bool(),
			SupportsImportance: value.Get("supports_importance").Bool(),
		})
		return true
	})
	return out, nil
}

// FetchFeatures retrieves the ordered feature name list.
func (c *Client) FetchFeatures(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/features", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Features []string `json:"features"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: /features: %v", clinical.ErrMalformedResponse, err)
	}
	return payload.Features, nil
}

// FetchMetrics retrieves per-model scalar metrics. Models that failed
// evaluation arrive as {"error": "..."} and keep their error marker; the
// confusion counts may be nested under "confusion" or flat on the record.
func (c *Client) FetchMetrics(ctx context.Context) (map[clinical.ModelID]clinical.MetricsRecord, error) {
	raw, err := c.do(ctx, http.MethodGet, "/metrics", nil)
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: /metrics is not an object", clinical.ErrMalformedResponse)
	}

	out := make(map[clinical.ModelID]clinical.MetricsRecord)
	parsed.ForEach(func(key, value gjson.Result) bool {
		out[clinical.ModelID(key.String())] = parseMetricsRecord(value)
		return true
	})
	return out, nil
}

func parseMetricsRecord(value gjson.Result) clinical.MetricsRecord {
	if errMsg := value.Get("error"); errMsg.Exists() {
		return clinical.MetricsRecord{Error: errMsg.String()}
	}
	rec := clinical.MetricsRecord{
		Accuracy:  value.Get("accuracy").Float(),
		Precision: value.Get("precision").Float(),
		Recall:    value.Get("recall").Float(),
		F1:        value.Get("f1").Float(),
	}
	if auc := value.Get("auc"); auc.Exists() && auc.Type != gjson.Null {
		v := auc.Float()
		rec.AUC = &v
	}
	counts := value.Get("confusion")
	if !counts.Exists() {
		counts = value
	}
	rec.Confusion = clinical.Confusion{
		TN: int(counts.Get("tn").Int()),
		FP: int(counts.Get("fp").Int()),
		FN: int(counts.Get("fn").Int()),
		TP: int(counts.Get("tp").Int()),
	}
	return rec
}

// FetchFeatureRanges retrieves per-feature summary statistics. Optional
// fields stay nil when the backend omits them.
func (c *Client) FetchFeatureRanges(ctx context.Context) (map[string]clinical.FeatureStat, error) {
	raw, err := c.do(ctx, http.MethodGet, "/feature-ranges", nil)
	if err != nil {
		return nil, err
	}
	var out map[string]clinical.FeatureStat
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: /feature-ranges: %v", clinical.ErrMalformedResponse, err)
	}
	return out, nil
}

// FetchDatasetInfo retrieves dataset provenance for the overview.
func (c *Client) FetchDatasetInfo(ctx context.Context) (*clinical.DatasetInfo, error) {
	raw, err := c.do(ctx, http.MethodGet, "/dataset-info", nil)
	if err != nil {
		return nil, err
	}
	var info clinical.DatasetInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("%w: /dataset-info: %v", clinical.ErrMalformedResponse, err)
	}
	return &info, nil
}

// FetchEvaluationTable retrieves the flat per-model evaluation rows.
func (c *Client) FetchEvaluationTable(ctx context.Context) ([]clinical.EvaluationRow, error) {
	raw, err := c.do(ctx, http.MethodGet, "/evaluation-table", nil)
	if err != nil {
		return nil, err
	}
	var rows []wireRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: /evaluation-table: %v", clinical.ErrMalformedResponse, err)
	}
	out := make([]clinical.EvaluationRow, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// FetchEvaluationReport retrieves the single payload backing the metrics
// view: sorted rows, ROC curves and the recommended model id.
func (c *Client) FetchEvaluationReport(ctx context.Context) (*clinical.EvaluationReport, error) {
	raw, err := c.do(ctx, http.MethodGet, "/evaluation-report", nil)
	if err != nil {
		return nil, err
	}
	var report wireReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("%w: /evaluation-report: %v", clinical.ErrMalformedResponse, err)
	}
	return report.toDomain(), nil
}

// ShapSummary fetches the SHAP artifact for a model. The payload is opaque
// to the core and passed through for display.
func (c *Client) ShapSummary(ctx context.Context, modelID clinical.ModelID) (map[string]any, error) {
	return c.fetchArtifact(ctx, "/shap-summary/"+url.PathEscape(string(modelID)))
}

// FeatureImportance fetches the intrinsic importance artifact for a model.
func (c *Client) FeatureImportance(ctx context.Context, modelID clinical.ModelID) (map[string]any, error) {
	return c.fetchArtifact(ctx, "/feature-importance/"+url.PathEscape(string(modelID)))
}

// LimeExplanation fetches the LIME artifact for one sample. A missing sample
// index yields a friendly empty-weights payload from the backend, not an
// error; that shape is passed through unchanged.
func (c *Client) LimeExplanation(ctx context.Context, modelID clinical.ModelID, sampleIndex int) (map[string]any, error) {
	path := "/lime-explanation/" + url.PathEscape(string(modelID)) + "?sample_index=" + strconv.Itoa(sampleIndex)
	return c.fetchArtifact(ctx, path)
}

// MonitoringSummary fetches the aggregate telemetry payload.
func (c *Client) MonitoringSummary(ctx context.Context) (map[string]any, error) {
	return c.fetchArtifact(ctx, "/monitoring/summary")
}

// MonitoringLive fetches recent prediction telemetry. The backend serves
// either a bare array or an {events: [...]} wrapper.
func (c *Client) MonitoringLive(ctx context.Context, limit int) ([]clinical.MonitoringEvent, error) {
	raw, err := c.do(ctx, http.MethodGet, "/monitoring/live?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(raw)
	list := parsed
	if !parsed.IsArray() {
		list = parsed.Get("events")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: /monitoring/live", clinical.ErrMalformedResponse)
	}

	var events []clinical.MonitoringEvent
	list.ForEach(func(_, v gjson.Result) bool {
		events = append(events, clinical.MonitoringEvent{
			ModelID:     clinical.ModelID(v.Get("model_id").String()),
			Prediction:  int(v.Get("prediction").Int()),
			Probability: v.Get("probability").Float(),
			LatencyMS:   v.Get("latency_ms").Float(),
			Timestamp:   v.Get("timestamp").Time(),
		})
		return true
	})
	return events, nil
}

func (c *Client) fetchArtifact(ctx context.Context, path string) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", clinical.ErrMalformedResponse, path, err)
	}
	return out, nil
}
