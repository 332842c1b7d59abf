package ui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oncodash/adapters/excel"
	"oncodash/domain/clinical"
	"oncodash/internal/errors"
	"oncodash/ports"
)

// handleMetrics serves the evaluation report with both rankings side by
// side. The two policies are deliberately independent: best-by-AUC frames
// the headline KPI, recommended-by-FNR frames the clinical recommendation.
func (s *Server) handleMetrics(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil {
		s.respondError(c, http.StatusServiceUnavailable, errors.New(errors.CodeLoadFailed, "evaluation data not loaded"))
		return
	}

	payload := gin.H{}
	var entries []clinical.RankEntry
	if snap.Report != nil {
		entries = clinical.EntriesFromRows(snap.Report.Rows)
		payload["report"] = snap.Report
		payload["rows"] = annotateRows(snap.Report.Rows)
		payload["roc"] = snap.Report.Roc
	} else {
		// Report feed degraded; fall back to the metrics feed.
		entries = clinical.EntriesFromMetrics(snap.Order, snap.Metrics)
		payload["metrics"] = snap.Metrics
	}

	payload["best_order"] = clinical.RankByAUC(entries)
	payload["recommended_order"] = clinical.RankByFNR(entries)
	payload["best_model"] = snap.BestModel()
	payload["recommended_model"] = snap.RecommendedModel()
	c.JSON(http.StatusOK, payload)
}

// annotatedRow pairs a report row with its banner severity.
type annotatedRow struct {
	clinical.EvaluationRow
	Severity clinical.Severity `json:"severity"`
}

func annotateRows(rows []clinical.EvaluationRow) []annotatedRow {
	out := make([]annotatedRow, len(rows))
	for i, row := range rows {
		fnr := row.FNR
		out[i] = annotatedRow{
			EvaluationRow: row,
			Severity:      clinical.ClassifySeverity(&fnr),
		}
	}
	return out
}

// handleMetricsExport streams the evaluation report as an Excel workbook.
func (s *Server) handleMetricsExport(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil || snap.Report == nil {
		s.respondError(c, http.StatusNotFound, errors.NotFound("evaluation report"))
		return
	}

	filename := fmt.Sprintf("evaluation-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := excel.WriteEvaluationWorkbook(snap.Report, c.Writer); err != nil {
		s.logger.Error("[Server] workbook export failed: %v", err)
	}
}

// handleExplainabilityView lists which artifacts the selected model offers.
func (s *Server) handleExplainabilityView(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil {
		s.respondError(c, http.StatusServiceUnavailable, errors.New(errors.CodeLoadFailed, "evaluation data not loaded"))
		return
	}
	model, ok := s.resolveModel(c, snap.Models, snap.SelectedModel)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"model_id":            model.ID,
		"supports_shap":       model.SupportsSHAP,
		"supports_lime":       model.SupportsLIME,
		"supports_importance": model.SupportsImportance,
	})
}

func (s *Server) handleShap(c *gin.Context) {
	s.serveArtifact(c, func(id clinical.ModelID) (map[string]any, error) {
		return s.explain.ShapSummary(c.Request.Context(), id)
	})
}

func (s *Server) handleImportance(c *gin.Context) {
	s.serveArtifact(c, func(id clinical.ModelID) (map[string]any, error) {
		return s.explain.FeatureImportance(c.Request.Context(), id)
	})
}

func (s *Server) handleLime(c *gin.Context) {
	sampleIndex := 0
	if raw := c.Query("sample_index"); raw != "" {
		sampleIndex = int(coerceNumeric(raw))
	}
	s.serveArtifact(c, func(id clinical.ModelID) (map[string]any, error) {
		return s.explain.LimeExplanation(c.Request.Context(), id, sampleIndex)
	})
}

func (s *Server) serveArtifact(c *gin.Context, fetch func(clinical.ModelID) (map[string]any, error)) {
	snap := s.store.Snapshot()
	if snap == nil {
		s.respondError(c, http.StatusServiceUnavailable, errors.New(errors.CodeLoadFailed, "evaluation data not loaded"))
		return
	}
	model, ok := s.resolveModel(c, snap.Models, snap.SelectedModel)
	if !ok {
		return
	}
	artifact, err := fetch(model.ID)
	if err != nil {
		s.respondError(c, http.StatusBadGateway, errors.BackendError("explainability fetch", err))
		return
	}
	c.JSON(http.StatusOK, artifact)
}

// resolveModel picks the model from the ?model= query, defaulting to the
// store's initial selection. Responds with 404 and returns false for ids the
// deployment does not expose.
func (s *Server) resolveModel(c *gin.Context, models map[clinical.ModelID]clinical.Model, fallback clinical.ModelID) (clinical.Model, bool) {
	id := clinical.ModelID(c.Query("model"))
	if id == "" {
		id = fallback
	}
	model, ok := models[id]
	if !ok {
		s.respondError(c, http.StatusNotFound, errors.NotFound("model"))
		return clinical.Model{}, false
	}
	return model, true
}

// handleMonitoring serves the poller's latest live window plus the backend's
// aggregate summary. A summary fetch failure degrades to the live data
// alone; telemetry is display-only and never blocks.
func (s *Server) handleMonitoring(c *gin.Context) {
	payload := gin.H{}
	if live := s.monitor.Last(); live != nil {
		payload["live"] = live
	}
	if summary, err := s.backend.MonitoringSummary(c.Request.Context()); err == nil {
		payload["summary"] = summary
	} else {
		s.logger.Debug("[Server] monitoring summary unavailable: %v", err)
	}
	c.JSON(http.StatusOK, payload)
}

// handleChat relays an assistant conversation and returns the reply rendered
// to HTML.
func (s *Server) handleChat(c *gin.Context) {
	var req struct {
		Messages []ports.ChatMessage `json:"messages" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, errors.ValidationError("messages are required"))
		return
	}
	reply, err := s.assistant.Ask(c.Request.Context(), req.Messages)
	if err != nil {
		s.respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
