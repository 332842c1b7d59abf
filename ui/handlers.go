package ui

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"oncodash/domain/clinical"
	"oncodash/internal/errors"
	"oncodash/internal/store"
)

// handleOverview serves the headline view: dataset provenance, the two
// headline models (best by AUC, recommended by FNR) and the safety banner.
func (s *Server) handleOverview(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil {
		// Hard-load failure surface: a persistent banner, not a crash.
		s.respondError(c, http.StatusServiceUnavailable, errors.New(errors.CodeLoadFailed, "evaluation data not loaded"))
		return
	}

	payload := gin.H{
		"dataset":     snap.Dataset,
		"model_count": len(snap.Order),
		"models":      modelList(snap.Order, snap.Models),
		"loaded_at":   snap.LoadedAt,
	}

	if best := snap.BestModel(); best != "" {
		payload["best_model"] = s.modelHeadline(snap, best)
	}
	if recommended := snap.RecommendedModel(); recommended != "" {
		payload["recommended_model"] = s.modelHeadline(snap, recommended)
	}
	if live := s.monitor.Last(); live != nil {
		payload["live"] = live.Summary
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) modelHeadline(snap *store.Snapshot, id clinical.ModelID) gin.H {
	headline := gin.H{"model_id": id}
	if rates, ok := snap.RatesFor(id); ok {
		headline["rates"] = rates
		headline["severity"] = clinical.ClassifySeverity(rates.FNR)
	} else {
		headline["severity"] = clinical.SeverityUnknown
	}
	return headline
}

// handlePredictView serves the predict form state for the current session,
// initializing a zeroed record over the known features on first visit.
func (s *Server) handlePredictView(c *gin.Context) {
	snap := s.store.Snapshot()
	if snap == nil {
		s.respondError(c, http.StatusServiceUnavailable, errors.New(errors.CodeLoadFailed, "evaluation data not loaded"))
		return
	}
	view := s.views.get(currentSession(c).ID)
	view.ensureRecord(snap.Features, snap.SelectedModel)

	c.JSON(http.StatusOK, gin.H{
		"models":   modelList(snap.Order, snap.Models),
		"features": snap.Features,
		"view":     view.snapshot(),
	})
}

// handleEditRecord applies form edits. Non-numeric entries coerce to 0
// rather than rejecting the edit; the form is never blocked.
func (s *Server) handleEditRecord(c *gin.Context) {
	var edits map[string]any
	if err := c.ShouldBindJSON(&edits); err != nil {
		s.respondError(c, http.StatusBadRequest, errors.ValidationError("record edits must be a JSON object"))
		return
	}
	view := s.views.get(currentSession(c).ID)
	for feature, raw := range edits {
		view.setValue(feature, coerceNumeric(raw))
	}
	c.JSON(http.StatusOK, gin.H{"view": view.snapshot()})
}

func coerceNumeric(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return 0
}

// handleSampleDistribution fills the record from the training distribution.
func (s *Server) handleSampleDistribution(c *gin.Context) {
	s.sample(c, s.sampler.SampleFromDistribution)
}

// handleSampleVaried fills the record with a severity-biased uniform draw.
func (s *Server) handleSampleVaried(c *gin.Context) {
	s.sample(c, s.sampler.SampleVaried)
}

func (s *Server) sample(c *gin.Context, fill func(map[string]clinical.FeatureStat) (clinical.PatientRecord, error)) {
	snap := s.store.Snapshot()
	if snap == nil {
		s.respondError(c, http.StatusServiceUnavailable, errors.New(errors.CodeLoadFailed, "evaluation data not loaded"))
		return
	}

	record, err := fill(snap.Stats)
	if err != nil {
		// User-facing error, selected model and loaded statistics untouched.
		s.respondError(c, http.StatusUnprocessableEntity, errors.Wrap(err, "cannot generate a synthetic patient"))
		return
	}

	view := s.views.get(currentSession(c).ID)
	view.replaceRecord(record)
	c.JSON(http.StatusOK, gin.H{"view": view.snapshot()})
}

// handleSelectModel switches the session's selected model.
func (s *Server) handleSelectModel(c *gin.Context) {
	var req struct {
		ModelID string `json:"model_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, errors.ValidationError("model_id is required"))
		return
	}
	snap := s.store.Snapshot()
	if snap == nil {
		s.respondError(c, http.StatusServiceUnavailable, errors.New(errors.CodeLoadFailed, "evaluation data not loaded"))
		return
	}
	id := clinical.ModelID(req.ModelID)
	if _, ok := snap.Models[id]; !ok {
		s.respondError(c, http.StatusNotFound, errors.NotFound("model"))
		return
	}
	view := s.views.get(currentSession(c).ID)
	view.selectModel(id)
	c.JSON(http.StatusOK, gin.H{"view": view.snapshot()})
}

// handlePredict sends the session's record to the inference backend. On any
// failure the prior prediction stays cleared and the error surfaces inline;
// there is no automatic retry.
func (s *Server) handlePredict(c *gin.Context) {
	view := s.views.get(currentSession(c).ID)
	modelID, record := view.currentRecord()
	if modelID == "" || len(record) == 0 {
		s.respondError(c, http.StatusBadRequest, errors.ValidationError("no patient record to predict on"))
		return
	}

	prediction, err := s.backend.Predict(c.Request.Context(), modelID, record)
	if err != nil {
		view.clearPrediction()
		s.respondError(c, http.StatusBadGateway, err)
		return
	}
	view.setPrediction(prediction)
	c.JSON(http.StatusOK, gin.H{"view": view.snapshot()})
}

func modelList(order []clinical.ModelID, models map[clinical.ModelID]clinical.Model) []clinical.Model {
	out := make([]clinical.Model, 0, len(order))
	for _, id := range order {
		out = append(out, models[id])
	}
	return out
}
