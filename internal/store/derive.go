package store

import "oncodash/domain/clinical"

// BestModel returns the headline KPI model: highest AUC, ties broken by
// accuracy. Empty when no usable metrics are loaded.
func (snap *Snapshot) BestModel() clinical.ModelID {
	entries := clinical.EntriesFromMetrics(snap.Order, snap.Metrics)
	ranked := clinical.RankByAUC(entries)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0]
}

// RecommendedModel returns the clinical-framing model: the report's
// recommendation when available, otherwise lowest FNR over the loaded
// metrics. The two headline models may legitimately disagree; they optimize
// for different audiences.
func (snap *Snapshot) RecommendedModel() clinical.ModelID {
	if snap.Report != nil && snap.Report.RecommendedModelID != "" {
		return snap.Report.RecommendedModelID
	}
	entries := clinical.EntriesFromMetrics(snap.Order, snap.Metrics)
	ranked := clinical.RankByFNR(entries)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0]
}

// RatesFor derives the clinical rates for one model's confusion counts.
// The second return is false when the model has no usable metrics record.
func (snap *Snapshot) RatesFor(id clinical.ModelID) (clinical.Rates, bool) {
	rec, ok := snap.Metrics[id]
	if !ok || rec.Failed() {
		return clinical.Rates{}, false
	}
	return clinical.DeriveRates(rec.Confusion), true
}
