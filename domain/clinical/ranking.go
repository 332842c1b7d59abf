package clinical

import "sort"

// RankEntry is the projection of a model record that the ranking policies
// operate on. Failed records never become entries.
type RankEntry struct {
	ID       ModelID
	Accuracy float64
	AUC      *float64
	FNR      *float64
}

// EntriesFromMetrics projects the /metrics feed into rank entries, preserving
// the given registration order. Records carrying an error marker are skipped.
func EntriesFromMetrics(order []ModelID, records map[ModelID]MetricsRecord) []RankEntry {
	entries := make([]RankEntry, 0, len(order))
	for _, id := range order {
		rec, ok := records[id]
		if !ok || rec.Failed() {
			continue
		}
		rates := DeriveRates(rec.Confusion)
		entries = append(entries, RankEntry{
			ID:       id,
			Accuracy: rec.Accuracy,
			AUC:      rec.AUC,
			FNR:      rates.FNR,
		})
	}
	return entries
}

// EntriesFromRows projects evaluation-report rows into rank entries in row
// order.
func EntriesFromRows(rows []EvaluationRow) []RankEntry {
	entries := make([]RankEntry, 0, len(rows))
	for _, row := range rows {
		fnr := row.FNR
		entries = append(entries, RankEntry{
			ID:       row.ModelID,
			Accuracy: row.Accuracy,
			AUC:      row.AUC,
			FNR:      &fnr,
		})
	}
	return entries
}

// RankByAUC orders models by AUC descending, tie-broken by accuracy
// descending. This is the "best model" policy used for headline KPI framing.
// Models without an AUC sort last. The sort is stable: genuine ties preserve
// input order.
func RankByAUC(entries []RankEntry) []ModelID {
	ranked := make([]RankEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai, aj := aucOrMissing(ranked[i]), aucOrMissing(ranked[j])
		if ai != aj {
			return ai > aj
		}
		return ranked[i].Accuracy > ranked[j].Accuracy
	})
	return ids(ranked)
}

// RankByFNR orders models by false-negative rate ascending (fewer missed
// positives is better), tie-broken by AUC descending. This is the
// "recommended model" policy used for clinical framing. It is deliberately
// kept separate from RankByAUC: the two policies optimize for different
// audiences and may disagree on the headline model.
func RankByFNR(entries []RankEntry) []ModelID {
	ranked := make([]RankEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		fi, fj := fnrOrMissing(ranked[i]), fnrOrMissing(ranked[j])
		if fi != fj {
			return fi < fj
		}
		return aucOrMissing(ranked[i]) > aucOrMissing(ranked[j])
	})
	return ids(ranked)
}

// Missing-value sentinels match the report builder: an absent AUC ranks
// worse than any real AUC, an absent FNR ranks worse than any real FNR.
const (
	missingAUC = -1.0
	missingFNR = 1e9
)

func aucOrMissing(e RankEntry) float64 {
	if e.AUC == nil {
		return missingAUC
	}
	return *e.AUC
}

func fnrOrMissing(e RankEntry) float64 {
	if e.FNR == nil {
		return missingFNR
	}
	return *e.FNR
}

func ids(entries []RankEntry) []ModelID {
	out := make([]ModelID, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
