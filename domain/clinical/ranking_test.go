package clinical

import (
	"reflect"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestRankingPoliciesDisagree(t *testing.T) {
	// hi_auc wins on AUC; low_fnr misses fewer positives. The two policies
	// must rank them in opposite orders.
	entries := []RankEntry{
		{ID: "hi_auc", Accuracy: 0.96, AUC: fp(0.99), FNR: fp(0.05)},
		{ID: "low_fnr", Accuracy: 0.94, AUC: fp(0.95), FNR: fp(0.01)},
	}

	if got := RankByAUC(entries); !reflect.DeepEqual(got, []ModelID{"hi_auc", "low_fnr"}) {
		t.Errorf("RankByAUC = %v, want [hi_auc low_fnr]", got)
	}
	if got := RankByFNR(entries); !reflect.DeepEqual(got, []ModelID{"low_fnr", "hi_auc"}) {
		t.Errorf("RankByFNR = %v, want [low_fnr hi_auc]", got)
	}
}

func TestRankByAUCTieBreaksOnAccuracy(t *testing.T) {
	entries := []RankEntry{
		{ID: "a", Accuracy: 0.90, AUC: fp(0.95)},
		{ID: "b", Accuracy: 0.97, AUC: fp(0.95)},
	}
	if got := RankByAUC(entries); !reflect.DeepEqual(got, []ModelID{"b", "a"}) {
		t.Errorf("RankByAUC = %v, want [b a]", got)
	}
}

func TestRankByFNRTieBreaksOnAUC(t *testing.T) {
	entries := []RankEntry{
		{ID: "a", AUC: fp(0.91), FNR: fp(0.02)},
		{ID: "b", AUC: fp(0.98), FNR: fp(0.02)},
	}
	if got := RankByFNR(entries); !reflect.DeepEqual(got, []ModelID{"b", "a"}) {
		t.Errorf("RankByFNR = %v, want [b a]", got)
	}
}

func TestMissingValuesRankLast(t *testing.T) {
	entries := []RankEntry{
		{ID: "no_auc", Accuracy: 0.99, FNR: fp(0.0)},
		{ID: "scored", Accuracy: 0.80, AUC: fp(0.70), FNR: fp(0.30)},
		{ID: "no_fnr", Accuracy: 0.95, AUC: fp(0.97)},
	}

	byAUC := RankByAUC(entries)
	if byAUC[len(byAUC)-1] != "no_auc" {
		t.Errorf("RankByAUC = %v, want no_auc last", byAUC)
	}
	byFNR := RankByFNR(entries)
	if byFNR[len(byFNR)-1] != "no_fnr" {
		t.Errorf("RankByFNR = %v, want no_fnr last", byFNR)
	}
}

func TestRankingIsPermutationInvariant(t *testing.T) {
	a := RankEntry{ID: "a", Accuracy: 0.91, AUC: fp(0.93), FNR: fp(0.04)}
	b := RankEntry{ID: "b", Accuracy: 0.95, AUC: fp(0.97), FNR: fp(0.02)}
	c := RankEntry{ID: "c", Accuracy: 0.89, AUC: fp(0.88), FNR: fp(0.09)}

	orders := [][]RankEntry{
		{a, b, c}, {c, b, a}, {b, a, c}, {c, a, b},
	}
	wantAUC := RankByAUC(orders[0])
	wantFNR := RankByFNR(orders[0])
	for i, perm := range orders[1:] {
		if got := RankByAUC(perm); !reflect.DeepEqual(got, wantAUC) {
			t.Errorf("permutation %d: RankByAUC = %v, want %v", i+1, got, wantAUC)
		}
		if got := RankByFNR(perm); !reflect.DeepEqual(got, wantFNR) {
			t.Errorf("permutation %d: RankByFNR = %v, want %v", i+1, got, wantFNR)
		}
	}
}

func TestEntriesFromMetricsSkipsFailedRecords(t *testing.T) {
	order := []ModelID{"ok", "broken", "missing"}
	records := map[ModelID]MetricsRecord{
		"ok":     {Accuracy: 0.9, AUC: fp(0.95), Confusion: Confusion{TN: 80, FP: 5, FN: 2, TP: 33}},
		"broken": {Error: "training data unavailable"},
	}

	entries := EntriesFromMetrics(order, records)
	if len(entries) != 1 || entries[0].ID != "ok" {
		t.Fatalf("entries = %+v, want single entry for ok", entries)
	}
	if entries[0].FNR == nil || !approx(*entries[0].FNR, 2.0/35.0) {
		t.Errorf("fnr = %v, want 2/35", entries[0].FNR)
	}
}

func TestEntriesFromRowsPreservesRowOrder(t *testing.T) {
	rows := []EvaluationRow{
		{ModelID: "first", FNR: 0.01},
		{ModelID: "second", FNR: 0.02},
	}
	entries := EntriesFromRows(rows)
	if len(entries) != 2 || entries[0].ID != "first" || entries[1].ID != "second" {
		t.Fatalf("entries = %+v, want row order preserved", entries)
	}
}
