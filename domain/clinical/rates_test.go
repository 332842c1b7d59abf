package clinical

import (
	"math"
	"testing"
)

const rateTolerance = 1e-9

func approx(got, want float64) bool {
	return math.Abs(got-want) < rateTolerance
}

func TestDeriveRatesReferenceConfusion(t *testing.T) {
	// tn=80 fp=5 fn=2 tp=33: the standard binary-classifier check case.
	rates := DeriveRates(Confusion{TN: 80, FP: 5, FN: 2, TP: 33})

	if rates.Recall == nil || !approx(*rates.Recall, 33.0/35.0) {
		t.Errorf("recall = %v, want 33/35", rates.Recall)
	}
	if rates.Specificity == nil || !approx(*rates.Specificity, 80.0/85.0) {
		t.Errorf("specificity = %v, want 80/85", rates.Specificity)
	}
	if rates.FNR == nil || !approx(*rates.FNR, 2.0/35.0) {
		t.Errorf("fnr = %v, want 2/35", rates.FNR)
	}
	if rates.FPR == nil || !approx(*rates.FPR, 5.0/85.0) {
		t.Errorf("fpr = %v, want 5/85", rates.FPR)
	}
}

func TestDeriveRatesComplementIdentities(t *testing.T) {
	cases := []Confusion{
		{TN: 80, FP: 5, FN: 2, TP: 33},
		{TN: 1, FP: 99, FN: 50, TP: 50},
		{TN: 10, FP: 0, FN: 0, TP: 10},
		{TN: 0, FP: 7, FN: 3, TP: 0},
	}
	for _, c := range cases {
		rates := DeriveRates(c)
		if rates.Recall != nil && rates.FNR != nil && !approx(*rates.Recall+*rates.FNR, 1) {
			t.Errorf("confusion %+v: recall+fnr = %v, want 1", c, *rates.Recall+*rates.FNR)
		}
		if rates.Specificity != nil && rates.FPR != nil && !approx(*rates.Specificity+*rates.FPR, 1) {
			t.Errorf("confusion %+v: specificity+fpr = %v, want 1", c, *rates.Specificity+*rates.FPR)
		}
	}
}

func TestDeriveRatesZeroDenominators(t *testing.T) {
	tests := []struct {
		name      string
		confusion Confusion
		wantPosNil bool
		wantNegNil bool
	}{
		{"no positives", Confusion{TN: 40, FP: 10}, true, false},
		{"no negatives", Confusion{FN: 3, TP: 17}, false, true},
		{"empty", Confusion{}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := DeriveRates(tt.confusion)
			if gotNil := rates.Recall == nil; gotNil != tt.wantPosNil {
				t.Errorf("recall nil = %v, want %v", gotNil, tt.wantPosNil)
			}
			if gotNil := rates.FNR == nil; gotNil != tt.wantPosNil {
				t.Errorf("fnr nil = %v, want %v", gotNil, tt.wantPosNil)
			}
			if gotNil := rates.Specificity == nil; gotNil != tt.wantNegNil {
				t.Errorf("specificity nil = %v, want %v", gotNil, tt.wantNegNil)
			}
			if gotNil := rates.FPR == nil; gotNil != tt.wantNegNil {
				t.Errorf("fpr nil = %v, want %v", gotNil, tt.wantNegNil)
			}
		})
	}
}

func TestClassifySeverity(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		fnr  *float64
		want Severity
	}{
		{"nil rate", nil, SeverityUnknown},
		{"zero", f(0), SeveritySafe},
		{"below threshold", f(0.01), SeverityWarn},
		{"at threshold", f(FNRWarnThreshold), SeverityWarn},
		{"just above threshold", f(0.0201), SeverityBad},
		{"reference fixture", f(2.0 / 35.0), SeverityBad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySeverity(tt.fnr); got != tt.want {
				t.Errorf("ClassifySeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}
