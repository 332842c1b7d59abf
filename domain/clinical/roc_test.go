package clinical

import (
	"errors"
	"testing"
)

func TestRocCurveValidate(t *testing.T) {
	tests := []struct {
		name  string
		curve RocCurve
		ok    bool
	}{
		{"well formed", RocCurve{FPR: []float64{0, 0.2, 1}, TPR: []float64{0, 0.9, 1}, AUC: 0.95}, true},
		{"length mismatch", RocCurve{FPR: []float64{0, 1}, TPR: []float64{0, 0.5, 1}, AUC: 0.9}, false},
		{"empty", RocCurve{}, false},
		{"component above one", RocCurve{FPR: []float64{0, 1.2}, TPR: []float64{0, 1}, AUC: 0.9}, false},
		{"decreasing tpr", RocCurve{FPR: []float64{0, 0.5, 1}, TPR: []float64{0, 0.8, 0.6}, AUC: 0.9}, false},
		{"auc out of range", RocCurve{FPR: []float64{0, 1}, TPR: []float64{0, 1}, AUC: 1.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.curve.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidRocCurve) {
					t.Errorf("Validate() = %v, want ErrInvalidRocCurve", err)
				}
			}
		})
	}
}

func TestValidateReportRowCountDrift(t *testing.T) {
	report := &EvaluationReport{
		NTest: 120,
		Rows: []EvaluationRow{
			{ModelID: "consistent", Confusion: Confusion{TN: 80, FP: 5, FN: 2, TP: 33}},
		},
	}
	if err := report.ValidateReport(); err != nil {
		t.Fatalf("ValidateReport() = %v, want nil", err)
	}

	report.Rows = append(report.Rows, EvaluationRow{
		ModelID:   "drifted",
		Confusion: Confusion{TN: 80, FP: 5, FN: 2, TP: 30},
	})
	if err := report.ValidateReport(); !errors.Is(err, ErrRowCountDrift) {
		t.Fatalf("ValidateReport() = %v, want ErrRowCountDrift", err)
	}
}
