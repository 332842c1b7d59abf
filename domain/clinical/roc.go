package clinical

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Validate checks the structural invariants of a ROC curve: matching
// sequence lengths, every component in [0,1], and both sequences
// monotonically non-decreasing.
func (c RocCurve) Validate() error {
	if len(c.FPR) != len(c.TPR) {
		return fmt.Errorf("%w: fpr has %d points, tpr has %d", ErrInvalidRocCurve, len(c.FPR), len(c.TPR))
	}
	if len(c.FPR) == 0 {
		return fmt.Errorf("%w: empty curve", ErrInvalidRocCurve)
	}
	for name, seq := range map[string][]float64{"fpr": c.FPR, "tpr": c.TPR} {
		if floats.Min(seq) < 0 || floats.Max(seq) > 1 {
			return fmt.Errorf("%w: %s component outside [0,1]", ErrInvalidRocCurve, name)
		}
		if !nonDecreasing(seq) {
			return fmt.Errorf("%w: %s not monotonically non-decreasing", ErrInvalidRocCurve, name)
		}
	}
	if c.AUC < 0 || c.AUC > 1 {
		return fmt.Errorf("%w: auc %.4f outside [0,1]", ErrInvalidRocCurve, c.AUC)
	}
	return nil
}

func nonDecreasing(seq []float64) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i] < seq[i-1] {
			return false
		}
	}
	return true
}

// ValidateReport checks the cross-row invariant that every row's confusion
// counts sum to the report's n_test.
func (r *EvaluationReport) ValidateReport() error {
	for _, row := range r.Rows {
		if total := row.Confusion.Total(); total != r.NTest {
			return fmt.Errorf("%w: model %s sums to %d, n_test is %d",
				ErrRowCountDrift, row.ModelID, total, r.NTest)
		}
	}
	return nil
}
