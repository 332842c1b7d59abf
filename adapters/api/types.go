package api

import "oncodash/domain/clinical"

// wireRow is the backend's flat evaluation row shape: metrics plus the raw
// confusion counts at the top level.
type wireRow struct {
	ModelID     string   `json:"model_id"`
	ModelName   string   `json:"model_name"`
	Accuracy    float64  `json:"accuracy"`
	Precision   float64  `json:"precision"`
	Recall      float64  `json:"recall"`
	Specificity float64  `json:"specificity"`
	FNR         float64  `json:"fnr"`
	F1          float64  `json:"f1"`
	AUC         *float64 `json:"auc"`
	TN          int      `json:"tn"`
	FP          int      `json:"fp"`
	FN          int      `json:"fn"`
	TP          int      `json:"tp"`
}

func (w wireRow) toDomain() clinical.EvaluationRow {
	return clinical.EvaluationRow{
		ModelID:     clinical.ModelID(w.ModelID),
		ModelName:   w.ModelName,
		Accuracy:    w.Accuracy,
		Precision:   w.Precision,
		Recall:      w.Recall,
		Specificity: w.Specificity,
		FNR:         w.FNR,
		F1:          w.F1,
		AUC:         w.AUC,
		Confusion:   clinical.Confusion{TN: w.TN, FP: w.FP, FN: w.FN, TP: w.TP},
	}
}

// wireReport is the backend's evaluation report envelope.
type wireReport struct {
	Source             string                   `json:"source"`
	NTest              int                      `json:"n_test"`
	PositiveRateTest   float64                  `json:"positive_rate_test"`
	RecommendedModelID string                   `json:"recommended_model_id"`
	Rows               []wireRow                `json:"rows"`
	Roc                map[string]wireRocCurve  `json:"roc"`
}

type wireRocCurve struct {
	FPR []float64 `json:"fpr"`
	TPR []float64 `json:"tpr"`
	AUC float64   `json:"auc"`
}

func (w wireReport) toDomain() *clinical.EvaluationReport {
	report := &clinical.EvaluationReport{
		Source:             w.Source,
		NTest:              w.NTest,
		PositiveRateTest:   w.PositiveRateTest,
		RecommendedModelID: clinical.ModelID(w.RecommendedModelID),
		Rows:               make([]clinical.EvaluationRow, len(w.Rows)),
		Roc:                make(map[clinical.ModelID]clinical.RocCurve, len(w.Roc)),
	}
	for i, row := range w.Rows {
		report.Rows[i] = row.toDomain()
	}
	for id, curve := range w.Roc {
		report.Roc[clinical.ModelID(id)] = clinical.RocCurve{
			FPR: curve.FPR,
			TPR: curve.TPR,
			AUC: curve.AUC,
		}
	}
	return report
}
