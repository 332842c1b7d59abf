package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"oncodash/domain/clinical"
)

const sheetName = "Evaluation"

var headers = []string{
	"Model ID", "Model Name", "Accuracy", "Precision", "Recall",
	"Specificity", "FNR", "F1", "AUC", "TN", "FP", "FN", "TP",
}

// WriteEvaluationWorkbook renders the evaluation report as an Excel workbook
// and writes it to w. This backs the metrics view's download affordance.
func WriteEvaluationWorkbook(report *clinical.EvaluationReport, w io.Writer) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveEvaluationWorkbook renders the report to a file on disk.
func SaveEvaluationWorkbook(report *clinical.EvaluationReport, path string) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(report *clinical.EvaluationReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range report.Rows {
		values := []any{
			string(row.ModelID), row.ModelName, row.Accuracy, row.Precision,
			row.Recall, row.Specificity, row.FNR, row.F1, aucValue(row.AUC),
			row.Confusion.TN, row.Confusion.FP, row.Confusion.FN, row.Confusion.TP,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	// Provenance footer: source and holdout size.
	footerRow := len(report.Rows) + 3
	cell, err := excelize.CoordinatesToCellName(1, footerRow)
	if err != nil {
		return nil, err
	}
	footer := fmt.Sprintf("source: %s, n_test: %d, positive_rate_test: %.4f",
		report.Source, report.NTest, report.PositiveRateTest)
	if err := f.SetCellValue(sheetName, cell, footer); err != nil {
		return nil, err
	}

	return f, nil
}

func aucValue(auc *float64) any {
	if auc == nil {
		return "n/a"
	}
	return *auc
}
