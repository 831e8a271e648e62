package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const comparisonSheet = "Comparison"

// WriteXLSX exports the comparison table to a spreadsheet. The run id and
// fold settings land on a second row block so exports are traceable.
func WriteXLSX(path, runID string, folds int, seed int64, rows []ModelComparison) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", comparisonSheet); err != nil {
		return err
	}

	headers := []string{"Model", "Formula", "AIC", "Mean CV RMSE"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(comparisonSheet, cell, h); err != nil {
			return err
		}
	}
	for ri, r := range rows {
		values := []any{r.Model, r.Formula, r.AIC, r.MeanRMSE}
		for ci, v := range values {
			cell, _ := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err := f.SetCellValue(comparisonSheet, cell, v); err != nil {
				return err
			}
		}
	}

	metaRow := len(rows) + 3
	meta := [][2]any{
		{"run_id", runID},
		{"folds", folds},
		{"seed", seed},
	}
	for i, kv := range meta {
		keyCell, _ := excelize.CoordinatesToCellName(1, metaRow+i)
		valCell, _ := excelize.CoordinatesToCellName(2, metaRow+i)
		if err := f.SetCellValue(comparisonSheet, keyCell, kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(comparisonSheet, valCell, kv[1]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: writing %s: %w", path, err)
	}
	return nil
}
