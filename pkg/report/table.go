// Package report presents the model comparison: a terminal table and an
// optional spreadsheet export, tagged with a run id.
package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
)

// ModelComparison is one row of the model selection table.
type ModelComparison struct {
	Model    string
	Formula  string
	AIC      float64
	MeanRMSE float64
}

// NewRunID returns an identifier tying log lines and exports to one run.
func NewRunID() string { return uuid.NewString() }

// RenderTable formats the comparison rows as a bordered terminal table.
func RenderTable(rows []ModelComparison) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODEL", "FORMULA", "AIC", "MEAN CV RMSE")
	for _, r := range rows {
		t.Row(r.Model, r.Formula, fmt.Sprintf("%.3f", r.AIC), fmt.Sprintf("%.4f", r.MeanRMSE))
	}
	return t.Render()
}
