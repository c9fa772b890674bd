package export

import (
	"fmt"
	"io"

	"github.com/piwi3910/barcut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the Excel cut sheet.
const (
	SheetCutList = "Cut List"
	SheetBars    = "Bars"
	SheetSummary = "Summary"
)

// ExportXLSX writes an Excel cut sheet for plan to path.
func ExportXLSX(path string, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteXLSX streams an Excel cut sheet for plan to w.
func WriteXLSX(w io.Writer, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// buildWorkbook creates three sheets: every cut in saw order, one row per bar,
// and the plan totals.
func buildWorkbook(plan model.Plan) (*excelize.File, error) {
	if len(plan.Bars) == 0 {
		return nil, fmt.Errorf("no bars to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetCutList); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetBars, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeCutList(f, plan, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write cut list: %w", err)
	}
	if err := writeBars(f, plan, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write bars: %w", err)
	}
	if err := writeSummary(f, plan, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	return f, nil
}

func writeCutList(f *excelize.File, plan model.Plan, header int) error {
	rows := [][]interface{}{{"Bar", "Position", "Name", "Length (mm)", "Offset (mm)"}}
	for _, l := range CollectLabelInfos(plan) {
		rows = append(rows, []interface{}{
			l.BarIndex, l.Position, l.PieceName, model.RoundLength(l.Length), model.RoundLength(l.Offset),
		})
	}
	if err := writeRows(f, SheetCutList, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetCutList, "A1", "E1", header); err != nil {
		return err
	}
	return f.SetColWidth(SheetCutList, "C", "C", 24)
}

func writeBars(f *excelize.File, plan model.Plan, header int) error {
	rows := [][]interface{}{{"Bar", "Pieces", "Used (mm)", "Remaining (mm)", "Efficiency (%)"}}
	for i, b := range plan.Bars {
		rows = append(rows, []interface{}{
			model.BarName(i + 1),
			b.Cuts(),
			model.RoundLength(b.Used),
			model.RoundLength(b.Remaining),
			model.RoundPercent(b.Efficiency(plan.Stock.BarLength)),
		})
	}
	if err := writeRows(f, SheetBars, rows); err != nil {
		return err
	}
	return f.SetCellStyle(SheetBars, "A1", "E1", header)
}

func writeSummary(f *excelize.File, plan model.Plan, header int) error {
	s := plan.Stats
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Bar length (mm)", plan.Stock.BarLength},
		{"Kerf (mm)", plan.Stock.Kerf},
		{"Algorithm", plan.Algorithm.String()},
		{"Bars needed", s.TotalBars},
		{"Lower bound", s.MinBars},
		{"Total cuts", s.TotalCuts},
		{"Material total (mm)", model.RoundLength(s.MaterialTotal)},
		{"Material used (mm)", model.RoundLength(s.MaterialUsed)},
		{"Total waste (mm)", model.RoundLength(s.TotalWaste)},
		{"Efficiency (%)", model.RoundPercent(s.Efficiency)},
	}
	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 22)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
