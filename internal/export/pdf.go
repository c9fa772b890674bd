// Package export renders cutting plans to PDF reports, label sheets, Excel
// cut sheets and DXF drawings.
package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/model"
)

// pieceColor represents an RGB color for a placed piece.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	barLabelW    = 18.0 // "Bar 12" column left of each diagram
	barHeight    = 9.0
	barRowHeight = 20.0 // diagram plus the formatted line beneath it
	contentWidth = pageWidth - marginLeft - marginRight
)

// DefaultReportTitle is used when no title is configured.
const DefaultReportTitle = "Cutting Report"

// ReportOptions controls the PDF report.
type ReportOptions struct {
	Title string
	// Offcuts listed on the last page; empty hides the section.
	Offcuts []model.Offcut
}

// ExportPDF writes the cutting report for plan to path.
func ExportPDF(path string, plan model.Plan, opts ReportOptions) error {
	pdf, err := buildReport(plan, opts)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF streams the cutting report for plan to w.
func WritePDF(w io.Writer, plan model.Plan, opts ReportOptions) error {
	pdf, err := buildReport(plan, opts)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// buildReport lays out the summary block followed by one diagram row per bar.
// Rows continue onto further pages as needed.
func buildReport(plan model.Plan, opts ReportOptions) (*fpdf.Fpdf, error) {
	if len(plan.Bars) == 0 {
		return nil, fmt.Errorf("no bars to export")
	}
	if opts.Title == "" {
		opts.Title = DefaultReportTitle
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	y := renderSummary(pdf, plan, opts.Title)

	formatted := engine.FormatBars(plan)
	for i, bar := range plan.Bars {
		if y+barRowHeight > pageHeight-marginBottom-6 {
			renderFooter(pdf)
			pdf.AddPage()
			y = renderContinuationHeader(pdf, opts.Title)
		}
		renderBarRow(pdf, tr, plan.Stock, bar, i, formatted[i], y)
		y += barRowHeight
	}

	if len(opts.Offcuts) > 0 {
		if y+20 > pageHeight-marginBottom-6 {
			renderFooter(pdf)
			pdf.AddPage()
			y = renderContinuationHeader(pdf, opts.Title)
		}
		renderOffcuts(pdf, opts.Offcuts, y+4)
	}
	renderFooter(pdf)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf, nil
}

// renderSummary draws the title and headline figures; it returns the y
// position where bar rows start.
func renderSummary(pdf *fpdf.Fpdf, plan model.Plan, title string) float64 {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 10, title, "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight, pageWidth-marginRight, marginTop+headerHeight)

	y := marginTop + headerHeight + 4

	summaryItems := []struct {
		label string
		value string
	}{
		{"Bar Length", fmt.Sprintf("%s mm", formatMM(plan.Stock.BarLength))},
		{"Kerf", fmt.Sprintf("%s mm", formatMM(plan.Stock.Kerf))},
		{"Algorithm", plan.Algorithm.String()},
		{"Bars Needed", fmt.Sprintf("%d (lower bound %d)", plan.Stats.TotalBars, plan.Stats.MinBars)},
		{"Total Cuts", fmt.Sprintf("%d", plan.Stats.TotalCuts)},
		{"Material Used", fmt.Sprintf("%s / %s mm", formatMM(plan.Stats.MaterialUsed), formatMM(plan.Stats.MaterialTotal))},
		{"Total Waste", fmt.Sprintf("%s mm", formatMM(plan.Stats.TotalWaste))},
		{"Efficiency", fmt.Sprintf("%.2f%%", model.RoundPercent(plan.Stats.Efficiency))},
	}

	// Two columns of four
	pdf.SetFont("Helvetica", "", 10)
	for i, item := range summaryItems {
		col := i / 4
		row := i % 4
		x := marginLeft + 5 + float64(col)*130
		pdf.SetXY(x, y+float64(row)*6)
		pdf.CellFormat(35, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(90, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}

	return y + 4*6 + 8
}

func renderContinuationHeader(pdf *fpdf.Fpdf, title string) float64 {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 8, title+" (continued)", "", 0, "L", false, 0, "")
	return marginTop + headerHeight
}

// renderBarRow draws one bar to scale: pieces as colored blocks, kerf as dark
// slivers, and the remainder as hatched waste.
func renderBarRow(pdf *fpdf.Fpdf, tr func(string) string, stock model.StockSpec, bar model.Bar, index int, line string, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(barLabelW, barHeight, model.BarName(index+1), "", 0, "L", false, 0, "")

	x0 := marginLeft + barLabelW
	drawW := contentWidth - barLabelW
	scale := drawW / stock.BarLength

	// Bar outline
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x0, y, drawW, barHeight, "FD")

	pos := 0.0
	for i, p := range bar.Pieces {
		if i > 0 && stock.Kerf > 0 {
			pdf.SetFillColor(40, 40, 40)
			pdf.Rect(x0+pos*scale, y, stock.Kerf*scale, barHeight, "F")
			pos += stock.Kerf
		}

		col := pieceColors[i%len(pieceColors)]
		pw := p.Length * scale
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x0+pos*scale, y, pw, barHeight, "FD")

		// Piece label, only when there is room
		label := fmt.Sprintf("%s %s", p.Name, formatMM(p.Length))
		pdf.SetFont("Helvetica", "", 7)
		if pdf.GetStringWidth(label) < pw-2 {
			pdf.SetXY(x0+pos*scale, y)
			pdf.CellFormat(pw, barHeight, label, "", 0, "C", false, 0, "")
		} else if short := formatMM(p.Length); pdf.GetStringWidth(short) < pw-2 {
			pdf.SetXY(x0+pos*scale, y)
			pdf.CellFormat(pw, barHeight, short, "", 0, "C", false, 0, "")
		}
		pos += p.Length
	}

	if bar.Remaining > 0 {
		drawHatchPattern(pdf, x0+pos*scale, y, bar.Remaining*scale, barHeight)
	}

	// Formatted summary line beneath the diagram
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x0, y+barHeight+1)
	pdf.CellFormat(drawW, 4, tr(line), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark waste.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 2.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + max(0, d-h)
		y1 := y + min(h, d)
		x2 := x + min(w, d)
		y2 := y + max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

func renderOffcuts(pdf *fpdf.Fpdf, offcuts []model.Offcut, y float64) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Reusable Offcuts", "", 0, "L", false, 0, "")
	y += 8

	colWidths := []float64{25, 45, 45}
	headers := []string{"Bar", "Start", "Length"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, o := range offcuts {
		if y+6 > pageHeight-marginBottom-6 {
			break
		}
		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range []string{
			fmt.Sprintf("%d", o.BarIndex+1),
			fmt.Sprintf("%s mm", formatMM(o.Start)),
			fmt.Sprintf("%s mm", formatMM(o.Length)),
		} {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, fmt.Sprintf("Generated by barcut - page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// formatMM prints a length rounded for presentation without trailing zeros.
func formatMM(v float64) string {
	return model.FormatLength(v)
}
