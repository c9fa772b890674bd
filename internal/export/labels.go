package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/barcut/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	PieceName string  `json:"name"`
	Length    float64 `json:"length_mm"`
	BarIndex  int     `json:"bar"`       // 1-based
	Position  int     `json:"position"`  // 1-based order on the bar
	Offset    float64 `json:"offset_mm"` // distance from the bar start to the piece
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels writes a PDF of QR-coded labels, one per cut piece, to path.
func ExportLabels(path string, plan model.Plan) error {
	pdf, err := buildLabels(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteLabels streams the label sheet for plan to w.
func WriteLabels(w io.Writer, plan model.Plan) error {
	pdf, err := buildLabels(plan)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildLabels(plan model.Plan) (*fpdf.Fpdf, error) {
	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no pieces placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return nil, fmt.Errorf("failed to render label for %q: %w", label.PieceName, err)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build labels: %w", err)
	}
	return pdf, nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Bar and position identify a piece uniquely within a plan.
	imgName := fmt.Sprintf("qr_%d_%d", info.BarIndex, info.Position)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := info.PieceName
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%s mm", formatMM(info.Length)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	where := fmt.Sprintf("%s, cut %d @ %s mm", model.BarName(info.BarIndex), info.Position, formatMM(info.Offset))
	pdf.CellFormat(textW, 3, where, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists one label per placed piece in bar order. Offsets
// include the kerf of every cut before the piece.
func CollectLabelInfos(plan model.Plan) []LabelInfo {
	var labels []LabelInfo
	for barIdx, bar := range plan.Bars {
		offset := 0.0
		for i, p := range bar.Pieces {
			if i > 0 {
				offset += plan.Stock.Kerf
			}
			labels = append(labels, LabelInfo{
				PieceName: p.Name,
				Length:    p.Length,
				BarIndex:  barIdx + 1,
				Position:  i + 1,
				Offset:    offset,
			})
			offset += p.Length
		}
	}
	return labels
}
