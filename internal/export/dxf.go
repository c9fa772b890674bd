package export

import (
	"fmt"

	"github.com/piwi3910/barcut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerBars   = "BARS"
	LayerPieces = "PIECES"
	LayerText   = "TEXT"
)

const (
	dxfBarHeight = 50.0 // drawing units (mm) per bar strip
	dxfBarGap    = 40.0 // vertical space between strips
	dxfTextSize  = 12.0
)

// ExportDXF writes the plan as a to-scale drawing: each bar is a rectangle
// of its full length, stacked top to bottom, with every piece outlined at its
// cut position.
func ExportDXF(path string, plan model.Plan) error {
	if len(plan.Bars) == 0 {
		return fmt.Errorf("no bars to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerBars, color.White, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if _, err := d.AddLayer(LayerPieces, color.Green, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if _, err := d.AddLayer(LayerText, color.Yellow, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}

	for i, bar := range plan.Bars {
		y := -float64(i) * (dxfBarHeight + dxfBarGap)

		if err := d.ChangeLayer(LayerBars); err != nil {
			return err
		}
		if err := rectangle(d, 0, y, plan.Stock.BarLength, dxfBarHeight); err != nil {
			return err
		}

		if err := d.ChangeLayer(LayerText); err != nil {
			return err
		}
		if _, err := d.Text(FormatBarTitle(i, bar), 0, y+dxfBarHeight+4, 0, dxfTextSize); err != nil {
			return err
		}

		pos := 0.0
		for j, p := range bar.Pieces {
			if j > 0 {
				pos += plan.Stock.Kerf
			}
			if err := d.ChangeLayer(LayerPieces); err != nil {
				return err
			}
			if err := rectangle(d, pos, y, p.Length, dxfBarHeight); err != nil {
				return err
			}
			if err := d.ChangeLayer(LayerText); err != nil {
				return err
			}
			if _, err := d.Text(fmt.Sprintf("%s %s", p.Name, formatMM(p.Length)), pos+4, y+dxfBarHeight/2, 0, dxfTextSize); err != nil {
				return err
			}
			pos += p.Length
		}
	}

	return d.SaveAs(path)
}

// FormatBarTitle returns the caption drawn above a bar strip.
func FormatBarTitle(index int, bar model.Bar) string {
	return fmt.Sprintf("%s - waste %s mm", model.BarName(index+1), formatMM(bar.Remaining))
}

// rectangle draws an axis-aligned rectangle as four LINE entities.
func rectangle(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
