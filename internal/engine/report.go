package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/barcut/internal/model"
)

// Aggregate sums the per-bar figures of a finalized plan. Efficiency is left
// unrounded.
func Aggregate(stock model.StockSpec, bars []model.Bar) model.Stats {
	stats := model.Stats{
		TotalBars:     len(bars),
		MaterialTotal: float64(len(bars)) * stock.BarLength,
	}
	for _, b := range bars {
		stats.MaterialUsed += b.Used
		stats.TotalWaste += b.Remaining
		stats.TotalCuts += b.Cuts()
	}
	if stats.MaterialTotal > 0 {
		stats.Efficiency = stats.MaterialUsed / stats.MaterialTotal * 100.0
	}
	return stats
}

// LowerBound returns the continuous bound on the number of bars. Every piece
// costs its length plus one kerf out of a bar of BarLength+kerf, since the
// last piece on a bar needs no trailing cut.
func LowerBound(stock model.StockSpec, pieces []model.Piece) int {
	if len(pieces) == 0 || stock.BarLength <= 0 {
		return 0
	}
	var total float64
	for _, p := range pieces {
		total += p.Length + stock.Kerf
	}
	exact := math.Ceil(total/(stock.BarLength+stock.Kerf) - lengthTolerance)
	if math.IsNaN(exact) || exact >= math.MaxInt {
		return math.MaxInt
	}
	return int(exact)
}

// FormatBar renders one bar as "Bar 1: 2000mm × 1, 1900mm × 2 | Waste: 194.00mm".
// Equal lengths are grouped in the order they were first placed.
func FormatBar(index int, bar model.Bar) string {
	type group struct {
		length float64
		count  int
	}
	var groups []group
	for _, p := range bar.Pieces {
		found := false
		for i := range groups {
			if math.Abs(groups[i].length-p.Length) <= lengthTolerance {
				groups[i].count++
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, group{length: p.Length, count: 1})
		}
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%smm × %d", formatLength(g.length), g.count))
	}
	return fmt.Sprintf("%s: %s | Waste: %.2fmm", model.BarName(index+1), strings.Join(parts, ", "), bar.Remaining)
}

// FormatBars renders every bar of the plan in order.
func FormatBars(plan model.Plan) []string {
	out := make([]string, 0, len(plan.Bars))
	for i, b := range plan.Bars {
		out = append(out, FormatBar(i, b))
	}
	return out
}
