package model

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// OptimizeRequest is the JSON body accepted by /optimize and /download_pdf.
// Pieces are already quantity-expanded by the caller; Names is positional.
type OptimizeRequest struct {
	MaterialLength float64   `json:"material_length"`
	Kerf           float64   `json:"kerf"`
	Pieces         []float64 `json:"pieces"`
	Names          []string  `json:"names,omitempty"`
	Algorithm      string    `json:"algorithm,omitempty"`
}

// BarResponse is the presentation form of a Bar.
type BarResponse struct {
	Name      string    `json:"name"`
	Pieces    []float64 `json:"pieces"`
	Names     []string  `json:"names"`
	Used      float64   `json:"used"`
	Remaining float64   `json:"remaining"`
}

// OptimizeResponse is the JSON body returned by /optimize.
type OptimizeResponse struct {
	Bars           []BarResponse `json:"bars"`
	BarsNeeded     int           `json:"bars_needed"`
	TotalBars      int           `json:"total_bars"`
	MinBars        int           `json:"min_bars"`
	MaterialLength float64       `json:"material_length"`
	Kerf           float64       `json:"kerf"`
	Algorithm      Algorithm     `json:"algorithm"`
	MaterialTotal  float64       `json:"material_total"`
	MaterialUsed   float64       `json:"material_used"`
	TotalWaste     float64       `json:"total_waste"`
	TotalCuts      int           `json:"total_cuts"`
	Efficiency     float64       `json:"efficiency"`
	FormattedBars  []string      `json:"formatted_bars"`
}

// ErrorResponse is the only body written when a request fails.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Presentation precision for JSON output.
const (
	lengthPlaces     = 3 // mm to the micrometre
	efficiencyPlaces = 2
)

// RoundLength rounds a millimetre quantity for presentation.
func RoundLength(v float64) float64 {
	return decimal.NewFromFloat(v).Round(lengthPlaces).InexactFloat64()
}

// RoundPercent rounds a percentage for presentation.
func RoundPercent(v float64) float64 {
	return decimal.NewFromFloat(v).Round(efficiencyPlaces).InexactFloat64()
}

// FormatLength renders a presentation-rounded length without trailing zeros.
func FormatLength(v float64) string {
	return strconv.FormatFloat(RoundLength(v), 'f', -1, 64)
}

// BarName returns the display name of the n-th bar (1-based).
func BarName(n int) string {
	return fmt.Sprintf("Bar %d", n)
}

// NewOptimizeResponse converts a plan into its wire form. Rounding happens
// here and only here.
func NewOptimizeResponse(plan Plan, formatted []string) OptimizeResponse {
	bars := make([]BarResponse, 0, len(plan.Bars))
	for i, b := range plan.Bars {
		br := BarResponse{
			Name:      BarName(i + 1),
			Pieces:    make([]float64, 0, len(b.Pieces)),
			Names:     make([]string, 0, len(b.Pieces)),
			Used:      RoundLength(b.Used),
			Remaining: RoundLength(b.Remaining),
		}
		for _, p := range b.Pieces {
			br.Pieces = append(br.Pieces, p.Length)
			br.Names = append(br.Names, p.Name)
		}
		bars = append(bars, br)
	}
	if formatted == nil {
		formatted = []string{}
	}

	return OptimizeResponse{
		Bars:           bars,
		BarsNeeded:     plan.Stats.TotalBars,
		TotalBars:      plan.Stats.TotalBars,
		MinBars:        plan.Stats.MinBars,
		MaterialLength: plan.Stock.BarLength,
		Kerf:           plan.Stock.Kerf,
		Algorithm:      plan.Algorithm,
		MaterialTotal:  RoundLength(plan.Stats.MaterialTotal),
		MaterialUsed:   RoundLength(plan.Stats.MaterialUsed),
		TotalWaste:     RoundLength(plan.Stats.TotalWaste),
		TotalCuts:      plan.Stats.TotalCuts,
		Efficiency:     RoundPercent(plan.Stats.Efficiency),
		FormattedBars:  formatted,
	}
}
