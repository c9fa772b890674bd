package model

import "math"

// PurchaseEstimate holds the results of a bar purchasing calculation.
type PurchaseEstimate struct {
	TotalPieceLength float64 `json:"total_piece_length"` // Sum of all piece lengths (mm)
	TotalKerfLength  float64 `json:"total_kerf_length"`  // Material lost to one cut per piece (mm)
	TotalMeters      float64 `json:"total_meters"`       // Piece length in metres
	BarLength        float64 `json:"bar_length"`         // Length of one bar (mm)
	BarsNeededExact  float64 `json:"bars_needed_exact"`  // Exact fractional number of bars
	BarsNeededMin    int     `json:"bars_needed_min"`    // Minimum bars (ceiling of exact)
	BarsWithWaste    int     `json:"bars_with_waste"`    // Recommended bars including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 10 for 10%)
	EstimatedCost    float64 `json:"estimated_cost"`     // Total cost if pricing available
	PricePerBar      float64 `json:"price_per_bar"`      // Price used for estimation
	KerfWidth        float64 `json:"kerf_width"`         // Kerf width used in calculation
}

// mmPerMetre converts millimetres to metres.
const mmPerMetre = 1000.0

// CalculatePurchaseEstimate computes how many bars to buy for a given cut list.
// Every piece is charged one kerf and a bar offers BarLength plus one kerf,
// since the last piece on a bar needs no separating cut. An additional waste
// percentage covers packing losses.
func CalculatePurchaseEstimate(requests []PieceRequest, stock StockSpec, wastePercent, pricePerBar float64) PurchaseEstimate {
	var pieceLength, kerfLength float64
	for _, r := range requests {
		if r.Quantity <= 0 {
			continue
		}
		pieceLength += r.Length * float64(r.Quantity)
		kerfLength += stock.Kerf * float64(r.Quantity)
	}

	if stock.BarLength <= 0 {
		return PurchaseEstimate{
			TotalPieceLength: pieceLength,
			TotalKerfLength:  kerfLength,
			TotalMeters:      pieceLength / mmPerMetre,
			WastePercent:     wastePercent,
		}
	}

	exactBars := (pieceLength + kerfLength) / (stock.BarLength + stock.Kerf)
	minBars := int(math.Ceil(exactBars))

	// Apply waste factor
	wasteFactor := 1.0 + (wastePercent / 100.0)
	barsWithWaste := int(math.Ceil(exactBars * wasteFactor))
	if barsWithWaste < minBars {
		barsWithWaste = minBars
	}

	return PurchaseEstimate{
		TotalPieceLength: pieceLength,
		TotalKerfLength:  kerfLength,
		TotalMeters:      pieceLength / mmPerMetre,
		BarLength:        stock.BarLength,
		BarsNeededExact:  exactBars,
		BarsNeededMin:    minBars,
		BarsWithWaste:    barsWithWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(barsWithWaste) * pricePerBar,
		PricePerBar:      pricePerBar,
		KerfWidth:        stock.Kerf,
	}
}
