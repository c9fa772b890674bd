package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/barcut/internal/model"
)

// lengthTolerance absorbs floating point noise in mm comparisons.
const lengthTolerance = 1e-6

// Normalize validates a raw request and expands it into pieces paired with
// their names. Names are positional; a missing or blank name becomes
// "Segment {i+1}" and names past the end of pieces are ignored. Any invalid
// entry fails the whole request.
func Normalize(materialLength, kerf float64, pieces []float64, names []string) (model.StockSpec, []model.Piece, error) {
	stock := model.StockSpec{BarLength: materialLength, Kerf: kerf}
	if err := validateStock(stock); err != nil {
		return model.StockSpec{}, nil, err
	}
	if len(pieces) == 0 {
		return model.StockSpec{}, nil, &PlanError{Kind: ErrEmptyRequest, Index: -1, Detail: "no pieces to cut"}
	}

	out := make([]model.Piece, 0, len(pieces))
	for i, length := range pieces {
		name := ""
		if i < len(names) {
			name = strings.TrimSpace(names[i])
		}
		if name == "" {
			name = model.DefaultPieceName(i + 1)
		}
		p := model.Piece{Index: i, Name: name, Length: length}
		if err := validatePiece(stock, p); err != nil {
			return model.StockSpec{}, nil, err
		}
		out = append(out, p)
	}
	if err := checkTotals(stock, out); err != nil {
		return model.StockSpec{}, nil, err
	}
	return stock, out, nil
}

// ExpandRequests flattens quantity-bearing requests into the positional
// pieces/names pair accepted by Normalize. A request without a name labels
// all of its units "Segment {request position}".
func ExpandRequests(requests []model.PieceRequest) ([]float64, []string, error) {
	var pieces []float64
	var names []string
	for i, r := range requests {
		if r.Quantity <= 0 {
			return nil, nil, pieceError(ErrInvalidPiece, i, float64(r.Quantity),
				"request %d has quantity %d; quantities must be positive", i+1, r.Quantity)
		}
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = model.DefaultPieceName(i + 1)
		}
		for q := 0; q < r.Quantity; q++ {
			pieces = append(pieces, r.Length)
			names = append(names, name)
		}
	}
	return pieces, names, nil
}

// countRequested sums positive quantities without allocating. Once the sum
// passes limit it stops and returns limit+1, so huge quantities cannot wrap.
func countRequested(requests []model.PieceRequest, limit int) int {
	total := 0
	for _, r := range requests {
		if r.Quantity <= 0 {
			continue
		}
		if limit > 0 && r.Quantity > limit-total {
			return limit + 1
		}
		if r.Quantity > math.MaxInt-total {
			return math.MaxInt
		}
		total += r.Quantity
	}
	return total
}

func validateStock(stock model.StockSpec) error {
	if !isFinite(stock.BarLength) || stock.BarLength <= 0 {
		return stockError("material length must be a number greater than 0 (got %s)", formatLength(stock.BarLength))
	}
	if !isFinite(stock.Kerf) || stock.Kerf < 0 {
		return stockError("kerf must be a number that is not negative (got %s)", formatLength(stock.Kerf))
	}
	return nil
}

func validatePiece(stock model.StockSpec, p model.Piece) error {
	if !isFinite(p.Length) || p.Length <= 0 {
		return pieceError(ErrInvalidPiece, p.Index, p.Length,
			"piece %d has length %s; lengths must be positive numbers", p.Index+1, formatLength(p.Length))
	}
	if p.Length > stock.BarLength {
		return pieceError(ErrPieceTooLong, p.Index, p.Length,
			"piece %d (%s) is %smm but the bar is only %smm",
			p.Index+1, p.Name, formatLength(p.Length), formatLength(stock.BarLength))
	}
	return nil
}

// checkTotals rejects stock and pieces whose plan totals would overflow
// float64, such as lengths near math.MaxFloat64.
func checkTotals(stock model.StockSpec, pieces []model.Piece) error {
	material := float64(len(pieces)) * stock.BarLength
	if !isFinite(material) || !isFinite(stock.BarLength+stock.Kerf) {
		return stockError("material length %s is too large for %d pieces", formatLength(stock.BarLength), len(pieces))
	}
	var total float64
	for _, p := range pieces {
		total += p.Length + stock.Kerf
		if !isFinite(total) {
			return pieceError(ErrInvalidPiece, p.Index, p.Length,
				"piece %d brings the total cut length past the largest representable length", p.Index+1)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatLength prints a length with the shortest exact representation.
func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
