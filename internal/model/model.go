package model

import (
	"fmt"
	"strings"
)

// Algorithm represents the packing heuristic to use.
type Algorithm string

const (
	AlgorithmFirstFit Algorithm = "ffd" // First-Fit-Decreasing (default)
	AlgorithmBestFit  Algorithm = "bfd" // Best-Fit-Decreasing (tightest open bar)
	AlgorithmGenetic  Algorithm = "ga"  // Genetic search over piece orderings, seeded with FFD
)

// Algorithms lists every supported heuristic in presentation order.
var Algorithms = []Algorithm{AlgorithmFirstFit, AlgorithmBestFit, AlgorithmGenetic}

// ParseAlgorithm maps a user supplied name onto an Algorithm. An empty string
// selects the default First-Fit-Decreasing heuristic.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ffd", "first-fit", "firstfit":
		return AlgorithmFirstFit, nil
	case "bfd", "best-fit", "bestfit":
		return AlgorithmBestFit, nil
	case "ga", "genetic":
		return AlgorithmGenetic, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q", s)
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmBestFit:
		return "Best-Fit-Decreasing"
	case AlgorithmGenetic:
		return "Genetic"
	default:
		return "First-Fit-Decreasing"
	}
}

// CutSettings holds optimizer configuration.
type CutSettings struct {
	Algorithm Algorithm `json:"algorithm"`  // Packing heuristic: "ffd", "bfd" or "ga"
	KerfWidth float64   `json:"kerf_width"` // Blade width in mm used when a job sets none
	MaxPieces int       `json:"max_pieces"` // Upper bound on expanded pieces per request, 0 = unlimited
}

// DefaultMaxPieces bounds the CPU spent on a single request.
const DefaultMaxPieces = 10000

func DefaultSettings() CutSettings {
	return CutSettings{
		Algorithm: AlgorithmFirstFit,
		KerfWidth: 3.0,
		MaxPieces: DefaultMaxPieces,
	}
}

// DefaultPieceName returns the positional label used when a piece has no name.
func DefaultPieceName(position int) string {
	return fmt.Sprintf("Segment %d", position)
}

// PieceRequest is one demanded cut line: a length needed Quantity times.
type PieceRequest struct {
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Length   float64 `json:"length" yaml:"length"`     // mm
	Quantity int     `json:"quantity" yaml:"quantity"` // units
}

// NewPieceRequest creates a request line.
func NewPieceRequest(name string, length float64, qty int) PieceRequest {
	return PieceRequest{
		Name:     name,
		Length:   length,
		Quantity: qty,
	}
}

// Piece is a single unit to be cut from a bar.
type Piece struct {
	Index  int     `json:"index"` // Position in the flattened input
	Name   string  `json:"name"`
	Length float64 `json:"length"` // mm
}

// StockSpec describes the raw bar every piece is cut from.
type StockSpec struct {
	BarLength float64 `json:"bar_length" yaml:"bar_length"` // mm
	Kerf      float64 `json:"kerf" yaml:"kerf"`             // mm lost per cut
}

// Bar is one stock unit consumed by a plan.
type Bar struct {
	Pieces    []Piece `json:"pieces"`
	Used      float64 `json:"used"`      // piece lengths plus kerf between pieces
	Remaining float64 `json:"remaining"` // bar length minus used
}

// PieceLength returns the summed length of the pieces on the bar, without kerf.
func (b Bar) PieceLength() float64 {
	var total float64
	for _, p := range b.Pieces {
		total += p.Length
	}
	return total
}

// Cuts returns the number of pieces cut from the bar.
func (b Bar) Cuts() int {
	return len(b.Pieces)
}

// Efficiency returns the usage percentage of a single bar of the given length.
func (b Bar) Efficiency(barLength float64) float64 {
	if barLength <= 0 {
		return 0
	}
	return (b.Used / barLength) * 100.0
}

// Stats aggregates a plan. Efficiency is a percentage and is never rounded here.
type Stats struct {
	TotalBars     int     `json:"total_bars"`
	MaterialTotal float64 `json:"material_total"`
	MaterialUsed  float64 `json:"material_used"`
	TotalWaste    float64 `json:"total_waste"`
	TotalCuts     int     `json:"total_cuts"`
	Efficiency    float64 `json:"efficiency"`
	MinBars       int     `json:"min_bars"` // continuous lower bound on bars
}

// Plan holds the full solution for a single stock specification.
type Plan struct {
	Stock     StockSpec `json:"stock"`
	Algorithm Algorithm `json:"algorithm"`
	Bars      []Bar     `json:"bars"`
	Stats     Stats     `json:"stats"`
}

// Pieces returns every placed piece in bar order.
func (p Plan) Pieces() []Piece {
	var out []Piece
	for _, b := range p.Bars {
		out = append(out, b.Pieces...)
	}
	return out
}

// Job ties a stock specification and its cut list together for save/load.
type Job struct {
	Name      string         `json:"name" yaml:"name"`
	Stock     StockSpec      `json:"stock" yaml:"stock"`
	Algorithm Algorithm      `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Requests  []PieceRequest `json:"pieces" yaml:"pieces"`
}

func NewJob() Job {
	return Job{
		Name:      "Untitled",
		Stock:     StockSpec{BarLength: 6000, Kerf: 3},
		Algorithm: AlgorithmFirstFit,
		Requests:  []PieceRequest{},
	}
}
