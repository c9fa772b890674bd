package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/barcut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBar_GroupsEqualLengths(t *testing.T) {
	plan := optimize(t, 6000, 3, 1900, 2000, 1900)
	lines := FormatBars(plan)

	require.Len(t, lines, 1)
	assert.Equal(t, "Bar 1: 2000mm × 1, 1900mm × 2 | Waste: 194.00mm", lines[0])
}

func TestFormatBar_FractionalLengths(t *testing.T) {
	bar := model.Bar{
		Pieces:    []model.Piece{{Length: 1250.5}, {Length: 400}, {Length: 1250.5}},
		Remaining: 12.346,
	}
	assert.Equal(t, "Bar 3: 1250.5mm × 2, 400mm × 1 | Waste: 12.35mm", FormatBar(2, bar))
}

func TestFormatBars_OnePerBar(t *testing.T) {
	plan := optimize(t, 6000, 3, 3000, 3000, 3000)
	lines := FormatBars(plan)

	require.Len(t, lines, 3)
	assert.Equal(t, "Bar 3: 3000mm × 1 | Waste: 3000.00mm", lines[2])
}

func TestAggregate(t *testing.T) {
	stock := model.StockSpec{BarLength: 1000, Kerf: 2}
	bars := []model.Bar{
		{Pieces: []model.Piece{{Length: 500}, {Length: 300}}, Used: 802, Remaining: 198},
		{Pieces: []model.Piece{{Length: 900}}, Used: 900, Remaining: 100},
	}

	stats := Aggregate(stock, bars)
	assert.Equal(t, 2, stats.TotalBars)
	assert.Equal(t, 3, stats.TotalCuts)
	assert.InDelta(t, 2000.0, stats.MaterialTotal, 1e-9)
	assert.InDelta(t, 1702.0, stats.MaterialUsed, 1e-9)
	assert.InDelta(t, 298.0, stats.TotalWaste, 1e-9)
	assert.InDelta(t, 85.1, stats.Efficiency, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(model.StockSpec{BarLength: 1000}, nil)
	assert.Equal(t, model.Stats{}, stats)
}

func TestLowerBound(t *testing.T) {
	tests := []struct {
		name   string
		stock  model.StockSpec
		pieces []float64
		want   int
	}{
		{"single exact", model.StockSpec{BarLength: 6000}, []float64{6000}, 1},
		{"kerf exact fill", model.StockSpec{BarLength: 6000, Kerf: 3}, []float64{2998.5, 2998.5}, 1},
		{"kerf overflow", model.StockSpec{BarLength: 6000, Kerf: 3}, []float64{2000, 2000, 2000}, 2},
		{"no pieces", model.StockSpec{BarLength: 6000}, nil, 0},
		{"total past float range", model.StockSpec{BarLength: 1e308}, []float64{1e308, 1e308}, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LowerBound(tt.stock, makeTestPieces(tt.pieces...)))
		})
	}
}
