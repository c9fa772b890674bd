package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/piwi3910/barcut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DefaultsAndTrimsNames(t *testing.T) {
	stock, pieces, err := Normalize(6000, 3, []float64{100, 200, 300}, []string{"  Rail ", "", "Post", "ignored"})
	require.NoError(t, err)

	assert.Equal(t, model.StockSpec{BarLength: 6000, Kerf: 3}, stock)
	require.Len(t, pieces, 3)
	assert.Equal(t, "Rail", pieces[0].Name)
	assert.Equal(t, "Segment 2", pieces[1].Name)
	assert.Equal(t, "Post", pieces[2].Name)
	for i, p := range pieces {
		assert.Equal(t, i, p.Index)
	}
}

func TestNormalize_NoNames(t *testing.T) {
	_, pieces, err := Normalize(6000, 0, []float64{100, 200}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Segment 1", pieces[0].Name)
	assert.Equal(t, "Segment 2", pieces[1].Name)
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		length float64
		kerf   float64
		pieces []float64
		want   error
		index  int
	}{
		{"zero bar", 0, 3, []float64{100}, ErrInvalidStock, -1},
		{"negative bar", -6000, 3, []float64{100}, ErrInvalidStock, -1},
		{"NaN bar", math.NaN(), 3, []float64{100}, ErrInvalidStock, -1},
		{"infinite bar", math.Inf(1), 3, []float64{100}, ErrInvalidStock, -1},
		{"negative kerf", 6000, -1, []float64{100}, ErrInvalidStock, -1},
		{"empty", 6000, 3, nil, ErrEmptyRequest, -1},
		{"zero piece", 6000, 3, []float64{100, 0}, ErrInvalidPiece, 1},
		{"negative piece", 6000, 3, []float64{-5}, ErrInvalidPiece, 0},
		{"NaN piece", 6000, 3, []float64{100, 200, math.NaN()}, ErrInvalidPiece, 2},
		{"too long", 6000, 3, []float64{100, 6000.5}, ErrPieceTooLong, 1},
		{"first error wins", 6000, 3, []float64{7000, -1}, ErrPieceTooLong, 0},
		{"just over bar", 6000, 0, []float64{6000.0000005}, ErrPieceTooLong, 0},
		{"material total overflows", 1.5e308, 0, []float64{1e308, 1e308}, ErrInvalidStock, -1},
		{"cut total overflows", 0.8e308, 0.8e308, []float64{0.8e308, 0.8e308}, ErrInvalidPiece, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock, pieces, err := Normalize(tt.length, tt.kerf, tt.pieces, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, pieces)
			assert.Equal(t, model.StockSpec{}, stock)

			var pe *PlanError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.index, pe.Index)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestNormalize_TooLongMessageNamesPiece(t *testing.T) {
	_, _, err := Normalize(6000, 3, []float64{7000}, []string{"Beam"})
	require.Error(t, err)
	assert.Equal(t, "piece too long: piece 1 (Beam) is 7000mm but the bar is only 6000mm", err.Error())
}

func TestNormalize_ExactBarLengthAccepted(t *testing.T) {
	_, pieces, err := Normalize(6000, 3, []float64{6000}, nil)
	require.NoError(t, err)
	assert.Len(t, pieces, 1)
}

func TestExpandRequests(t *testing.T) {
	lengths, names, err := ExpandRequests([]model.PieceRequest{
		{Name: "Rail", Length: 1200, Quantity: 2},
		{Length: 800, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1200, 1200, 800}, lengths)
	assert.Equal(t, []string{"Rail", "Rail", "Segment 2"}, names)

	_, _, err = ExpandRequests([]model.PieceRequest{{Length: 100, Quantity: -1}})
	assert.ErrorIs(t, err, ErrInvalidPiece)
}

func TestNormalize_HugeLengthsInsidePrecision(t *testing.T) {
	stock, pieces, err := Normalize(1e300, 0, []float64{1e299, 1e299}, nil)
	require.NoError(t, err)

	plan := New(model.DefaultSettings()).pack(stock, pieces, model.AlgorithmFirstFit)
	assert.Len(t, plan.Bars, 1)
	assert.False(t, math.IsInf(plan.Stats.MaterialTotal, 0))
	assert.False(t, math.IsNaN(plan.Stats.Efficiency))
	assert.Equal(t, 1, plan.Stats.MinBars)
}

func TestCountRequested_StopsAtLimit(t *testing.T) {
	requests := []model.PieceRequest{
		{Length: 10, Quantity: math.MaxInt},
		{Length: 10, Quantity: 2},
	}
	assert.Equal(t, 101, countRequested(requests, 100))
	assert.Equal(t, math.MaxInt, countRequested(requests, 0))
	assert.Equal(t, 5, countRequested([]model.PieceRequest{{Quantity: 3}, {Quantity: -1}, {Quantity: 2}}, 100))
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(nil))
	assert.False(t, IsValidationError(errors.New("disk full")))
	assert.True(t, IsValidationError(&PlanError{Kind: ErrEmptyRequest}))
}
