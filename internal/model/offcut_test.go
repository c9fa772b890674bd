package model

import (
	"math"
	"testing"
)

func offcutTestPlan() Plan {
	return Plan{
		Stock: StockSpec{BarLength: 6000, Kerf: 3},
		Bars: []Bar{
			{
				Pieces:    []Piece{{Length: 2000}, {Length: 1900}, {Length: 1900}},
				Used:      5806,
				Remaining: 194,
			},
			{
				Pieces:    []Piece{{Length: 3000}},
				Used:      3000,
				Remaining: 3000,
			},
			{
				Pieces:    []Piece{{Length: 5000}},
				Used:      5000,
				Remaining: 1000,
			},
		},
	}
}

func TestDetectOffcutsSkipsShortRemnants(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 0, 0)
	if len(offcuts) != 2 {
		t.Fatalf("expected 2 offcuts, got %d", len(offcuts))
	}
	for _, o := range offcuts {
		if o.BarIndex == 0 {
			t.Error("194mm remnant should not be an offcut")
		}
	}
}

func TestDetectOffcutsChargesSeparatingCut(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 0, 0)
	if len(offcuts) == 0 {
		t.Fatal("expected offcuts")
	}
	first := offcuts[0]
	if first.BarIndex != 1 {
		t.Fatalf("expected longest offcut from bar 1, got %d", first.BarIndex)
	}
	if first.Start != 3003 {
		t.Errorf("expected offcut start 3003, got %.1f", first.Start)
	}
	if first.Length != 2997 {
		t.Errorf("expected offcut length 2997, got %.1f", first.Length)
	}
}

func TestDetectOffcutsSortedLongestFirst(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 0, 0)
	for i := 1; i < len(offcuts); i++ {
		if offcuts[i].Length > offcuts[i-1].Length {
			t.Errorf("offcuts not sorted: %.1f before %.1f", offcuts[i-1].Length, offcuts[i].Length)
		}
	}
}

func TestDetectOffcutsCustomMinimum(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 100, 0)
	if len(offcuts) != 3 {
		t.Errorf("expected 3 offcuts with a 100mm minimum, got %d", len(offcuts))
	}
}

func TestDetectOffcutsProportionalPrice(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 0, 60)
	for _, o := range offcuts {
		want := o.Length / 6000 * 60
		if math.Abs(o.PricePerUnit-want) > 1e-9 {
			t.Errorf("bar %d: expected price %.4f, got %.4f", o.BarIndex, want, o.PricePerUnit)
		}
	}
}

func TestTotalOffcutLength(t *testing.T) {
	offcuts := []Offcut{{Length: 500}, {Length: 750}}
	if got := TotalOffcutLength(offcuts); got != 1250 {
		t.Errorf("expected 1250, got %.1f", got)
	}
}

func TestOffcutToPreset(t *testing.T) {
	o := Offcut{BarIndex: 1, Length: 2997, PricePerUnit: 12.5}
	preset := o.ToPreset(3, "Aluminium")
	if preset.Name != "Offcut Bar 2" {
		t.Errorf("unexpected preset name %q", preset.Name)
	}
	if preset.BarLength != 2997 || preset.Kerf != 3 {
		t.Errorf("unexpected preset dimensions %.1f/%.1f", preset.BarLength, preset.Kerf)
	}
	if preset.PricePerBar != 12.5 {
		t.Errorf("expected price 12.5, got %.2f", preset.PricePerBar)
	}
}
