package model

import (
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", AlgorithmFirstFit, false},
		{"ffd", AlgorithmFirstFit, false},
		{" First-Fit ", AlgorithmFirstFit, false},
		{"BFD", AlgorithmBestFit, false},
		{"best-fit", AlgorithmBestFit, false},
		{"genetic", AlgorithmGenetic, false},
		{"GA", AlgorithmGenetic, false},
		{"guillotine", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBarHelpers(t *testing.T) {
	b := Bar{
		Pieces:    []Piece{{Length: 2000}, {Length: 1900}, {Length: 1900}},
		Used:      5806,
		Remaining: 194,
	}
	if b.PieceLength() != 5800 {
		t.Errorf("expected piece length 5800, got %.1f", b.PieceLength())
	}
	if b.Cuts() != 3 {
		t.Errorf("expected 3 cuts, got %d", b.Cuts())
	}
	if eff := b.Efficiency(0); eff != 0 {
		t.Errorf("expected 0 efficiency for zero bar length, got %.2f", eff)
	}
}

func TestPlanPiecesInBarOrder(t *testing.T) {
	plan := Plan{
		Bars: []Bar{
			{Pieces: []Piece{{Index: 2}, {Index: 0}}},
			{Pieces: []Piece{{Index: 1}}},
		},
	}
	got := plan.Pieces()
	want := []int{2, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d pieces, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Index != want[i] {
			t.Errorf("piece %d: expected index %d, got %d", i, want[i], got[i].Index)
		}
	}
}

func TestNewOptimizeResponseRoundsForPresentation(t *testing.T) {
	plan := Plan{
		Stock:     StockSpec{BarLength: 1000, Kerf: 0},
		Algorithm: AlgorithmFirstFit,
		Bars: []Bar{
			{Pieces: []Piece{{Name: "A", Length: 333.3333333}}, Used: 333.3333333, Remaining: 666.6666667},
		},
		Stats: Stats{
			TotalBars:     1,
			MaterialTotal: 1000,
			MaterialUsed:  333.3333333,
			TotalWaste:    666.6666667,
			TotalCuts:     1,
			Efficiency:    33.33333333,
			MinBars:       1,
		},
	}

	resp := NewOptimizeResponse(plan, nil)
	if resp.Efficiency != 33.33 {
		t.Errorf("expected efficiency 33.33, got %v", resp.Efficiency)
	}
	if resp.TotalWaste != 666.667 {
		t.Errorf("expected waste 666.667, got %v", resp.TotalWaste)
	}
	if resp.BarsNeeded != 1 || resp.TotalBars != 1 {
		t.Errorf("expected 1 bar, got %d/%d", resp.BarsNeeded, resp.TotalBars)
	}
	if resp.Bars[0].Name != "Bar 1" || resp.Bars[0].Names[0] != "A" {
		t.Errorf("unexpected bar %+v", resp.Bars[0])
	}
	if resp.FormattedBars == nil {
		t.Error("formatted bars should never be nil")
	}
}

func TestNewJobDefaults(t *testing.T) {
	job := NewJob()
	if job.Stock.BarLength <= 0 {
		t.Error("expected positive default bar length")
	}
	if job.Requests == nil {
		t.Error("requests should not be nil")
	}
}

func TestFormatLength(t *testing.T) {
	tests := map[float64]string{
		6000:        "6000",
		1250.5:      "1250.5",
		2000.000001: "2000",
		0.1 + 0.2:   "0.3",
	}
	for in, want := range tests {
		if got := FormatLength(in); got != want {
			t.Errorf("FormatLength(%v) = %q, want %q", in, got, want)
		}
	}
}
