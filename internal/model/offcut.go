package model

import (
	"sort"
)

// Offcut represents a usable remnant left at the end of a bar after cutting.
type Offcut struct {
	BarIndex     int     `json:"bar_index"`      // 0-based index of the source bar in the plan
	Start        float64 `json:"start"`          // Position on the bar (mm from the start)
	Length       float64 `json:"length"`         // Usable length (mm)
	PricePerUnit float64 `json:"price_per_unit"` // Inherited price proportional to length (0 if not set)
}

// ToPreset converts an offcut into a stock preset for reuse in future jobs.
func (o Offcut) ToPreset(kerf float64, material string) StockPreset {
	preset := NewStockPreset("Offcut "+BarName(o.BarIndex+1), o.Length, kerf, material)
	preset.PricePerBar = o.PricePerUnit
	return preset
}

// MinOffcutLength is the minimum length (in mm) for a remnant to be considered
// a usable offcut. Shorter remnants are waste.
const MinOffcutLength = 300.0

// DetectOffcuts finds the reusable remnant of every bar in the plan. The
// remnant starts one kerf after the last piece because separating it costs a
// cut. Offcuts shorter than minLength are dropped; a non-positive minLength
// selects MinOffcutLength. pricePerBar, when set, is split proportionally.
func DetectOffcuts(plan Plan, minLength, pricePerBar float64) []Offcut {
	if minLength <= 0 {
		minLength = MinOffcutLength
	}
	kerf := plan.Stock.Kerf
	barLength := plan.Stock.BarLength

	var offcuts []Offcut
	for i, b := range plan.Bars {
		start := b.Used
		usable := b.Remaining
		if len(b.Pieces) > 0 {
			start += kerf
			usable -= kerf
		}
		if usable < minLength {
			continue
		}
		oc := Offcut{
			BarIndex: i,
			Start:    start,
			Length:   usable,
		}
		if pricePerBar > 0 && barLength > 0 {
			oc.PricePerUnit = (usable / barLength) * pricePerBar
		}
		offcuts = append(offcuts, oc)
	}

	// Longest offcuts first; bar order breaks ties.
	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Length > offcuts[j].Length
	})

	return offcuts
}

// TotalOffcutLength returns the total length of all offcuts in mm.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
