package model

import "github.com/google/uuid"

// StockPreset represents a reusable bar stock definition.
type StockPreset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	BarLength   float64 `json:"bar_length"`
	Kerf        float64 `json:"kerf"`
	Material    string  `json:"material"`
	PricePerBar float64 `json:"price_per_bar"` // 0 if unknown
}

// NewStockPreset creates a new StockPreset with a generated ID.
func NewStockPreset(name string, barLength, kerf float64, material string) StockPreset {
	return StockPreset{
		ID:        uuid.New().String()[:8],
		Name:      name,
		BarLength: barLength,
		Kerf:      kerf,
		Material:  material,
	}
}

// NewStockPresetWithPrice creates a new StockPreset with a price per bar.
func NewStockPresetWithPrice(name string, barLength, kerf float64, material string, price float64) StockPreset {
	sp := NewStockPreset(name, barLength, kerf, material)
	sp.PricePerBar = price
	return sp
}

// ToStockSpec converts a StockPreset into the stock specification used by the planner.
func (sp StockPreset) ToStockSpec() StockSpec {
	return StockSpec{BarLength: sp.BarLength, Kerf: sp.Kerf}
}

// Inventory holds the user's saved stock presets.
type Inventory struct {
	Stocks []StockPreset `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common bar stock.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("Aluminium profile 6000", 6000, 3.0, "Aluminium"),
			NewStockPreset("Steel tube 6000", 6000, 2.0, "Steel"),
			NewStockPreset("Steel flat bar 3000", 3000, 2.0, "Steel"),
			NewStockPreset("Timber 2400", 2400, 3.2, "Timber"),
			NewStockPreset("Timber 4800", 4800, 3.2, "Timber"),
			NewStockPreset("PVC pipe 3000", 3000, 1.5, "PVC"),
		},
	}
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// StockNames returns a list of stock preset names.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}
