package model

import (
	"testing"
)

func TestNewStockPresetWithPrice(t *testing.T) {
	sp := NewStockPresetWithPrice("Alu 6m", 6000, 3, "Aluminium", 45.99)
	if sp.PricePerBar != 45.99 {
		t.Errorf("expected price 45.99, got %.2f", sp.PricePerBar)
	}
	if sp.Name != "Alu 6m" {
		t.Errorf("expected name 'Alu 6m', got %s", sp.Name)
	}
	if len(sp.ID) != 8 {
		t.Errorf("expected 8 character id, got %q", sp.ID)
	}
}

func TestNewStockPresetDefaultZeroPrice(t *testing.T) {
	sp := NewStockPreset("No Price", 3000, 2, "Steel")
	if sp.PricePerBar != 0 {
		t.Errorf("expected default price 0, got %.2f", sp.PricePerBar)
	}
}

func TestStockPresetToStockSpec(t *testing.T) {
	sp := NewStockPreset("Timber", 2400, 3.2, "Timber")
	spec := sp.ToStockSpec()
	if spec.BarLength != 2400 || spec.Kerf != 3.2 {
		t.Errorf("unexpected spec %+v", spec)
	}
}

func TestDefaultInventoryLookups(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Stocks) == 0 {
		t.Fatal("expected default stocks")
	}

	names := inv.StockNames()
	if len(names) != len(inv.Stocks) {
		t.Errorf("expected %d names, got %d", len(inv.Stocks), len(names))
	}

	first := inv.Stocks[0]
	if got := inv.FindStockByID(first.ID); got == nil || got.Name != first.Name {
		t.Errorf("FindStockByID(%q) = %v", first.ID, got)
	}
	if got := inv.FindStockByName(first.Name); got == nil || got.ID != first.ID {
		t.Errorf("FindStockByName(%q) = %v", first.Name, got)
	}
	if inv.FindStockByName("does not exist") != nil {
		t.Error("expected nil for unknown name")
	}
	if inv.FindStockByID("nope") != nil {
		t.Error("expected nil for unknown id")
	}
}
