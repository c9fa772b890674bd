package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/barcut/internal/model"
)

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	inv := model.Inventory{
		Stocks: []model.StockPreset{
			model.NewStockPresetWithPrice("Test Tube", 6000, 2.0, "Steel", 42.5),
		},
	}
	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Stocks) != 1 {
		t.Fatalf("expected 1 stock, got %d", len(loaded.Stocks))
	}
	got := loaded.Stocks[0]
	if got.Name != "Test Tube" || got.BarLength != 6000 || got.Kerf != 2.0 || got.PricePerBar != 42.5 {
		t.Errorf("unexpected stock after round trip: %+v", got)
	}
}

func TestLoadInventory_MissingFileCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Stocks) == 0 {
		t.Error("expected default stocks, got none")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("expected default inventory file to be created")
	}
}

func TestLoadInventory_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for corrupt inventory")
	}
}

func TestImportInventory(t *testing.T) {
	tmpDir := t.TempDir()

	existing := model.Inventory{
		Stocks: []model.StockPreset{
			{ID: "stock-001", Name: "Existing Tube", BarLength: 6000, Kerf: 2, Material: "Steel"},
		},
	}
	imported := model.Inventory{
		Stocks: []model.StockPreset{
			{ID: "stock-001", Name: "Duplicate Tube", BarLength: 6000, Kerf: 2, Material: "Steel"}, // same ID, skipped
			{ID: "stock-002", Name: "New Timber", BarLength: 2400, Kerf: 3.2, Material: "Timber"},
		},
	}

	importPath := filepath.Join(tmpDir, "import.json")
	data, _ := json.MarshalIndent(imported, "", "  ")
	if err := os.WriteFile(importPath, data, 0644); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	merged, err := ImportInventory(importPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Stocks) != 2 {
		t.Fatalf("expected 2 stocks after merge, got %d", len(merged.Stocks))
	}
	if merged.Stocks[0].Name != "Existing Tube" {
		t.Errorf("expected first stock to be 'Existing Tube', got %q", merged.Stocks[0].Name)
	}
	if merged.Stocks[1].Name != "New Timber" {
		t.Errorf("expected second stock to be 'New Timber', got %q", merged.Stocks[1].Name)
	}
}

func TestExportInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")

	inv := model.DefaultInventory()
	if err := ExportInventory(path, inv); err != nil {
		t.Fatalf("ExportInventory failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read exported file: %v", err)
	}
	var loaded model.Inventory
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("failed to unmarshal exported inventory: %v", err)
	}
	if len(loaded.Stocks) != len(inv.Stocks) {
		t.Errorf("expected %d stocks, got %d", len(inv.Stocks), len(loaded.Stocks))
	}
}
