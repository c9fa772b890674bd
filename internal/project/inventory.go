package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/barcut/internal/model"
)

// DefaultInventoryPath returns ~/.barcut/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultDataDir(), "inventory.json")
}

// SaveInventory writes the inventory as JSON, creating parent directories.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSONFile(path, inv)
}

// LoadInventory reads the inventory at path. A missing file is seeded with
// model.DefaultInventory, which is saved and returned.
func LoadInventory(path string) (model.Inventory, error) {
	inv, err := readInventory(path)
	if errors.Is(err, fs.ErrNotExist) {
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	}
	return inv, err
}

func readInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("failed to parse inventory %s: %w", filepath.Base(path), err)
	}
	if inv.Stocks == nil {
		inv.Stocks = []model.StockPreset{}
	}
	return inv, nil
}

// ExportInventory exports the inventory to a user-chosen file.
func ExportInventory(path string, inv model.Inventory) error {
	return SaveInventory(path, inv)
}

// ImportInventory merges the presets of the file at path into existing.
// Presets whose id is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	imported, err := readInventory(path)
	if err != nil {
		return existing, err
	}
	return mergeStocks(existing, imported.Stocks), nil
}

func mergeStocks(existing model.Inventory, stocks []model.StockPreset) model.Inventory {
	seen := make(map[string]bool, len(existing.Stocks))
	for _, s := range existing.Stocks {
		seen[s.ID] = true
	}
	for _, s := range stocks {
		if seen[s.ID] {
			continue
		}
		existing.Stocks = append(existing.Stocks, s)
		seen[s.ID] = true
	}
	return existing
}
