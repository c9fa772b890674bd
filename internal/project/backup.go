package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/barcut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Settings  model.CutSettings `json:"settings"`
	Inventory model.Inventory   `json:"inventory"`
}

// ExportAllData writes the planner settings and the stock inventory
// to a single JSON file at the specified path.
func ExportAllData(exportPath string, settings model.CutSettings, inv model.Inventory) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:  settings,
		Inventory: inv,
	}
	if err := writeJSONFile(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported settings.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Inventory.Stocks == nil {
		backup.Inventory.Stocks = []model.StockPreset{}
	}
	return backup, nil
}

// RestoreInventory merges the stocks of a backup into the inventory at path
// and saves the result.
func RestoreInventory(path string, backup BackupData) (model.Inventory, error) {
	current, err := LoadInventory(path)
	if err != nil {
		return current, err
	}
	merged := mergeStocks(current, backup.Inventory.Stocks)
	return merged, SaveInventory(path, merged)
}
