package cli

import (
	"fmt"

	"github.com/piwi3910/barcut/internal/model"
	"github.com/piwi3910/barcut/internal/project"
	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List stock presets from the inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := project.LoadInventory(a.cfg.Inventory.Path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, inv)
			}
			for _, s := range inv.Stocks {
				fmt.Fprintf(w, "%-8s %-28s %8smm  kerf %smm  %s", s.ID, s.Name,
					model.FormatLength(s.BarLength), model.FormatLength(s.Kerf), s.Material)
				if s.PricePerBar > 0 {
					fmt.Fprintf(w, "  %.2f/bar", s.PricePerBar)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	var (
		material string
		price    float64
	)
	add := &cobra.Command{
		Use:   "add NAME LENGTH KERF",
		Short: "Add a stock preset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := parsePositive(args[1], "length")
			if err != nil {
				return err
			}
			kerf, err := parseNonNegative(args[2], "kerf")
			if err != nil {
				return err
			}
			inv, err := project.LoadInventory(a.cfg.Inventory.Path)
			if err != nil {
				return err
			}
			preset := model.NewStockPresetWithPrice(args[0], length, kerf, material, price)
			inv.Stocks = append(inv.Stocks, preset)
			if err := project.SaveInventory(a.cfg.Inventory.Path, inv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", preset.Name, preset.ID)
			return nil
		},
	}
	add.Flags().StringVar(&material, "material", "", "material name")
	add.Flags().Float64Var(&price, "price", 0, "price per bar")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "export FILE",
			Short: "Export the inventory to a JSON file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				inv, err := project.LoadInventory(a.cfg.Inventory.Path)
				if err != nil {
					return err
				}
				return project.ExportInventory(args[0], inv)
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Merge presets from a JSON file; existing ids are kept",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				inv, err := project.LoadInventory(a.cfg.Inventory.Path)
				if err != nil {
					return err
				}
				before := len(inv.Stocks)
				inv, err = project.ImportInventory(args[0], inv)
				if err != nil {
					return fmt.Errorf("failed to import presets: %w", err)
				}
				if err := project.SaveInventory(a.cfg.Inventory.Path, inv); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d presets\n", len(inv.Stocks)-before)
				return nil
			},
		},
		&cobra.Command{
			Use:   "backup FILE",
			Short: "Write settings and presets to a backup file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				inv, err := project.LoadInventory(a.cfg.Inventory.Path)
				if err != nil {
					return err
				}
				return project.ExportAllData(args[0], a.cfg.Settings(), inv)
			},
		},
		&cobra.Command{
			Use:   "restore FILE",
			Short: "Merge the presets of a backup file into the inventory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				backup, err := project.ImportAllData(args[0])
				if err != nil {
					return err
				}
				inv, err := project.RestoreInventory(a.cfg.Inventory.Path, backup)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Inventory now holds %d presets\n", len(inv.Stocks))
				return nil
			},
		},
	)
	return cmd
}
