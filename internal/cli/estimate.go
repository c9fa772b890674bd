package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/piwi3910/barcut/internal/model"
	"github.com/spf13/cobra"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		waste  float64
		price  float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate how many bars to buy",
		Long:  "estimate sizes a purchase from the total demanded length without packing, adding a waste factor for packing losses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := a.resolve(cmd, &in)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("price") && resolved.Preset != nil {
				price = resolved.Preset.PricePerBar
			}

			est := model.CalculatePurchaseEstimate(resolved.Job.Requests, resolved.Job.Stock, waste, price)
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, est)
			}

			fmt.Fprintf(w, "Total length: %sm (%smm of kerf)\n",
				model.FormatLength(est.TotalMeters), model.FormatLength(est.TotalKerfLength))
			fmt.Fprintf(w, "Bars of %smm: %.2f exact, %d minimum\n",
				model.FormatLength(est.BarLength), est.BarsNeededExact, est.BarsNeededMin)
			color.New(color.Bold).Fprintf(w, "Buy %d bars", est.BarsWithWaste)
			fmt.Fprintf(w, " (with %s%% waste)\n", model.FormatLength(est.WastePercent))
			if est.PricePerBar > 0 {
				fmt.Fprintf(w, "Estimated cost: %.2f\n", est.EstimatedCost)
			}
			return nil
		},
	}

	in.register(cmd)
	fs := cmd.Flags()
	fs.Float64Var(&waste, "waste", 10, "waste factor in percent")
	fs.Float64Var(&price, "price", 0, "price per bar (default from the preset)")
	fs.BoolVar(&asJSON, "json", false, "print the estimate as JSON")
	return cmd
}
