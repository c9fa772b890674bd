package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/model"
	"github.com/spf13/cobra"
)

// scenarioSummary is the JSON form of one comparison row.
type scenarioSummary struct {
	Name      string  `json:"name"`
	BarLength float64 `json:"bar_length"`
	Kerf      float64 `json:"kerf"`
	Algorithm string  `json:"algorithm"`
	Bars      int     `json:"bars"`
	Cuts      int     `json:"cuts"`
	Waste     float64 `json:"waste_percent"`
	Best      bool    `json:"best"`
	Error     string  `json:"error,omitempty"`
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare algorithms and kerf settings on the same cut list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := a.resolve(cmd, &in)
			if err != nil {
				return err
			}
			job := resolved.Job

			scenarios := engine.BuildDefaultScenarios(a.settings(job), job.Stock)
			results := engine.CompareScenarios(scenarios, job.Requests)
			best := engine.BestScenario(results)
			if best < 0 {
				// Every scenario rejected the list; the first error explains why.
				return results[0].Err
			}

			summaries := make([]scenarioSummary, len(results))
			for i, r := range results {
				summaries[i] = scenarioSummary{
					Name:      r.Scenario.Name,
					BarLength: r.Scenario.Stock.BarLength,
					Kerf:      r.Scenario.Stock.Kerf,
					Algorithm: string(r.Scenario.Settings.Algorithm),
					Bars:      r.BarsUsed,
					Cuts:      r.TotalCuts,
					Waste:     model.RoundPercent(r.WastePercent),
					Best:      i == best,
				}
				if r.Err != nil {
					summaries[i].Error = r.Err.Error()
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			printComparison(cmd.OutOrStdout(), summaries)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as JSON")
	return cmd
}

func printComparison(w io.Writer, rows []scenarioSummary) {
	color.New(color.Bold).Fprintf(w, "%-24s %6s %6s %8s\n", "Scenario", "Bars", "Cuts", "Waste")
	for _, r := range rows {
		if r.Error != "" {
			fmt.Fprintf(w, "%-24s %s\n", r.Name, color.RedString(r.Error))
			continue
		}
		line := fmt.Sprintf("%-24s %6d %6d %7.2f%%", r.Name, r.Bars, r.Cuts, r.Waste)
		if r.Best {
			line = color.GreenString(line + "  best")
		}
		fmt.Fprintln(w, line)
	}
}
