package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/piwi3910/barcut/internal/archive"
	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/export"
	"github.com/piwi3910/barcut/internal/logger"
	"github.com/piwi3910/barcut/internal/model"
	"github.com/piwi3910/barcut/internal/project"
	"github.com/spf13/cobra"
)

type planOutputs struct {
	pdf         string
	labels      string
	xlsx        string
	dxf         string
	json        bool
	saveJob     string
	keepOffcuts bool
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		in  inputFlags
		out planOutputs
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan cuts for a list of pieces",
		Example: `  barcut plan --length 6000 --kerf 3 --piece 2000 --piece 1900x2
  barcut plan --preset "Steel tube 6000" --import cutlist.csv --pdf report.pdf
  barcut plan --job frame.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := a.resolve(cmd, &in)
			if err != nil {
				return err
			}
			job := resolved.Job

			plan, err := engine.New(a.settings(job)).OptimizeRequests(job.Stock, job.Requests)
			if err != nil {
				return err
			}
			logger.Info("plan ready", "bars", plan.Stats.TotalBars, "pieces", plan.Stats.TotalCuts, "algorithm", plan.Algorithm)

			if err := a.archivePlan(cmd.Context(), plan); err != nil {
				logger.Warn("archive record failed", "err", err)
			}

			price := 0.0
			if resolved.Preset != nil {
				price = resolved.Preset.PricePerBar
			}
			offcuts := model.DetectOffcuts(plan, model.MinOffcutLength, price)

			w := cmd.OutOrStdout()
			if out.json {
				if err := writeJSON(w, model.NewOptimizeResponse(plan, engine.FormatBars(plan))); err != nil {
					return err
				}
			} else {
				printPlan(w, plan, offcuts)
			}

			return a.writeOutputs(cmd, out, job, plan, offcuts, resolved.Preset)
		},
	}

	in.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&out.pdf, "pdf", "", "write a PDF cutting report")
	fs.StringVar(&out.labels, "labels", "", "write a PDF sheet of piece labels")
	fs.StringVar(&out.xlsx, "xlsx", "", "write an Excel cut sheet")
	fs.StringVar(&out.dxf, "dxf", "", "write a DXF bar diagram")
	fs.BoolVar(&out.json, "json", false, "print the plan as JSON")
	fs.StringVar(&out.saveJob, "save-job", "", "save the resolved job (.json, .yaml)")
	fs.BoolVar(&out.keepOffcuts, "keep-offcuts", false, "add reusable offcuts to the inventory")
	return cmd
}

func (a *app) writeOutputs(cmd *cobra.Command, out planOutputs, job model.Job, plan model.Plan, offcuts []model.Offcut, preset *model.StockPreset) error {
	status := cmd.ErrOrStderr()

	if out.pdf != "" {
		opts := export.ReportOptions{Title: a.cfg.Report.Title, Offcuts: offcuts}
		if err := export.ExportPDF(out.pdf, plan, opts); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Fprintln(status, "Wrote", out.pdf)
	}
	if out.labels != "" {
		if err := export.ExportLabels(out.labels, plan); err != nil {
			return fmt.Errorf("failed to write labels: %w", err)
		}
		fmt.Fprintln(status, "Wrote", out.labels)
	}
	if out.xlsx != "" {
		if err := export.ExportXLSX(out.xlsx, plan); err != nil {
			return fmt.Errorf("failed to write Excel file: %w", err)
		}
		fmt.Fprintln(status, "Wrote", out.xlsx)
	}
	if out.dxf != "" {
		if err := export.ExportDXF(out.dxf, plan); err != nil {
			return fmt.Errorf("failed to write DXF: %w", err)
		}
		fmt.Fprintln(status, "Wrote", out.dxf)
	}
	if out.saveJob != "" {
		if err := project.SaveJob(out.saveJob, job); err != nil {
			return fmt.Errorf("failed to save job: %w", err)
		}
		fmt.Fprintln(status, "Saved job", out.saveJob)
	}
	if out.keepOffcuts && len(offcuts) > 0 {
		material := ""
		if preset != nil {
			material = preset.Material
		}
		inv, err := project.LoadInventory(a.cfg.Inventory.Path)
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		for _, oc := range offcuts {
			inv.Stocks = append(inv.Stocks, oc.ToPreset(plan.Stock.Kerf, material))
		}
		if err := project.SaveInventory(a.cfg.Inventory.Path, inv); err != nil {
			return fmt.Errorf("failed to save inventory: %w", err)
		}
		fmt.Fprintf(status, "Added %d offcuts to the inventory\n", len(offcuts))
	}
	return nil
}

// archivePlan records the plan when the archive is enabled.
func (a *app) archivePlan(ctx context.Context, plan model.Plan) error {
	if !a.cfg.Archive.Enabled {
		return nil
	}
	store, err := archive.Open(ctx, a.cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.Record(ctx, plan)
	if err != nil {
		return err
	}
	logger.Debug("plan archived", "id", id)
	return nil
}

func printPlan(w io.Writer, plan model.Plan, offcuts []model.Offcut) {
	bold := color.New(color.Bold)
	s := plan.Stats

	bold.Fprintf(w, "%s: %d bars of %smm (kerf %smm)\n",
		plan.Algorithm.String(), s.TotalBars, model.FormatLength(plan.Stock.BarLength), model.FormatLength(plan.Stock.Kerf))
	for _, line := range engine.FormatBars(plan) {
		fmt.Fprintln(w, "  "+line)
	}

	fmt.Fprintf(w, "Pieces: %d  Lower bound: %d bars\n", s.TotalCuts, s.MinBars)
	fmt.Fprintf(w, "Material: %smm used of %smm, waste %smm\n",
		model.FormatLength(s.MaterialUsed), model.FormatLength(s.MaterialTotal), model.FormatLength(s.TotalWaste))
	fmt.Fprintf(w, "Efficiency: %s\n", efficiencyString(s.Efficiency))

	if len(offcuts) > 0 {
		fmt.Fprintf(w, "Reusable offcuts (>= %smm):\n", model.FormatLength(model.MinOffcutLength))
		for _, oc := range offcuts {
			fmt.Fprintf(w, "  %s: %smm\n", model.BarName(oc.BarIndex+1), model.FormatLength(oc.Length))
		}
	}
}

// efficiencyString colours the percentage green, yellow or red.
func efficiencyString(pct float64) string {
	text := fmt.Sprintf("%.2f%%", model.RoundPercent(pct))
	switch {
	case pct >= 85:
		return color.GreenString(text)
	case pct >= 70:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
