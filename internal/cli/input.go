package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/barcut/internal/importer"
	"github.com/piwi3910/barcut/internal/logger"
	"github.com/piwi3910/barcut/internal/model"
	"github.com/piwi3910/barcut/internal/project"
	"github.com/spf13/cobra"
)

// inputFlags are the ways a command can be told what to cut.
type inputFlags struct {
	length     float64
	kerf       float64
	pieces     []string
	jobFile    string
	importFile string
	preset     string
	algorithm  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.length, "length", "l", 0, "stock bar length in mm")
	fs.Float64VarP(&f.kerf, "kerf", "k", 0, "saw kerf in mm (default from engine.default_kerf)")
	fs.StringArrayVarP(&f.pieces, "piece", "p", nil, "piece as LENGTH[xQTY][:NAME], repeatable")
	fs.StringVar(&f.jobFile, "job", "", "job file (.json, .yaml)")
	fs.StringVar(&f.importFile, "import", "", "cut list to import (.csv, .xlsx)")
	fs.StringVar(&f.preset, "preset", "", "stock preset name from the inventory")
	fs.StringVarP(&f.algorithm, "algorithm", "a", "", "packing algorithm: ffd, bfd or ga")
}

// input is a resolved job plus the preset it came from, if any.
type input struct {
	Job    model.Job
	Preset *model.StockPreset
}

// resolve merges job file, preset, import and flags, in that order of precedence
// from lowest to highest.
func (a *app) resolve(cmd *cobra.Command, f *inputFlags) (input, error) {
	in := input{Job: model.Job{Name: "Untitled", Requests: []model.PieceRequest{}}}
	kerfSet := false

	if f.jobFile != "" {
		job, err := project.LoadJob(f.jobFile)
		if err != nil {
			return input{}, err
		}
		in.Job = job
		kerfSet = true
	}

	if f.preset != "" {
		inv, err := project.LoadInventory(a.cfg.Inventory.Path)
		if err != nil {
			return input{}, fmt.Errorf("failed to load inventory: %w", err)
		}
		preset := inv.FindStockByName(f.preset)
		if preset == nil {
			preset = inv.FindStockByID(f.preset)
		}
		if preset == nil {
			return input{}, fmt.Errorf("no stock preset named %q", f.preset)
		}
		in.Preset = preset
		in.Job.Stock = preset.ToStockSpec()
		kerfSet = true
	}

	if f.importFile != "" {
		res := importer.ImportFile(f.importFile)
		for _, w := range res.Warnings {
			logger.Debug("import", "file", f.importFile, "warning", w)
		}
		if len(res.Errors) > 0 {
			return input{}, fmt.Errorf("import %s: %s", f.importFile, strings.Join(res.Errors, "; "))
		}
		in.Job.Requests = append(in.Job.Requests, res.Requests...)
	}

	for _, spec := range f.pieces {
		req, err := ParsePieceSpec(spec)
		if err != nil {
			return input{}, err
		}
		in.Job.Requests = append(in.Job.Requests, req)
	}

	if cmd.Flags().Changed("length") {
		in.Job.Stock.BarLength = f.length
	}
	if cmd.Flags().Changed("kerf") {
		in.Job.Stock.Kerf = f.kerf
	} else if !kerfSet {
		in.Job.Stock.Kerf = a.cfg.Settings().KerfWidth
	}
	if f.algorithm != "" {
		algo, err := model.ParseAlgorithm(f.algorithm)
		if err != nil {
			return input{}, err
		}
		in.Job.Algorithm = algo
	}

	if in.Job.Stock.BarLength == 0 {
		return input{}, errors.New("no bar length: use --length, --preset or --job")
	}
	return in, nil
}

// settings returns the configured planner settings with the job's algorithm applied.
func (a *app) settings(job model.Job) model.CutSettings {
	s := a.cfg.Settings()
	if job.Algorithm != "" {
		s.Algorithm = job.Algorithm
	}
	return s
}

// ParsePieceSpec parses "LENGTH[xQTY][:NAME]", e.g. "2000", "1900x2" or "750x4:Rail".
func ParsePieceSpec(spec string) (model.PieceRequest, error) {
	body, name, _ := strings.Cut(strings.TrimSpace(spec), ":")
	lengthStr, qtyStr, hasQty := strings.Cut(strings.ToLower(strings.TrimSpace(body)), "x")

	length, err := strconv.ParseFloat(strings.TrimSpace(lengthStr), 64)
	if err != nil {
		return model.PieceRequest{}, fmt.Errorf("piece %q: invalid length %q", spec, lengthStr)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			return model.PieceRequest{}, fmt.Errorf("piece %q: invalid quantity %q", spec, qtyStr)
		}
	}
	return model.NewPieceRequest(strings.TrimSpace(name), length, qty), nil
}

func parsePositive(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", what, s)
	}
	return v, nil
}

func parseNonNegative(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a number that is not negative, got %q", what, s)
	}
	return v, nil
}
