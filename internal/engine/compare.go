package engine

import (
	"fmt"

	"github.com/piwi3910/barcut/internal/model"
)

// ComparisonScenario defines a named combination of stock and settings to compare.
type ComparisonScenario struct {
	Name     string
	Stock    model.StockSpec
	Settings model.CutSettings
}

// ComparisonResult holds the plan and headline figures for a single scenario.
// Err is set when the scenario rejected the cut list; Plan is then empty.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Plan         model.Plan
	BarsUsed     int
	TotalCuts    int
	WastePercent float64
	Err          error
}

// CompareScenarios plans the same cut list under each scenario and returns the
// results in scenario order. A failing scenario does not stop the others.
func CompareScenarios(scenarios []ComparisonScenario, requests []model.PieceRequest) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		plan, err := opt.OptimizeRequests(scenario.Stock, requests)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Plan:         plan,
			BarsUsed:     plan.Stats.TotalBars,
			TotalCuts:    plan.Stats.TotalCuts,
			WastePercent: 100.0 - plan.Stats.Efficiency,
		})
	}

	return results
}

// BestScenario returns the index of the successful result with the fewest bars,
// breaking ties on lower waste. It returns -1 when every scenario failed.
func BestScenario(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 ||
			r.BarsUsed < results[best].BarsUsed ||
			(r.BarsUsed == results[best].BarsUsed && r.WastePercent < results[best].WastePercent-lengthTolerance) {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings and stock.
func BuildDefaultScenarios(baseSettings model.CutSettings, stock model.StockSpec) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Stock:    stock,
			Settings: baseSettings,
		},
	}

	// Scenarios: the other algorithms
	current, err := model.ParseAlgorithm(string(baseSettings.Algorithm))
	if err != nil {
		current = model.AlgorithmFirstFit
	}
	for _, algo := range model.Algorithms {
		if algo == current {
			continue
		}
		alt := baseSettings
		alt.Algorithm = algo
		scenarios = append(scenarios, ComparisonScenario{
			Name:     algo.String(),
			Stock:    stock,
			Settings: alt,
		})
	}

	// Scenario: Thinner blade
	if stock.Kerf > 1.0 {
		half := stock
		half.Kerf = stock.Kerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.1fmm (half)", half.Kerf),
			Stock:    half,
			Settings: baseSettings,
		})
	}

	// Scenario: No kerf at all
	if stock.Kerf > 0 {
		noKerf := stock
		noKerf.Kerf = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Kerf",
			Stock:    noKerf,
			Settings: baseSettings,
		})
	}

	return scenarios
}
