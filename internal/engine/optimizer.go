package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/barcut/internal/model"
)

// Optimizer runs the 1D bin-packing algorithm.
type Optimizer struct {
	Settings model.CutSettings
}

func New(settings model.CutSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// Optimize validates a wire request and packs it. The request's algorithm,
// when set, overrides the configured one.
func (o *Optimizer) Optimize(req model.OptimizeRequest) (model.Plan, error) {
	algo, err := o.resolveAlgorithm(req.Algorithm)
	if err != nil {
		return model.Plan{}, err
	}
	if err := o.checkSize(len(req.Pieces)); err != nil {
		return model.Plan{}, err
	}

	stock, pieces, err := Normalize(req.MaterialLength, req.Kerf, req.Pieces, req.Names)
	if err != nil {
		return model.Plan{}, err
	}
	return o.pack(stock, pieces, algo), nil
}

// OptimizeRequests expands quantity-bearing requests and packs them onto
// bars described by stock.
func (o *Optimizer) OptimizeRequests(stock model.StockSpec, requests []model.PieceRequest) (model.Plan, error) {
	algo, err := o.resolveAlgorithm("")
	if err != nil {
		return model.Plan{}, err
	}
	if err := o.checkSize(countRequested(requests, o.Settings.MaxPieces)); err != nil {
		return model.Plan{}, err
	}

	lengths, names, err := ExpandRequests(requests)
	if err != nil {
		return model.Plan{}, err
	}
	stock, pieces, err := Normalize(stock.BarLength, stock.Kerf, lengths, names)
	if err != nil {
		return model.Plan{}, err
	}
	return o.pack(stock, pieces, algo), nil
}

// Plan packs pieces that were produced by Normalize. They are re-checked
// against stock so a plan can never hold a piece longer than a bar.
func (o *Optimizer) Plan(stock model.StockSpec, pieces []model.Piece) (model.Plan, error) {
	algo, err := o.resolveAlgorithm("")
	if err != nil {
		return model.Plan{}, err
	}
	if err := validateStock(stock); err != nil {
		return model.Plan{}, err
	}
	if len(pieces) == 0 {
		return model.Plan{}, &PlanError{Kind: ErrEmptyRequest, Index: -1, Detail: "no pieces to cut"}
	}
	if err := o.checkSize(len(pieces)); err != nil {
		return model.Plan{}, err
	}
	for _, p := range pieces {
		if err := validatePiece(stock, p); err != nil {
			return model.Plan{}, err
		}
	}
	if err := checkTotals(stock, pieces); err != nil {
		return model.Plan{}, err
	}
	return o.pack(stock, pieces, algo), nil
}

func (o *Optimizer) resolveAlgorithm(requested string) (model.Algorithm, error) {
	name := requested
	if name == "" {
		name = string(o.Settings.Algorithm)
	}
	algo, err := model.ParseAlgorithm(name)
	if err != nil {
		return "", &PlanError{Kind: ErrUnknownAlgorithm, Index: -1, Detail: err.Error()}
	}
	return algo, nil
}

func (o *Optimizer) checkSize(n int) error {
	if o.Settings.MaxPieces > 0 && n > o.Settings.MaxPieces {
		return &PlanError{
			Kind:   ErrTooManyPieces,
			Index:  -1,
			Value:  float64(n),
			Detail: fmt.Sprintf("%d pieces exceed the limit of %d", n, o.Settings.MaxPieces),
		}
	}
	return nil
}

// pack assigns every piece to exactly one bar. Pieces are taken longest
// first; equal lengths keep their input order so identical input always
// yields the identical plan.
func (o *Optimizer) pack(stock model.StockSpec, pieces []model.Piece, algo model.Algorithm) model.Plan {
	sorted := make([]model.Piece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length > sorted[j].Length
	})

	var bars []*openBar
	switch algo {
	case model.AlgorithmBestFit:
		bars = place(sorted, stock, bestFit)
	case model.AlgorithmGenetic:
		bars = place(geneticOrder(stock, sorted), stock, firstFit)
	default:
		bars = place(sorted, stock, firstFit)
	}

	result := model.Plan{
		Stock:     stock,
		Algorithm: algo,
		Bars:      make([]model.Bar, 0, len(bars)),
	}
	for _, b := range bars {
		result.Bars = append(result.Bars, b.finalize(stock))
	}
	result.Stats = Aggregate(stock, result.Bars)
	result.Stats.MinBars = LowerBound(stock, pieces)
	return result
}

// fitFunc picks an open bar for a piece, or -1 to open a new one.
type fitFunc func(bars []*openBar, length float64, stock model.StockSpec) int

// place puts pieces onto bars in the given order.
func place(order []model.Piece, stock model.StockSpec, choose fitFunc) []*openBar {
	var bars []*openBar
	for _, p := range order {
		idx := choose(bars, p.Length, stock)
		if idx < 0 {
			bars = append(bars, &openBar{})
			idx = len(bars) - 1
		}
		bars[idx].add(p)
	}
	return bars
}

// firstFit returns the first bar, in creation order, that accepts length.
func firstFit(bars []*openBar, length float64, stock model.StockSpec) int {
	for i, b := range bars {
		if b.fits(length, stock) {
			return i
		}
	}
	return -1
}

// bestFit returns the accepting bar with the least capacity left; the
// earliest bar wins ties.
func bestFit(bars []*openBar, length float64, stock model.StockSpec) int {
	best := -1
	bestSlack := 0.0
	for i, b := range bars {
		if !b.fits(length, stock) {
			continue
		}
		slack := stock.BarLength - b.used(stock.Kerf)
		if best < 0 || slack < bestSlack-lengthTolerance {
			best = i
			bestSlack = slack
		}
	}
	return best
}

// openBar is a bar still accepting pieces. The running sum excludes kerf so
// used length is always recomputed from exact inputs.
type openBar struct {
	pieces []model.Piece
	sum    float64
}

func (b *openBar) used(kerf float64) float64 {
	if len(b.pieces) == 0 {
		return 0
	}
	return b.sum + kerf*float64(len(b.pieces)-1)
}

// fits applies the kerf rule: the first piece costs only its length, every
// later piece adds one cut.
func (b *openBar) fits(length float64, stock model.StockSpec) bool {
	if len(b.pieces) == 0 {
		return length <= stock.BarLength
	}
	return b.sum+stock.Kerf*float64(len(b.pieces))+length <= stock.BarLength+lengthTolerance
}

func (b *openBar) add(p model.Piece) {
	b.pieces = append(b.pieces, p)
	b.sum += p.Length
}

func (b *openBar) finalize(stock model.StockSpec) model.Bar {
	used := b.used(stock.Kerf)
	remaining := stock.BarLength - used
	if remaining < 0 {
		remaining = 0
	}
	return model.Bar{
		Pieces:    b.pieces,
		Used:      used,
		Remaining: remaining,
	}
}
