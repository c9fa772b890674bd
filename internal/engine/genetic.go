package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/barcut/internal/model"
)

// GeneticConfig holds parameters for the genetic ordering search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

const (
	// geneticSeed keeps the search reproducible: the same input always
	// produces the same plan.
	geneticSeed = 42

	// geneticMaxPieces is the largest cut list searched; bigger lists fall
	// back to the First-Fit-Decreasing order.
	geneticMaxPieces = 400
)

// chromosome is a candidate ordering of the pieces, decoded by first fit.
type chromosome struct {
	genes   []int // indexes into geneticOptimizer.pieces
	fitness float64
}

type geneticOptimizer struct {
	stock  model.StockSpec
	config GeneticConfig
	pieces []model.Piece
	rng    *rand.Rand
}

func newGeneticOptimizer(stock model.StockSpec, config GeneticConfig, pieces []model.Piece, seed int64) *geneticOptimizer {
	return &geneticOptimizer{
		stock:  stock,
		config: config,
		pieces: pieces,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// geneticOrder searches for a piece order whose first-fit packing uses fewer
// bars than the decreasing order. sorted must already be in decreasing order;
// it seeds the population and survives through elitism, so the result is never
// worse than First-Fit-Decreasing.
func geneticOrder(stock model.StockSpec, sorted []model.Piece) []model.Piece {
	if len(sorted) <= 2 || len(sorted) > geneticMaxPieces {
		return sorted
	}

	config := DefaultGeneticConfig()
	// Scale generations for larger problems
	if len(sorted) > 20 {
		config.Generations = 150
	}
	if len(sorted) > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}

	ga := newGeneticOptimizer(stock, config, sorted, geneticSeed)
	best := ga.optimize()

	out := make([]model.Piece, len(best.genes))
	for i, idx := range best.genes {
		out[i] = sorted[idx]
	}
	return out
}

// optimize runs the evolution loop and returns the fittest chromosome.
func (g *geneticOptimizer) optimize() chromosome {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	lowerBound := LowerBound(g.stock, g.pieces)

	for gen := 0; gen < g.config.Generations; gen++ {
		g.rank(population)

		// Nothing beats the lower bound.
		if g.barCount(population[0]) <= lowerBound {
			return population[0]
		}

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	g.rank(population)
	return population[0]
}

// rank sorts by fitness descending. Ties keep their position so the run is
// reproducible.
func (g *geneticOptimizer) rank(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation seeds slot 0 with the decreasing order and fills the rest
// with random permutations.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.pieces)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}

	if len(population) > 0 {
		identity := make([]int, n)
		for i := range identity {
			identity[i] = i
		}
		population[0] = chromosome{genes: identity}
	}
	return population
}

func (g *geneticOptimizer) decode(c chromosome) []*openBar {
	order := make([]model.Piece, len(c.genes))
	for i, idx := range c.genes {
		order[i] = g.pieces[idx]
	}
	return place(order, g.stock, firstFit)
}

func (g *geneticOptimizer) barCount(c chromosome) int {
	return len(g.decode(c))
}

// evaluate scores a chromosome. Fewer bars always wins; among equal bar
// counts, plans that fill some bars tightly (leaving one long remnant) score
// higher than plans that spread waste evenly.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	bars := g.decode(c)
	if len(bars) == 0 {
		return 0
	}

	var fill float64
	for _, b := range bars {
		ratio := b.used(g.stock.Kerf) / g.stock.BarLength
		fill += ratio * ratio
	}
	return -float64(len(bars)) + fill/float64(len(bars))
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	// Fill remaining positions with genes from parent2 in order
	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion mutation: reverse a small segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
