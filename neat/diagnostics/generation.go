package diagnostics

import (
	"math"

	"github.com/paul-bokelman/neat-go/neat/genetics"
	"gonum.org/v1/gonum/stat"
)

// Floats is a series of samples: in a Generation, one per species (the
// fittest organism's fitness or complexity, in species order); in a
// History series, one per generation.
type Floats []float64

// Generation snapshots one evolutionary epoch's population statistics,
// grounded on the teacher's experiment.Generation.
type Generation struct {
	Index int

	// Fitness, Complexity hold one sample per species: the fittest
	// organism's fitness and node+gene count, per the teacher's
	// per-species-representative sampling in FillPopulationStatistics.
	Fitness    Floats
	Complexity Floats

	Diversity              int
	CompatibilityThreshold float64

	Best *genetics.Organism
}

// Complexity returns an organism's genome size: total nodes plus all
// connection genes, enabled or disabled, the teacher's
// Phenotype.Complexity() equivalent for a genome that has no separately
// materialized phenotype.
func Complexity(o *genetics.Organism) int {
	return len(o.Nodes) + len(o.Genome)
}

// Collect builds a Generation snapshot from a population immediately
// after Evolve returns, per spec §4.F's per-epoch statistics hook.
func Collect(index int, pop *genetics.Population) *Generation {
	g := &Generation{
		Index:                  index,
		Diversity:              len(pop.Species),
		CompatibilityThreshold: pop.CompatibilityThreshold,
		Fitness:                make(Floats, len(pop.Species)),
		Complexity:             make(Floats, len(pop.Species)),
	}

	for i, s := range pop.Species {
		best := bestOf(s.Organisms)
		if best == nil {
			continue
		}
		g.Fitness[i] = best.Fitness
		g.Complexity[i] = float64(Complexity(best))
		if g.Best == nil || best.Fitness > g.Best.Fitness {
			g.Best = best
		}
	}
	return g
}

func bestOf(organisms []*genetics.Organism) *genetics.Organism {
	var best *genetics.Organism
	for _, o := range organisms {
		if best == nil || o.Fitness > best.Fitness {
			best = o
		}
	}
	return best
}

// Average returns the mean fitness and mean complexity across species in
// this generation.
func (g *Generation) Average() (fitness, complexity float64) {
	return speciesMean(g.Fitness), speciesMean(g.Complexity)
}

// speciesMean averages one best-of-species sample per species. A
// generation with no species (a zero-value Generation, or one collected
// from a population whose species were all dropped) reports NaN rather
// than dividing by zero.
func speciesMean(samples Floats) float64 {
	if len(samples) == 0 {
		return math.NaN()
	}
	return stat.Mean(samples, nil)
}
