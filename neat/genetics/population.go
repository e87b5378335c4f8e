package genetics

import (
	"math/rand"

	"github.com/paul-bokelman/neat-go/neat"
)

// FitnessFunc is the external fitness callback spec §6 describes: it must
// return 0 or a positive real for any organism.
type FitnessFunc func(*Organism) float64

// Population owns the species list and the innovation registry for one
// evolutionary run, grounded on original_source/genetics/population.py and
// the teacher's neat/genetics/population.go.
type Population struct {
	Name             string
	CarryingCapacity int

	Species []*Species

	CompatibilityThreshold float64
	TargetSpecies          int
	ThresholdStep          float64
	ExcessFactor           float64
	DisjointFactor         float64
	WeightFactor           float64

	TotalAdjustedFitness float64

	FitnessFn FitnessFunc
	Registry  *InnovationRegistry

	// EvaluateParallel mirrors neat.Options.EvaluateParallel: when set,
	// evaluate() spreads FitnessFn calls over a runtime.GOMAXPROCS-bounded
	// worker pool instead of a single serial loop (spec §5).
	EvaluateParallel bool

	organismConfig OrganismConfig
}

// NewPopulation constructs a population of opts.CarryingCapacity organisms
// seeded into a single initial species (the open question in spec §9 is
// resolved as the source does: the initial population shares one species
// id). The innovation registry is cleared, per its population-init
// lifecycle (spec §3/§6).
func NewPopulation(opts *neat.Options, fitnessFn FitnessFunc, registry *InnovationRegistry) (*Population, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	registry.Clear()

	p := &Population{
		Name:                   opts.Name,
		CarryingCapacity:       opts.CarryingCapacity,
		CompatibilityThreshold: 0,
		TargetSpecies:          opts.Speciation.TargetSpecies,
		ThresholdStep:          opts.Speciation.ThresholdStep,
		ExcessFactor:           opts.Speciation.ExcessFactor,
		DisjointFactor:         opts.Speciation.DisjointFactor,
		WeightFactor:           opts.Speciation.WeightFactor,
		FitnessFn:              fitnessFn,
		Registry:               registry,
		EvaluateParallel:       opts.EvaluateParallel,
		organismConfig:         opts.Organism,
	}

	initial := NewSpecies(opts.Organism)
	for i := 0; i < opts.CarryingCapacity; i++ {
		initial.Add(NewOrganism(initial.ID, opts.Organism))
	}
	p.Species = []*Species{initial}
	return p, nil
}

// Compatibility computes the genetic distance between two organisms, per
// spec §4.F:
//
//	d = (E*excessFactor + D*disjointFactor) / N + W*weightFactor
//
// where E/D are excess/disjoint gene counts, N is the larger genome size,
// and W is the mean |Δweight| over shared pairs (0 if none). Shared pairs
// include disabled connections when averaging weight differences — a known
// issue from the source (spec §9) reproduced here rather than "fixed",
// since fixing it would change which organisms speciate together.
func (p *Population) Compatibility(o1, o2 *Organism) float64 {
	if len(o1.Genome) == 0 && len(o2.Genome) == 0 {
		return 0
	}

	_, shared, disjoint, excess := o1.GeneDistribution(o2)

	n := len(o1.Genome)
	if len(o2.Genome) > n {
		n = len(o2.Genome)
	}

	var meanWeightDelta float64
	if len(shared) > 0 {
		var total float64
		for _, pair := range shared {
			delta := pair.Self.Weight - pair.Other.Weight
			if delta < 0 {
				delta = -delta
			}
			total += delta
		}
		meanWeightDelta = total / float64(len(shared))
	}

	return (float64(len(excess))*p.ExcessFactor+float64(len(disjoint))*p.DisjointFactor)/float64(n) +
		meanWeightDelta*p.WeightFactor
}

// Best returns the organism with the greatest fitness across all species.
func (p *Population) Best() *Organism {
	var best *Organism
	for _, s := range p.Species {
		for _, o := range s.Organisms {
			if best == nil || o.Fitness > best.Fitness {
				best = o
			}
		}
	}
	return best
}

// allOrganisms flattens every species' members into a single slice.
func (p *Population) allOrganisms() []*Organism {
	var all []*Organism
	for _, s := range p.Species {
		all = append(all, s.Organisms...)
	}
	return all
}

// pickRepresentativeIndex picks a uniform index in [0,len) from pool,
// correcting the source's off-by-one (randint(0,len) then pop(i-1),
// effectively randint(-1,len-1) with -1 meaning "last") per spec §9.
func pickRepresentativeIndex(poolLen int) int {
	return rand.Intn(poolLen)
}
