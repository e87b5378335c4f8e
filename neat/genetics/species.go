package genetics

import (
	"math"

	"github.com/google/uuid"
	"github.com/paul-bokelman/neat-go/neat"
	"github.com/paul-bokelman/neat-go/neat/utils"
)

// Species groups compatible organisms, grounded on
// original_source/genetics/species.py.
type Species struct {
	ID        uuid.UUID
	Organisms []*Organism
	Config    OrganismConfig

	AverageFitness         float64
	TotalFitness           float64
	TotalAdjustedFitness   float64
	AverageAdjustedFitness float64
}

// NewSpecies constructs an empty species carrying the given organism
// configuration (used to build crossover children).
func NewSpecies(config OrganismConfig) *Species {
	return &Species{ID: uuid.New(), Config: config}
}

// Add appends an organism to the species and reassigns its SpeciesID.
func (s *Species) Add(o *Organism) {
	o.SpeciesID = s.ID
	s.Organisms = append(s.Organisms, o)
}

// Get returns the organism at index i.
func (s *Species) Get(i int) *Organism {
	return s.Organisms[i]
}

// Remove deletes the organism at index i.
func (s *Species) Remove(i int) {
	s.Organisms = append(s.Organisms[:i], s.Organisms[i+1:]...)
}

// Len returns the number of organisms in the species.
func (s *Species) Len() int {
	return len(s.Organisms)
}

// ApplyAdjustedFitness computes each member's adjusted fitness (fitness
// shared across the species) and recomputes the species' aggregates, per
// spec §4.E and invariant 4.
func (s *Species) ApplyAdjustedFitness() {
	n := len(s.Organisms)
	if n == 0 {
		return
	}
	var totalFitness, totalAdjusted float64
	for _, o := range s.Organisms {
		o.AdjustedFitness = o.Fitness / float64(n)
		totalFitness += o.Fitness
		totalAdjusted += o.AdjustedFitness
	}
	s.TotalFitness = totalFitness
	s.TotalAdjustedFitness = totalAdjusted
	s.AverageFitness = totalFitness / float64(n)
	s.AverageAdjustedFitness = totalAdjusted / float64(n)
}

// AllowedOffspring computes the species' offspring quota proportional to
// its share of the population's total adjusted fitness, per spec §4.E.
func (s *Species) AllowedOffspring(popTotalAdjusted float64, populationSize int) (int, error) {
	if popTotalAdjusted == 0 {
		return 0, neat.ErrDegenerateFitness
	}
	share := s.TotalAdjustedFitness / popTotalAdjusted
	return int(math.Round(share * float64(populationSize))), nil
}

// Crossover produces a single child organism from two parents, per spec
// §4.E: disjoint and excess genes pass through unconditionally, each
// shared pair contributes one side with probability 0.5, and the child may
// be mutated with probability Config.MutationChance.
func (s *Species) Crossover(p1, p2 *Organism, registry *InnovationRegistry) (*Organism, error) {
	nodes, shared, disjoint, excess := p1.GeneDistribution(p2)

	childGenome := make([]*ConnectionGene, 0, len(disjoint)+len(excess)+len(shared))
	childGenome = append(childGenome, disjoint...)
	childGenome = append(childGenome, excess...)
	for _, pair := range shared {
		if utils.Chance(0.5) {
			childGenome = append(childGenome, pair.Self)
		} else {
			childGenome = append(childGenome, pair.Other)
		}
	}

	child := newChildOrganism(s.ID, s.Config, nodes, childGenome)

	if utils.Chance(s.Config.MutationChance) {
		if err := child.Mutate(registry); err != nil {
			return nil, err
		}
	}
	return child, nil
}
