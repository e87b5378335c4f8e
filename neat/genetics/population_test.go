package genetics

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/paul-bokelman/neat-go/neat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *neat.Options {
	return &neat.Options{
		Name:             "test",
		CarryingCapacity: 10,
		Speciation: neat.SpeciationOptions{
			TargetSpecies:  2,
			ThresholdStep:  1,
			ExcessFactor:   1,
			DisjointFactor: 1,
			WeightFactor:   0.4,
		},
		Organism: neat.OrganismOptions{
			Inputs:         3,
			Outputs:        1,
			MutationChance: 0.5,
		},
	}
}

func newTestPopulation(t *testing.T, fn FitnessFunc) *Population {
	t.Helper()
	registry := NewInnovationRegistry(nil)
	pop, err := NewPopulation(testOptions(), fn, registry)
	require.NoError(t, err)
	return pop
}

func constantFitness(v float64) FitnessFunc {
	return func(*Organism) float64 { return v }
}

// TestCompatibilityZeroForEmptyGenomes and TestCompatibilityOfDeepCopyIsZero
// together cover S3 and invariant 6.
func TestCompatibilityZeroForEmptyGenomes(t *testing.T) {
	pop := newTestPopulation(t, constantFitness(1))
	o1 := NewOrganism(pop.Species[0].ID, pop.organismConfig)
	o2 := NewOrganism(pop.Species[0].ID, pop.organismConfig)
	assert.Equal(t, 0.0, pop.Compatibility(o1, o2))
}

func TestCompatibilityOfDeepCopyIsZero(t *testing.T) {
	registry := NewInnovationRegistry(nil)
	pop := newTestPopulation(t, constantFitness(1))
	o := NewOrganism(pop.Species[0].ID, pop.organismConfig)
	conn, err := NewConnectionGeneFromPool(o.Nodes, registry)
	require.NoError(t, err)
	o.Genome = append(o.Genome, conn)

	clone := o.Clone()
	assert.Equal(t, 0.0, pop.Compatibility(o, clone))
}

func TestCompatibilityIsSymmetric(t *testing.T) {
	registry := NewInnovationRegistry(nil)
	pop := newTestPopulation(t, constantFitness(1))
	o1 := NewOrganism(pop.Species[0].ID, pop.organismConfig)
	o2 := NewOrganism(pop.Species[0].ID, pop.organismConfig)

	c1, err := NewConnectionGeneFromPool(o1.Nodes, registry)
	require.NoError(t, err)
	o1.Genome = append(o1.Genome, c1)

	assert.Equal(t, pop.Compatibility(o1, o2), pop.Compatibility(o2, o1))
}

// TestThresholdAdaptation is S4.
func TestThresholdAdaptation(t *testing.T) {
	pop := newTestPopulation(t, constantFitness(1))
	pop.CompatibilityThreshold = 0
	pop.TargetSpecies = 2

	pop.Species = make([]*Species, 5)
	for i := range pop.Species {
		pop.Species[i] = NewSpecies(pop.organismConfig)
	}
	pop.adaptThreshold()
	assert.Equal(t, 1.0, pop.CompatibilityThreshold)

	pop.Species = make([]*Species, 1)
	pop.Species[0] = NewSpecies(pop.organismConfig)
	pop.adaptThreshold()
	assert.Equal(t, 0.0, pop.CompatibilityThreshold)
}

func TestThresholdNeverGoesNegative(t *testing.T) {
	pop := newTestPopulation(t, constantFitness(1))
	pop.CompatibilityThreshold = 0.2
	pop.ThresholdStep = 1
	pop.TargetSpecies = 10
	pop.Species = []*Species{NewSpecies(pop.organismConfig)}

	pop.adaptThreshold()
	assert.Equal(t, 0.0, pop.CompatibilityThreshold)
}

func TestBestAcrossSpecies(t *testing.T) {
	pop := newTestPopulation(t, constantFitness(1))
	low := pop.Species[0].Get(0)
	low.Fitness = 1
	high := pop.Species[0].Get(1)
	high.Fitness = 9

	assert.Same(t, high, pop.Best())
}

func TestEvolveRunsOneGeneration(t *testing.T) {
	pop := newTestPopulation(t, func(o *Organism) float64 { return 1 })
	err := pop.Evolve(context.Background())
	require.NoError(t, err)

	total := 0
	for _, s := range pop.Species {
		total += s.Len()
	}
	assert.InDelta(t, pop.CarryingCapacity, total, float64(len(pop.Species)))
}

func TestEvolveFailsOnDegenerateFitness(t *testing.T) {
	pop := newTestPopulation(t, constantFitness(0))
	err := pop.Evolve(context.Background())
	assert.ErrorIs(t, err, neat.ErrDegenerateFitness)
}

// TestEvaluateParallelMatchesSerial covers spec §5's permission to
// evaluate fitnessFn concurrently: every organism still gets exactly one
// fitness call, and every organism's fitness lands regardless of which
// worker picked it up.
func TestEvaluateParallelMatchesSerial(t *testing.T) {
	var calls int64
	pop := newTestPopulation(t, func(o *Organism) float64 {
		atomic.AddInt64(&calls, 1)
		return 1
	})
	pop.EvaluateParallel = true

	pop.evaluate()

	assert.EqualValues(t, pop.CarryingCapacity, calls)
	for _, o := range pop.allOrganisms() {
		assert.Equal(t, 1.0, o.Fitness)
	}
}
