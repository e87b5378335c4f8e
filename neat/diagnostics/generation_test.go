package diagnostics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paul-bokelman/neat-go/neat"
	"github.com/paul-bokelman/neat-go/neat/genetics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *neat.Options {
	return &neat.Options{
		Name:             "test",
		CarryingCapacity: 4,
		Speciation: neat.SpeciationOptions{
			TargetSpecies:  1,
			ThresholdStep:  1,
			ExcessFactor:   1,
			DisjointFactor: 1,
			WeightFactor:   0.4,
		},
		Organism: neat.OrganismOptions{Inputs: 2, Outputs: 1},
	}
}

func TestCollectSummarizesBestPerSpecies(t *testing.T) {
	registry := genetics.NewInnovationRegistry(nil)
	pop, err := genetics.NewPopulation(testOptions(), func(o *genetics.Organism) float64 { return 0 }, registry)
	require.NoError(t, err)

	pop.Species[0].Get(0).Fitness = 1
	pop.Species[0].Get(1).Fitness = 7

	gen := Collect(0, pop)
	require.NotNil(t, gen.Best)
	assert.Equal(t, 7.0, gen.Best.Fitness)
	assert.Equal(t, 1, gen.Diversity)
}

func TestHistorySeriesTrackGenerations(t *testing.T) {
	h := &History{}
	h.Append(&Generation{Index: 0, Fitness: Floats{1, 3}, Diversity: 2, Best: &genetics.Organism{ID: uuid.New(), Fitness: 3}})
	h.Append(&Generation{Index: 1, Fitness: Floats{5, 7}, Diversity: 3, Best: &genetics.Organism{ID: uuid.New(), Fitness: 7}})

	assert.Equal(t, Floats{2, 6}, h.MeanFitnessSeries())
	assert.Equal(t, Floats{3, 7}, h.BestFitnessSeries())
	assert.Equal(t, Floats{2, 3}, h.DiversitySeries())
}
