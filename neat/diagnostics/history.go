package diagnostics

import (
	"fmt"
	"io"
	"math"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// History accumulates Generation snapshots across a run, grounded on the
// teacher's experiment.Experiment/Trial run-level bookkeeping.
type History struct {
	Generations []*Generation
}

// Append records one generation's snapshot.
func (h *History) Append(g *Generation) {
	h.Generations = append(h.Generations, g)
}

// MeanFitnessSeries returns the run's mean-fitness-per-generation series.
func (h *History) MeanFitnessSeries() Floats {
	series := make(Floats, len(h.Generations))
	for i, g := range h.Generations {
		series[i], _ = g.Average()
	}
	return series
}

// BestFitnessSeries returns the run's best-organism-fitness-per-generation
// series.
func (h *History) BestFitnessSeries() Floats {
	series := make(Floats, len(h.Generations))
	for i, g := range h.Generations {
		if g.Best != nil {
			series[i] = g.Best.Fitness
		}
	}
	return series
}

// DiversitySeries returns the run's species-count-per-generation series.
func (h *History) DiversitySeries() Floats {
	series := make(Floats, len(h.Generations))
	for i, g := range h.Generations {
		series[i] = float64(g.Diversity)
	}
	return series
}

// WriteNPZ dumps the run's series to an NPZ archive:
//   - mean_fitness, best_fitness: one sample per generation
//   - diversity: species count per generation
//   - summary: [mean,variance] of mean_fitness across the whole run
func (h *History) WriteNPZ(w io.Writer) error {
	meanFitness := h.MeanFitnessSeries()
	bestFitness := h.BestFitnessSeries()
	diversity := h.DiversitySeries()

	summary := mat.NewDense(1, 2, runMeanVariance(meanFitness))

	out := npz.NewWriter(w)
	if err := out.Write("mean_fitness", []float64(meanFitness)); err != nil {
		return fmt.Errorf("diagnostics: write mean_fitness: %w", err)
	}
	if err := out.Write("best_fitness", []float64(bestFitness)); err != nil {
		return fmt.Errorf("diagnostics: write best_fitness: %w", err)
	}
	if err := out.Write("diversity", []float64(diversity)); err != nil {
		return fmt.Errorf("diagnostics: write diversity: %w", err)
	}
	if err := out.Write("summary", summary); err != nil {
		return fmt.Errorf("diagnostics: write summary: %w", err)
	}
	return out.Close()
}

// runMeanVariance reports [mean,variance] of a run's mean-fitness series,
// the spread of per-generation progress across the whole run. A run of
// fewer than two generations has no sample variance.
func runMeanVariance(series Floats) []float64 {
	if len(series) == 0 {
		return []float64{math.NaN(), math.NaN()}
	}
	if len(series) == 1 {
		return []float64{series[0], 0}
	}
	m, v := stat.MeanVariance(series, nil)
	return []float64{m, v}
}
