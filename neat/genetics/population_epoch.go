package genetics

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/paul-bokelman/neat-go/neat"
	"github.com/paul-bokelman/neat-go/neat/utils"
)

// Evolve runs exactly one generation in the order spec §4.F requires:
// evaluate, adapt threshold, re-speciate, fitness-share, reproduce. Steps
// 2-5 run serially as spec §5 requires; ctx is checked between species
// during reproduction for cooperative cancellation only, grounded on the
// teacher's species.reproduce(ctx, ...) pattern.
func (p *Population) Evolve(ctx context.Context) error {
	p.evaluate()
	p.adaptThreshold()

	if err := p.respeciate(); err != nil {
		return err
	}

	p.shareFitness()

	if p.TotalAdjustedFitness == 0 {
		return neat.ErrDegenerateFitness
	}

	return p.reproduce(ctx)
}

// evaluate computes fitness for every organism via the external callback
// (spec §4.F step 1). Organisms do not mutate shared state during
// evaluation, so when EvaluateParallel is set the work is spread over a
// worker pool instead of running serially (spec §5).
func (p *Population) evaluate() {
	if p.EvaluateParallel {
		p.evaluateParallel()
		return
	}
	for _, s := range p.Species {
		for _, o := range s.Organisms {
			o.Fitness = p.FitnessFn(o)
		}
	}
}

// evaluateParallel runs FitnessFn over every organism on a pool of workers
// bounded by runtime.GOMAXPROCS, grounded on the teacher's
// examples/pole2/cart2pole_parallel.go worker/jobs-channel/WaitGroup
// pattern. Each job owns a distinct organism, so workers never touch the
// same Organism.Fitness field and no further synchronization is needed.
func (p *Population) evaluateParallel() {
	organisms := p.allOrganisms()
	if len(organisms) == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(organisms) {
		workers = len(organisms)
	}

	jobs := make(chan *Organism, len(organisms))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for o := range jobs {
				o.Fitness = p.FitnessFn(o)
			}
		}()
	}

	for _, o := range organisms {
		jobs <- o
	}
	close(jobs)
	wg.Wait()
}

// adaptThreshold nudges the compatibility threshold towards TargetSpecies,
// per spec §4.F step 2. Clamped at 0: the source lets the threshold go
// negative, which only ever makes every organism incompatible with every
// other (every species becomes a singleton) — a documented hardening over
// the source rather than a behavior the spec requires preserving verbatim,
// per the §9 design note permitting the clamp.
func (p *Population) adaptThreshold() {
	switch {
	case len(p.Species) > p.TargetSpecies:
		p.CompatibilityThreshold += p.ThresholdStep
	case len(p.Species) < p.TargetSpecies:
		p.CompatibilityThreshold -= p.ThresholdStep
		if p.CompatibilityThreshold < 0 {
			p.CompatibilityThreshold = 0
		}
	}
}

// respeciate pools every organism and rebuilds the species list from
// scratch around randomly chosen representatives, per spec §4.F step 3.
func (p *Population) respeciate() error {
	pool := p.allOrganisms()
	var updated []*Species

	for len(pool) > 0 {
		repIdx := pickRepresentativeIndex(len(pool))
		representative := pool[repIdx]
		pool = append(pool[:repIdx], pool[repIdx+1:]...)

		species := NewSpecies(p.organismConfig)
		species.Add(representative)

		snapshot := make([]*Organism, len(pool))
		copy(snapshot, pool)

		var remaining []*Organism
		for _, o := range snapshot {
			if p.Compatibility(representative, o) < p.CompatibilityThreshold {
				species.Add(o)
			} else {
				remaining = append(remaining, o)
			}
		}
		pool = remaining

		updated = append(updated, species)
	}

	p.Species = updated
	return nil
}

// shareFitness applies fitness sharing within every species and recomputes
// the population-wide total adjusted fitness, per spec §4.F step 4.
func (p *Population) shareFitness() {
	var total float64
	for _, s := range p.Species {
		s.ApplyAdjustedFitness()
		total += s.TotalAdjustedFitness
	}
	p.TotalAdjustedFitness = total
}

// reproduce runs tournament selection and crossover within every species,
// per spec §4.F step 5, dropping any species left with zero organisms
// (spec §7 EmptySpecies: not an error, the species is simply dropped).
func (p *Population) reproduce(ctx context.Context) error {
	var survivors []*Species

	for _, s := range p.Species {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		quota, err := s.AllowedOffspring(p.TotalAdjustedFitness, p.CarryingCapacity)
		if err != nil {
			return err
		}

		var newOrganisms []*Organism
		if s.Len() < 2 {
			newOrganisms, err = p.reproduceSingleton(s, quota)
		} else {
			newOrganisms, err = p.reproduceTournament(s, quota)
		}
		if err != nil {
			return err
		}

		if len(newOrganisms) == 0 {
			logger.Debug(fmt.Sprintf("species %s produced no offspring, dropping", s.ID))
			continue
		}
		s.Organisms = newOrganisms
		survivors = append(survivors, s)
	}

	p.Species = survivors
	return nil
}

// reproduceSingleton emits quota copies of a species' single member, each
// independently mutated with probability Config.MutationChance.
func (p *Population) reproduceSingleton(s *Species, quota int) ([]*Organism, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("reproduce: species %s has no organisms", s.ID)
	}
	source := s.Get(0)

	organisms := make([]*Organism, 0, quota)
	for i := 0; i < quota; i++ {
		copyOrg := source.Clone()
		if utils.Chance(s.Config.MutationChance) {
			if err := copyOrg.Mutate(p.Registry); err != nil {
				return nil, err
			}
		}
		organisms = append(organisms, copyOrg)
	}
	return organisms, nil
}

// reproduceTournament runs 2*quota pairwise tournaments, splits the winners
// in half, and crosses each pair, per spec §4.F step 5.
func (p *Population) reproduceTournament(s *Species, quota int) ([]*Organism, error) {
	candidates := make([]*Organism, 0, 2*quota)
	for i := 0; i < 2*quota; i++ {
		p1Idx, err := utils.RandomExclude(0, s.Len()-1)
		if err != nil {
			return nil, err
		}
		p2Idx, err := utils.RandomExclude(0, s.Len()-1, p1Idx)
		if err != nil {
			return nil, err
		}
		p1, p2 := s.Get(p1Idx), s.Get(p2Idx)
		if p1.Fitness > p2.Fitness {
			candidates = append(candidates, p1)
		} else {
			candidates = append(candidates, p2)
		}
	}

	mid := len(candidates) / 2
	newOrganisms := make([]*Organism, 0, mid)
	for i := 0; i < mid; i++ {
		child, err := s.Crossover(candidates[i], candidates[mid+i], p.Registry)
		if err != nil {
			return nil, err
		}
		child.Fitness = p.FitnessFn(child)
		newOrganisms = append(newOrganisms, child)
	}
	return newOrganisms, nil
}
