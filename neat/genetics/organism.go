// Package genetics implements the mutable genome (NodeGene + ConnectionGene
// graph), the innovation registry, species, and the population evolution
// loop described in spec §§3–4, grounded on original_source/genetics/*.py
// and the teacher's neat/genetics package layout.
package genetics

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/paul-bokelman/neat-go/neat"
	"github.com/paul-bokelman/neat-go/neat/utils"
)

var logger = neat.ForComponent("genetics")

// OrganismConfig is the §6 `organism.*` configuration bundle. It is an
// alias of neat.OrganismOptions so callers can pass the same record loaded
// from neat.Options straight through.
type OrganismConfig = neat.OrganismOptions

// Organism is the mutable genome described in spec §3: a UUID identity, an
// ordered node list, an ordered connection list, and fitness bookkeeping.
type Organism struct {
	ID        uuid.UUID
	SpeciesID uuid.UUID

	Nodes  []*NodeGene
	Genome []*ConnectionGene

	Fitness         float64
	AdjustedFitness float64

	Config OrganismConfig

	nextNodeID int
}

// NewOrganism constructs a fresh organism with exactly Config.Inputs INPUT
// nodes and Config.Outputs OUTPUT nodes, ids [0..inputs+outputs), and an
// empty genome — the "without a parent pair" construction path of spec §3.
func NewOrganism(speciesID uuid.UUID, config OrganismConfig) *Organism {
	o := &Organism{
		ID:        uuid.New(),
		SpeciesID: speciesID,
		Genome:    []*ConnectionGene{},
		Config:    config,
	}
	for i := 0; i < config.Inputs; i++ {
		o.Nodes = append(o.Nodes, NewNodeGeneRandomActivation(o.nextID(), InputNode))
	}
	for i := 0; i < config.Outputs; i++ {
		o.Nodes = append(o.Nodes, NewNodeGeneRandomActivation(o.nextID(), OutputNode))
	}
	return o
}

// newChildOrganism constructs an organism directly from a node list and
// genome, the crossover construction path of spec §4.E. The node list is
// cloned and connection endpoints are rebound to the clones by id (spec §5
// ownership note: a child's connections must reference the child's own
// node copies, never the parent's).
func newChildOrganism(speciesID uuid.UUID, config OrganismConfig, nodes []*NodeGene, genome []*ConnectionGene) *Organism {
	o := &Organism{
		ID:        uuid.New(),
		SpeciesID: speciesID,
		Config:    config,
	}
	byID := make(map[int]*NodeGene, len(nodes))
	maxID := -1
	for _, n := range nodes {
		clone := n.Clone()
		o.Nodes = append(o.Nodes, clone)
		byID[clone.ID] = clone
		if clone.ID > maxID {
			maxID = clone.ID
		}
	}
	o.nextNodeID = maxID + 1

	o.Genome = make([]*ConnectionGene, 0, len(genome))
	for _, c := range genome {
		clone := c.Clone()
		clone.Start = byID[c.Start.ID]
		clone.End = byID[c.End.ID]
		o.Genome = append(o.Genome, clone)
	}
	return o
}

// nextID returns the next monotone node id for this organism, per the §9
// design note: ids are a per-organism counter rather than recomputed from
// the current node count, so a removed id is never reissued.
func (o *Organism) nextID() int {
	id := o.nextNodeID
	o.nextNodeID++
	return id
}

// Clone returns a deep, detached copy of the organism sharing no node or
// connection identity with the original — used by S3 (compatibility of an
// organism and its deep copy is zero).
func (o *Organism) Clone() *Organism {
	return newChildOrganism(o.SpeciesID, o.Config, o.Nodes, o.Genome)
}

// hiddenNodes returns the organism's HIDDEN nodes.
func (o *Organism) hiddenNodes() []*NodeGene {
	var hidden []*NodeGene
	for _, n := range o.Nodes {
		if n.Kind == HiddenNode {
			hidden = append(hidden, n)
		}
	}
	return hidden
}

// Mutate applies the probabilistic branching described in spec §4.C.
func (o *Organism) Mutate(registry *InnovationRegistry) error {
	c := o.Config
	if utils.Chance(c.StructuralMutationChance) {
		return o.mutateStructural(registry)
	}
	return o.mutateNonStructural()
}

func (o *Organism) mutateStructural(registry *InnovationRegistry) error {
	c := o.Config
	if utils.Chance(c.StructuralConnectionMutationChance) {
		if len(o.Genome) == 0 || utils.Chance(c.StructuralConnectionAdditionChance) {
			return o.mutateAddConnection(registry)
		}
		return o.mutateRemoveConnection()
	}
	if len(o.hiddenNodes()) == 0 || utils.Chance(c.StructuralNodeAdditionChance) {
		return o.mutateAddNode(registry)
	}
	return o.mutateRemoveNode()
}

// mutateAddConnection adds a new random connection. If it is equal (by
// endpoint set) to an existing one, the mutation silently aborts — per
// spec §4.C / §7, a duplicate-connection attempt is not an error.
func (o *Organism) mutateAddConnection(registry *InnovationRegistry) error {
	candidate, err := o.addRandomConnection(registry)
	if err != nil {
		return err
	}
	for _, existing := range o.Genome {
		if candidate.Equal(existing) {
			logger.Debug(fmt.Sprintf("organism %s: drew duplicate connection %d->%d, aborting mutation",
				o.ID, candidate.Start.ID, candidate.End.ID))
			return nil
		}
	}
	o.Genome = append(o.Genome, candidate)
	return nil
}

// addRandomConnection draws a start/end pair from the organism's nodes and
// registers it with the innovation registry, per spec §4.C.
func (o *Organism) addRandomConnection(registry *InnovationRegistry) (*ConnectionGene, error) {
	return NewConnectionGeneFromPool(o.Nodes, registry)
}

func (o *Organism) mutateRemoveConnection() error {
	if len(o.Genome) == 0 {
		return nil
	}
	idx := rand.Intn(len(o.Genome))
	o.Genome = append(o.Genome[:idx], o.Genome[idx+1:]...)
	return nil
}

// mutateAddNode inserts a new HIDDEN node splitting a randomly chosen
// existing connection, per spec §4.C / S5.
func (o *Organism) mutateAddNode(registry *InnovationRegistry) error {
	newNode := NewNodeGeneRandomActivation(o.nextID(), HiddenNode)
	o.Nodes = append(o.Nodes, newNode)

	if len(o.Genome) == 0 {
		conn, err := o.addRandomConnection(registry)
		if err != nil {
			return err
		}
		o.Genome = append(o.Genome, conn)
		return nil
	}

	split := o.Genome[rand.Intn(len(o.Genome))]
	split.Disable()

	left := NewConnectionGene(split.Start, newNode, 1, registry)
	right := NewConnectionGene(newNode, split.End, split.Weight, registry)
	o.Genome = append(o.Genome, left, right)
	return nil
}

// mutateRemoveNode deletes a uniformly-random hidden node and every
// connection it participates in, per spec invariant 3.
func (o *Organism) mutateRemoveNode() error {
	hidden := o.hiddenNodes()
	if len(hidden) == 0 {
		return nil
	}
	victim := hidden[rand.Intn(len(hidden))]

	nodes := o.Nodes[:0:0]
	for _, n := range o.Nodes {
		if n.ID != victim.ID {
			nodes = append(nodes, n)
		}
	}
	o.Nodes = nodes

	genome := o.Genome[:0:0]
	for _, c := range o.Genome {
		if !c.IsConnectedTo(victim) {
			genome = append(genome, c)
		}
	}
	o.Genome = genome
	return nil
}

func (o *Organism) mutateNonStructural() error {
	c := o.Config
	hidden := o.hiddenNodes()
	if utils.Chance(c.ActivationFunctionMutationChance) && len(hidden) > 0 {
		hidden[rand.Intn(len(hidden))].RollActivation()
		return nil
	}
	if len(o.Genome) > 0 {
		o.Genome[rand.Intn(len(o.Genome))].RandomizeWeight(0.2)
	}
	return nil
}

// sharedPair is one (c1,c2) pair of equal connections from two genomes.
type sharedPair struct {
	Self  *ConnectionGene
	Other *ConnectionGene
}

// GeneDistribution aligns this organism's genome against other's by
// innovation, per spec §4.C. Returns the node list of whichever organism has
// more nodes (ties: this organism), the shared connection pairs, the
// disjoint connections, and the excess connections.
func (o *Organism) GeneDistribution(other *Organism) (nodes []*NodeGene, shared []sharedPair, disjoint, excess []*ConnectionGene) {
	larger, smaller := o, other
	if len(other.Genome) > len(o.Genome) {
		larger, smaller = other, o
	}

	nodeSource := o
	if len(other.Nodes) > len(o.Nodes) {
		nodeSource = other
	}
	nodes = nodeSource.Nodes

	remaining := make([]*ConnectionGene, len(smaller.Genome))
	copy(remaining, smaller.Genome)

	maxSmallerInnovation := 0
	for _, c := range smaller.Genome {
		if c.Innovation > maxSmallerInnovation {
			maxSmallerInnovation = c.Innovation
		}
	}

	for _, c1 := range larger.Genome {
		matchIdx := -1
		for i, c2 := range remaining {
			if c1.Equal(c2) {
				matchIdx = i
				break
			}
		}
		if matchIdx >= 0 {
			shared = append(shared, sharedPair{Self: c1, Other: remaining[matchIdx]})
			remaining = append(remaining[:matchIdx], remaining[matchIdx+1:]...)
		} else if c1.Innovation > maxSmallerInnovation {
			excess = append(excess, c1)
		} else {
			disjoint = append(disjoint, c1)
		}
	}
	disjoint = append(disjoint, remaining...)
	return nodes, shared, disjoint, excess
}
