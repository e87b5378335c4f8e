package genetics

import (
	"fmt"
	"math/rand"

	"github.com/paul-bokelman/neat-go/neat"
)

// ConnectionGene is a weighted directed edge between two node genes,
// grounded on original_source/genetics/genes.py's ConnectionGene.
type ConnectionGene struct {
	Start      *NodeGene
	End        *NodeGene
	Weight     float64
	Enabled    bool
	Innovation int
}

// newConnectionGene builds a connection between the given nodes, applying
// the §3 orientation rule before registering its innovation number.
func newConnectionGene(start, end *NodeGene, weight float64, enabled bool, registry *InnovationRegistry) *ConnectionGene {
	c := &ConnectionGene{Start: start, End: end, Weight: weight, Enabled: enabled}
	c.reorient()
	c.Innovation = registry.GetOrAssign(c.Start.ID, c.End.ID)
	return c
}

// NewConnectionGene constructs an enabled connection of the given weight
// between two explicit nodes. Used when the endpoints are already chosen
// (e.g. node-addition splitting an existing connection).
func NewConnectionGene(start, end *NodeGene, weight float64, registry *InnovationRegistry) *ConnectionGene {
	return newConnectionGene(start, end, weight, true, registry)
}

// NewConnectionGeneFromPool draws a start/end pair from nodes: copy, shuffle,
// pop the first as start, then take the first subsequent node whose kind
// differs from start's kind as end. Fails with ErrInvalidConnection if no
// such node exists (e.g. a pool of only inputs, or only one node).
func NewConnectionGeneFromPool(nodes []*NodeGene, registry *InnovationRegistry) (*ConnectionGene, error) {
	if len(nodes) == 0 {
		return nil, neat.ErrInvalidConnection
	}
	pool := make([]*NodeGene, len(nodes))
	copy(pool, nodes)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	start := pool[0]
	pool = pool[1:]

	var end *NodeGene
	for _, candidate := range pool {
		if candidate.Kind != start.Kind {
			end = candidate
			break
		}
	}
	if end == nil {
		return nil, neat.ErrInvalidConnection
	}
	weight := rand.Float64()*2 - 1
	return newConnectionGene(start, end, weight, true, registry), nil
}

// reorient enforces: inputs are never destinations, outputs are never
// sources, and HIDDEN->HIDDEN is ordered by ascending id.
func (c *ConnectionGene) reorient() {
	if c.End.Kind == InputNode {
		c.Start, c.End = c.End, c.Start
	} else if c.Start.Kind == OutputNode {
		c.Start, c.End = c.End, c.Start
	} else if c.Start.Kind == HiddenNode && c.End.Kind == HiddenNode && c.Start.ID > c.End.ID {
		c.Start, c.End = c.End, c.Start
	}
}

// Disable marks the connection disabled.
func (c *ConnectionGene) Disable() { c.Enabled = false }

// Enable marks the connection enabled.
func (c *ConnectionGene) Enable() { c.Enabled = true }

// RandomizeWeight reassigns the weight to uniform(-1,1) scaled by factor.
func (c *ConnectionGene) RandomizeWeight(factor float64) {
	c.Weight = (rand.Float64()*2 - 1) * factor
}

// IsConnectedTo reports whether node is either endpoint of this connection.
func (c *ConnectionGene) IsConnectedTo(node *NodeGene) bool {
	return c.Start.ID == node.ID || c.End.ID == node.ID
}

// Equal reports whether two connections share the same unordered endpoint
// set, per spec's equality rule (innovation numbers are not compared).
func (c *ConnectionGene) Equal(other *ConnectionGene) bool {
	return (c.Start.ID == other.Start.ID && c.End.ID == other.End.ID) ||
		(c.Start.ID == other.End.ID && c.End.ID == other.Start.ID)
}

// Clone returns a detached copy of the connection still pointing at the
// same node identities; callers that copy the node list must rebind
// endpoints (see newChildOrganism).
func (c *ConnectionGene) Clone() *ConnectionGene {
	clone := *c
	return &clone
}

func (c *ConnectionGene) String() string {
	enabled := ""
	if !c.Enabled {
		enabled = " -DISABLED-"
	}
	return fmt.Sprintf("inv=%d %d->%d w=%.3f%s", c.Innovation, c.Start.ID, c.End.ID, c.Weight, enabled)
}
