// Package network implements the recursive feed-forward phenotype
// evaluator described in spec §4.D, grounded on
// original_source/nn/network.py's FeedForwardNetwork.
package network

import (
	"fmt"

	"github.com/paul-bokelman/neat-go/neat"
	"github.com/paul-bokelman/neat-go/neat/genetics"
	"github.com/pkg/errors"
)

var logger = neat.ForComponent("network")

// FeedForwardNetwork is the phenotype derived from an organism's genome: a
// fixed set of nodes and the subset of its connections that are enabled.
type FeedForwardNetwork struct {
	nInputs            int
	nodes              []*genetics.NodeGene
	enabledConnections []*genetics.ConnectionGene
}

// NewFromOrganism constructs the phenotype for an organism's current
// genome, "on demand for evaluation" per spec §2's data flow.
func NewFromOrganism(o *genetics.Organism) *FeedForwardNetwork {
	return NewFeedForwardNetwork(o.Config.Inputs, o.Nodes, o.Genome)
}

// NewFeedForwardNetwork constructs the evaluator for the given node and
// connection genes, keeping only enabled connections as spec §4.D requires.
func NewFeedForwardNetwork(nInputs int, nodes []*genetics.NodeGene, connections []*genetics.ConnectionGene) *FeedForwardNetwork {
	enabled := make([]*genetics.ConnectionGene, 0, len(connections))
	for _, c := range connections {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	return &FeedForwardNetwork{nInputs: nInputs, nodes: nodes, enabledConnections: enabled}
}

// Propagate evaluates the network for the given input vector, returning the
// OUTPUT nodes' values in the order they appear in the node list.
func (n *FeedForwardNetwork) Propagate(inputs []float64) ([]float64, error) {
	if len(inputs) != n.nInputs {
		return nil, errors.Wrapf(neat.ErrShapeMismatch, "expected %d inputs, got %d", n.nInputs, len(inputs))
	}

	for _, node := range n.nodes {
		node.Clear()
	}

	for i, input := range inputs {
		for _, node := range n.nodes {
			if node.ID == i {
				node.Activate(input)
				break
			}
		}
	}

	visiting := map[int]bool{}
	outputs := make([]float64, 0, len(n.nodes))
	for _, node := range n.nodes {
		if node.Kind == genetics.OutputNode {
			n.computeRoot(node, visiting)
			value, _ := node.Value()
			outputs = append(outputs, value)
		}
	}
	return outputs, nil
}

// computeRoot recursively computes node's value from its incoming enabled
// connections. visiting guards against the possibly-cyclic graphs spec §9
// warns mutation does not forbid: a node re-entered while still being
// computed contributes 0 to its dependent's sum instead of recursing
// forever, a documented permitted hardening over the source.
func (n *FeedForwardNetwork) computeRoot(node *genetics.NodeGene, visiting map[int]bool) {
	if _, ok := node.Value(); ok {
		return
	}
	if visiting[node.ID] {
		logger.Warn(fmt.Sprintf("cycle detected at node %d, treating as zero contribution", node.ID))
		return
	}
	visiting[node.ID] = true
	defer delete(visiting, node.ID)

	sum := 0.0
	for _, c := range n.enabledConnections {
		if c.End.ID != node.ID {
			continue
		}
		n.computeRoot(c.Start, visiting)
		startValue, ok := c.Start.Value()
		if !ok {
			// The start node is mid-computation on a cycle; treat as 0.
			continue
		}
		sum += c.Weight * startValue
	}
	node.Activate(sum)
}
