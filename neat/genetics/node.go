package genetics

import (
	"fmt"

	neatmath "github.com/paul-bokelman/neat-go/neat/math"
)

// NodeKind identifies the role a NodeGene plays in the network.
type NodeKind byte

const (
	// InputNode is a sensor; it is never a connection destination.
	InputNode NodeKind = iota + 1
	// OutputNode is an effector; it is never a connection source.
	OutputNode
	// HiddenNode is an interior node free to be either endpoint.
	HiddenNode
)

func (k NodeKind) String() string {
	switch k {
	case InputNode:
		return "INPUT"
	case OutputNode:
		return "OUTPUT"
	case HiddenNode:
		return "HIDDEN"
	default:
		return "UNKNOWN"
	}
}

// NodeGene is a single node in an organism's genome. Kind is fixed at
// construction; id is unique within the owning organism for its lifetime
// (see the monotone-counter design note in SPEC_FULL.md §9 — ids are
// assigned by the organism, not recomputed from the current node count,
// so a removed id is never reissued).
type NodeGene struct {
	ID         int
	Kind       NodeKind
	Activation neatmath.ActivationFunction

	value    float64
	hasValue bool
}

// NewNodeGene constructs a node of the given kind with an explicit
// activation. INPUT nodes are always Linear, per spec invariant.
func NewNodeGene(id int, kind NodeKind, activation neatmath.ActivationFunction) *NodeGene {
	if kind == InputNode {
		activation = neatmath.NewActivationFunction(neatmath.LinearActivation)
	}
	return &NodeGene{ID: id, Kind: kind, Activation: activation}
}

// NewNodeGeneRandomActivation constructs a node of the given kind with a
// uniformly-chosen activation function (INPUT nodes are still forced to
// Linear).
func NewNodeGeneRandomActivation(id int, kind NodeKind) *NodeGene {
	if kind == InputNode {
		return NewNodeGene(id, kind, neatmath.NewActivationFunction(neatmath.LinearActivation))
	}
	return NewNodeGene(id, kind, neatmath.RandomActivationFunction())
}

// RollActivation re-rolls the node's activation function to a new uniformly
// chosen variant. Never called on INPUT nodes by mutation (see Organism.Mutate).
func (n *NodeGene) RollActivation() {
	n.Activation = neatmath.RandomActivationFunction()
}

// Activate applies the node's activation function to input and stores the
// result as the node's transient value.
func (n *NodeGene) Activate(input float64) {
	n.value = n.Activation.Activate(input)
	n.hasValue = true
}

// Value returns the node's transient value and whether it has been set
// since the last Clear.
func (n *NodeGene) Value() (float64, bool) {
	return n.value, n.hasValue
}

// Clear resets the node's transient value.
func (n *NodeGene) Clear() {
	n.value = 0
	n.hasValue = false
}

// Clone returns a detached copy of the node, value cleared.
func (n *NodeGene) Clone() *NodeGene {
	return &NodeGene{ID: n.ID, Kind: n.Kind, Activation: n.Activation}
}

func (n *NodeGene) String() string {
	return fmt.Sprintf("Node(id=%d kind=%s activation=%s)", n.ID, n.Kind, n.Activation)
}
