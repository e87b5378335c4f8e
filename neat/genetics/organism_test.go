package genetics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() OrganismConfig {
	return OrganismConfig{Inputs: 3, Outputs: 2, MutationChance: 1}
}

func TestNewOrganismHasDenseInputOutputIDs(t *testing.T) {
	o := NewOrganism(uuid.New(), testConfig())
	require.Len(t, o.Nodes, 5)
	for i, n := range o.Nodes {
		assert.Equal(t, i, n.ID)
	}
	assert.Equal(t, InputNode, o.Nodes[0].Kind)
	assert.Equal(t, OutputNode, o.Nodes[3].Kind)
	assert.Empty(t, o.Genome)
}

// TestCloneProducesDetachedNodeCopies exercises the §5 ownership rebinding:
// a child's connections must reference the child's own node copies, not the
// parent's.
func TestCloneProducesDetachedNodeCopies(t *testing.T) {
	registry := NewInnovationRegistry(nil)
	o := NewOrganism(uuid.New(), testConfig())
	conn, err := NewConnectionGeneFromPool(o.Nodes, registry)
	require.NoError(t, err)
	o.Genome = append(o.Genome, conn)

	clone := o.Clone()
	require.Len(t, clone.Genome, 1)

	cloneNodeByID := make(map[int]*NodeGene)
	for _, n := range clone.Nodes {
		cloneNodeByID[n.ID] = n
	}
	assert.Same(t, cloneNodeByID[clone.Genome[0].Start.ID], clone.Genome[0].Start)
	assert.Same(t, cloneNodeByID[clone.Genome[0].End.ID], clone.Genome[0].End)
	assert.NotSame(t, o.Genome[0].Start, clone.Genome[0].Start)
}

// TestMutateAddNodeSplitsConnection is S5.
func TestMutateAddNodeSplitsConnection(t *testing.T) {
	registry := NewInnovationRegistry(nil)
	o := NewOrganism(uuid.New(), OrganismConfig{Inputs: 1, Outputs: 1})
	a, b := o.Nodes[0], o.Nodes[1]
	original := NewConnectionGene(a, b, 0.7, registry)
	o.Genome = []*ConnectionGene{original}

	require.NoError(t, o.mutateAddNode(registry))

	require.Len(t, o.Genome, 3)
	assert.False(t, original.Enabled)

	var toNew, fromNew *ConnectionGene
	for _, c := range o.Genome {
		if c == original {
			continue
		}
		if c.Start.ID == a.ID {
			toNew = c
		} else if c.End.ID == b.ID {
			fromNew = c
		}
	}
	require.NotNil(t, toNew)
	require.NotNil(t, fromNew)
	assert.Equal(t, 1.0, toNew.Weight)
	assert.Equal(t, 0.7, fromNew.Weight)
	assert.Equal(t, toNew.End.ID, fromNew.Start.ID)
	assert.Equal(t, HiddenNode, toNew.End.Kind)
}

func TestMutateRemoveNodeDropsItsConnections(t *testing.T) {
	registry := NewInnovationRegistry(nil)
	o := NewOrganism(uuid.New(), OrganismConfig{Inputs: 1, Outputs: 1})
	a, b := o.Nodes[0], o.Nodes[1]
	original := NewConnectionGene(a, b, 0.7, registry)
	o.Genome = []*ConnectionGene{original}
	require.NoError(t, o.mutateAddNode(registry))
	require.Len(t, o.Nodes, 3)

	require.NoError(t, o.mutateRemoveNode())

	hidden := o.hiddenNodes()
	assert.Empty(t, hidden)
	for _, c := range o.Genome {
		assert.NotEqual(t, HiddenNode, c.Start.Kind)
		assert.NotEqual(t, HiddenNode, c.End.Kind)
	}
}

func TestMutateAddConnectionAbortsOnDuplicate(t *testing.T) {
	registry := NewInnovationRegistry(nil)
	o := NewOrganism(uuid.New(), OrganismConfig{Inputs: 1, Outputs: 1})
	a, b := o.Nodes[0], o.Nodes[1]
	existing := NewConnectionGene(a, b, 0.5, registry)
	o.Genome = []*ConnectionGene{existing}

	// A 1-input/1-output organism's only possible connection is a↔b, so a
	// freshly drawn candidate is always equal to the existing one.
	require.NoError(t, o.mutateAddConnection(registry))
	assert.Len(t, o.Genome, 1)
}

// TestGeneDistributionPartitionsExhaustively is invariant 7: shared,
// disjoint and excess sets are mutually exclusive and their union accounts
// for every connection in the larger genome plus any smaller-genome
// leftovers.
func TestGeneDistributionPartitionsExhaustively(t *testing.T) {
	registry := NewInnovationRegistry(nil)

	// p1 has an extra OUTPUT node (id 4) that p2 does not, so a connection
	// to it can never match anything in p2's genome.
	p1 := NewOrganism(uuid.New(), OrganismConfig{Inputs: 2, Outputs: 3})
	p2 := NewOrganism(uuid.New(), OrganismConfig{Inputs: 2, Outputs: 2})

	shared1 := NewConnectionGene(p1.Nodes[0], p1.Nodes[2], 0.1, registry)
	shared2 := NewConnectionGene(p2.Nodes[0], p2.Nodes[2], 0.2, registry)
	p1Excess := NewConnectionGene(p1.Nodes[1], p1.Nodes[4], 0.4, registry)

	p1.Genome = []*ConnectionGene{shared1, p1Excess}
	p2.Genome = []*ConnectionGene{shared2}

	nodes, shared, disjoint, excess := p1.GeneDistribution(p2)
	assert.Len(t, nodes, len(p1.Nodes), "node list must come from the organism with more nodes")

	assert.Len(t, shared, 1)
	assert.Len(t, excess, 1)
	assert.Empty(t, disjoint)

	total := len(shared) + len(disjoint) + len(excess)
	assert.Equal(t, len(p1.Genome), total, "larger genome plus leftovers must equal shared+disjoint+excess")
}
