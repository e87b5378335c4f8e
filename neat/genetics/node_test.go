package genetics

import (
	"testing"

	neatmath "github.com/paul-bokelman/neat-go/neat/math"
	"github.com/stretchr/testify/assert"
)

func TestNewNodeGeneForcesLinearForInput(t *testing.T) {
	n := NewNodeGene(0, InputNode, neatmath.NewActivationFunction(neatmath.SigmoidActivation))
	assert.Equal(t, neatmath.LinearActivation, n.Activation.Type())
}

func TestNodeGeneActivateAndClear(t *testing.T) {
	n := NewNodeGene(1, HiddenNode, neatmath.NewActivationFunction(neatmath.LinearActivation))
	_, ok := n.Value()
	assert.False(t, ok)

	n.Activate(2.5)
	v, ok := n.Value()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	n.Clear()
	_, ok = n.Value()
	assert.False(t, ok)
}

func TestNodeGeneClone(t *testing.T) {
	n := NewNodeGene(3, OutputNode, neatmath.NewActivationFunction(neatmath.TanhActivation))
	n.Activate(1)

	clone := n.Clone()
	assert.Equal(t, n.ID, clone.ID)
	assert.Equal(t, n.Kind, clone.Kind)
	assert.True(t, clone.Activation.Equal(n.Activation))

	_, ok := clone.Value()
	assert.False(t, ok, "clone must start with a cleared value")
}
