// Package math provides the small closed set of scalar activation
// functions used by node genes and the feed-forward phenotype evaluator.
package math

import (
	"fmt"
	"math"
	"math/rand"
)

// ActivationType names one of the four supported activation variants.
type ActivationType byte

const (
	// LinearActivation passes its input through unchanged.
	LinearActivation ActivationType = iota + 1
	// SigmoidActivation squashes its input into (0,1).
	SigmoidActivation
	// TanhActivation squashes its input into (-1,1).
	TanhActivation
	// ReLUActivation clips negative inputs to zero.
	ReLUActivation
)

var activationNames = map[ActivationType]string{
	LinearActivation:  "Linear",
	SigmoidActivation: "Sigmoid",
	TanhActivation:    "Tanh",
	ReLUActivation:    "ReLU",
}

var namesToActivation = map[string]ActivationType{
	"Linear":  LinearActivation,
	"Sigmoid": SigmoidActivation,
	"Tanh":    TanhActivation,
	"ReLU":    ReLUActivation,
}

// allActivationTypes enumerates the variants in selection order, used by
// RandomActivationFunction for uniform sampling.
var allActivationTypes = []ActivationType{LinearActivation, SigmoidActivation, TanhActivation, ReLUActivation}

func (t ActivationType) String() string {
	if name, ok := activationNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ActivationType(%d)", byte(t))
}

// ActivationTypeFromName parses a variant name back into its type, the
// inverse of ActivationType.String.
func ActivationTypeFromName(name string) (ActivationType, error) {
	if t, ok := namesToActivation[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unsupported activation type name: %s", name)
}

// ActivationFunction is a named, callable scalar activation. Equality and
// string form are by variant name, per spec.
type ActivationFunction struct {
	kind ActivationType
}

// NewActivationFunction constructs an ActivationFunction of the given variant.
func NewActivationFunction(t ActivationType) ActivationFunction {
	return ActivationFunction{kind: t}
}

// RandomActivationFunction selects uniformly among the four variants.
func RandomActivationFunction() ActivationFunction {
	return ActivationFunction{kind: allActivationTypes[rand.Intn(len(allActivationTypes))]}
}

// Type returns the activation variant.
func (a ActivationFunction) Type() ActivationType {
	return a.kind
}

// String returns the variant name.
func (a ActivationFunction) String() string {
	return a.kind.String()
}

// Equal reports whether two activation functions are the same variant.
func (a ActivationFunction) Equal(other ActivationFunction) bool {
	return a.kind == other.kind
}

// Activate applies the activation function to x.
func (a ActivationFunction) Activate(x float64) float64 {
	switch a.kind {
	case LinearActivation:
		return linear(x)
	case SigmoidActivation:
		return sigmoid(x)
	case TanhActivation:
		return math.Tanh(x)
	case ReLUActivation:
		return relu(x)
	default:
		// An ActivationFunction is only ever produced by the constructors
		// above, so an unknown kind means a zero value slipped through.
		return linear(x)
	}
}

func linear(x float64) float64 {
	return x
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func relu(x float64) float64 {
	return math.Max(0, x)
}
