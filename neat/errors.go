package neat

import "github.com/pkg/errors"

// Sentinel errors returned by the core. Call sites wrap these with
// github.com/pkg/errors to attach context, following the teacher's
// convention of keeping a small set of comparable root causes.
var (
	// ErrShapeMismatch is returned by the phenotype evaluator when the
	// supplied input vector length does not match the network's input count.
	ErrShapeMismatch = errors.New("phenotype: input length does not match network input count")

	// ErrDegenerateFitness is returned by the evolution loop when the
	// population-wide total adjusted fitness is zero, making offspring
	// allocation undefined.
	ErrDegenerateFitness = errors.New("population: total adjusted fitness is zero")

	// ErrInvalidConnection is returned when a connection gene is constructed
	// without either an explicit node pair or a node pool to draw from.
	ErrInvalidConnection = errors.New("genome: connection requires a node pair or a node pool")

	// ErrInvalidArgument is returned by PRNG helpers invoked with an empty
	// sampling domain.
	ErrInvalidArgument = errors.New("invalid argument")
)
