package neat

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SpeciationOptions bundles the §6 `speciation.*` fields.
type SpeciationOptions struct {
	TargetSpecies  int     `yaml:"target_species"`
	ThresholdStep  float64 `yaml:"threshold_step"`
	ExcessFactor   float64 `yaml:"excess_factor"`
	DisjointFactor float64 `yaml:"disjoint_factor"`
	WeightFactor   float64 `yaml:"weight_factor"`
}

// OrganismOptions bundles the §6 `organism.*` fields.
type OrganismOptions struct {
	Inputs  int `yaml:"inputs"`
	Outputs int `yaml:"outputs"`

	MutationChance                     float64 `yaml:"mutation_chance"`
	StructuralMutationChance           float64 `yaml:"structural_mutation_chance"`
	StructuralConnectionMutationChance float64 `yaml:"structural_connection_mutation_chance"`
	StructuralConnectionAdditionChance float64 `yaml:"structural_connection_addition_chance"`
	StructuralNodeAdditionChance       float64 `yaml:"structural_node_addition_chance"`
	ActivationFunctionMutationChance   float64 `yaml:"activation_function_mutation_chance"`
}

// Options is the flat configuration record described in spec §6. It is the
// one piece of external state the core accepts as a plain record — loading
// policy (YAML file, plain text, or hand-built in code) is the caller's
// choice, grounded on the teacher's neat.Options / neat_options_readers.go.
type Options struct {
	Name             string            `yaml:"name"`
	CarryingCapacity int               `yaml:"carrying_capacity"`
	Speciation       SpeciationOptions `yaml:"speciation"`
	Organism         OrganismOptions   `yaml:"organism"`

	// LogLevel controls the package logger initialized alongside the
	// options record, grounded on the teacher's LoadYAMLOptions.
	LogLevel string `yaml:"log_level"`

	// EvaluateParallel runs step 1 of Evolve (spec §4.F) across a worker
	// pool bounded by runtime.GOMAXPROCS instead of serially, per spec §5's
	// permission to evaluate fitnessFn concurrently. Safe only when the
	// caller's FitnessFunc touches no shared state.
	EvaluateParallel bool `yaml:"evaluate_parallel"`
}

// Validate checks the invariants spec §6 places on the configuration
// record, failing fast rather than letting a degenerate config surface as
// a confusing runtime error deep in the evolution loop.
func (o *Options) Validate() error {
	if o.CarryingCapacity <= 0 {
		return errors.Errorf("carrying_capacity must be > 0, got %d", o.CarryingCapacity)
	}
	if o.Speciation.TargetSpecies < 1 {
		return errors.Errorf("speciation.target_species must be >= 1, got %d", o.Speciation.TargetSpecies)
	}
	if o.Speciation.ThresholdStep <= 0 {
		return errors.Errorf("speciation.threshold_step must be > 0, got %f", o.Speciation.ThresholdStep)
	}
	if o.Organism.Inputs < 1 || o.Organism.Outputs < 1 {
		return errors.Errorf("organism.inputs and organism.outputs must be >= 1, got %d/%d",
			o.Organism.Inputs, o.Organism.Outputs)
	}
	for name, p := range map[string]float64{
		"organism.mutation_chance":                       o.Organism.MutationChance,
		"organism.structural_mutation_chance":            o.Organism.StructuralMutationChance,
		"organism.structural_connection_mutation_chance": o.Organism.StructuralConnectionMutationChance,
		"organism.structural_connection_addition_chance": o.Organism.StructuralConnectionAdditionChance,
		"organism.structural_node_addition_chance":       o.Organism.StructuralNodeAdditionChance,
		"organism.activation_function_mutation_chance":   o.Organism.ActivationFunctionMutationChance,
	} {
		if p < 0 || p > 1 {
			return errors.Errorf("%s must be in [0,1], got %f", name, p)
		}
	}
	return nil
}

// LoadYAMLOptions loads Options encoded as YAML, grounded on the teacher's
// LoadYAMLOptions / gopkg.in/yaml.v3 use.
func LoadYAMLOptions(r io.Reader) (*Options, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read NEAT options")
	}
	var opts Options
	if err = yaml.Unmarshal(content, &opts); err != nil {
		return nil, errors.Wrap(err, "failed to decode NEAT options from YAML")
	}
	if err = InitLogger(opts.LogLevel); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	if err = opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid NEAT options")
	}
	return &opts, nil
}

// LoadOptions loads Options from the plain "name value" text format,
// grounded on the teacher's LoadNeatOptions / spf13/cast coercion.
func LoadOptions(r io.Reader) (*Options, error) {
	c := &Options{}
	var name, param string
	for {
		_, err := fmt.Fscanf(r, "%s %v\n", &name, &param)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, "failed to scan NEAT options line")
		}
		switch name {
		case "name":
			c.Name = param
		case "carrying_capacity":
			c.CarryingCapacity = cast.ToInt(param)
		case "target_species":
			c.Speciation.TargetSpecies = cast.ToInt(param)
		case "threshold_step":
			c.Speciation.ThresholdStep = cast.ToFloat64(param)
		case "excess_factor":
			c.Speciation.ExcessFactor = cast.ToFloat64(param)
		case "disjoint_factor":
			c.Speciation.DisjointFactor = cast.ToFloat64(param)
		case "weight_factor":
			c.Speciation.WeightFactor = cast.ToFloat64(param)
		case "inputs":
			c.Organism.Inputs = cast.ToInt(param)
		case "outputs":
			c.Organism.Outputs = cast.ToInt(param)
		case "mutation_chance":
			c.Organism.MutationChance = cast.ToFloat64(param)
		case "structural_mutation_chance":
			c.Organism.StructuralMutationChance = cast.ToFloat64(param)
		case "structural_connection_mutation_chance":
			c.Organism.StructuralConnectionMutationChance = cast.ToFloat64(param)
		case "structural_connection_addition_chance":
			c.Organism.StructuralConnectionAdditionChance = cast.ToFloat64(param)
		case "structural_node_addition_chance":
			c.Organism.StructuralNodeAdditionChance = cast.ToFloat64(param)
		case "activation_function_mutation_chance":
			c.Organism.ActivationFunctionMutationChance = cast.ToFloat64(param)
		case "log_level":
			c.LogLevel = param
		case "evaluate_parallel":
			c.EvaluateParallel = cast.ToBool(param)
		default:
			return nil, errors.Errorf("unknown configuration parameter found: %s = %s", name, param)
		}
	}
	if err := InitLogger(c.LogLevel); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadOptionsFromFile reads Options from configFilePath, dispatching on
// file extension between the YAML and plain text encodings.
func ReadOptionsFromFile(configFilePath string) (*Options, error) {
	configFile, err := os.Open(configFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer configFile.Close()

	if strings.HasSuffix(configFilePath, "yml") || strings.HasSuffix(configFilePath, "yaml") {
		return LoadYAMLOptions(configFile)
	}
	return LoadOptions(configFile)
}
