package genetics

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// InnovationStore is the persistence seam spec §6 calls for: a key-value
// store of innovation records keyed by "<startId>-<endId>" with integer
// values. Grounded on the teacher's pluggable io.Reader/io.Writer
// population persistence split in neat/genetics/population_io.go, reduced
// to the single table the spec describes.
type InnovationStore interface {
	Load() (map[string]int, error)
	Save(map[string]int) error
}

// MemoryInnovationStore is a no-op store for tests and ephemeral runs: Load
// always returns an empty table and Save discards its argument.
type MemoryInnovationStore struct{}

// Load returns an empty innovation table.
func (MemoryInnovationStore) Load() (map[string]int, error) { return map[string]int{}, nil }

// Save discards the given innovation table.
func (MemoryInnovationStore) Save(map[string]int) error { return nil }

// YAMLInnovationStore persists the innovation table to a YAML file,
// grounded on the teacher's use of gopkg.in/yaml.v3 for config.
type YAMLInnovationStore struct {
	Path string
}

// Load reads the innovation table from disk. A missing file is treated as
// an empty table, matching "cleared on population creation" from spec §6.
func (s YAMLInnovationStore) Load() (map[string]int, error) {
	content, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return map[string]int{}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to read innovation store")
	}
	table := map[string]int{}
	if err := yaml.Unmarshal(content, &table); err != nil {
		return nil, errors.Wrap(err, "failed to decode innovation store")
	}
	return table, nil
}

// Save writes the innovation table to disk, overwriting any prior contents.
func (s YAMLInnovationStore) Save(table map[string]int) error {
	content, err := yaml.Marshal(table)
	if err != nil {
		return errors.Wrap(err, "failed to encode innovation store")
	}
	if err := os.WriteFile(s.Path, content, 0o644); err != nil {
		return errors.Wrap(err, "failed to write innovation store")
	}
	return nil
}

// InnovationRegistry maps (startId,endId) pairs to stable, globally
// consistent innovation numbers, shared by every organism in a population.
// Lifecycle: created/cleared at population init, appended to during
// connection construction, queried by key. Safe for concurrent use since
// step 1 of evolve() (fitness evaluation) may run fitnessFn concurrently
// across organisms while the registry itself is only touched serially
// during reproduction (see spec §5).
type InnovationRegistry struct {
	mu      sync.Mutex
	records map[string]int
	store   InnovationStore
}

// NewInnovationRegistry constructs a registry backed by store. A nil store
// is treated as MemoryInnovationStore.
func NewInnovationRegistry(store InnovationStore) *InnovationRegistry {
	if store == nil {
		store = MemoryInnovationStore{}
	}
	return &InnovationRegistry{records: map[string]int{}, store: store}
}

func innovationKey(startID, endID int) string {
	return fmt.Sprintf("%d-%d", startID, endID)
}

// GetOrAssign returns the stable innovation number for the directed edge
// (startID,endID), assigning a new one if this is the first time the edge
// has been seen. Reproduces the source quirk documented in spec §4.B: the
// first inserted innovation is 0, the Nth is N-1 (assigned from the record
// count at insertion time, not an incrementing counter started at 1).
func (r *InnovationRegistry) GetOrAssign(startID, endID int) int {
	key := innovationKey(startID, endID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if num, ok := r.records[key]; ok {
		return num
	}
	num := len(r.records)
	r.records[key] = num
	return num
}

// Clear drops all known innovation records. Called at population init.
func (r *InnovationRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = map[string]int{}
}

// Load replaces the in-memory records with the contents of the backing
// store, for resuming a population across process restarts.
func (r *InnovationRegistry) Load() error {
	table, err := r.store.Load()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = table
	return nil
}

// Persist writes the current records to the backing store.
func (r *InnovationRegistry) Persist() error {
	r.mu.Lock()
	table := make(map[string]int, len(r.records))
	for k, v := range r.records {
		table[k] = v
	}
	r.mu.Unlock()
	return r.store.Save(table)
}

// Len returns the number of known innovation records.
func (r *InnovationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
