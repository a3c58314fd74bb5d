package attack

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAttack is returned when an attack id is not registered.
var ErrUnknownAttack = errors.New("unknown attack")

// Registry holds all player attacks indexed by ID.
type Registry struct {
	attacks map[string]*PlayerAttack
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{attacks: make(map[string]*PlayerAttack)}
}

// Register adds a to the registry.
//
// Precondition: a must not be nil.
// Postcondition: Get(a.ID) returns a; returns error if a.ID already registered.
func (r *Registry) Register(a *PlayerAttack) error {
	if _, exists := r.attacks[a.ID]; exists {
		return fmt.Errorf("attack: Registry.Register: attack ID %q already registered", a.ID)
	}
	r.attacks[a.ID] = a
	return nil
}

// Get returns the attack with the given id.
//
// Postcondition: Returns an error wrapping ErrUnknownAttack when id is not registered.
func (r *Registry) Get(id string) (*PlayerAttack, error) {
	a, ok := r.attacks[id]
	if !ok {
		return nil, fmt.Errorf("attack %q: %w", id, ErrUnknownAttack)
	}
	return a, nil
}

// UnlockedAt returns every attack whose UnlockLevel equals level, sorted by ID.
func (r *Registry) UnlockedAt(level int) []*PlayerAttack {
	var out []*PlayerAttack
	for _, a := range r.attacks {
		if a.UnlockLevel == level && level > 0 {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every registered attack sorted by ID.
func (r *Registry) All() []*PlayerAttack {
	out := make([]*PlayerAttack, 0, len(r.attacks))
	for _, a := range r.attacks {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type attackFile struct {
	Attacks []*PlayerAttack `yaml:"attacks"`
}

// LoadPlayerAttacks parses and validates the attack list in the YAML file at path.
//
// Precondition: path must name a readable YAML file with a top-level "attacks" list.
// Postcondition: Returns all attacks or the first parse/validation error.
func LoadPlayerAttacks(path string) ([]*PlayerAttack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadPlayerAttacks: cannot read file %q: %w", path, err)
	}
	var f attackFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadPlayerAttacks: cannot parse file %q: %w", path, err)
	}
	for _, a := range f.Attacks {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadPlayerAttacks: invalid attack in %q: %w", path, err)
		}
	}
	return f.Attacks, nil
}
