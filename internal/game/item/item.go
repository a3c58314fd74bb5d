// Package item defines consumables and equipment and their registry.
package item

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

// Kind constants for Item.Kind.
const (
	KindConsumable = "consumable"
	KindWeapon     = "weapon"
	KindArmor      = "armor"
	KindAccessory  = "accessory"
)

// validKinds is the set of valid Item kinds.
var validKinds = map[string]bool{
	KindConsumable: true,
	KindWeapon:     true,
	KindArmor:      true,
	KindAccessory:  true,
}

// ErrUnknownItem is returned when an item id is not registered.
var ErrUnknownItem = errors.New("unknown item")

// Item is a static item definition loaded from YAML.
//
// For consumables only Effect.HP and Effect.MP are meaningful and represent a
// flat restore. For equipment the remaining fields are stat deltas applied
// while the item is worn.
type Item struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Kind        string       `yaml:"kind"`
	Effect      stats.Deltas `yaml:"effect"`
}

// IsConsumable reports whether the item can be used from the battle menu.
func (d *Item) IsConsumable() bool { return d.Kind == KindConsumable }

// IsEquipment reports whether the item occupies an equipment slot.
func (d *Item) IsEquipment() bool {
	return d.Kind == KindWeapon || d.Kind == KindArmor || d.Kind == KindAccessory
}

// Validate checks that the Item satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Item) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("kind must be one of consumable, weapon, armor, accessory; got %q", d.Kind))
	}
	if d.Kind == KindConsumable {
		if d.Effect.HP < 0 || d.Effect.MP < 0 {
			errs = append(errs, errors.New("consumable restores must be >= 0"))
		}
		if d.Effect.HP == 0 && d.Effect.MP == 0 {
			errs = append(errs, errors.New("consumable must restore hp or mp"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// Registry holds item definitions indexed by ID.
type Registry struct {
	items map[string]*Item
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Item)}
}

// Register adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Get(d.ID) returns d; returns error if d.ID already registered.
func (r *Registry) Register(d *Item) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("item: Registry.Register: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// Get returns the item with the given id or an error wrapping ErrUnknownItem.
func (r *Registry) Get(id string) (*Item, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("item %q: %w", id, ErrUnknownItem)
	}
	return d, nil
}

// All returns every registered item sorted by ID.
func (r *Registry) All() []*Item {
	out := make([]*Item, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type itemFile struct {
	Items []*Item `yaml:"items"`
}

// LoadItems reads the YAML item list at path, validating each entry.
//
// Precondition: path is a readable file with a top-level "items" list.
// Postcondition: returns all valid items or the first encountered error.
func LoadItems(path string) ([]*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
	}
	var f itemFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
	}
	for _, d := range f.Items {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
	}
	return f.Items, nil
}
