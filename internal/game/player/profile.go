package player

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

// AttackLookup resolves player attack ids.
type AttackLookup interface {
	Get(id string) (*attack.PlayerAttack, error)
}

// ItemLookup resolves item ids.
type ItemLookup interface {
	Get(id string) (*item.Item, error)
}

// Profile is the starting kit of a new player, loaded from YAML.
type Profile struct {
	Stats     stats.Stats    `yaml:"stats"`
	Standard  string         `yaml:"standard"`
	Limit     string         `yaml:"limit"`
	Attacks   []string       `yaml:"attacks"`
	Magic     []string       `yaml:"magic"`
	Items     map[string]int `yaml:"items"`
	Equipment []string       `yaml:"equipment"`
}

// Validate checks the profile's shape without resolving ids.
//
// Postcondition: Returns nil iff the profile is well formed; all violations are reported.
func (pr *Profile) Validate() error {
	var errs []error
	if pr.Standard == "" {
		errs = append(errs, errors.New("standard must not be empty"))
	}
	if pr.Stats.HPMax < 1 {
		errs = append(errs, fmt.Errorf("stats.hp_max must be >= 1, got %d", pr.Stats.HPMax))
	}
	if pr.Stats.Level < 1 {
		errs = append(errs, fmt.Errorf("stats.level must be >= 1, got %d", pr.Stats.Level))
	}
	if len(pr.Magic) > MagicSlots {
		errs = append(errs, fmt.Errorf("at most %d magic slots, got %d", MagicSlots, len(pr.Magic)))
	}
	for id, n := range pr.Items {
		if n < 1 {
			errs = append(errs, fmt.Errorf("item %q quantity must be >= 1, got %d", id, n))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("player profile: %w", errors.Join(errs...))
	}
	return nil
}

// LoadProfile reads and validates the profile YAML at path.
//
// Precondition: path must name a readable YAML file.
// Postcondition: Returns a validated *Profile or an error naming path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadProfile: cannot read file %q: %w", path, err)
	}
	var pr Profile
	if err := yaml.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("LoadProfile: cannot parse file %q: %w", path, err)
	}
	if err := pr.Validate(); err != nil {
		return nil, fmt.Errorf("LoadProfile: %q: %w", path, err)
	}
	return &pr, nil
}

// FromProfile builds a fresh player from pr, resolving every id.
//
// Precondition: pr must have passed Validate().
// Postcondition: HP and MP start full; magic slots follow pr.Magic in order;
// equipment is worn with its deltas applied. Any unresolved id is an error.
func FromProfile(pr *Profile, attacks AttackLookup, items ItemLookup) (*Player, error) {
	std, err := attacks.Get(pr.Standard)
	if err != nil {
		return nil, fmt.Errorf("player profile standard: %w", err)
	}
	s := pr.Stats
	s.FullRestore()
	p := New(s, std)

	for _, id := range pr.Attacks {
		a, err := attacks.Get(id)
		if err != nil {
			return nil, fmt.Errorf("player profile attacks: %w", err)
		}
		p.Learn(a)
	}
	for slot, id := range pr.Magic {
		if id == "" {
			continue
		}
		if err := p.EquipMagic(slot, id); err != nil {
			return nil, fmt.Errorf("player profile magic: %w", err)
		}
	}
	if pr.Limit != "" {
		if err := p.EquipLimit(pr.Limit); err != nil {
			return nil, fmt.Errorf("player profile limit: %w", err)
		}
	}
	for id, n := range pr.Items {
		if _, err := items.Get(id); err != nil {
			return nil, fmt.Errorf("player profile items: %w", err)
		}
		p.AddItem(id, n)
	}
	for _, id := range pr.Equipment {
		def, err := items.Get(id)
		if err != nil {
			return nil, fmt.Errorf("player profile equipment: %w", err)
		}
		p.AddItem(id, 1)
		if err := p.Equip(def); err != nil {
			return nil, fmt.Errorf("player profile equipment: %w", err)
		}
	}
	p.Stats.FullRestore()
	return p, nil
}
