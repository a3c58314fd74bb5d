// Package attack defines player and enemy attack records and the registry
// of player attacks loaded from content.
package attack

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/limitbreak/internal/game/element"
)

// Type classifies a player attack. The zero value is the standard attack.
type Type int

const (
	Standard Type = iota
	Magic
	Limit
)

// String returns the lower-case type name.
func (t Type) String() string {
	switch t {
	case Standard:
		return "standard"
	case Magic:
		return "magic"
	case Limit:
		return "limit"
	default:
		return "unknown"
	}
}

// UnmarshalYAML decodes "standard", "magic" or "limit"; empty means standard.
func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "", "standard":
		*t = Standard
	case "magic":
		*t = Magic
	case "limit":
		*t = Limit
	default:
		return fmt.Errorf("attack: unknown player attack type %q", value.Value)
	}
	return nil
}

// PlayerAttack is a static player attack definition.
//
// PlayerAttack is comparable so it can key sets of owned attacks.
type PlayerAttack struct {
	ID      string          `yaml:"id"`
	Name    string          `yaml:"name"`
	Type    Type            `yaml:"type"`
	Element element.Element `yaml:"element"`
	MPUse   int             `yaml:"mp_use"`
	Tier    int             `yaml:"tier"`
	// UnlockLevel is the player level that grants this attack; 0 means it is
	// never granted by leveling.
	UnlockLevel int `yaml:"unlock_level"`
}

// Validate checks the attack's invariants.
//
// Postcondition: Returns nil iff every field is valid; otherwise all violations are reported.
func (a *PlayerAttack) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Tier < 1 || a.Tier > 3 {
		errs = append(errs, fmt.Errorf("tier must be 1..3, got %d", a.Tier))
	}
	if a.MPUse < 0 {
		errs = append(errs, fmt.Errorf("mp_use must be >= 0, got %d", a.MPUse))
	}
	if a.UnlockLevel < 0 || a.UnlockLevel > 5 {
		errs = append(errs, fmt.Errorf("unlock_level must be 0..5, got %d", a.UnlockLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("player attack %q: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

// Describe returns the one-line menu description of the attack.
func (a *PlayerAttack) Describe() string {
	elem := "Normal"
	if a.Element != element.None {
		name := a.Element.String()
		elem = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("Deals Tier %d %s damage. Costs %d MP", a.Tier, elem, a.MPUse)
}

// EnemyType classifies an enemy attack. The zero value is Physical.
type EnemyType int

const (
	Physical EnemyType = iota
	EnemyMagic
	Percentile
)

// String returns the lower-case type name.
func (t EnemyType) String() string {
	switch t {
	case Physical:
		return "physical"
	case EnemyMagic:
		return "magic"
	case Percentile:
		return "percentile"
	default:
		return "unknown"
	}
}

// UnmarshalYAML decodes "physical", "magic" or "percentile"; empty means physical.
func (t *EnemyType) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "", "physical":
		*t = Physical
	case "magic":
		*t = EnemyMagic
	case "percentile":
		*t = Percentile
	default:
		return fmt.Errorf("attack: unknown enemy attack type %q", value.Value)
	}
	return nil
}

// EnemyAttack is one attack in an enemy's repertoire.
type EnemyAttack struct {
	Name           string    `yaml:"name"`
	DamageModifier float64   `yaml:"damage_modifier"`
	MPUse          int       `yaml:"mp_use"`
	Type           EnemyType `yaml:"type"`
}

// Validate checks the attack's invariants.
func (a *EnemyAttack) Validate() error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.DamageModifier < 0 {
		errs = append(errs, fmt.Errorf("damage_modifier must be >= 0, got %g", a.DamageModifier))
	}
	if a.MPUse < 0 {
		errs = append(errs, fmt.Errorf("mp_use must be >= 0, got %d", a.MPUse))
	}
	if len(errs) > 0 {
		return fmt.Errorf("enemy attack %q: %w", a.Name, errors.Join(errs...))
	}
	return nil
}
