// Package content loads the static battle tables from a content directory
// and cross-validates the references between them.
package content

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/enemy"
	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
)

// Lookup-miss sentinels, shared with the registries that raise them.
var (
	ErrUnknownItem   = item.ErrUnknownItem
	ErrUnknownAttack = attack.ErrUnknownAttack
	ErrUnknownEnemy  = enemy.ErrUnknownEnemy
)

// File layout inside a content directory.
const (
	AttacksFile = "attacks.yaml"
	ItemsFile   = "items.yaml"
	PlayerFile  = "player.yaml"
	EnemiesDir  = "enemies"
)

// Bundle is the full set of validated content.
type Bundle struct {
	Attacks *attack.Registry
	Items   *item.Registry
	Enemies *enemy.Registry
	Profile *player.Profile
}

// Load reads every table under dir, registers it and cross-validates
// references.
//
// Precondition: dir contains attacks.yaml, items.yaml, player.yaml and an
// enemies/ directory.
// Postcondition: Returns a Bundle whose every loot item, next_phase, and
// starting-kit id resolves; otherwise an error naming the offending file or id.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{
		Attacks: attack.NewRegistry(),
		Items:   item.NewRegistry(),
		Enemies: enemy.NewRegistry(),
	}

	attacks, err := attack.LoadPlayerAttacks(filepath.Join(dir, AttacksFile))
	if err != nil {
		return nil, err
	}
	for _, a := range attacks {
		if err := b.Attacks.Register(a); err != nil {
			return nil, err
		}
	}

	items, err := item.LoadItems(filepath.Join(dir, ItemsFile))
	if err != nil {
		return nil, err
	}
	for _, d := range items {
		if err := b.Items.Register(d); err != nil {
			return nil, err
		}
	}

	templates, err := enemy.LoadTemplates(filepath.Join(dir, EnemiesDir))
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if err := b.Enemies.Register(t); err != nil {
			return nil, err
		}
	}

	b.Profile, err = player.LoadProfile(filepath.Join(dir, PlayerFile))
	if err != nil {
		return nil, err
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("content %q: %w", dir, err)
	}
	return b, nil
}

// Validate checks every cross-table reference in the bundle.
//
// Postcondition: Returns nil iff all references resolve; all dangling
// references are reported together.
func (b *Bundle) Validate() error {
	var errs []error
	for _, t := range b.Enemies.All() {
		for i, tbl := range t.Loot {
			for _, e := range tbl.Items {
				if _, err := b.Items.Get(e.ItemID); err != nil {
					errs = append(errs, fmt.Errorf("enemy %q loot[%d]: %w", t.ID, i, err))
				}
			}
		}
		if t.NextPhase != "" {
			if _, err := b.Enemies.Get(t.NextPhase); err != nil {
				errs = append(errs, fmt.Errorf("enemy %q next_phase: %w", t.ID, err))
			}
		}
	}
	if b.Profile != nil {
		if _, err := player.FromProfile(b.Profile, b.Attacks, b.Items); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewPlayer builds a fresh player from the starting profile.
func (b *Bundle) NewPlayer() (*player.Player, error) {
	return player.FromProfile(b.Profile, b.Attacks, b.Items)
}

// NewEnemy spawns a fresh enemy instance of template id.
//
// Postcondition: Returns an error wrapping ErrUnknownEnemy when id is not loaded.
func (b *Bundle) NewEnemy(id string) (*enemy.Enemy, error) {
	t, err := b.Enemies.Get(id)
	if err != nil {
		return nil, err
	}
	return enemy.NewInstance(t), nil
}
