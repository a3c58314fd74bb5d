// Package player holds the long-lived player combatant: stats, limit meter,
// known attacks, equipped magic and limit break, items and equipment.
package player

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

// MagicSlots is the number of equippable magic slots.
const MagicSlots = 4

// MaxLimit is the full value of the limit meter.
const MaxLimit = 100

var (
	// ErrInvalidSlot is returned for a magic slot outside [0, MagicSlots).
	ErrInvalidSlot = errors.New("invalid magic slot")
	// ErrNotKnown is returned when an attack is not in the player's inventory.
	ErrNotKnown = errors.New("attack not known")
	// ErrWrongType is returned when an attack or item does not fit the slot.
	ErrWrongType = errors.New("wrong type for slot")
	// ErrOutOfStock is returned when the player holds none of an item.
	ErrOutOfStock = errors.New("item not in inventory")
)

// Player is the persistent combatant that survives across battles.
//
// Invariant: 0 <= Limit <= MaxLimit; every equipped attack is known.
type Player struct {
	Stats stats.Stats
	Limit int

	known      map[string]*attack.PlayerAttack
	magic      [MagicSlots]*attack.PlayerAttack
	limitBreak *attack.PlayerAttack
	standard   *attack.PlayerAttack
	items      map[string]int
	equipment  map[string]*item.Item
}

// New returns a player with the given stats, standard attack and no other
// attacks, items or equipment.
//
// Precondition: standard must be non-nil.
// Postcondition: standard is known; Limit == 0.
func New(s stats.Stats, standard *attack.PlayerAttack) *Player {
	p := &Player{
		Stats:     s,
		known:     make(map[string]*attack.PlayerAttack),
		items:     make(map[string]int),
		equipment: make(map[string]*item.Item),
	}
	p.Stats.Clamp()
	p.Learn(standard)
	p.standard = standard
	return p
}

// Learn adds a to the attack inventory.
//
// Postcondition: Knows(a.ID) is true; returns false if it was already known.
func (p *Player) Learn(a *attack.PlayerAttack) bool {
	if _, ok := p.known[a.ID]; ok {
		return false
	}
	p.known[a.ID] = a
	return true
}

// Knows reports whether the attack with id is in the inventory.
func (p *Player) Knows(id string) bool {
	_, ok := p.known[id]
	return ok
}

// Attacks returns every known attack sorted by ID.
func (p *Player) Attacks() []*attack.PlayerAttack {
	out := make([]*attack.PlayerAttack, 0, len(p.known))
	for _, a := range p.known {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Standard returns the standard attack.
func (p *Player) Standard() *attack.PlayerAttack { return p.standard }

// LimitBreak returns the equipped limit break, or nil.
func (p *Player) LimitBreak() *attack.PlayerAttack { return p.limitBreak }

// Magic returns the attack in slot, or nil when empty or out of range.
func (p *Player) Magic(slot int) *attack.PlayerAttack {
	if slot < 0 || slot >= MagicSlots {
		return nil
	}
	return p.magic[slot]
}

// EquippedMagic returns a copy of the equipped magic slots.
func (p *Player) EquippedMagic() [MagicSlots]*attack.PlayerAttack { return p.magic }

// LimitReady reports whether the meter is full and a limit break is equipped.
func (p *Player) LimitReady() bool {
	return p.Limit >= MaxLimit && p.limitBreak != nil
}

// MenuAttack returns the attack offered by the Attack menu entry: the limit
// break when the meter is full, otherwise the standard attack.
func (p *Player) MenuAttack() *attack.PlayerAttack {
	if p.LimitReady() {
		return p.limitBreak
	}
	return p.standard
}

// AddLimit raises the limit meter by n, capped at MaxLimit.
func (p *Player) AddLimit(n int) {
	p.Limit += n
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
}

// ResetLimit empties the limit meter.
func (p *Player) ResetLimit() { p.Limit = 0 }

// EquipMagic places the known magic attack id into slot.
//
// Precondition: 0 <= slot < MagicSlots.
// Postcondition: Magic(slot).ID == id on success; the player is unchanged on error.
func (p *Player) EquipMagic(slot int, id string) error {
	if slot < 0 || slot >= MagicSlots {
		return fmt.Errorf("slot %d: %w", slot, ErrInvalidSlot)
	}
	a, ok := p.known[id]
	if !ok {
		return fmt.Errorf("attack %q: %w", id, ErrNotKnown)
	}
	if a.Type != attack.Magic {
		return fmt.Errorf("attack %q is %s, not magic: %w", id, a.Type, ErrWrongType)
	}
	p.magic[slot] = a
	return nil
}

// UnequipMagic empties slot.
func (p *Player) UnequipMagic(slot int) error {
	if slot < 0 || slot >= MagicSlots {
		return fmt.Errorf("slot %d: %w", slot, ErrInvalidSlot)
	}
	p.magic[slot] = nil
	return nil
}

// EquipLimit makes the known limit attack id the equipped limit break.
func (p *Player) EquipLimit(id string) error {
	a, ok := p.known[id]
	if !ok {
		return fmt.Errorf("attack %q: %w", id, ErrNotKnown)
	}
	if a.Type != attack.Limit {
		return fmt.Errorf("attack %q is %s, not limit: %w", id, a.Type, ErrWrongType)
	}
	p.limitBreak = a
	return nil
}

// AddItem adds n units of the item id to the inventory.
//
// Precondition: n > 0.
func (p *Player) AddItem(id string, n int) {
	if n <= 0 {
		return
	}
	p.items[id] += n
}

// Quantity returns how many units of id the player holds.
func (p *Player) Quantity(id string) int { return p.items[id] }

// Items returns the held item ids sorted, each with quantity > 0.
func (p *Player) Items() []string {
	out := make([]string, 0, len(p.items))
	for id := range p.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// UseItem consumes one unit of the consumable def, restoring HP and MP.
//
// Precondition: def must be non-nil.
// Postcondition: on success HP and MP are restored (clamped) and the quantity
// is decremented, removing the entry at zero.
func (p *Player) UseItem(def *item.Item) error {
	if !def.IsConsumable() {
		return fmt.Errorf("item %q is %s: %w", def.ID, def.Kind, ErrWrongType)
	}
	if p.items[def.ID] <= 0 {
		return fmt.Errorf("item %q: %w", def.ID, ErrOutOfStock)
	}
	p.Stats.RestoreHP(def.Effect.HP)
	p.Stats.RestoreMP(def.Effect.MP)
	p.items[def.ID]--
	if p.items[def.ID] == 0 {
		delete(p.items, def.ID)
	}
	return nil
}

// Equip wears def in the slot named by its kind, replacing any previous
// item in that slot.
//
// Precondition: def must be non-nil; the player must hold at least one unit.
// Postcondition: the previous item's deltas are removed and def's applied,
// with HP and MP clamped against the new maxima.
func (p *Player) Equip(def *item.Item) error {
	if !def.IsEquipment() {
		return fmt.Errorf("item %q is %s: %w", def.ID, def.Kind, ErrWrongType)
	}
	if p.items[def.ID] <= 0 {
		return fmt.Errorf("item %q: %w", def.ID, ErrOutOfStock)
	}
	if prev := p.equipment[def.Kind]; prev != nil {
		p.Stats.Subtract(equipDeltas(prev))
	}
	p.Stats.Add(equipDeltas(def))
	p.equipment[def.Kind] = def
	return nil
}

// Unequip removes whatever is worn in kind's slot.
//
// Postcondition: returns false when the slot was already empty.
func (p *Player) Unequip(kind string) bool {
	prev := p.equipment[kind]
	if prev == nil {
		return false
	}
	p.Stats.Subtract(equipDeltas(prev))
	delete(p.equipment, kind)
	return true
}

// Equipped returns the item worn in kind's slot, or nil.
func (p *Player) Equipped(kind string) *item.Item { return p.equipment[kind] }

// equipDeltas strips the flat restore fields so equipping never heals.
func equipDeltas(def *item.Item) stats.Deltas {
	d := def.Effect
	d.HP = 0
	d.MP = 0
	return d
}
