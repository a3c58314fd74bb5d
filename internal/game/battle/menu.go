package battle

import "fmt"

// MenuEntry is one action offered to the player in Idle.
type MenuEntry struct {
	Label   string
	Detail  string
	Intent  Intent
	Enabled bool
}

// Menu returns the actions on offer, or nil outside Idle. The first entry is
// the attack, which names the limit break when the meter is full; then one
// entry per equipped magic slot, Block, and one entry per held consumable.
func (m *Machine) Menu() []MenuEntry {
	if m.Phase() != PhaseIdle {
		return nil
	}
	p := m.player
	atk := p.MenuAttack()
	entries := []MenuEntry{{
		Label:   atk.Name,
		Detail:  atk.Describe(),
		Intent:  Attack(),
		Enabled: true,
	}}
	for slot, a := range p.EquippedMagic() {
		if a == nil {
			continue
		}
		entries = append(entries, MenuEntry{
			Label:   a.Name,
			Detail:  a.Describe(),
			Intent:  Magic(slot),
			Enabled: p.Stats.MP >= a.MPUse,
		})
	}
	entries = append(entries, MenuEntry{
		Label:   "Block",
		Detail:  "Doubles your defense against the next attack",
		Intent:  Block(),
		Enabled: true,
	})
	for _, id := range p.Items() {
		def, err := m.items.Get(id)
		if err != nil || !def.IsConsumable() {
			continue
		}
		entries = append(entries, MenuEntry{
			Label:   def.Name,
			Detail:  fmt.Sprintf("x%d", p.Quantity(id)),
			Intent:  UseItem(id),
			Enabled: true,
		})
	}
	return entries
}
