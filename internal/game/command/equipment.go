package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
)

// gearKinds is the display order of the gear slots.
var gearKinds = []string{item.KindWeapon, item.KindArmor, item.KindAccessory}

// HandleEquipment renders the player's magic slots, limit break and gear.
//
// Precondition: p must not be nil.
// Postcondition: Returns a non-empty multi-line string, one line per slot.
func HandleEquipment(p *player.Player) string {
	var b strings.Builder
	b.WriteString("Magic:\n")
	for slot, a := range p.EquippedMagic() {
		name := "(empty)"
		if a != nil {
			name = fmt.Sprintf("%s - %s", a.Name, a.Describe())
		}
		fmt.Fprintf(&b, "  %d. %s\n", slot+1, name)
	}
	limit := "(none)"
	if lb := p.LimitBreak(); lb != nil {
		limit = fmt.Sprintf("%s - %s", lb.Name, lb.Describe())
	}
	fmt.Fprintf(&b, "Limit break: %s\n", limit)
	b.WriteString("Gear:\n")
	for _, kind := range gearKinds {
		name := "(empty)"
		if def := p.Equipped(kind); def != nil {
			name = def.Name
		}
		fmt.Fprintf(&b, "  %-9s %s\n", kind+":", name)
	}
	return strings.TrimRight(b.String(), "\n")
}
