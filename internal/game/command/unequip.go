package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
)

const unequipUsage = "Usage: unequip magic <slot> | unequip <weapon|armor|accessory>"

// HandleUnequip processes the "unequip" command.
// args is "magic <slot>" or a gear slot name.
//
// Precondition: p must not be nil.
// Postcondition: The named slot is empty; returns a confirmation or the reason nothing changed.
func HandleUnequip(p *player.Player, args []string) string {
	if len(args) == 0 {
		return unequipUsage
	}
	switch kind := strings.ToLower(args[0]); kind {
	case "magic":
		if len(args) != 2 {
			return "Usage: unequip magic <slot>"
		}
		slot, err := ParseSlot(args[1], player.MagicSlots)
		if err != nil {
			return err.Error()
		}
		prev := p.Magic(slot)
		if prev == nil {
			return fmt.Sprintf("Magic slot %d is already empty.", slot+1)
		}
		_ = p.UnequipMagic(slot)
		return fmt.Sprintf("%s removed from magic slot %d.", prev.Name, slot+1)
	case item.KindWeapon, item.KindArmor, item.KindAccessory:
		prev := p.Equipped(kind)
		if !p.Unequip(kind) {
			return fmt.Sprintf("You have no %s equipped.", kind)
		}
		return fmt.Sprintf("You remove the %s.", prev.Name)
	default:
		return unequipUsage
	}
}
