package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
)

// ItemLookup resolves item ids for the gear commands.
type ItemLookup interface {
	Get(id string) (*item.Item, error)
}

const equipUsage = "Usage: equip magic <slot> <attack-id> | equip limit <attack-id> | equip item <item-id>"

// HandleEquip processes the "equip" command.
// args is "magic <slot> <attack-id>", "limit <attack-id>" or "item <item-id>".
//
// Precondition: p and items must not be nil.
// Postcondition: On success the loadout is changed and a confirmation is
// returned. On failure the player is unchanged and the reason is returned.
func HandleEquip(p *player.Player, items ItemLookup, args []string) string {
	if len(args) == 0 {
		return equipUsage
	}
	switch strings.ToLower(args[0]) {
	case "magic":
		if len(args) != 3 {
			return "Usage: equip magic <slot> <attack-id>"
		}
		slot, err := ParseSlot(args[1], player.MagicSlots)
		if err != nil {
			return err.Error()
		}
		if err := p.EquipMagic(slot, args[2]); err != nil {
			return fmt.Sprintf("Cannot equip %s: %v", args[2], err)
		}
		return fmt.Sprintf("%s equipped in magic slot %d.", p.Magic(slot).Name, slot+1)
	case "limit":
		if len(args) != 2 {
			return "Usage: equip limit <attack-id>"
		}
		if err := p.EquipLimit(args[1]); err != nil {
			return fmt.Sprintf("Cannot equip %s: %v", args[1], err)
		}
		return fmt.Sprintf("%s is now your limit break.", p.LimitBreak().Name)
	case "item":
		if len(args) != 2 {
			return "Usage: equip item <item-id>"
		}
		def, err := items.Get(args[1])
		if err != nil {
			return fmt.Sprintf("Cannot equip %s: %v", args[1], err)
		}
		if err := p.Equip(def); err != nil {
			return fmt.Sprintf("Cannot equip %s: %v", def.Name, err)
		}
		return fmt.Sprintf("You equip the %s.", def.Name)
	default:
		return equipUsage
	}
}
