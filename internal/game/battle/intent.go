package battle

import "fmt"

// IntentKind enumerates the actions a player may choose in Idle.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentAttack
	IntentLimitBreak
	IntentMagic
	IntentBlock
	IntentItem
)

// String returns the lower-case intent name.
func (k IntentKind) String() string {
	switch k {
	case IntentNone:
		return "none"
	case IntentAttack:
		return "attack"
	case IntentLimitBreak:
		return "limit_break"
	case IntentMagic:
		return "magic"
	case IntentBlock:
		return "block"
	case IntentItem:
		return "item"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Intent is the player's choice for one turn. Slot is used by IntentMagic
// and ItemID by IntentItem.
type Intent struct {
	Kind   IntentKind
	Slot   int
	ItemID string
}

// Attack chooses the menu attack; it runs the limit break when the meter is full.
func Attack() Intent { return Intent{Kind: IntentAttack} }

// LimitBreak chooses the equipped limit break explicitly.
func LimitBreak() Intent { return Intent{Kind: IntentLimitBreak} }

// Magic chooses the spell equipped in slot.
func Magic(slot int) Intent { return Intent{Kind: IntentMagic, Slot: slot} }

// Block chooses to guard against the next enemy attack.
func Block() Intent { return Intent{Kind: IntentBlock} }

// UseItem chooses to consume one unit of the item id.
func UseItem(id string) Intent { return Intent{Kind: IntentItem, ItemID: id} }

// String renders the intent for logs.
func (i Intent) String() string {
	switch i.Kind {
	case IntentMagic:
		return fmt.Sprintf("magic[%d]", i.Slot)
	case IntentItem:
		return "item[" + i.ItemID + "]"
	default:
		return i.Kind.String()
	}
}
