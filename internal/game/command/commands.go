// Package command provides the command registry, parser, and built-in command
// definitions for text frontends, plus the handlers for commands that edit
// the player's loadout between battles.
package command

// Categories for organizing commands.
const (
	CategoryBattle = "battle"
	CategoryCamp   = "camp"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to frontend dispatch functions.
const (
	HandlerFight     = "fight"
	HandlerEnemies   = "enemies"
	HandlerAttack    = "attack"
	HandlerMagic     = "magic"
	HandlerBlock     = "block"
	HandlerItem      = "item"
	HandlerStatus    = "status"
	HandlerInventory = "inventory"
	HandlerAttacks   = "attacks"
	HandlerEquip     = "equip"
	HandlerUnequip   = "unequip"
	HandlerEquipment = "equipment"
	HandlerQuit      = "quit"
	HandlerHelp      = "help"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "magic <slot>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (battle, camp, system).
	Category string
	// Handler maps to the frontend dispatch function.
	Handler string
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		// Battle commands: only accepted while the battle waits for input.
		{Name: "attack", Aliases: []string{"a"}, Usage: "attack", Help: "Use your attack, or your limit break when the meter is full", Category: CategoryBattle, Handler: HandlerAttack},
		{Name: "magic", Aliases: []string{"m"}, Usage: "magic <slot 1-4>", Help: "Cast the magic equipped in a slot", Category: CategoryBattle, Handler: HandlerMagic},
		{Name: "block", Aliases: []string{"b"}, Usage: "block", Help: "Double your defense against the next attack", Category: CategoryBattle, Handler: HandlerBlock},
		{Name: "item", Aliases: []string{"i", "use"}, Usage: "item <item-id>", Help: "Use a consumable", Category: CategoryBattle, Handler: HandlerItem},

		// Camp commands: between battles.
		{Name: "fight", Aliases: []string{"f"}, Usage: "fight [enemy-id]", Help: "Start a battle, against a random enemy if none is named", Category: CategoryCamp, Handler: HandlerFight},
		{Name: "enemies", Aliases: []string{"bestiary"}, Usage: "enemies", Help: "List the enemies you can fight", Category: CategoryCamp, Handler: HandlerEnemies},
		{Name: "inventory", Aliases: []string{"inv"}, Usage: "inventory", Help: "Show your items", Category: CategoryCamp, Handler: HandlerInventory},
		{Name: "attacks", Aliases: []string{"skills"}, Usage: "attacks", Help: "Show the attacks you know", Category: CategoryCamp, Handler: HandlerAttacks},
		{Name: "equip", Aliases: []string{"eq"}, Usage: "equip magic <slot> <attack-id> | equip limit <attack-id> | equip item <item-id>", Help: "Change your loadout", Category: CategoryCamp, Handler: HandlerEquip},
		{Name: "unequip", Aliases: []string{"ueq"}, Usage: "unequip magic <slot> | unequip <weapon|armor|accessory>", Help: "Clear a magic slot or remove gear", Category: CategoryCamp, Handler: HandlerUnequip},
		{Name: "equipment", Aliases: []string{"gear"}, Usage: "equipment", Help: "Show equipped magic, limit break and gear", Category: CategoryCamp, Handler: HandlerEquipment},

		// System commands
		{Name: "status", Aliases: []string{"st", "stats"}, Usage: "status", Help: "Show your stats and, in battle, the enemy's", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Disconnect", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}

// IsBattleCommand reports whether the command name is only valid during a battle.
func IsBattleCommand(name string) bool {
	switch name {
	case "attack", "magic", "block", "item":
		return true
	default:
		return false
	}
}
