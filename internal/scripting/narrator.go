package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/limitbreak/internal/game/battle"
)

// HookPrefix is prepended to the phase name to form the narration hook,
// e.g. on_player_action.
const HookPrefix = "on_"

// Narrator answers battle narration requests by calling on_<phase>(battle)
// in the VM scoped to the enemy's template, falling back to the global VM.
type Narrator struct {
	mgr *Manager
}

// NewNarrator wraps mgr as a battle.Narrator.
//
// Precondition: mgr must be non-nil.
func NewNarrator(mgr *Manager) *Narrator {
	return &Narrator{mgr: mgr}
}

// Narrate satisfies battle.Narrator.
//
// Postcondition: Returns the hook's string result, "" when the hook is
// missing or returns nil, or an error when it returns any other type.
func (n *Narrator) Narrate(s battle.Snapshot) (string, error) {
	if !n.mgr.Has(s.TemplateID) && !n.mgr.Has(GlobalScope) {
		return "", nil
	}
	hook := HookPrefix + string(s.Phase)
	ret, err := n.mgr.CallHook(s.TemplateID, hook, snapshotTable(s))
	if err != nil {
		return "", err
	}
	switch v := ret.(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	default:
		return "", fmt.Errorf("scripting: %s for %q returned %s, want string", hook, s.TemplateID, ret.Type())
	}
}

// snapshotTable converts s to the Lua table handed to narration hooks.
func snapshotTable(s battle.Snapshot) *lua.LTable {
	t := &lua.LTable{Metatable: lua.LNil}
	t.RawSetString("battle_id", lua.LString(s.BattleID))
	t.RawSetString("phase", lua.LString(s.Phase))
	t.RawSetString("turn", lua.LNumber(s.Turn))
	t.RawSetString("template", lua.LString(s.TemplateID))
	t.RawSetString("enemy_name", lua.LString(s.EnemyName))
	t.RawSetString("enemy_hp", lua.LNumber(s.EnemyHP))
	t.RawSetString("enemy_hp_max", lua.LNumber(s.EnemyHPMax))
	t.RawSetString("player_hp", lua.LNumber(s.PlayerHP))
	t.RawSetString("player_hp_max", lua.LNumber(s.PlayerHPMax))
	t.RawSetString("player_limit", lua.LNumber(s.PlayerLimit))
	t.RawSetString("player_level", lua.LNumber(s.PlayerLevel))
	t.RawSetString("intent", lua.LString(s.LastIntent))
	t.RawSetString("blocking", lua.LBool(s.PlayerBlocks))
	return t
}
