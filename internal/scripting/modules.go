package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.* Lua tables into L:
//
//	engine.scope             the template id (or "__global__") the VM serves
//	engine.log.debug/info/warn(msg)
//	engine.dice.d(sides)     uniform integer in [1, sides]
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, scope string) {
	engine := L.NewTable()
	L.SetField(engine, "scope", lua.LString(scope))
	L.SetField(engine, "log", m.logModule(L, scope))
	L.SetField(engine, "dice", m.diceModule(L, scope))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState, scope string) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
	}
	for name, fn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("scope", scope), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState, scope string) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "d", L.NewFunction(func(L *lua.LState) int {
		sides := L.CheckInt(1)
		if sides <= 0 {
			L.ArgError(1, "sides must be positive")
			return 0
		}
		d := m.roller.Roll("script:"+scope, sides)
		L.Push(lua.LNumber(d.Value + 1))
		return 1
	}))
	return mod
}
