package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/game/dice"
)

// GlobalScope is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no template VM is found.
const GlobalScope = "__global__"

// EnemiesDir is the subdirectory of a scripts root holding one directory of
// scripts per enemy template id.
const EnemiesDir = "enemies"

// vm is one sandboxed LState. An LState is single-threaded, so every use
// holds mu.
type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed VM per enemy template plus an optional global VM
// and dispatches named hooks to them.
//
// Manager is safe for concurrent use. Calls into the same VM are serialized;
// different VMs run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadTemplate creates a sandboxed VM scoped to enemy template templateID,
// registers the engine.* modules, then executes every *.lua file in
// scriptDir in lexicographic order.
//
// Precondition: templateID must be non-empty; scriptDir must be a readable directory.
// Postcondition: The template VM replaces any previous one; returns error on Lua load failure.
func (m *Manager) LoadTemplate(templateID, scriptDir string, instLimit int) error {
	if templateID == "" || templateID == GlobalScope {
		return fmt.Errorf("scripting: invalid template id %q", templateID)
	}
	return m.loadInto(templateID, scriptDir, instLimit)
}

// LoadGlobal creates the shared VM used as the CallHook fallback for every
// template without scripts of its own.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

// LoadTree loads root's own *.lua files into the global VM and every
// root/enemies/<template-id>/ directory into that template's VM.
//
// Precondition: root must be a readable directory; enemies/ is optional.
// Postcondition: Returns the template ids that received a VM, sorted.
func (m *Manager) LoadTree(root string, instLimit int) ([]string, error) {
	if err := m.LoadGlobal(root, instLimit); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(root, EnemiesDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scripting: reading %q: %w", filepath.Join(root, EnemiesDir), err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.LoadTemplate(e.Name(), filepath.Join(root, EnemiesDir, e.Name()), instLimit); err != nil {
			return nil, err
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L, key)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		cancel := limitNext(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()

	m.logger.Debug("scripting: scope loaded",
		zap.String("scope", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Has reports whether a VM is loaded for scope, not counting the fallback.
func (m *Manager) Has(scope string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[scope]
	return ok
}

// CallHook calls the named Lua global function in scope's VM, falling back
// to the global VM when scope has none or does not define hook. Returns
// (LNil, nil) if the hook is not defined anywhere. Lua runtime errors,
// including an exhausted instruction budget, are logged at Warn level and
// never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	scoped := m.vms[scope]
	global := m.vms[GlobalScope]
	m.mu.RUnlock()

	if scoped == nil && global == nil {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	for _, v := range []*vm{scoped, global} {
		if v == nil {
			continue
		}
		if ret, found := m.call(v, scope, hook, args); found {
			return ret, nil
		}
	}
	return lua.LNil, nil
}

// call runs hook in v. found is false when v does not define hook.
func (m *Manager) call(v *vm, scope, hook string, args []lua.LValue) (lua.LValue, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, false
	}

	cancel := limitNext(v.L, v.limit)
	defer cancel()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, true
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, true
}

// Close releases every VM.
//
// Postcondition: subsequent CallHook calls return (LNil, nil).
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, key)
	}
}
