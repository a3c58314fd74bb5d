package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/limitbreak/internal/game/dice"
	"github.com/cory-johannsen/limitbreak/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewSequenceSource(0), logger)
	return scripting.NewManager(roller, logger), logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func TestManager_LoadTemplate_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadTemplate("slime", dir, 0))
	assert.True(t, mgr.Has("slime"))
	ret, err := mgr.CallHook("slime", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_LoadTemplate_RejectsReservedID(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadTemplate(scripting.GlobalScope, t.TempDir(), 0))
	assert.Error(t, mgr.LoadTemplate("", t.TempDir(), 0))
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `-- no functions`)
	require.NoError(t, mgr.LoadTemplate("slime", dir, 0))
	ret, err := mgr.CallHook("slime", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownScope_ReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("no_such_enemy", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: no VM for scope").Len())
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadTemplate("slime", dir, 0))
	ret, err := mgr.CallHook("slime", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len(), "expected Warn log for Lua runtime error")
}

func TestManager_GlobalFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadGlobal(writeTempLua(t, "global.lua", `
		function shared() return "global" end
		function overridden() return "global" end
	`), 0))
	require.NoError(t, mgr.LoadTemplate("slime", writeTempLua(t, "slime.lua", `
		function overridden() return "slime" end
	`), 0))

	ret, err := mgr.CallHook("duck", "shared")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("global"), ret, "scope without a VM falls back")

	ret, err = mgr.CallHook("slime", "shared")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("global"), ret, "hook missing in scope falls back")

	ret, err = mgr.CallHook("slime", "overridden")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("slime"), ret)
}

func TestManager_InstructionLimitIsPerCall(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.LoadTemplate("slime", writeTempLua(t, "loop.lua", `
		function small()
			local n = 0
			for i = 1, 20 do n = n + i end
			return n
		end
		function forever()
			while true do end
		end
	`), 500))

	for i := 0; i < 50; i++ {
		ret, err := mgr.CallHook("slime", "small")
		require.NoError(t, err)
		require.Equal(t, lua.LNumber(210), ret, "call %d", i)
	}

	ret, err := mgr.CallHook("slime", "forever")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())

	ret, err = mgr.CallHook("slime", "small")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(210), ret, "VM recovers after an exhausted budget")
}

func TestManager_LoadTree(t *testing.T) {
	mgr, _ := newTestManager(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "battle.lua"), []byte(`function who() return "global" end`), 0644))
	for _, id := range []string{"slime", "duck"} {
		dir := filepath.Join(root, scripting.EnemiesDir, id)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "x.lua"), []byte(`function who() return "`+id+`" end`), 0644))
	}

	ids, err := mgr.LoadTree(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"duck", "slime"}, ids)

	ret, _ := mgr.CallHook("duck", "who")
	assert.Equal(t, lua.LString("duck"), ret)
	ret, _ = mgr.CallHook("rocky", "who")
	assert.Equal(t, lua.LString("global"), ret)
}

func TestManager_LoadTree_NoEnemiesDir(t *testing.T) {
	mgr, _ := newTestManager(t)
	ids, err := mgr.LoadTree(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.True(t, mgr.Has(scripting.GlobalScope))
}

func TestManager_LoadTemplate_EmptyDir_NoError(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadTemplate("slime", t.TempDir(), 0))
	ret, err := mgr.CallHook("slime", "anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_LoadTemplate_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	err := mgr.LoadTemplate("slime", dir, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.lua")
	assert.False(t, mgr.Has("slime"))
}

func TestManager_LoadTemplate_MissingDir_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadTemplate("slime", filepath.Join(t.TempDir(), "nope"), 0))
}

func TestManager_LoadTemplate_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
		function get_val() return base_val end
	`), 0644))
	require.NoError(t, mgr.LoadTemplate("ordered", dir, 0))
	ret, err := mgr.CallHook("ordered", "get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestManager_Reload_ReplacesVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadTemplate("slime", writeTempLua(t, "v1.lua", `function v() return 1 end`), 0))
	require.NoError(t, mgr.LoadTemplate("slime", writeTempLua(t, "v2.lua", `function v() return 2 end`), 0))
	ret, err := mgr.CallHook("slime", "v")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(2), ret)
}

func TestNewManager_PanicsOnNilRoller(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(nil, zap.NewNop())
	})
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	assert.Panics(t, func() {
		scripting.NewManager(roller, nil)
	})
}

func TestManager_Close_ReleasesScopes(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "init.lua", `function get_x() return 1 end`)
	require.NoError(t, mgr.LoadTemplate("slime", dir, 0))
	mgr.Close()
	ret, err := mgr.CallHook("slime", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.False(t, mgr.Has("slime"))
}

func TestProperty_CallHookMissingScopeNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		scope := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "scope")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		ret, err := mgr.CallHook(scope, hook)
		if err != nil || ret != lua.LNil {
			rt.Fatalf("CallHook(%q, %q) = %v, %v", scope, hook, ret, err)
		}
	})
}

func TestManager_CallHookConcurrentSameScope(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		counter = 0
		function concurrent_hook(a, b)
			counter = counter + 1
			return a + b
		end
		function count() return counter end
	`)
	require.NoError(t, mgr.LoadTemplate("slime", dir, 0))

	const goroutines = 10
	const callsEach = 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				ret, err := mgr.CallHook("slime", "concurrent_hook", lua.LNumber(1), lua.LNumber(2))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()

	ret, err := mgr.CallHook("slime", "count")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(goroutines*callsEach), ret)
}
