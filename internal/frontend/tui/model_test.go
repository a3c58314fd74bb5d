package tui_test

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/frontend/tui"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
)

const delay = 10 * time.Millisecond

type driver struct {
	t   *testing.T
	m   tui.Model
	now time.Time
}

func newDriver(t *testing.T) *driver {
	t.Helper()
	bundle, err := content.Load("../../../content")
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	m, err := tui.New(tui.Options{
		Bundle:       bundle,
		Roller:       dice.NewLoggedRoller(dice.NewSequenceSource(20), logger),
		Battle:       battle.Config{ActionDelay: delay},
		TickInterval: time.Millisecond,
		Logger:       logger,
	})
	require.NoError(t, err)
	return &driver{t: t, m: m, now: time.Now()}
}

func (d *driver) update(msg tea.Msg) tea.Cmd {
	d.t.Helper()
	next, cmd := d.m.Update(msg)
	m, ok := next.(tui.Model)
	require.True(d.t, ok)
	d.m = m
	return cmd
}

func (d *driver) press(k string) tea.Cmd {
	d.t.Helper()
	switch k {
	case "esc":
		return d.update(tea.KeyMsg{Type: tea.KeyEsc})
	default:
		return d.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

// advance sends one full action delay worth of timer.
func (d *driver) advance() {
	d.t.Helper()
	d.now = d.now.Add(delay)
	d.update(tui.TickAt(d.now))
}

func (d *driver) untilPhase(want battle.Phase) {
	d.t.Helper()
	for i := 0; i < 50; i++ {
		if d.m.Machine().Phase() == want {
			return
		}
		d.advance()
	}
	d.t.Fatalf("never reached %s; stuck in %s", want, d.m.Machine().Phase())
}

func TestModel_StartsAtCamp(t *testing.T) {
	d := newDriver(t)
	assert.Equal(t, battle.PhaseDeinitialize, d.m.Machine().Phase())
	assert.Contains(t, d.m.View(), "Press [f] to seek a battle.")
	assert.Contains(t, d.m.View(), "HP    ["+strings.Repeat("#", 20)+"] 100/100")
	assert.Contains(t, d.m.View(), "Limit ["+strings.Repeat("-", 20)+"] 0%")
	assert.NotNil(t, d.m.Init())

	d.press("1")
	assert.Equal(t, battle.PhaseDeinitialize, d.m.Machine().Phase(), "actions are ignored at camp")
}

func TestModel_FightAndAttack(t *testing.T) {
	d := newDriver(t)
	d.press("f")
	require.Equal(t, battle.PhaseInitialization, d.m.Machine().Phase())
	enemyName := d.m.Machine().Enemy().Name

	d.untilPhase(battle.PhaseIdle)
	view := d.m.View()
	assert.Contains(t, view, "A wild "+enemyName+" appears!")
	assert.Contains(t, view, "[1] Tackle  [2] Magic  [3] Block  [4] Item")

	d.press("1")
	assert.Equal(t, battle.PhasePlayerAction, d.m.Machine().Phase())
	d.advance()
	assert.Contains(t, d.m.View(), "You used Tackle")
}

func TestModel_MagicSubmenu(t *testing.T) {
	d := newDriver(t)
	d.press("f")
	d.untilPhase(battle.PhaseIdle)

	d.press("2")
	view := d.m.View()
	assert.Contains(t, view, "[1] Fire Ball")
	assert.Contains(t, view, "[4] Stone Edge")

	d.press("esc")
	assert.Contains(t, d.m.View(), "[2] Magic")

	d.press("2")
	d.press("1")
	assert.Equal(t, battle.PhasePlayerAction, d.m.Machine().Phase())
	p := d.m.Machine().Player()
	assert.Less(t, p.Stats.MP, p.Stats.MPMax)
}

func TestModel_ItemSubmenu(t *testing.T) {
	d := newDriver(t)
	d.press("f")
	d.untilPhase(battle.PhaseIdle)

	d.press("4")
	assert.Contains(t, d.m.View(), "[1] Blue Potion I")
	d.press("9")
	assert.Equal(t, battle.PhaseIdle, d.m.Machine().Phase(), "out-of-range picks are ignored")

	d.press("1")
	assert.Equal(t, battle.PhasePlayerAction, d.m.Machine().Phase())
	assert.Equal(t, 4, d.m.Machine().Player().Quantity("blue_potion_1"))
}

func TestModel_Quit(t *testing.T) {
	d := newDriver(t)
	cmd := d.press("q")
	require.NotNil(t, cmd)
	assert.True(t, d.m.Quitting)
	assert.Equal(t, "Goodbye\n", d.m.View())
	assert.NoError(t, d.m.Err())
}
