// Package tui is a local terminal frontend for a single battle machine,
// built on bubbletea. It only writes intents and reads machine state.
package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
)

// logSize is how many revealed announcements the battle log keeps.
const logSize = 8

// screen is what the keyboard currently drives.
type screen int

const (
	screenCamp screen = iota
	screenWait
	screenMenu
	screenMagic
	screenItems
)

// tickMsg drives the battle timer.
type tickMsg time.Time

// TickAt is the timer message for t, for driving a Model without a program.
func TickAt(t time.Time) tea.Msg { return tickMsg(t) }

// feed collects what the machine reports through its callbacks. The Model
// is copied on every Update, so it holds the feed by pointer.
type feed struct {
	lines   []string
	outcome battle.Outcome
	ended   bool
}

func (f *feed) push(line string) {
	f.lines = append(f.lines, line)
	if len(f.lines) > logSize {
		f.lines = f.lines[len(f.lines)-logSize:]
	}
}

// Options configures New.
type Options struct {
	Bundle   *content.Bundle
	Roller   *dice.Roller
	Narrator battle.Narrator
	Battle   battle.Config
	// TickInterval is how often the battle timer advances.
	TickInterval time.Duration
	Logger       *zap.Logger
}

// Model is the bubbletea model.
type Model struct {
	opts    Options
	machine *battle.Machine
	feed    *feed

	screen  screen
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	last    time.Time
	status  string
	err     error

	Quitting bool
}

// New builds a Model resting at camp with a fresh player.
//
// Precondition: opts.Bundle, opts.Roller and opts.Logger must be non-nil;
// opts.TickInterval > 0.
// Postcondition: Returns a Model or the error from building the player.
func New(opts Options) (Model, error) {
	m := Model{
		opts:    opts,
		feed:    &feed{},
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		last:    time.Now(),
	}
	if err := m.newMachine(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// newMachine starts over with a fresh player from the starting profile.
func (m *Model) newMachine() error {
	p, err := m.opts.Bundle.NewPlayer()
	if err != nil {
		return err
	}
	f := m.feed
	mach := battle.NewMachine(p, m.opts.Battle, m.opts.Roller, m.opts.Bundle.Items,
		m.opts.Bundle.Attacks, m.opts.Narrator, m.opts.Logger)
	mach.OnReveal = f.push
	mach.OnOutcome = func(o battle.Outcome) {
		f.outcome = o
		f.ended = true
	}
	m.machine = mach
	m.screen = screenCamp
	return nil
}

// Machine exposes the driven machine for inspection.
func (m Model) Machine() *battle.Machine { return m.machine }

// Err returns the fatal battle error that stopped the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		now := time.Time(msg)
		dt := now.Sub(m.last)
		m.last = now
		if err := m.machine.Tick(dt); err != nil {
			m.opts.Logger.Error("battle failed", zap.String("battle_id", m.machine.BattleID()), zap.Error(err))
			m.err = err
			m.Quitting = true
			return m, tea.Quit
		}
		if err := m.sync(); err != nil {
			m.err = err
			m.Quitting = true
			return m, tea.Quit
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// sync moves the screen to follow the machine's phase.
func (m *Model) sync() error {
	switch phase := m.machine.Phase(); {
	case phase == battle.PhaseIdle:
		if m.screen == screenWait {
			m.screen = screenMenu
		}
	case phase == battle.PhaseDeinitialize:
		if m.feed.ended {
			m.feed.ended = false
			if m.feed.outcome == battle.OutcomeDefeat {
				m.status = "You were defeated. A new adventurer takes your place."
				return m.newMachine()
			}
			m.status = "Victory!"
		}
		m.screen = screenCamp
	default:
		m.screen = screenWait
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Quitting = true
		return m, tea.Quit
	}
	switch m.screen {
	case screenCamp:
		if key.Matches(msg, m.keys.Fight) {
			m.startFight()
		}
	case screenMenu:
		switch {
		case key.Matches(msg, m.keys.Attack):
			m.choose(battle.Attack())
		case key.Matches(msg, m.keys.Magic):
			m.screen = screenMagic
		case key.Matches(msg, m.keys.Block):
			m.choose(battle.Block())
		case key.Matches(msg, m.keys.Item):
			m.screen = screenItems
		}
	case screenMagic, screenItems:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.screen = screenMenu
		case key.Matches(msg, m.keys.Pick):
			entries := m.submenu()
			n := int(msg.Runes[0] - '1')
			if n < len(entries) {
				m.choose(entries[n].Intent)
			}
		}
	}
	if m.err != nil {
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startFight() {
	all := m.opts.Bundle.Enemies.All()
	if len(all) == 0 {
		m.status = "There is nothing to fight."
		return
	}
	t := all[m.opts.Roller.Roll("encounter", len(all)).Value]
	e, err := m.opts.Bundle.NewEnemy(t.ID)
	if err == nil {
		err = m.machine.Start(e)
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.feed.lines = nil
	m.status = ""
	m.screen = screenWait
}

// choose submits in; rejections are shown in the status line.
func (m *Model) choose(in battle.Intent) {
	err := m.machine.Choose(in)
	switch {
	case err == nil:
		m.status = ""
		m.screen = screenWait
	case errors.Is(err, battle.ErrInvalidIntent), errors.Is(err, battle.ErrNotIdle):
		m.status = err.Error()
	default:
		m.err = err
		m.status = err.Error()
	}
}

// submenu lists the menu entries for the open magic or item screen.
func (m Model) submenu() []battle.MenuEntry {
	var out []battle.MenuEntry
	for _, e := range m.machine.Menu() {
		switch {
		case m.screen == screenMagic && e.Intent.Kind == battle.IntentMagic,
			m.screen == screenItems && e.Intent.Kind == battle.IntentItem:
			out = append(out, e)
		}
	}
	return out
}
