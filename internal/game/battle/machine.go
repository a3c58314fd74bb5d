// Package battle sequences a single player-versus-enemy battle through its
// phases on a fixed timer tick, revealing announcements one per interval.
package battle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
	"github.com/cory-johannsen/limitbreak/internal/game/enemy"
	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
)

var (
	// ErrBattleInProgress is returned by Start outside Deinitialize.
	ErrBattleInProgress = errors.New("battle already in progress")
	// ErrNotIdle is returned by Choose outside Idle.
	ErrNotIdle = errors.New("battle is not waiting for input")
	// ErrInvalidIntent is returned by Choose for an intent that cannot run.
	ErrInvalidIntent = errors.New("invalid intent")
	// ErrNoEnemyAttacks is returned when the enemy has nothing to attack with.
	ErrNoEnemyAttacks = errors.New("enemy has no attacks")
)

// DefaultActionDelay is the reveal interval used when Config leaves it unset.
const DefaultActionDelay = 1500 * time.Millisecond

// DefaultMaxEnemyRerolls bounds the affordable-attack re-roll loop.
const DefaultMaxEnemyRerolls = 64

// Config tunes the pacing and enemy selection of a Machine.
type Config struct {
	ActionDelay     time.Duration
	MaxEnemyRerolls int
}

func (c Config) withDefaults() Config {
	if c.ActionDelay <= 0 {
		c.ActionDelay = DefaultActionDelay
	}
	if c.MaxEnemyRerolls <= 0 {
		c.MaxEnemyRerolls = DefaultMaxEnemyRerolls
	}
	return c
}

// ItemLookup resolves item ids for the item intent and loot announcements.
type ItemLookup interface {
	Get(id string) (*item.Item, error)
}

// UnlockLookup lists the player attacks granted on reaching a level.
type UnlockLookup interface {
	UnlockedAt(level int) []*attack.PlayerAttack
}

// Machine owns one battle context: the player, the current enemy, the
// announcement queue and the pending intent.
//
// A Machine is not safe for concurrent use.
type Machine struct {
	cfg    Config
	fsm    *fsm.FSM
	logger *zap.Logger

	roller   *dice.Roller
	items    ItemLookup
	unlocks  UnlockLookup
	narrator Narrator

	player   *player.Player
	enemy    *enemy.Enemy
	queue    Queue
	intent   Intent
	blocked  bool
	elapsed  time.Duration
	outcome  Outcome
	battleID string
	turn     int
	err      error

	// OnOutcome, when set, is called on entering Deinitialize.
	OnOutcome func(Outcome)
	// OnReveal, when set, is called with each announcement as Tick reveals it.
	OnReveal func(line string)
}

// NewMachine builds a Machine resting in Deinitialize so that the first
// Start behaves like every later one.
//
// Precondition: p, roller, items and logger must be non-nil; unlocks and
// narrator may be nil (no attacks are granted on level-up; no scripted lines).
// Postcondition: Phase() == PhaseDeinitialize.
func NewMachine(
	p *player.Player,
	cfg Config,
	roller *dice.Roller,
	items ItemLookup,
	unlocks UnlockLookup,
	narrator Narrator,
	logger *zap.Logger,
) *Machine {
	m := &Machine{
		cfg:      cfg.withDefaults(),
		logger:   logger,
		roller:   roller,
		items:    items,
		unlocks:  unlocks,
		narrator: narrator,
		player:   p,
	}
	m.fsm = fsm.NewFSM(
		string(PhaseDeinitialize),
		fsm.Events{
			{Name: evReady, Src: []string{string(PhaseInitialization)}, Dst: string(PhaseIdle)},
			{Name: evAct, Src: []string{string(PhaseIdle)}, Dst: string(PhasePlayerAction)},
			{Name: evWin, Src: []string{string(PhasePlayerAction)}, Dst: string(PhaseWin)},
			{Name: evEnemyTurn, Src: []string{string(PhasePlayerAction)}, Dst: string(PhaseEnemyAction)},
			{Name: evLose, Src: []string{string(PhaseEnemyAction)}, Dst: string(PhaseLose)},
			{Name: evNextRound, Src: []string{string(PhaseEnemyAction)}, Dst: string(PhaseIdle)},
			{Name: evFinish, Src: []string{string(PhaseWin), string(PhaseLose)}, Dst: string(PhaseDeinitialize)},
			{Name: evReset, Src: []string{string(PhaseDeinitialize)}, Dst: string(PhaseInitialization)},
		},
		fsm.Callbacks{
			"enter_" + string(PhaseInitialization): func(_ context.Context, _ *fsm.Event) { m.enterInitialization() },
			"enter_" + string(PhaseIdle):           func(_ context.Context, _ *fsm.Event) { m.enterIdle() },
			"enter_" + string(PhasePlayerAction):   func(_ context.Context, _ *fsm.Event) { m.enterPlayerAction() },
			"enter_" + string(PhaseEnemyAction):    func(_ context.Context, _ *fsm.Event) { m.enterEnemyAction() },
			"enter_" + string(PhaseWin):            func(_ context.Context, _ *fsm.Event) { m.enterWin() },
			"enter_" + string(PhaseLose):           func(_ context.Context, _ *fsm.Event) { m.enterLose() },
			"enter_" + string(PhaseDeinitialize):   func(_ context.Context, _ *fsm.Event) { m.enterDeinitialize() },
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.elapsed = 0
				m.logger.Debug("battle phase entered",
					zap.String("battle_id", m.battleID),
					zap.String("from", e.Src),
					zap.String("phase", e.Dst),
					zap.String("event", e.Event),
				)
				m.narrate(Phase(e.Dst))
			},
		},
	)
	return m
}

// Phase returns the current battle phase.
func (m *Machine) Phase() Phase { return Phase(m.fsm.Current()) }

// Display returns the most recently revealed announcement.
func (m *Machine) Display() string { return m.queue.Display() }

// Pending returns the announcements still waiting to be revealed.
func (m *Machine) Pending() []string { return m.queue.Pending() }

// Player returns the player combatant.
func (m *Machine) Player() *player.Player { return m.player }

// Enemy returns the current enemy, or nil outside a battle.
func (m *Machine) Enemy() *enemy.Enemy { return m.enemy }

// Outcome returns the result of the last finished battle.
func (m *Machine) Outcome() Outcome { return m.outcome }

// BattleID returns the id assigned by the last Start.
func (m *Machine) BattleID() string { return m.battleID }

// Turn returns the number of Idle entries in the current battle.
func (m *Machine) Turn() int { return m.turn }

// Config returns the effective configuration.
func (m *Machine) Config() Config { return m.cfg }

// Start begins a battle against e.
//
// Precondition: e must be non-nil.
// Postcondition: on success Phase() == PhaseInitialization, the queue holds
// the encounter line and the outcome is cleared. Returns ErrBattleInProgress
// unless the machine is in Deinitialize.
func (m *Machine) Start(e *enemy.Enemy) error {
	if !m.fsm.Is(string(PhaseDeinitialize)) {
		return fmt.Errorf("start %s: %w", e.Name, ErrBattleInProgress)
	}
	m.queue.Reset()
	m.intent = Intent{}
	m.blocked = false
	m.outcome = OutcomeNone
	m.turn = 0
	m.err = nil
	m.enemy = e
	m.battleID = uuid.New().String()
	m.logger.Info("battle started",
		zap.String("battle_id", m.battleID),
		zap.String("enemy", e.TemplateID),
		zap.String("enemy_id", e.ID),
	)
	return m.fire(evReset)
}

// Tick advances the phase timer by dt. Each time the timer reaches the
// action delay one step runs: the oldest queued announcement is revealed,
// or, with nothing queued, the phase advances. Idle and Deinitialize never
// advance on their own.
//
// Postcondition: returns any fatal error raised while resolving a phase.
func (m *Machine) Tick(dt time.Duration) error {
	m.elapsed += dt
	if m.elapsed < m.cfg.ActionDelay {
		return nil
	}
	m.elapsed -= m.cfg.ActionDelay
	if m.queue.Reveal() {
		if m.OnReveal != nil {
			m.OnReveal(m.queue.Display())
		}
		return nil
	}
	phase := m.Phase()
	if !phase.autoAdvances() {
		m.elapsed = 0
		return nil
	}
	return m.fire(m.nextEvent(phase))
}

// nextEvent picks the transition out of phase once its queue has drained.
func (m *Machine) nextEvent(phase Phase) string {
	switch phase {
	case PhaseInitialization:
		return evReady
	case PhasePlayerAction:
		if !m.enemy.Stats.Alive() {
			return evWin
		}
		return evEnemyTurn
	case PhaseEnemyAction:
		if !m.player.Stats.Alive() {
			return evLose
		}
		return evNextRound
	default:
		return evFinish
	}
}

// Choose submits the player's intent for this turn.
//
// Precondition: Phase() == PhaseIdle.
// Postcondition: on success the intent is resolved and Phase() == PhasePlayerAction;
// on error nothing has changed.
func (m *Machine) Choose(in Intent) error {
	if !m.fsm.Is(string(PhaseIdle)) {
		return fmt.Errorf("choose %s in %s: %w", in, m.Phase(), ErrNotIdle)
	}
	resolved, err := m.validate(in)
	if err != nil {
		return err
	}
	m.intent = resolved
	m.logger.Debug("intent chosen",
		zap.String("battle_id", m.battleID),
		zap.Int("turn", m.turn),
		zap.Stringer("intent", resolved),
	)
	return m.fire(evAct)
}

// validate checks in against the player's current state. An Attack intent
// with a full limit meter becomes a LimitBreak intent.
func (m *Machine) validate(in Intent) (Intent, error) {
	p := m.player
	switch in.Kind {
	case IntentAttack:
		if p.LimitReady() {
			return LimitBreak(), nil
		}
		return in, nil
	case IntentLimitBreak:
		if !p.LimitReady() {
			return in, fmt.Errorf("limit break at %d%%: %w", p.Limit, ErrInvalidIntent)
		}
		return in, nil
	case IntentMagic:
		a := p.Magic(in.Slot)
		if a == nil {
			return in, fmt.Errorf("magic slot %d is empty: %w", in.Slot, ErrInvalidIntent)
		}
		if p.Stats.MP < a.MPUse {
			return in, fmt.Errorf("%s needs %d MP, have %d: %w", a.Name, a.MPUse, p.Stats.MP, ErrInvalidIntent)
		}
		return in, nil
	case IntentBlock:
		return in, nil
	case IntentItem:
		def, err := m.items.Get(in.ItemID)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrInvalidIntent, err)
		}
		if !def.IsConsumable() {
			return in, fmt.Errorf("%s cannot be used in battle: %w", def.Name, ErrInvalidIntent)
		}
		if p.Quantity(def.ID) <= 0 {
			return in, fmt.Errorf("no %s left: %w", def.Name, ErrInvalidIntent)
		}
		return in, nil
	default:
		return in, fmt.Errorf("intent %s: %w", in.Kind, ErrInvalidIntent)
	}
}

// fire triggers an fsm event and surfaces any error raised by its handlers.
func (m *Machine) fire(event string) error {
	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("battle %s: event %q: %w", m.battleID, event, err)
	}
	return m.takeErr()
}

func (m *Machine) fail(err error) {
	if m.err == nil {
		m.err = err
	}
	m.logger.Error("battle phase failed",
		zap.String("battle_id", m.battleID),
		zap.String("phase", m.fsm.Current()),
		zap.Error(err),
	)
}

func (m *Machine) takeErr() error {
	err := m.err
	m.err = nil
	return err
}

// narrate enqueues the narrator's line for phase, if any. Narrator failures
// are logged and otherwise ignored.
func (m *Machine) narrate(phase Phase) {
	if m.narrator == nil || m.enemy == nil {
		return
	}
	line, err := m.narrator.Narrate(m.snapshot(phase))
	if err != nil {
		m.logger.Warn("narrator failed",
			zap.String("battle_id", m.battleID),
			zap.String("phase", string(phase)),
			zap.Error(err),
		)
		return
	}
	m.queue.Push(line)
}

func (m *Machine) snapshot(phase Phase) Snapshot {
	return Snapshot{
		BattleID:     m.battleID,
		Phase:        phase,
		Turn:         m.turn,
		TemplateID:   m.enemy.TemplateID,
		EnemyName:    m.enemy.Name,
		EnemyHP:      m.enemy.Stats.HP,
		EnemyHPMax:   m.enemy.Stats.HPMax,
		PlayerHP:     m.player.Stats.HP,
		PlayerHPMax:  m.player.Stats.HPMax,
		PlayerLimit:  m.player.Limit,
		PlayerLevel:  m.player.Stats.Level,
		LastIntent:   m.intent.Kind.String(),
		PlayerBlocks: m.blocked,
	}
}
