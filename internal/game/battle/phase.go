package battle

// Phase is a battle state. Values double as looplab/fsm state names.
type Phase string

const (
	PhaseInitialization Phase = "initialization"
	PhaseIdle           Phase = "idle"
	PhasePlayerAction   Phase = "player_action"
	PhaseEnemyAction    Phase = "enemy_action"
	PhaseWin            Phase = "win"
	PhaseLose           Phase = "lose"
	PhaseDeinitialize   Phase = "deinitialize"
)

// fsm event names.
const (
	evReady     = "ready"
	evAct       = "act"
	evWin       = "win"
	evEnemyTurn = "enemy_turn"
	evLose      = "lose"
	evNextRound = "next_round"
	evFinish    = "finish"
	evReset     = "reset"
)

// autoAdvances reports whether the phase moves on by itself once its
// announcements have drained.
func (p Phase) autoAdvances() bool {
	return p != PhaseIdle && p != PhaseDeinitialize
}

// Outcome is the result of a finished battle.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}
