// Package progression applies experience gains and level-ups to a stat profile.
package progression

import "github.com/cory-johannsen/limitbreak/internal/game/stats"

// MaxLevel is the highest reachable level.
const MaxLevel = 5

// thresholds[i] is the experience needed to leave level i+1. The final entry
// is a sentinel for the max level.
var thresholds = [MaxLevel]int{1000, 8000, 27000, 64000, 1}

// Threshold returns the experience needed to advance from level, or 0 when
// level is outside [1, MaxLevel].
func Threshold(level int) int {
	if level < 1 || level > MaxLevel {
		return 0
	}
	return thresholds[level-1]
}

// Result reports the outcome of one Apply call.
type Result struct {
	LeveledUp bool
	Level     int
}

// Apply adds gained experience to s and performs at most one level-up.
//
// Precondition: s must be non-nil; gained >= 0.
// Postcondition: at MaxLevel experience is pinned to 1. Otherwise, when the
// experience reaches the current threshold, experience keeps only the
// remainder, the level rises by one, maxima grow and HP and MP are refilled.
func Apply(s *stats.Stats, gained int) Result {
	s.Experience += gained
	if s.Level >= MaxLevel {
		s.Experience = 1
		return Result{Level: s.Level}
	}
	need := Threshold(s.Level)
	if need <= 0 || s.Experience < need {
		return Result{Level: s.Level}
	}

	s.Experience %= need
	s.Level++
	s.HPMax += s.Level * 50
	s.HP = s.HPMax
	s.Strength += s.Level * 5
	s.Wisdom += s.Level * 5
	s.MPMax += 40 + s.Wisdom*5
	s.MP = s.MPMax
	return Result{LeveledUp: true, Level: s.Level}
}
