// Package damage computes attack results from stats, attack tier and
// element affinity.
package damage

import (
	"math"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/element"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

// magicReduction scales the defense term for magic attacks.
const magicReduction = 0.2

// blockReduction scales the defense term when the player blocked.
const blockReduction = 2.0

type tierCoeff struct{ base, scale float64 }

var (
	limitCoeffs = [3]tierCoeff{{40, 1.5}, {80, 2.0}, {120, 2.5}}
	magicCoeffs = [3]tierCoeff{{5, 0.8}, {15, 1.0}, {45, 1.2}}
)

// PlayerPower returns the raw power of a before affinity and defense.
//
// Precondition: a.Tier is in 1..3 for limit and magic attacks.
func PlayerPower(a *attack.PlayerAttack, attacker stats.Stats) float64 {
	tier := a.Tier - 1
	if tier < 0 {
		tier = 0
	}
	if tier > 2 {
		tier = 2
	}
	switch a.Type {
	case attack.Limit:
		c := limitCoeffs[tier]
		return c.base + c.scale*float64(attacker.Strength)
	case attack.Magic:
		c := magicCoeffs[tier]
		return c.base + c.scale*float64(attacker.Wisdom)
	default:
		return 1.5 * float64(attacker.Strength)
	}
}

func reduction(defense int, power float64) float64 {
	d := float64(defense)
	return d + d/300*power
}

// Player returns the result of the player using a against a defender with
// the given element and stats. A negative result heals the defender.
//
// Postcondition: result == round(power*affinity - reduction).
func Player(a *attack.PlayerAttack, attacker stats.Stats, defElem element.Element, defender stats.Stats) int {
	power := PlayerPower(a, attacker) * element.Affinity(a.Element, defElem)
	red := reduction(defender.Defense, power)
	if a.Type == attack.Magic {
		red *= magicReduction
	}
	return int(math.Round(power - red))
}

// EnemyPower returns the raw power of an enemy attack.
func EnemyPower(a attack.EnemyAttack, enemy, target stats.Stats) float64 {
	var stat int
	switch a.Type {
	case attack.EnemyMagic:
		stat = enemy.Wisdom
	case attack.Percentile:
		stat = target.HPMax
	default:
		stat = enemy.Strength
	}
	return a.DamageModifier * float64(stat)
}

// Enemy returns the damage dealt by an enemy attack against the player.
//
// Postcondition: result >= 0.
func Enemy(a attack.EnemyAttack, enemy, target stats.Stats, blocked bool) int {
	power := EnemyPower(a, enemy, target)
	red := reduction(target.Defense, power)
	if a.Type == attack.EnemyMagic {
		red *= magicReduction
	}
	if blocked {
		red *= blockReduction
	}
	n := int(math.Round(power - red))
	if n < 0 {
		return 0
	}
	return n
}

// LimitGain returns the limit meter gain for taking dmg against hpMax,
// capped at 100.
//
// Postcondition: 0 when hpMax <= 0 or dmg <= 0.
func LimitGain(dmg, hpMax int) int {
	if hpMax <= 0 || dmg <= 0 {
		return 0
	}
	gain := 200 * dmg / hpMax
	if gain > 100 {
		return 100
	}
	return gain
}
