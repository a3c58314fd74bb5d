// Package dice provides the randomness abstraction used by loot rolls and
// enemy attack selection.
package dice

import "fmt"

// Source is the randomness provider for every random draw in a battle.
//
// Implementations used across goroutines MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Draw holds the audit trail for a single labelled draw.
//
// Postcondition: 0 <= Value < N.
type Draw struct {
	Label string // what the draw decided, e.g. "loot" or "enemy_attack"
	N     int    // exclusive upper bound
	Value int    // drawn value
}

// String returns a human-readable audit string in the format:
//
//	"loot d23 → 7"
//
// Precondition: d.Label is non-empty.
func (d Draw) String() string {
	if d.Label == "" {
		panic("dice: Draw.String() precondition violated: Label must be non-empty")
	}
	return fmt.Sprintf("%s d%d → %d", d.Label, d.N, d.Value)
}
