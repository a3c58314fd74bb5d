package enemy

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/element"
	"github.com/cory-johannsen/limitbreak/internal/game/loot"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

// Enemy is a live enemy for the duration of one battle.
type Enemy struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's ID.
	TemplateID  string
	Name        string
	Description string
	Element     element.Element
	NextPhase   string
	Stats       stats.Stats
	Attacks     []attack.EnemyAttack
	Loot        []loot.Table
}

// NewInstance creates a fresh enemy from tmpl with a new random ID.
//
// Precondition: tmpl must be non-nil and valid.
// Postcondition: HP == HPMax and MP == MPMax; attacks and loot are copies so
// mutating the instance never touches the template.
func NewInstance(tmpl *Template) *Enemy {
	s := tmpl.Stats
	s.FullRestore()
	return &Enemy{
		ID:          uuid.New().String(),
		TemplateID:  tmpl.ID,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Element:     tmpl.Element,
		NextPhase:   tmpl.NextPhase,
		Stats:       s,
		Attacks:     append([]attack.EnemyAttack(nil), tmpl.Attacks...),
		Loot:        append([]loot.Table(nil), tmpl.Loot...),
	}
}

// Affordable returns the indices of attacks whose MPUse fits the current MP.
func (e *Enemy) Affordable() []int {
	var idx []int
	for i, a := range e.Attacks {
		if a.MPUse <= e.Stats.MP {
			idx = append(idx, i)
		}
	}
	return idx
}

// Cheapest returns the index of the attack with the lowest MPUse; ties go to
// the earliest entry. Returns -1 when there are no attacks.
func (e *Enemy) Cheapest() int {
	best := -1
	for i, a := range e.Attacks {
		if best < 0 || a.MPUse < e.Attacks[best].MPUse {
			best = i
		}
	}
	return best
}
