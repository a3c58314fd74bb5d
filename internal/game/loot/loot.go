// Package loot rolls the weighted drop tables enemies carry on victory.
package loot

import (
	"fmt"

	"github.com/cory-johannsen/limitbreak/internal/game/dice"
)

// Entry is one droppable item in a Table.
type Entry struct {
	ItemID string `yaml:"item"`
	Weight int    `yaml:"weight"`
}

// Table is a weighted drop table. NoDropWeight is the weight of dropping
// nothing; a table whose total weight is zero never drops.
type Table struct {
	NoDropWeight int     `yaml:"no_drop_weight"`
	Items        []Entry `yaml:"items"`
}

// Validate checks that the table satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff every weight is non-negative and every item id is non-empty.
func (t *Table) Validate() error {
	if t.NoDropWeight < 0 {
		return fmt.Errorf("loot table: no_drop_weight must be >= 0, got %d", t.NoDropWeight)
	}
	for i, e := range t.Items {
		if e.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if e.Weight < 0 {
			return fmt.Errorf("loot table: item[%d] weight must be >= 0, got %d", i, e.Weight)
		}
	}
	return nil
}

// Total returns NoDropWeight plus the sum of item weights.
func (t *Table) Total() int {
	total := t.NoDropWeight
	for _, e := range t.Items {
		total += e.Weight
	}
	return total
}

// Pick maps a roll in [0, Total()) to a drop.
//
// Postcondition: returns ("", false) when roll < NoDropWeight or out of range;
// otherwise the first item whose cumulative interval contains roll.
func (t *Table) Pick(roll int) (string, bool) {
	cum := t.NoDropWeight
	if roll < cum {
		return "", false
	}
	for _, e := range t.Items {
		if roll < cum+e.Weight {
			return e.ItemID, true
		}
		cum += e.Weight
	}
	return "", false
}

// DrawLabel labels loot draws in the dice log.
const DrawLabel = "loot"

// Roll draws once from r under DrawLabel and returns the dropped item id,
// if any.
//
// Precondition: t must have passed Validate(); r must be non-nil.
// Postcondition: r is not consulted when Total() is zero.
func (t *Table) Roll(r *dice.Roller) (string, bool) {
	total := t.Total()
	if total <= 0 {
		return "", false
	}
	return t.Pick(r.Roll(DrawLabel, total).Value)
}

// RollAll rolls every table independently and returns the drops in table order.
func RollAll(tables []Table, r *dice.Roller) []string {
	var drops []string
	for i := range tables {
		if id, ok := tables[i].Roll(r); ok {
			drops = append(drops, id)
		}
	}
	return drops
}
