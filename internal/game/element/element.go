// Package element defines the six battle elements and the affinity table
// used to scale attack power.
package element

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Element identifies the elemental type of a combatant or attack.
// The zero value (None) means the side has no element.
type Element int

const (
	None Element = iota
	Fire
	Earth
	Electric
	Water
	Light
	Dark
)

var names = map[Element]string{
	None:     "none",
	Fire:     "fire",
	Earth:    "earth",
	Electric: "electric",
	Water:    "water",
	Light:    "light",
	Dark:     "dark",
}

// String returns the lower-case element name.
func (e Element) String() string {
	if n, ok := names[e]; ok {
		return n
	}
	return "unknown"
}

// Parse converts a lower-case element name into an Element.
// The empty string and "none" both parse to None.
//
// Postcondition: Returns an error iff s names no element.
func Parse(s string) (Element, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return None, nil
	}
	for e, n := range names {
		if n == key {
			return e, nil
		}
	}
	return None, fmt.Errorf("element: unknown element %q", s)
}

// UnmarshalYAML decodes an element from its scalar name.
func (e *Element) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// MarshalYAML encodes the element as its scalar name.
func (e Element) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

type pair struct{ atk, def Element }

// affinities holds every non-neutral, non-identical pairing.
var affinities = map[pair]float64{
	{Water, Fire}:     2.0,
	{Fire, Earth}:     2.0,
	{Earth, Electric}: 2.0,
	{Electric, Water}: 2.0,
	{Dark, Light}:     2.0,
	{Light, Dark}:     2.0,

	{Fire, Water}:     0.5,
	{Earth, Fire}:     0.5,
	{Electric, Earth}: 0.5,
	{Water, Electric}: 0.5,
}

// Affinity returns the damage multiplier for an attack of element atk
// striking a defender of element def.
//
// The relation is not symmetric: Affinity(Water, Fire) is 2.0 while
// Affinity(Fire, Water) is 0.5. An element striking itself yields -1.0,
// which turns the hit into healing.
//
// Postcondition: Returns one of 2.0, 1.0, 0.5, -1.0; 1.0 whenever either side is None.
func Affinity(atk, def Element) float64 {
	if atk == None || def == None {
		return 1.0
	}
	if atk == def {
		return -1.0
	}
	if m, ok := affinities[pair{atk, def}]; ok {
		return m
	}
	return 1.0
}

// All returns every concrete element in declaration order.
func All() []Element {
	return []Element{Fire, Earth, Electric, Water, Light, Dark}
}
