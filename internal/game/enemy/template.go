// Package enemy provides enemy template definitions and per-battle instances.
package enemy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/element"
	"github.com/cory-johannsen/limitbreak/internal/game/loot"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

// ErrUnknownEnemy is returned when a template id is not registered.
var ErrUnknownEnemy = errors.New("unknown enemy")

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Element     element.Element `yaml:"element"`
	// NextPhase names the template of a follow-up form. It is carried as
	// data only; no battle transitions to it automatically.
	NextPhase string               `yaml:"next_phase"`
	Stats     stats.Stats          `yaml:"stats"`
	Attacks   []attack.EnemyAttack `yaml:"attacks"`
	Loot      []loot.Table         `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, HPMax >= 1,
// MPMax >= 0, at least one attack is defined, and every attack and loot
// table is valid. All violations are reported together.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.Stats.HPMax < 1 {
		errs = append(errs, fmt.Errorf("stats.hp_max must be >= 1, got %d", t.Stats.HPMax))
	}
	if t.Stats.MPMax < 0 {
		errs = append(errs, fmt.Errorf("stats.mp_max must be >= 0, got %d", t.Stats.MPMax))
	}
	if t.Stats.Level < 1 {
		errs = append(errs, fmt.Errorf("stats.level must be >= 1, got %d", t.Stats.Level))
	}
	if len(t.Attacks) == 0 {
		errs = append(errs, errors.New("at least one attack is required"))
	}
	for i := range t.Attacks {
		if err := t.Attacks[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for i := range t.Loot {
		if err := t.Loot[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("loot[%d]: %w", i, err))
		}
	}
	if t.NextPhase != "" && t.NextPhase == t.ID {
		errs = append(errs, errors.New("next_phase must not reference itself"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("enemy template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates
// sorted by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// Registry holds enemy templates indexed by ID.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register adds t to the registry.
//
// Precondition: t must not be nil.
// Postcondition: Get(t.ID) returns t; returns error if t.ID already registered.
func (r *Registry) Register(t *Template) error {
	if _, exists := r.templates[t.ID]; exists {
		return fmt.Errorf("enemy: Registry.Register: template ID %q already registered", t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// Get returns the template with id or an error wrapping ErrUnknownEnemy.
func (r *Registry) Get(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("enemy %q: %w", id, ErrUnknownEnemy)
	}
	return t, nil
}

// All returns every template sorted by ID.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
