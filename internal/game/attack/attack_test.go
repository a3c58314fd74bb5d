package attack_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/element"
)

func validAttack() *attack.PlayerAttack {
	return &attack.PlayerAttack{ID: "fire_ball", Name: "Fire Ball", Type: attack.Magic, Element: element.Fire, MPUse: 10, Tier: 1}
}

func TestPlayerAttack_Validate_OK(t *testing.T) {
	assert.NoError(t, validAttack().Validate())
}

func TestPlayerAttack_Validate_ReportsEveryViolation(t *testing.T) {
	a := &attack.PlayerAttack{Tier: 4, MPUse: -1, UnlockLevel: 9}
	err := a.Validate()
	require.Error(t, err)
	for _, want := range []string{"id must not be empty", "name must not be empty", "tier", "mp_use", "unlock_level"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestPlayerAttack_IsComparable(t *testing.T) {
	owned := map[attack.PlayerAttack]bool{*validAttack(): true}
	assert.True(t, owned[*validAttack()])
	other := *validAttack()
	other.Tier = 2
	assert.False(t, owned[other])
}

func TestPlayerAttack_Describe(t *testing.T) {
	assert.Equal(t, "Deals Tier 1 Fire damage. Costs 10 MP", validAttack().Describe())
	tackle := &attack.PlayerAttack{ID: "tackle", Name: "Tackle", Tier: 1}
	assert.Equal(t, "Deals Tier 1 Normal damage. Costs 0 MP", tackle.Describe())
}

func TestType_UnmarshalYAML(t *testing.T) {
	var a attack.PlayerAttack
	require.NoError(t, yaml.Unmarshal([]byte("id: x\nname: X\ntype: limit\ntier: 2\n"), &a))
	assert.Equal(t, attack.Limit, a.Type)
	assert.Equal(t, element.None, a.Element)

	var bad attack.PlayerAttack
	assert.Error(t, yaml.Unmarshal([]byte("type: ultimate\n"), &bad))
}

func TestEnemyType_UnmarshalYAML(t *testing.T) {
	var list []attack.EnemyAttack
	src := "- {name: Bounce, damage_modifier: 2.0}\n- {name: Decree, damage_modifier: 0.5, mp_use: 30, type: percentile}\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &list))
	require.Len(t, list, 2)
	assert.Equal(t, attack.Physical, list[0].Type)
	assert.Equal(t, attack.Percentile, list[1].Type)
	assert.Equal(t, 30, list[1].MPUse)
}

func TestEnemyAttack_Validate(t *testing.T) {
	assert.NoError(t, (&attack.EnemyAttack{Name: "Bite", DamageModifier: 2}).Validate())
	assert.Error(t, (&attack.EnemyAttack{DamageModifier: -1, MPUse: -1}).Validate())
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := attack.NewRegistry()
	a := validAttack()
	require.NoError(t, r.Register(a))
	assert.Error(t, r.Register(a), "duplicate id rejected")

	got, err := r.Get("fire_ball")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, attack.ErrUnknownAttack)
}

func TestRegistry_UnlockedAt(t *testing.T) {
	r := attack.NewRegistry()
	require.NoError(t, r.Register(&attack.PlayerAttack{ID: "b", Name: "B", Tier: 2, UnlockLevel: 3}))
	require.NoError(t, r.Register(&attack.PlayerAttack{ID: "a", Name: "A", Tier: 2, UnlockLevel: 3}))
	require.NoError(t, r.Register(&attack.PlayerAttack{ID: "c", Name: "C", Tier: 1}))

	got := r.UnlockedAt(3)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Empty(t, r.UnlockedAt(0))
	assert.Len(t, r.All(), 3)
}

func TestLoadPlayerAttacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attacks.yaml")
	body := "attacks:\n  - {id: tackle, name: Tackle, tier: 1}\n  - {id: inferno, name: Inferno, type: magic, element: fire, mp_use: 75, tier: 3, unlock_level: 5}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	list, err := attack.LoadPlayerAttacks(path)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, element.Fire, list[1].Element)
	assert.Equal(t, 5, list[1].UnlockLevel)

	_, err = attack.LoadPlayerAttacks(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("attacks:\n  - {id: x, tier: 1}\n"), 0o644))
	_, err = attack.LoadPlayerAttacks(path)
	assert.ErrorContains(t, err, "name must not be empty")
}
