package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/element"
)

const shippedDir = "../../content"

func TestLoad_ShippedContent(t *testing.T) {
	b, err := content.Load(shippedDir)
	require.NoError(t, err)

	assert.Len(t, b.Attacks.All(), 22)
	assert.Len(t, b.Items.All(), 37)
	assert.Len(t, b.Enemies.All(), 14)

	slime, err := b.Enemies.Get("slime")
	require.NoError(t, err)
	assert.Equal(t, 39, slime.Stats.HPMax)
	assert.Equal(t, "I wonder if it's edible?", slime.Description)
	require.Len(t, slime.Loot, 2)
	assert.Equal(t, 25, slime.Loot[0].Total())
	assert.Equal(t, 22, slime.Loot[1].Total())

	boss, err := b.Enemies.Get("emperor_penguin")
	require.NoError(t, err)
	assert.Equal(t, "emperor_penguin_tide", boss.NextPhase)
	assert.Equal(t, element.Fire, boss.Element)

	tide, err := b.Enemies.Get("emperor_penguin_tide")
	require.NoError(t, err)
	assert.Equal(t, attack.Percentile, tide.Attacks[2].Type)
}

func TestLoad_UnlocksByLevel(t *testing.T) {
	b, err := content.Load(shippedDir)
	require.NoError(t, err)

	names := func(level int) []string {
		var out []string
		for _, a := range b.Attacks.UnlockedAt(level) {
			out = append(out, a.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Sword Dance"}, names(2))
	assert.Len(t, names(3), 6)
	assert.Equal(t, []string{"Oblivion Strike"}, names(4))
	assert.Len(t, names(5), 6)
}

func TestBundle_NewPlayer(t *testing.T) {
	b, err := content.Load(shippedDir)
	require.NoError(t, err)
	p, err := b.NewPlayer()
	require.NoError(t, err)

	assert.Equal(t, 100, p.Stats.HP)
	assert.Equal(t, 12, p.Stats.Strength)
	assert.Equal(t, "Tackle", p.Standard().Name)
	assert.Equal(t, "Sonic Spike", p.LimitBreak().Name)
	assert.Equal(t, "Fire Ball", p.Magic(0).Name)
	assert.Equal(t, "Stone Edge", p.Magic(3).Name)
	assert.Equal(t, 5, p.Quantity("red_potion_1"))
	assert.Equal(t, 5, p.Quantity("blue_potion_1"))
	assert.Len(t, p.Attacks(), 8)
}

func TestBundle_NewEnemy(t *testing.T) {
	b, err := content.Load(shippedDir)
	require.NoError(t, err)
	e, err := b.NewEnemy("duck")
	require.NoError(t, err)
	assert.Equal(t, 72, e.Stats.HP)
	assert.NotEmpty(t, e.ID)

	_, err = b.NewEnemy("dragon")
	assert.ErrorIs(t, err, content.ErrUnknownEnemy)
}

// writeMinimal writes a tiny, valid content tree and returns its root.
func writeMinimal(t *testing.T, lootItem, nextPhase string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, content.EnemiesDir), 0o755))
	files := map[string]string{
		content.AttacksFile: "attacks:\n  - {id: tackle, name: Tackle, tier: 1}\n",
		content.ItemsFile:   "items:\n  - {id: red_potion_1, name: Red Potion I, kind: consumable, effect: {hp: 20}}\n",
		content.PlayerFile:  "stats: {hp_max: 100, level: 1}\nstandard: tackle\nitems: {red_potion_1: 1}\n",
		filepath.Join(content.EnemiesDir, "slime.yaml"): "id: slime\nname: Slime\nnext_phase: " + nextPhase +
			"\nstats: {hp_max: 39, level: 1}\nattacks:\n  - {name: Bounce, damage_modifier: 2}\nloot:\n  - no_drop_weight: 1\n    items:\n      - {item: " +
			lootItem + ", weight: 1}\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoad_CrossValidation(t *testing.T) {
	_, err := content.Load(writeMinimal(t, "red_potion_1", `""`))
	require.NoError(t, err)

	_, err = content.Load(writeMinimal(t, "ghost_potion", `""`))
	assert.ErrorIs(t, err, content.ErrUnknownItem)
	assert.ErrorContains(t, err, "ghost_potion")

	_, err = content.Load(writeMinimal(t, "red_potion_1", "dragon"))
	assert.ErrorIs(t, err, content.ErrUnknownEnemy)
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := content.Load(t.TempDir())
	assert.Error(t, err)

	dir := writeMinimal(t, "red_potion_1", `""`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.PlayerFile),
		[]byte("stats: {hp_max: 100, level: 1}\nstandard: kick\n"), 0o644))
	_, err = content.Load(dir)
	assert.ErrorIs(t, err, content.ErrUnknownAttack)
}

func TestLoad_DuplicateEnemyID(t *testing.T) {
	dir := writeMinimal(t, "red_potion_1", `""`)
	data, err := os.ReadFile(filepath.Join(dir, content.EnemiesDir, "slime.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.EnemiesDir, "slime2.yaml"), data, 0o644))
	_, err = content.Load(dir)
	assert.ErrorContains(t, err, "already registered")
}
