package item_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    item.Item
		wantErr string
	}{
		{name: "potion", item: item.Item{ID: "red_potion_1", Name: "Red Potion I", Kind: item.KindConsumable, Effect: stats.Deltas{HP: 20}}},
		{name: "sword", item: item.Item{ID: "steel_sword", Name: "Steel Sword", Kind: item.KindWeapon, Effect: stats.Deltas{Strength: 20}}},
		{name: "missing id", item: item.Item{Name: "X", Kind: item.KindArmor}, wantErr: "id must not be empty"},
		{name: "bad kind", item: item.Item{ID: "x", Name: "X", Kind: "junk"}, wantErr: "kind must be one of"},
		{name: "empty potion", item: item.Item{ID: "x", Name: "X", Kind: item.KindConsumable}, wantErr: "must restore hp or mp"},
		{name: "negative potion", item: item.Item{ID: "x", Name: "X", Kind: item.KindConsumable, Effect: stats.Deltas{HP: -5, MP: 3}}, wantErr: ">= 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestItem_KindPredicates(t *testing.T) {
	potion := &item.Item{Kind: item.KindConsumable}
	ring := &item.Item{Kind: item.KindAccessory}
	assert.True(t, potion.IsConsumable())
	assert.False(t, potion.IsEquipment())
	assert.True(t, ring.IsEquipment())
	assert.False(t, ring.IsConsumable())
}

func TestRegistry(t *testing.T) {
	r := item.NewRegistry()
	d := &item.Item{ID: "power_ring", Name: "Power Ring", Kind: item.KindAccessory}
	require.NoError(t, r.Register(d))
	assert.Error(t, r.Register(d))

	got, err := r.Get("power_ring")
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = r.Get("ghost")
	assert.ErrorIs(t, err, item.ErrUnknownItem)
	assert.Len(t, r.All(), 1)
}

func TestLoadItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	body := `items:
  - id: blue_potion_1
    name: Blue Potion I
    kind: consumable
    effect: {mp: 15}
  - id: steel_shield
    name: Steel Shield
    kind: armor
    effect: {hp_max: 25, strength: 5, defense: 6}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	list, err := item.LoadItems(path)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 15, list[0].Effect.MP)
	assert.Equal(t, stats.Deltas{HPMax: 25, Strength: 5, Defense: 6}, list[1].Effect)

	require.NoError(t, os.WriteFile(path, []byte("items:\n  - {id: x, name: X, kind: hat}\n"), 0o644))
	_, err = item.LoadItems(path)
	assert.ErrorContains(t, err, path)
}
