package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/limitbreak/internal/game/dice"
)

// TestDraw_String verifies the audit string contains label, bound and value.
func TestDraw_String(t *testing.T) {
	d := dice.Draw{Label: "loot", N: 23, Value: 7}
	assert.Equal(t, "loot d23 → 7", d.String())
}

// TestDraw_String_PanicsOnEmptyLabel verifies that String() enforces its precondition.
func TestDraw_String_PanicsOnEmptyLabel(t *testing.T) {
	d := dice.Draw{N: 6, Value: 1}
	assert.Panics(t, func() { _ = d.String() })
}

// TestCryptoSource_Intn_InRange verifies every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestProperty_SeededSource_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		n := rapid.IntRange(1, 10_000).Draw(rt, "n")
		v := dice.NewSeededSource(seed).Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}

func TestSequenceSource_ReplaysModulo(t *testing.T) {
	src := dice.NewSequenceSource(3, 10, 1)
	assert.Equal(t, 3, src.Intn(5))
	assert.Equal(t, 0, src.Intn(5))
	assert.Equal(t, 1, src.Intn(5))
	assert.Equal(t, 3, src.Intn(5), "sequence wraps around")
	assert.Equal(t, 4, src.Calls())
}

// TestRoller_LogsEachDraw verifies every draw is logged at debug level.
func TestRoller_LogsEachDraw(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewSequenceSource(4), zap.New(core))

	d := r.Roll("loot", 10)
	assert.Equal(t, 4, d.Value)
	assert.Equal(t, 4, r.Roll("encounter", 5).Value)

	entries := logs.FilterMessage("dice draw").All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "loot", entries[0].ContextMap()["label"])
	assert.Equal(t, "encounter", entries[1].ContextMap()["label"])
}
