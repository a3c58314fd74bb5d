package progression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/limitbreak/internal/game/progression"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

func starter() stats.Stats {
	return stats.Stats{HP: 40, HPMax: 100, MP: 10, MPMax: 100, Strength: 12, Wisdom: 12, Defense: 5, Level: 1}
}

func TestApply_NoLevelUp(t *testing.T) {
	s := starter()
	res := progression.Apply(&s, 180)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, 180, s.Experience)
	assert.Equal(t, 40, s.HP)
}

// TestApply_LevelCarry verifies the remainder carries over and stats grow.
func TestApply_LevelCarry(t *testing.T) {
	s := starter()
	s.Experience = 950
	res := progression.Apply(&s, 100)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, 50, s.Experience)
	assert.Equal(t, 200, s.HPMax)
	assert.Equal(t, 200, s.HP)
	assert.Equal(t, 22, s.Strength)
	assert.Equal(t, 22, s.Wisdom)
	assert.Equal(t, 100+40+22*5, s.MPMax)
	assert.Equal(t, s.MPMax, s.MP)
}

func TestApply_SingleStepPerCall(t *testing.T) {
	s := starter()
	res := progression.Apply(&s, 100000)
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, 0, s.Experience, "100000 mod 1000")

	s = starter()
	progression.Apply(&s, 1500)
	assert.Equal(t, 500, s.Experience)
}

func TestApply_MaxLevelPinsExperience(t *testing.T) {
	s := starter()
	s.Level = progression.MaxLevel
	s.Experience = 40000
	res := progression.Apply(&s, 1000000)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, progression.MaxLevel, res.Level)
	assert.Equal(t, 1, s.Experience)
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 1000, progression.Threshold(1))
	assert.Equal(t, 64000, progression.Threshold(4))
	assert.Equal(t, 1, progression.Threshold(5))
	assert.Equal(t, 0, progression.Threshold(0))
	assert.Equal(t, 0, progression.Threshold(6))
}

func TestProperty_Apply_InvariantsHold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := starter()
		s.Level = rapid.IntRange(1, progression.MaxLevel).Draw(rt, "level")
		before := s.Level
		gained := rapid.IntRange(0, 200000).Draw(rt, "gained")
		res := progression.Apply(&s, gained)

		assert.LessOrEqual(rt, s.Level-before, 1)
		assert.LessOrEqual(rt, s.Level, progression.MaxLevel)
		assert.Equal(rt, s.Level, res.Level)
		assert.LessOrEqual(rt, s.HP, s.HPMax)
		assert.LessOrEqual(rt, s.MP, s.MPMax)
		if res.LeveledUp {
			assert.Less(rt, s.Experience, progression.Threshold(before))
			assert.Equal(rt, s.HPMax, s.HP)
		}
	})
}
