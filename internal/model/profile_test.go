package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuraLevel(t *testing.T) {
	tests := []struct {
		totalXP  int
		expected int
	}{
		{0, 1},
		{-10, 1},
		{119, 1},
		{120, 2},
		{479, 2},
		{480, 3},
		{1079, 3},
		{1080, 4},
		{3000, 6},
		{12000, 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AuraLevel(tt.totalXP), "xp=%d", tt.totalXP)
	}
}

func TestLevelProgress(t *testing.T) {
	current, needed := LevelProgress(130)
	assert.Equal(t, 10, current)
	assert.Equal(t, 360, needed)

	current, needed = LevelProgress(0)
	assert.Equal(t, 0, current)
	assert.Equal(t, 120, needed)
}

func TestStatsIncrement(t *testing.T) {
	var stats Stats

	stats.Increment(CategoryBody)
	stats.Increment(CategoryBody)
	stats.Increment(CategoryMind)
	stats.Increment(CategoryWork)
	stats.Increment(CategorySpirit)
	stats.Increment(CategoryLife)

	assert.Equal(t, Stats{Strength: 2, Intellect: 1, Focus: 1, Spirit: 1, Charisma: 1}, stats)
}

func TestEffectKindSingleUse(t *testing.T) {
	assert.True(t, EffectStreakFreeze.SingleUse())
	assert.False(t, EffectXPBoost.SingleUse())
	assert.False(t, EffectCreditsBoost.SingleUse())
	assert.False(t, EffectCosmetic.SingleUse())
}

func TestTaskCategoryValid(t *testing.T) {
	assert.True(t, CategoryBody.Valid())
	assert.False(t, TaskCategory("Chaos").Valid())
}
