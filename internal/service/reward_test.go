package service

import (
	"context"
	"testing"
	"time"

	"dopamind/internal/model"
	"dopamind/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func newTestCalculator(t *testing.T, now time.Time, effects []*model.ActiveEffect) *RewardCalculator {
	t.Helper()

	effectRepo := &mocks.MockEffectRepository{}
	effectRepo.On("DeleteExpiredEffects", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	effectRepo.On("ListEffects", mock.Anything, mock.Anything).Return(effects, nil)

	effectService := NewEffectService(effectRepo)
	effectService.now = func() time.Time { return now }

	return NewRewardCalculator(effectService)
}

func TestRewardCalculator_ComputeReward(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	xpBoost := &model.ActiveEffect{
		ID:         uuid.New(),
		UserID:     "u1",
		Kind:       model.EffectXPBoost,
		Multiplier: 1.5,
		ExpiresAt:  now.Add(time.Hour),
	}
	creditsBoost := &model.ActiveEffect{
		ID:         uuid.New(),
		UserID:     "u1",
		Kind:       model.EffectCreditsBoost,
		Multiplier: 2.0,
		ExpiresAt:  now.Add(time.Hour),
	}

	tests := []struct {
		name            string
		effects         []*model.ActiveEffect
		input           RewardInput
		expectedXP      int
		expectedCredits int
		expectedLabels  []string
	}{
		{
			name: "matching archetype category",
			input: RewardInput{
				BaseXP: 80, BaseCredits: 8,
				Category:    model.CategoryBody,
				ArchetypeID: model.ArchetypeWarrior,
			},
			expectedXP:      88,
			expectedCredits: 8,
			expectedLabels:  []string{"base:80", "archetype:+8"},
		},
		{
			name: "non-matching archetype category",
			input: RewardInput{
				BaseXP: 80, BaseCredits: 8,
				Category:    model.CategoryMind,
				ArchetypeID: model.ArchetypeWarrior,
			},
			expectedXP:      80,
			expectedCredits: 8,
			expectedLabels:  []string{"base:80"},
		},
		{
			name: "stacked archetype perks",
			input: RewardInput{
				BaseXP: 80, BaseCredits: 8,
				Category:    model.CategoryMind,
				ArchetypeID: model.ArchetypeSage,
			},
			expectedXP:      92,
			expectedCredits: 8,
			expectedLabels:  []string{"base:80", "archetype:+12"},
		},
		{
			name: "hybrid applies everywhere",
			input: RewardInput{
				BaseXP: 100, BaseCredits: 10,
				Category:    model.CategoryLife,
				ArchetypeID: model.ArchetypeHybrid,
			},
			expectedXP:      105,
			expectedCredits: 10,
			expectedLabels:  []string{"base:100", "archetype:+5"},
		},
		{
			name: "perfect day bonus is flat and applied last",
			input: RewardInput{
				BaseXP: 80, BaseCredits: 8,
				Category:    model.CategoryBody,
				ArchetypeID: model.ArchetypeWarrior,
				PerfectDay:  true,
			},
			expectedXP:      288,
			expectedCredits: 58,
			expectedLabels:  []string{"base:80", "archetype:+8", "perfect_day:+200"},
		},
		{
			name:    "item xp boost stacks after archetype",
			effects: []*model.ActiveEffect{xpBoost},
			input: RewardInput{
				BaseXP: 80, BaseCredits: 8,
				Category:    model.CategoryBody,
				ArchetypeID: model.ArchetypeWarrior,
			},
			expectedXP:      132,
			expectedCredits: 8,
			expectedLabels:  []string{"base:80", "archetype:+8", "xp_boost:+44"},
		},
		{
			name:    "credits boost leaves xp alone",
			effects: []*model.ActiveEffect{creditsBoost},
			input: RewardInput{
				BaseXP: 80, BaseCredits: 8,
				Category:    model.CategoryBody,
				ArchetypeID: model.ArchetypeWarrior,
			},
			expectedXP:      88,
			expectedCredits: 16,
			expectedLabels:  []string{"base:80", "archetype:+8"},
		},
		{
			name:    "full stack",
			effects: []*model.ActiveEffect{xpBoost},
			input: RewardInput{
				BaseXP: 80, BaseCredits: 8,
				Category:    model.CategoryBody,
				ArchetypeID: model.ArchetypeWarrior,
				PerfectDay:  true,
			},
			expectedXP:      332,
			expectedCredits: 58,
			expectedLabels:  []string{"base:80", "archetype:+8", "xp_boost:+44", "perfect_day:+200"},
		},
		{
			name: "zero base stays zero without perfect day",
			input: RewardInput{
				BaseXP: 0, BaseCredits: 0,
				Category:    model.CategoryBody,
				ArchetypeID: model.ArchetypeWarrior,
			},
			expectedXP:      0,
			expectedCredits: 0,
			expectedLabels:  []string{"base:0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calculator := newTestCalculator(t, now, tt.effects)

			reward, err := calculator.ComputeReward(context.Background(), "u1", tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedXP, reward.XP)
			assert.Equal(t, tt.expectedCredits, reward.Credits)
			assert.Equal(t, tt.expectedLabels, reward.Breakdown)
		})
	}
}

func TestRewardCalculator_ExpiredBoostIgnored(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	expired := &model.ActiveEffect{
		ID:         uuid.New(),
		UserID:     "u1",
		Kind:       model.EffectXPBoost,
		Multiplier: 1.5,
		ExpiresAt:  now.Add(-time.Minute),
	}
	calculator := newTestCalculator(t, now, []*model.ActiveEffect{expired})

	reward, err := calculator.ComputeReward(context.Background(), "u1", RewardInput{
		BaseXP: 80, BaseCredits: 8,
		Category:    model.CategoryBody,
		ArchetypeID: model.ArchetypeWarrior,
	})
	require.NoError(t, err)

	assert.Equal(t, 88, reward.XP)
	assert.Equal(t, []string{"base:80", "archetype:+8"}, reward.Breakdown)
}
