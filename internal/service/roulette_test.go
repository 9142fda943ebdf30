package service

import (
	"context"
	"testing"

	"dopamind/internal/model"
	"dopamind/internal/repository"
	"dopamind/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays a fixed sequence so spins resolve deterministically.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func TestRouletteService_Spin(t *testing.T) {
	tests := []struct {
		name           string
		rng            *scriptedRand
		expectedID     string
		expectedXP     int
		expectedRarity model.Rarity
		expectedBonus  int
	}{
		{
			name: "common draw without bonus",
			// 5 -> common pool, index 2, bonus roll 50 -> nothing.
			rng:            &scriptedRand{floats: []float64{0.05, 0.5}, ints: []int{2}},
			expectedID:     "3",
			expectedXP:     50,
			expectedRarity: model.RarityCommon,
			expectedBonus:  0,
		},
		{
			name: "rare draw with two bonus tickets",
			// 75 -> rare pool, index 0, bonus roll 90 -> two tickets.
			rng:            &scriptedRand{floats: []float64{0.75, 0.9}, ints: []int{0}},
			expectedID:     "6",
			expectedXP:     100,
			expectedRarity: model.RarityRare,
			expectedBonus:  2,
		},
		{
			name: "epic draw always refunds one ticket",
			// 95 -> epic pool, index 1. No second roll for epics.
			rng:            &scriptedRand{floats: []float64{0.95}, ints: []int{1}},
			expectedID:     "10",
			expectedXP:     200,
			expectedRarity: model.RarityEpic,
			expectedBonus:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileRepo := &mocks.MockProfileRepository{}
			ledgerRepo := &mocks.MockLedgerRepository{}
			service := NewRouletteService(profileRepo, ledgerRepo, tt.rng)

			profileRepo.On("ConsumeTicket", mock.Anything, "u1").Return(nil)
			profileRepo.On("ApplyReward", mock.Anything, "u1", tt.expectedXP, 0, 0, (*model.TaskCategory)(nil)).Return(nil)
			if tt.expectedBonus > 0 {
				profileRepo.On("AddTickets", mock.Anything, "u1", tt.expectedBonus).Return(nil)
			}
			ledgerRepo.On("AppendLedger", mock.Anything, mock.Anything).Return(nil)

			outcome, err := service.Spin(context.Background(), "u1")
			require.NoError(t, err)

			assert.Equal(t, tt.expectedID, outcome.Reward.ID)
			assert.Equal(t, tt.expectedXP, outcome.Reward.XP)
			assert.Equal(t, tt.expectedRarity, outcome.Reward.Rarity)
			assert.Equal(t, tt.expectedBonus, outcome.BonusTickets)

			if tt.expectedBonus == 0 {
				profileRepo.AssertNotCalled(t, "AddTickets", mock.Anything, mock.Anything, mock.Anything)
			}
			profileRepo.AssertExpectations(t)
		})
	}
}

func TestRouletteService_Spin_NoTickets(t *testing.T) {
	profileRepo := &mocks.MockProfileRepository{}
	ledgerRepo := &mocks.MockLedgerRepository{}
	service := NewRouletteService(profileRepo, ledgerRepo, &scriptedRand{})

	profileRepo.On("ConsumeTicket", mock.Anything, "u1").Return(repository.ErrNoTickets)

	_, err := service.Spin(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrInsufficientTickets)

	profileRepo.AssertNotCalled(t, "ApplyReward", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ledgerRepo.AssertNotCalled(t, "AppendLedger", mock.Anything, mock.Anything)
}

func TestRouletteService_RarityDistribution(t *testing.T) {
	service := NewRouletteService(nil, nil, nil)

	const draws = 100000
	counts := map[model.Rarity]int{}
	for i := 0; i < draws; i++ {
		counts[service.drawRarity()]++
	}

	assert.InDelta(t, 0.70, float64(counts[model.RarityCommon])/draws, 0.02)
	assert.InDelta(t, 0.20, float64(counts[model.RarityRare])/draws, 0.02)
	assert.InDelta(t, 0.10, float64(counts[model.RarityEpic])/draws, 0.02)
}

func TestRoulettePools(t *testing.T) {
	assert.Len(t, poolByRarity(model.RarityCommon), 5)
	assert.Len(t, poolByRarity(model.RarityRare), 3)
	assert.Len(t, poolByRarity(model.RarityEpic), 2)
}
