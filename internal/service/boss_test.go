package service

import (
	"context"
	"testing"
	"time"

	"dopamind/internal/model"
	"dopamind/internal/repository"
	"dopamind/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func newTestBossService(now time.Time) (*BossService, *mocks.MockBossRepository, *mocks.MockProfileRepository, *mocks.MockLedgerRepository) {
	bossRepo := &mocks.MockBossRepository{}
	profileRepo := &mocks.MockProfileRepository{}
	ledgerRepo := &mocks.MockLedgerRepository{}

	service := NewBossService(bossRepo, profileRepo, ledgerRepo)
	service.now = func() time.Time { return now }

	return service, bossRepo, profileRepo, ledgerRepo
}

func TestDamageFromXP(t *testing.T) {
	assert.Equal(t, 95, DamageFromXP(955))
	assert.Equal(t, 1, DamageFromXP(10))
	assert.Equal(t, 0, DamageFromXP(9))
	assert.Equal(t, 0, DamageFromXP(0))
	assert.Equal(t, 0, DamageFromXP(-50))
}

func TestRaidRewardMultiplier(t *testing.T) {
	tests := []struct {
		sharePct float64
		expected float64
	}{
		{0, 1},
		{0.9, 1},
		{1, 1.25},
		{4.9, 1.25},
		{5, 1.5},
		{9.9, 1.5},
		{10, 2},
		{42, 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RaidRewardMultiplier(tt.sharePct), "share=%.1f", tt.sharePct)
	}
}

func TestBossService_DealDamage(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	raidID := uuid.New()

	t.Run("applies floored damage", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)
		bossRepo.On("ApplyDamage", mock.Anything, raidID, "u1", 95, 1, 0, now).
			Return(9905, false, nil)

		result, err := service.DealDamage(context.Background(), raidID, "u1", 955, 1, 0)
		require.NoError(t, err)

		assert.Equal(t, 95, result.DamageDealt)
		assert.Equal(t, 9905, result.NewHP)
		assert.False(t, result.Defeated)
	})

	t.Run("final blow flips defeated", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)
		bossRepo.On("ApplyDamage", mock.Anything, raidID, "u1", 20, 1, 0, now).
			Return(0, true, nil)

		result, err := service.DealDamage(context.Background(), raidID, "u1", 200, 1, 0)
		require.NoError(t, err)

		assert.Equal(t, 0, result.NewHP)
		assert.True(t, result.Defeated)
		assert.False(t, result.AlreadyDefeated)
	})

	t.Run("defeated raid absorbs damage as a no-op", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)
		bossRepo.On("ApplyDamage", mock.Anything, raidID, "u1", 20, 1, 0, now).
			Return(0, false, repository.ErrRaidDefeated)

		result, err := service.DealDamage(context.Background(), raidID, "u1", 200, 1, 0)
		require.NoError(t, err)

		assert.True(t, result.AlreadyDefeated)
		assert.Equal(t, 0, result.DamageDealt)
	})

	t.Run("sub-threshold xp still records the contribution", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)
		bossRepo.On("ApplyDamage", mock.Anything, raidID, "u1", 0, 1, 0, now).
			Return(5000, false, nil)

		result, err := service.DealDamage(context.Background(), raidID, "u1", 9, 1, 0)
		require.NoError(t, err)

		assert.Equal(t, 0, result.DamageDealt)
		assert.Equal(t, 5000, result.NewHP)
		bossRepo.AssertCalled(t, "ApplyDamage", mock.Anything, raidID, "u1", 0, 1, 0, now)
	})
}

func TestBossService_ClaimReward(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	raidID := uuid.New()

	defeated := &model.BossRaid{
		ID: raidID, TotalHP: 10000, CurrentHP: 0,
		Status:   model.RaidDefeated,
		RewardXP: 500, RewardCredits: 150, RewardTickets: 2,
	}

	tests := []struct {
		name               string
		damageDealt        int
		expectedMultiplier float64
		expectedXP         int
		expectedCredits    int
	}{
		{"major contributor doubles", 1200, 2, 1000, 300},
		{"mid contributor", 600, 1.5, 750, 225},
		{"minor contributor", 150, 1.25, 625, 187},
		{"token contributor", 50, 1, 500, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, bossRepo, profileRepo, ledgerRepo := newTestBossService(now)

			bossRepo.On("GetBossRaid", mock.Anything, raidID).Return(defeated, nil)
			bossRepo.On("GetContribution", mock.Anything, raidID, "u1").
				Return(&model.Contribution{RaidID: raidID, UserID: "u1", DamageDealt: tt.damageDealt}, nil)
			bossRepo.On("MarkRewardClaimed", mock.Anything, raidID, "u1", tt.damageDealt, now).Return(nil)
			profileRepo.On("ApplyReward", mock.Anything, "u1", tt.expectedXP, tt.expectedCredits, 2, (*model.TaskCategory)(nil)).Return(nil)
			ledgerRepo.On("AppendLedger", mock.Anything, mock.Anything).Return(nil)

			reward, err := service.ClaimReward(context.Background(), raidID, "u1")
			require.NoError(t, err)

			assert.Equal(t, tt.expectedMultiplier, reward.Multiplier)
			assert.Equal(t, tt.expectedXP, reward.XP)
			assert.Equal(t, tt.expectedCredits, reward.Credits)
			assert.Equal(t, 2, reward.Tickets)
		})
	}

	t.Run("raid still active", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)
		bossRepo.On("GetBossRaid", mock.Anything, raidID).Return(&model.BossRaid{
			ID: raidID, TotalHP: 10000, CurrentHP: 4000, Status: model.RaidActive,
		}, nil)

		_, err := service.ClaimReward(context.Background(), raidID, "u1")
		assert.ErrorIs(t, err, ErrRaidNotDefeated)
	})

	t.Run("no contribution", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)
		bossRepo.On("GetBossRaid", mock.Anything, raidID).Return(defeated, nil)
		bossRepo.On("GetContribution", mock.Anything, raidID, "u1").
			Return(nil, repository.ErrNotFound)

		_, err := service.ClaimReward(context.Background(), raidID, "u1")
		assert.ErrorIs(t, err, ErrNoContribution)
	})

	t.Run("duplicate claim", func(t *testing.T) {
		service, bossRepo, profileRepo, _ := newTestBossService(now)
		bossRepo.On("GetBossRaid", mock.Anything, raidID).Return(defeated, nil)
		bossRepo.On("GetContribution", mock.Anything, raidID, "u1").
			Return(&model.Contribution{RaidID: raidID, UserID: "u1", DamageDealt: 1200}, nil)
		bossRepo.On("MarkRewardClaimed", mock.Anything, raidID, "u1", 1200, now).
			Return(repository.ErrAlreadyClaimed)

		_, err := service.ClaimReward(context.Background(), raidID, "u1")
		assert.ErrorIs(t, err, ErrRewardAlreadyClaimed)
		profileRepo.AssertNotCalled(t, "ApplyReward", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBossService_RotateWeekly(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	t.Run("keeps the running raid", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)

		active := &model.BossRaid{ID: uuid.New(), Status: model.RaidActive}
		bossRepo.On("MarkRaidEscaped", mock.Anything, now).Return(int64(0), nil)
		bossRepo.On("GetActiveBossRaid", mock.Anything).Return(active, nil)

		raid, err := service.RotateWeekly(context.Background(), "Hydra", "desc", 50000, 500, 150, 2)
		require.NoError(t, err)

		assert.Equal(t, active.ID, raid.ID)
		bossRepo.AssertNotCalled(t, "CreateBossRaid", mock.Anything, mock.Anything)
	})

	t.Run("spawns the next boss at full hp", func(t *testing.T) {
		service, bossRepo, _, _ := newTestBossService(now)

		bossRepo.On("MarkRaidEscaped", mock.Anything, now).Return(int64(1), nil)
		bossRepo.On("GetActiveBossRaid", mock.Anything).Return(nil, repository.ErrNotFound)

		var created *model.BossRaid
		bossRepo.On("CreateBossRaid", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*model.BossRaid)
			}).
			Return(nil)

		raid, err := service.RotateWeekly(context.Background(), "Hydra", "desc", 50000, 500, 150, 2)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, created.ID, raid.ID)
		assert.Equal(t, 50000, raid.TotalHP)
		assert.Equal(t, 50000, raid.CurrentHP)
		assert.Equal(t, model.RaidActive, raid.Status)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), raid.WeekStart)
		assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), raid.WeekEnd)
	})
}
