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
)

func newTestGoalService(now time.Time) (*GoalService, *mocks.MockGoalRepository, *mocks.MockProfileRepository, *mocks.MockLedgerRepository) {
	goalRepo := &mocks.MockGoalRepository{}
	profileRepo := &mocks.MockProfileRepository{}
	ledgerRepo := &mocks.MockLedgerRepository{}

	service := NewGoalService(goalRepo, profileRepo, ledgerRepo)
	service.now = func() time.Time { return now }

	return service, goalRepo, profileRepo, ledgerRepo
}

func freshGoalSet(userID string, now time.Time) []*model.Goal {
	goals := make([]*model.Goal, 0, len(GoalTemplates))
	for _, template := range GoalTemplates {
		goals = append(goals, instantiateGoal(template, userID, now))
	}
	return goals
}

func goalByID(t *testing.T, goals []*model.Goal, id string) *model.Goal {
	t.Helper()
	for _, goal := range goals {
		if goal.ID == id {
			return goal
		}
	}
	t.Fatalf("goal %s not found", id)
	return nil
}

func TestGoalService_LoadActive_GeneratesFullSet(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	service, goalRepo, _, _ := newTestGoalService(now)

	goalRepo.On("LoadGoals", mock.Anything, "u1").Return([]*model.Goal{}, nil)
	goalRepo.On("SaveGoals", mock.Anything, "u1", mock.Anything).Return(nil)

	goals, err := service.LoadActive(context.Background(), "u1")
	require.NoError(t, err)

	assert.Len(t, goals, len(GoalTemplates))
	goalRepo.AssertCalled(t, "SaveGoals", mock.Anything, "u1", mock.Anything)

	daily := goalByID(t, goals, "daily_complete_5")
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), daily.ExpiresAt)

	weekly := goalByID(t, goals, "weekly_xp_1000")
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), weekly.ExpiresAt)
}

func TestGoalService_LoadActive_RegeneratesExpired(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	service, goalRepo, _, _ := newTestGoalService(now)

	stored := freshGoalSet("u1", now)
	stale := goalByID(t, stored, "daily_complete_5")
	stale.Progress = 4
	stale.ExpiresAt = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	goalRepo.On("LoadGoals", mock.Anything, "u1").Return(stored, nil)
	goalRepo.On("SaveGoals", mock.Anything, "u1", mock.Anything).Return(nil)

	goals, err := service.LoadActive(context.Background(), "u1")
	require.NoError(t, err)

	regenerated := goalByID(t, goals, "daily_complete_5")
	assert.Equal(t, 0, regenerated.Progress)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), regenerated.ExpiresAt)

	// Unexpired goals survive untouched.
	assert.Equal(t, goalByID(t, stored, "weekly_xp_1000"), goalByID(t, goals, "weekly_xp_1000"))
}

func TestGoalService_OnTaskCompleted(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	service, goalRepo, profileRepo, ledgerRepo := newTestGoalService(now)

	stored := freshGoalSet("u1", now)
	goalByID(t, stored, "daily_complete_5").Progress = 4

	goalRepo.On("LoadGoals", mock.Anything, "u1").Return(stored, nil)
	goalRepo.On("SaveGoals", mock.Anything, "u1", mock.Anything).Return(nil)
	profileRepo.On("ApplyReward", mock.Anything, "u1", 50, 10, 0, (*model.TaskCategory)(nil)).Return(nil)
	ledgerRepo.On("AppendLedger", mock.Anything, mock.Anything).Return(nil)

	completed, err := service.OnTaskCompleted(context.Background(), "u1", model.CategoryBody)
	require.NoError(t, err)

	require.Len(t, completed, 1)
	assert.Equal(t, "daily_complete_5", completed[0].ID)
	assert.True(t, completed[0].Completed)

	// The matching category goal advanced but did not complete.
	assert.Equal(t, 1, goalByID(t, stored, "daily_body").Progress)
	assert.Equal(t, 0, goalByID(t, stored, "daily_mind").Progress)

	profileRepo.AssertCalled(t, "ApplyReward", mock.Anything, "u1", 50, 10, 0, (*model.TaskCategory)(nil))
	ledgerRepo.AssertNumberOfCalls(t, "AppendLedger", 1)
}

func TestGoalService_CompletedGoalIsNotGrantedTwice(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	service, goalRepo, profileRepo, ledgerRepo := newTestGoalService(now)

	stored := freshGoalSet("u1", now)
	done := goalByID(t, stored, "daily_complete_5")
	done.Progress = 5
	done.Completed = true

	goalRepo.On("LoadGoals", mock.Anything, "u1").Return(stored, nil)
	goalRepo.On("SaveGoals", mock.Anything, "u1", mock.Anything).Return(nil)

	completed, err := service.OnTaskCompleted(context.Background(), "u1", model.CategoryWork)
	require.NoError(t, err)

	assert.Empty(t, completed)
	assert.Equal(t, 5, done.Progress)
	profileRepo.AssertNotCalled(t, "ApplyReward", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ledgerRepo.AssertNotCalled(t, "AppendLedger", mock.Anything, mock.Anything)
}

func TestGoalService_OnXPGained_ClampsProgress(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	service, goalRepo, profileRepo, ledgerRepo := newTestGoalService(now)

	stored := freshGoalSet("u1", now)
	goalRepo.On("LoadGoals", mock.Anything, "u1").Return(stored, nil)
	goalRepo.On("SaveGoals", mock.Anything, "u1", mock.Anything).Return(nil)
	profileRepo.On("ApplyReward", mock.Anything, "u1", mock.Anything, mock.Anything, mock.Anything, (*model.TaskCategory)(nil)).Return(nil)
	ledgerRepo.On("AppendLedger", mock.Anything, mock.Anything).Return(nil)

	completed, err := service.OnXPGained(context.Background(), "u1", 5000)
	require.NoError(t, err)

	weekly := goalByID(t, stored, "weekly_xp_1000")
	assert.True(t, weekly.Completed)
	assert.Equal(t, 1000, weekly.Progress, "progress clamps at the target")

	seasonal := goalByID(t, stored, "seasonal_xp_10000")
	assert.False(t, seasonal.Completed)
	assert.Equal(t, 5000, seasonal.Progress)

	require.Len(t, completed, 1)
	assert.Equal(t, "weekly_xp_1000", completed[0].ID)
}

func TestGoalService_OnStreakUpdated_IsAGauge(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	service, goalRepo, _, _ := newTestGoalService(now)

	stored := freshGoalSet("u1", now)
	goalByID(t, stored, "weekly_streak").Progress = 6

	goalRepo.On("LoadGoals", mock.Anything, "u1").Return(stored, nil)
	goalRepo.On("SaveGoals", mock.Anything, "u1", mock.Anything).Return(nil)

	// A streak reset overwrites progress instead of adding to it.
	completed, err := service.OnStreakUpdated(context.Background(), "u1", 1)
	require.NoError(t, err)

	assert.Empty(t, completed)
	assert.Equal(t, 1, goalByID(t, stored, "weekly_streak").Progress)
	assert.Equal(t, 1, goalByID(t, stored, "seasonal_streak_30").Progress)
}

func TestPeriodBoundaries(t *testing.T) {
	// Wednesday afternoon.
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), StartOfDay(now))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartOfWeek(now))

	// Sunday still belongs to the week that started the previous Monday.
	sunday := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))

	// Q1 2025 opens on Monday January 6th.
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), StartOfSeason(now))

	// Q3 2025 opens on Monday July 7th.
	july := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC), StartOfSeason(july))

	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), PeriodExpiration(model.PeriodDaily, now))
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), PeriodExpiration(model.PeriodWeekly, now))
	assert.Equal(t, time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC), PeriodExpiration(model.PeriodSeasonal, now))
}
