package mocks

import (
	"context"
	"time"

	"dopamind/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) ApplyReward(ctx context.Context, userID string, xp, credits, tickets int, category *model.TaskCategory) error {
	args := m.Called(ctx, userID, xp, credits, tickets, category)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateStreak(ctx context.Context, userID string, streak int, activeDate time.Time) error {
	args := m.Called(ctx, userID, streak, activeDate)
	return args.Error(0)
}

func (m *MockProfileRepository) SetArchetype(ctx context.Context, userID string, archetypeID string) error {
	args := m.Called(ctx, userID, archetypeID)
	return args.Error(0)
}

func (m *MockProfileRepository) ConsumeTicket(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileRepository) AddTickets(ctx context.Context, userID string, amount int) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockProfileRepository) SpendCredits(ctx context.Context, userID string, amount int) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetTask(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasksForDate(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Task), args.Error(1)
}

func (m *MockTaskRepository) MarkTaskCompleted(ctx context.Context, taskID uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, taskID, completedAt)
	return args.Error(0)
}

func (m *MockTaskRepository) SaveFocusSession(ctx context.Context, session *model.FocusSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

type MockEffectRepository struct {
	mock.Mock
}

func (m *MockEffectRepository) InsertEffect(ctx context.Context, effect *model.ActiveEffect) error {
	args := m.Called(ctx, effect)
	return args.Error(0)
}

func (m *MockEffectRepository) ListEffects(ctx context.Context, userID string) ([]*model.ActiveEffect, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ActiveEffect), args.Error(1)
}

func (m *MockEffectRepository) DeleteEffect(ctx context.Context, effectID uuid.UUID) error {
	args := m.Called(ctx, effectID)
	return args.Error(0)
}

func (m *MockEffectRepository) DeleteExpiredEffects(ctx context.Context, userID string, now time.Time) error {
	args := m.Called(ctx, userID, now)
	return args.Error(0)
}

type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) LoadGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Goal), args.Error(1)
}

func (m *MockGoalRepository) SaveGoals(ctx context.Context, userID string, goals []*model.Goal) error {
	args := m.Called(ctx, userID, goals)
	return args.Error(0)
}

type MockBossRepository struct {
	mock.Mock
}

func (m *MockBossRepository) CreateBossRaid(ctx context.Context, raid *model.BossRaid) error {
	args := m.Called(ctx, raid)
	return args.Error(0)
}

func (m *MockBossRepository) GetActiveBossRaid(ctx context.Context) (*model.BossRaid, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BossRaid), args.Error(1)
}

func (m *MockBossRepository) GetBossRaid(ctx context.Context, raidID uuid.UUID) (*model.BossRaid, error) {
	args := m.Called(ctx, raidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BossRaid), args.Error(1)
}

func (m *MockBossRepository) ApplyDamage(ctx context.Context, raidID uuid.UUID, userID string, damage, taskIncrement, focusMinutes int, now time.Time) (int, bool, error) {
	args := m.Called(ctx, raidID, userID, damage, taskIncrement, focusMinutes, now)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockBossRepository) GetContribution(ctx context.Context, raidID uuid.UUID, userID string) (*model.Contribution, error) {
	args := m.Called(ctx, raidID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contribution), args.Error(1)
}

func (m *MockBossRepository) ListTopContributions(ctx context.Context, raidID uuid.UUID, limit int) ([]*model.Contribution, error) {
	args := m.Called(ctx, raidID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Contribution), args.Error(1)
}

func (m *MockBossRepository) MarkRewardClaimed(ctx context.Context, raidID uuid.UUID, userID string, damageDealt int, now time.Time) error {
	args := m.Called(ctx, raidID, userID, damageDealt, now)
	return args.Error(0)
}

func (m *MockBossRepository) MarkRaidEscaped(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) AppendLedger(ctx context.Context, entry *model.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListLedger(ctx context.Context, userID string, limit int) ([]*model.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LedgerEntry), args.Error(1)
}

type MockWeeklyXPRepository struct {
	mock.Mock
}

func (m *MockWeeklyXPRepository) AddWeeklyXP(ctx context.Context, userID string, weekStart time.Time, amount int) error {
	args := m.Called(ctx, userID, weekStart, amount)
	return args.Error(0)
}

func (m *MockWeeklyXPRepository) GetWeeklyXP(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	args := m.Called(ctx, userID, weekStart)
	return args.Int(0), args.Error(1)
}

func (m *MockWeeklyXPRepository) TopWeekly(ctx context.Context, weekStart time.Time, limit int) ([]*model.LeaderboardEntry, error) {
	args := m.Called(ctx, weekStart, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LeaderboardEntry), args.Error(1)
}
